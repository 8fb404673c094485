package diskmodel

import "github.com/san-kum/diskrot/internal/astrometry"

// ErrShapeMismatch indicates batched inputs whose lengths or grid dimensions
// disagree. Inputs are never broadcast.
var ErrShapeMismatch = astrometry.ErrShapeMismatch
