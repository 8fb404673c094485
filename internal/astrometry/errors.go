package astrometry

import "errors"

// ErrShapeMismatch indicates batched inputs of different lengths or dimensions.
var ErrShapeMismatch = errors.New("astrometry: mismatched batch shapes")
