package diskmodel

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, minChunk, minChunk + 1, 10 * minChunk, 12345} {
		seen := make([]int32, n)
		err := parallelFor(n, func(_ context.Context, start, end int) error {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("n=%d: unexpected error %v", n, err)
		}
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}

func TestParallelForReturnsError(t *testing.T) {
	sentinel := errors.New("stop")
	err := parallelFor(5000, func(_ context.Context, start, end int) error {
		if start == 0 {
			return sentinel
		}
		return nil
	})
	if err != sentinel {
		t.Errorf("expected sentinel error, got %v", err)
	}
}

func TestParallelForCancelsRemainingChunks(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(4))

	sentinel := errors.New("stop")
	done := make(chan error, 1)
	go func() {
		done <- parallelFor(10*minChunk, func(ctx context.Context, start, end int) error {
			if start == 0 {
				return sentinel
			}
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case err := <-done:
		if err != sentinel {
			t.Errorf("expected sentinel error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("remaining chunks were never cancelled")
	}
}

func TestTangentialSpeedClampsResidue(t *testing.T) {
	v := r3.Vec{X: 3, Y: 4}
	if got := tangentialSpeed(v, 5+1e-12); got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
	if got := tangentialSpeed(v, 3); math.Abs(got-4) > 1e-12 {
		t.Errorf("expected 4, got %v", got)
	}
}

func TestSolarVelocitySign(t *testing.T) {
	v := solarVelocity(220, r3.Vec{X: 1, Y: 2, Z: 3})
	if v != (r3.Vec{X: 1, Y: 222, Z: 3}) {
		t.Errorf("unexpected solar velocity %v", v)
	}
}
