// Package pool partitions a contiguous trial-index range across a fixed
// number of worker goroutines, each processing its own slice independently.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Slice is a half-open trial-index range [Start, End) assigned to one worker.
type Slice struct {
	Start, End int
}

// Partition splits [nstart, nend) into n contiguous, near-equal slices,
// matching the original fan-out formula: slice i covers
// [nstart + i*(nend-nstart)/n, nstart + (i+1)*(nend-nstart)/n).
func Partition(nstart, nend, n int) []Slice {
	if n < 1 {
		n = 1
	}
	span := nend - nstart
	slices := make([]Slice, 0, n)
	for i := 0; i < n; i++ {
		start := nstart + i*span/n
		end := nstart + (i+1)*span/n
		if end > start {
			slices = append(slices, Slice{Start: start, End: end})
		}
	}
	return slices
}

// Run partitions [nstart, nend) into nthreads slices and calls work once per
// trial index, fanning out across goroutines. A fatal error from any worker
// cancels ctx for the others via errgroup, so the search aborts promptly
// rather than finishing every in-flight slice first.
func Run(ctx context.Context, nstart, nend, nthreads int, work func(ctx context.Context, index int) error) error {
	if nthreads <= 1 {
		for i := nstart; i < nend; i++ {
			if err := work(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range Partition(nstart, nend, nthreads) {
		s := s
		g.Go(func() error {
			for i := s.Start; i < s.End; i++ {
				if err := work(gctx, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
