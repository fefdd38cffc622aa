// Package transport abstracts the message-passing substrate a distributed
// calibration run merges its per-task Best-N registers over, the Go
// replacement for the original's MPI-based synchronization.
package transport

import "context"

// Transport is the capability a distributed run needs: send/recv between
// task ranks, a broadcast from the coordinator, and size/rank queries.
// Implementations: Local (single task, no-op) and TCP (multi-task).
type Transport interface {
	// Rank returns this task's rank; rank 0 is the merge coordinator.
	Rank() int
	// Size returns the total number of tasks.
	Size() int
	// Send transmits a RegisterMessage to the coordinator. Only called on
	// non-coordinator ranks.
	Send(ctx context.Context, msg RegisterMessage) error
	// Recv blocks for one RegisterMessage from the given rank. Only called
	// on the coordinator.
	Recv(ctx context.Context, fromRank int) (RegisterMessage, error)
	// Broadcast sends the coordinator's refined variable ranges to every
	// other task. Only called on the coordinator, after range contraction.
	Broadcast(ctx context.Context, msg RangesMessage) error
	// RecvBroadcast blocks for one RangesMessage from the coordinator. Only
	// called on non-coordinator ranks.
	RecvBroadcast(ctx context.Context) (RangesMessage, error)
	// Close releases any network resources.
	Close() error
}

// RangesMessage is the wire schema for the coordinator's post-refinement
// variable ranges, broadcast to every task so non-coordinator ranks search
// the same contracted bounds next iteration instead of the stale ones they
// started with.
type RangesMessage struct {
	RangeMin []float64
	RangeMax []float64
}

// RegisterMessage is the wire schema for one task's Best-N frontier: a
// saved-count followed by parallel index/error slices, mirroring the
// original three-message MPI sequence (n_saved, indices, errors) collapsed
// into one Go value sent over encoding/gob.
type RegisterMessage struct {
	NSaved  uint32
	Indices []uint32
	Errors  []float64
}
