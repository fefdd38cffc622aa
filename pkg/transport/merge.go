package transport

import (
	"context"
	"fmt"

	"github.com/jburguete/calibrator/pkg/bestn"
	"github.com/jburguete/calibrator/pkg/calibspec"
)

// Synchronise merges every task's Best-N register into the coordinator's
// (rank 0), the direct replacement for the original calibrate_synchronise:
// non-coordinator ranks send their register once, the coordinator receives
// from each rank in ascending order and folds it in.
func Synchronise(ctx context.Context, t Transport, local *bestn.Register) error {
	if t.Size() <= 1 {
		return nil
	}

	if t.Rank() != 0 {
		return t.Send(ctx, toMessage(local))
	}

	for rank := 1; rank < t.Size(); rank++ {
		msg, err := t.Recv(ctx, rank)
		if err != nil {
			return fmt.Errorf("merging task %d: %w", rank, err)
		}
		fromMessage(local, msg)
	}
	return nil
}

// BroadcastRanges sends the coordinator's refined variable ranges to every
// other task and blocks there until received, the post-refinement
// counterpart to Synchronise. Non-coordinator ranks return vars updated with
// the coordinator's RangeMin/RangeMax, leaving every other field untouched.
func BroadcastRanges(ctx context.Context, t Transport, vars []calibspec.Variable) ([]calibspec.Variable, error) {
	if t.Size() <= 1 {
		return vars, nil
	}

	if t.Rank() == 0 {
		if err := t.Broadcast(ctx, toRangesMessage(vars)); err != nil {
			return nil, fmt.Errorf("broadcasting refined ranges: %w", err)
		}
		return vars, nil
	}

	msg, err := t.RecvBroadcast(ctx)
	if err != nil {
		return nil, fmt.Errorf("receiving refined ranges: %w", err)
	}
	return applyRangesMessage(vars, msg), nil
}

func toRangesMessage(vars []calibspec.Variable) RangesMessage {
	msg := RangesMessage{
		RangeMin: make([]float64, len(vars)),
		RangeMax: make([]float64, len(vars)),
	}
	for i, v := range vars {
		msg.RangeMin[i] = v.RangeMin
		msg.RangeMax[i] = v.RangeMax
	}
	return msg
}

func applyRangesMessage(vars []calibspec.Variable, msg RangesMessage) []calibspec.Variable {
	out := make([]calibspec.Variable, len(vars))
	copy(out, vars)
	for i := range out {
		if i < len(msg.RangeMin) {
			out[i].RangeMin = msg.RangeMin[i]
		}
		if i < len(msg.RangeMax) {
			out[i].RangeMax = msg.RangeMax[i]
		}
	}
	return out
}

func toMessage(r *bestn.Register) RegisterMessage {
	entries := r.Entries()
	msg := RegisterMessage{
		NSaved:  uint32(len(entries)),
		Indices: make([]uint32, len(entries)),
		Errors:  make([]float64, len(entries)),
	}
	for i, e := range entries {
		msg.Indices[i] = uint32(e.Index)
		msg.Errors[i] = e.Error
	}
	return msg
}

func fromMessage(r *bestn.Register, msg RegisterMessage) {
	for i := 0; i < int(msg.NSaved); i++ {
		r.Offer(int(msg.Indices[i]), msg.Errors[i])
	}
}
