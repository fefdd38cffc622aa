package transport

import (
	"context"
	"errors"
)

// Local is the single-task Transport: rank 0 of 1, used whenever a
// calibration run is not distributed across multiple tasks. Send and Recv
// are never expected to be called on it because the merge loop is skipped
// entirely when Size() == 1.
type Local struct{}

// NewLocal returns the single-task Transport.
func NewLocal() *Local { return &Local{} }

func (l *Local) Rank() int { return 0 }
func (l *Local) Size() int { return 1 }

func (l *Local) Send(ctx context.Context, msg RegisterMessage) error {
	return errors.New("transport: Send called on single-task Local transport")
}

func (l *Local) Recv(ctx context.Context, fromRank int) (RegisterMessage, error) {
	return RegisterMessage{}, errors.New("transport: Recv called on single-task Local transport")
}

// Broadcast is a no-op: with a single task there is no one else to send the
// refined ranges to.
func (l *Local) Broadcast(ctx context.Context, msg RangesMessage) error { return nil }

func (l *Local) RecvBroadcast(ctx context.Context) (RangesMessage, error) {
	return RangesMessage{}, errors.New("transport: RecvBroadcast called on single-task Local transport")
}

func (l *Local) Close() error { return nil }
