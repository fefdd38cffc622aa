package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jburguete/calibrator/pkg/bestn"
	"github.com/jburguete/calibrator/pkg/calibspec"
)

type fakeTransport struct {
	rank, size int
	inbox      map[int]RegisterMessage
	sent       RegisterMessage
	broadcast  RangesMessage
	inRanges   RangesMessage
}

func (f *fakeTransport) Rank() int { return f.rank }
func (f *fakeTransport) Size() int { return f.size }
func (f *fakeTransport) Send(ctx context.Context, msg RegisterMessage) error {
	f.sent = msg
	return nil
}
func (f *fakeTransport) Recv(ctx context.Context, fromRank int) (RegisterMessage, error) {
	return f.inbox[fromRank], nil
}
func (f *fakeTransport) Broadcast(ctx context.Context, msg RangesMessage) error {
	f.broadcast = msg
	return nil
}
func (f *fakeTransport) RecvBroadcast(ctx context.Context) (RangesMessage, error) {
	return f.inRanges, nil
}
func (f *fakeTransport) Close() error { return nil }

func TestSynchroniseIsNoOpForSingleTask(t *testing.T) {
	local := bestn.New(2)
	local.Offer(0, 1.0)
	err := Synchronise(context.Background(), &fakeTransport{rank: 0, size: 1}, local)
	require.NoError(t, err)
	assert.Equal(t, 1, local.Len())
}

func TestSynchroniseMergesWorkerIntoCoordinator(t *testing.T) {
	coordLocal := bestn.New(2)
	coordLocal.Offer(0, 3.0)
	coord := &fakeTransport{rank: 0, size: 2, inbox: map[int]RegisterMessage{
		1: {NSaved: 1, Indices: []uint32{7}, Errors: []float64{1.0}},
	}}

	err := Synchronise(context.Background(), coord, coordLocal)
	require.NoError(t, err)

	best, ok := coordLocal.Best()
	require.True(t, ok)
	assert.Equal(t, 7, best.Index)
	assert.Equal(t, 1.0, best.Error)
}

func TestSynchroniseSendsFromNonCoordinator(t *testing.T) {
	workerLocal := bestn.New(2)
	workerLocal.Offer(9, 0.5)
	worker := &fakeTransport{rank: 1, size: 2}

	err := Synchronise(context.Background(), worker, workerLocal)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), worker.sent.NSaved)
	assert.Equal(t, uint32(9), worker.sent.Indices[0])
}

func TestBroadcastRangesIsNoOpForSingleTask(t *testing.T) {
	vars := []calibspec.Variable{{Name: "x", RangeMin: 0, RangeMax: 1}}
	out, err := BroadcastRanges(context.Background(), &fakeTransport{rank: 0, size: 1}, vars)
	require.NoError(t, err)
	assert.Equal(t, vars, out)
}

func TestBroadcastRangesSendsFromCoordinator(t *testing.T) {
	vars := []calibspec.Variable{{Name: "x", RangeMin: 1, RangeMax: 5}}
	coord := &fakeTransport{rank: 0, size: 2}

	out, err := BroadcastRanges(context.Background(), coord, vars)
	require.NoError(t, err)
	assert.Equal(t, vars, out)
	require.Len(t, coord.broadcast.RangeMin, 1)
	assert.Equal(t, 1.0, coord.broadcast.RangeMin[0])
	assert.Equal(t, 5.0, coord.broadcast.RangeMax[0])
}

func TestBroadcastRangesAppliesReceivedRangesOnWorker(t *testing.T) {
	vars := []calibspec.Variable{{Name: "x", RangeMin: 1, RangeMax: 5, Format: "%.2f"}}
	worker := &fakeTransport{rank: 1, size: 2, inRanges: RangesMessage{
		RangeMin: []float64{2}, RangeMax: []float64{4},
	}}

	out, err := BroadcastRanges(context.Background(), worker, vars)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2.0, out[0].RangeMin)
	assert.Equal(t, 4.0, out[0].RangeMax)
	assert.Equal(t, "%.2f", out[0].Format)
}
