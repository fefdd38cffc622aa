package transport

import (
	"context"
	"encoding/gob"
	"fmt"
	"net"
	"time"
)

// TCP implements Transport across task processes started with matching
// -ntasks/-taskid flags and a shared coordinator address. Rank 0 listens
// and accepts one connection per remaining task; every other rank dials
// the coordinator once at startup. Values are framed with encoding/gob,
// the same library the rest of the standard toolchain corpus reaches for
// when a wire format doesn't need cross-language compatibility.
type TCP struct {
	rank, size int
	// coordinator side: one connection per non-zero rank, indexed in the
	// order the workers connected; workers do not send their rank, so slot
	// rank-1 holds that rank's connection only when workers connect in rank
	// order
	conns []net.Conn
	encs  []*gob.Encoder
	decs  []*gob.Decoder
	// worker side: the single connection to rank 0
	coordConn net.Conn
	coordEnc  *gob.Encoder
	coordDec  *gob.Decoder
}

// DialCoordinator connects a non-zero-rank task to the coordinator address.
func DialCoordinator(ctx context.Context, addr string, rank, size int) (*TCP, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing coordinator %s: %w", addr, err)
	}
	return &TCP{
		rank: rank, size: size,
		coordConn: conn,
		coordEnc:  gob.NewEncoder(conn),
		coordDec:  gob.NewDecoder(conn),
	}, nil
}

// ListenCoordinator starts rank 0, accepting size-1 worker connections
// before returning. addr is the listen address, e.g. ":9876".
func ListenCoordinator(ctx context.Context, addr string, size int) (*TCP, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	defer ln.Close()

	t := &TCP{rank: 0, size: size}
	for i := 1; i < size; i++ {
		if dl, ok := ctx.Deadline(); ok {
			if tl, ok := ln.(*net.TCPListener); ok {
				_ = tl.SetDeadline(dl)
			}
		} else if tl, ok := ln.(*net.TCPListener); ok {
			_ = tl.SetDeadline(time.Time{})
		}
		conn, err := ln.Accept()
		if err != nil {
			return nil, fmt.Errorf("accepting task connection %d/%d: %w", i, size-1, err)
		}
		t.conns = append(t.conns, conn)
		t.encs = append(t.encs, gob.NewEncoder(conn))
		t.decs = append(t.decs, gob.NewDecoder(conn))
	}
	return t, nil
}

func (t *TCP) Rank() int { return t.rank }
func (t *TCP) Size() int { return t.size }

func (t *TCP) Send(ctx context.Context, msg RegisterMessage) error {
	if t.coordEnc == nil {
		return fmt.Errorf("transport: Send called on coordinator rank")
	}
	return t.coordEnc.Encode(msg)
}

func (t *TCP) Recv(ctx context.Context, fromRank int) (RegisterMessage, error) {
	if fromRank < 1 || fromRank > len(t.decs) {
		return RegisterMessage{}, fmt.Errorf("transport: invalid rank %d", fromRank)
	}
	var msg RegisterMessage
	if err := t.decs[fromRank-1].Decode(&msg); err != nil {
		return RegisterMessage{}, fmt.Errorf("transport: recv from rank %d: %w", fromRank, err)
	}
	return msg, nil
}

// Broadcast sends msg to every worker connection in turn. Only meaningful on
// the coordinator; encs is empty on worker ranks, so the loop is a no-op
// there rather than an error, matching the original MPI_Bcast's symmetry
// (every rank calls it, only the root's payload is meaningful).
func (t *TCP) Broadcast(ctx context.Context, msg RangesMessage) error {
	for i, enc := range t.encs {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("transport: broadcast to rank %d: %w", i+1, err)
		}
	}
	return nil
}

// RecvBroadcast blocks for the coordinator's next RangesMessage. Only called
// on non-coordinator ranks.
func (t *TCP) RecvBroadcast(ctx context.Context) (RangesMessage, error) {
	if t.coordDec == nil {
		return RangesMessage{}, fmt.Errorf("transport: RecvBroadcast called on coordinator rank")
	}
	var msg RangesMessage
	if err := t.coordDec.Decode(&msg); err != nil {
		return RangesMessage{}, fmt.Errorf("transport: recv broadcast: %w", err)
	}
	return msg, nil
}

func (t *TCP) Close() error {
	if t.coordConn != nil {
		return t.coordConn.Close()
	}
	for _, c := range t.conns {
		_ = c.Close()
	}
	return nil
}
