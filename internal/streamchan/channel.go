// Package streamchan implements the one-way, ordered, typed chunk delivery
// abstraction of spec C4: a Send primitive that returns once a chunk is
// enqueued, and cooperative cancellation observed at send time. Channel,
// the default Sender, holds a fixed number of pending chunks; once that
// buffer is full, Send blocks until the consumer receives a chunk or ctx
// is done. MemorySink never blocks.
//
// It is deliberately not tied to any IPC transport — producers depend on
// the Sender interface, so tests and the CLI driver can each supply their
// own implementation, mirroring vvfs/filesystem/watcher/processor.go's
// channel-plus-select pattern for batch delivery.
package streamchan

import (
	"context"

	"github.com/ZanzyTHEbar/jsonlviewer/internal/engineerr"
)

// Sender delivers chunks of T to whatever consumes them. Send returns once
// the chunk is enqueued, not once it is processed.
type Sender[T any] interface {
	Send(ctx context.Context, chunk []T) error
}

// Channel is the default Sender: a buffered Go channel plus a consumer-side
// receive method, used by the CLI driver to bridge producer and IPC writer.
type Channel[T any] struct {
	ch chan []T
}

// NewChannel creates a Channel with the given buffer depth (in chunks, not
// items).
func NewChannel[T any](bufferDepth int) *Channel[T] {
	return &Channel[T]{ch: make(chan []T, bufferDepth)}
}

// Send enqueues chunk, blocking only if the buffer is full, or returns a
// Cancelled error if ctx is done first. Producers MUST stop promptly on
// error rather than retry or perform further side effects.
func (c *Channel[T]) Send(ctx context.Context, chunk []T) error {
	select {
	case c.ch <- chunk:
		return nil
	case <-ctx.Done():
		return engineerr.Cancelled()
	}
}

// C returns the receive side for the consumer to range over.
func (c *Channel[T]) C() <-chan []T {
	return c.ch
}

// Close signals no further chunks will be sent. Only the producer may call
// this, after its final chunk has been sent.
func (c *Channel[T]) Close() {
	close(c.ch)
}

// MemorySink is an in-memory Sender for tests, substituting for the IPC
// transport per the design note in spec §9.
type MemorySink[T any] struct {
	Chunks [][]T
}

// Send appends chunk to Chunks. Never fails unless ctx is already done.
func (s *MemorySink[T]) Send(ctx context.Context, chunk []T) error {
	select {
	case <-ctx.Done():
		return engineerr.Cancelled()
	default:
	}
	cp := make([]T, len(chunk))
	copy(cp, chunk)
	s.Chunks = append(s.Chunks, cp)
	return nil
}

// Flatten concatenates all received chunks into a single ordered slice.
func (s *MemorySink[T]) Flatten() []T {
	var out []T
	for _, c := range s.Chunks {
		out = append(out, c...)
	}
	return out
}
