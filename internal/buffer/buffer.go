// Package buffer manages the lifecycle of a fixed-capacity, zero-terminated byte buffer.
//
// A Buffer is only ever obtained through With, which acquires it from an Allocator,
// hands it to a callback and releases it on every exit path. Callers cannot release a
// buffer themselves, so leaks and double releases are not expressible.
package buffer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	bufErrors "github.com/javi11/greetbuf/internal/errors"
)

// Terminator marks the logical end of the text held by a Buffer.
const Terminator byte = 0

type State int

const (
	Unallocated State = iota
	Allocated
	Populated
	Emitted
	Released
	Failed
)

func (s State) String() string {
	switch s {
	case Unallocated:
		return "unallocated"
	case Allocated:
		return "allocated"
	case Populated:
		return "populated"
	case Emitted:
		return "emitted"
	case Released:
		return "released"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CapacityFor returns the number of bytes needed to hold text and its terminator.
func CapacityFor(text string) int {
	return len(text) + 1
}

// Buffer is a single-owner byte region obtained from an Allocator.
type Buffer struct {
	alloc    Allocator
	region   []byte // as returned by alloc, handed back on release
	data     []byte // region clipped to capacity
	capacity int
	state    State
}

// Cap returns the capacity requested at acquisition.
func (b *Buffer) Cap() int {
	return b.capacity
}

// State returns the current lifecycle state.
func (b *Buffer) State() State {
	return b.state
}

// Populate copies text and its terminator into the buffer.
// It fails without writing anything if text does not fit.
func (b *Buffer) Populate(text string) error {
	if err := b.expect(Allocated, "populate"); err != nil {
		return err
	}

	if need := CapacityFor(text); need > b.capacity {
		return bufErrors.WrapContract(bufErrors.ErrBufferOverflow, "text needs %d bytes, capacity is %d", need, b.capacity)
	}

	n := copy(b.data, text)
	b.data[n] = Terminator
	b.state = Populated
	return nil
}

// Text returns the contents up to the terminator.
func (b *Buffer) Text() (string, error) {
	if b.state != Populated && b.state != Emitted {
		return "", b.expect(Populated, "read")
	}

	end := bytes.IndexByte(b.data, Terminator)
	if end < 0 {
		return "", bufErrors.WrapContract(bufErrors.ErrInvalidState, "no terminator within %d bytes", len(b.data))
	}
	return string(b.data[:end]), nil
}

// Emit writes the contents up to the terminator followed by a newline to w.
func (b *Buffer) Emit(w io.Writer) error {
	if err := b.expect(Populated, "emit"); err != nil {
		return err
	}

	end := bytes.IndexByte(b.data, Terminator)
	if end < 0 {
		return bufErrors.WrapContract(bufErrors.ErrInvalidState, "no terminator within %d bytes", len(b.data))
	}

	if _, err := w.Write(b.data[:end]); err != nil {
		return fmt.Errorf("failed to write buffer contents: %w", err)
	}
	if _, err := w.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	b.state = Emitted
	return nil
}

func (b *Buffer) expect(want State, op string) error {
	switch b.state {
	case want:
		return nil
	case Released:
		return bufErrors.WrapContract(bufErrors.ErrUseAfterRelease, "%s", op)
	default:
		return bufErrors.WrapContract(bufErrors.ErrInvalidState, "%s requires state %s, buffer is %s", op, want, b.state)
	}
}

func acquire(alloc Allocator, capacity int) (*Buffer, error) {
	b := &Buffer{alloc: alloc, capacity: capacity}
	if capacity <= 0 {
		b.state = Failed
		return b, bufErrors.NewAllocationError(capacity, errNonPositiveSize)
	}

	data, err := alloc.Malloc(capacity)
	if err != nil {
		b.state = Failed
		if !bufErrors.IsAllocationFailure(err) {
			err = bufErrors.NewAllocationError(capacity, err)
		}
		return b, err
	}

	if len(data) < capacity {
		b.state = Failed
		cause := fmt.Errorf("allocator returned %d bytes", len(data))
		if ferr := alloc.Free(data); ferr != nil {
			cause = fmt.Errorf("%w, failed to free short region: %w", cause, ferr)
		}
		return b, bufErrors.NewAllocationError(capacity, cause)
	}

	b.region = data
	b.data = data[:capacity:capacity]
	b.state = Allocated
	return b, nil
}

func (b *Buffer) release() error {
	if b.state == Released || b.state == Failed || b.state == Unallocated {
		return nil
	}

	region := b.region
	b.region = nil
	b.data = nil
	b.state = Released
	return b.alloc.Free(region)
}

// With acquires a buffer of the given capacity from alloc, passes it to fn and releases it
// once fn returns or panics. If the allocation fails fn is not called and the returned
// error satisfies errors.IsAllocationFailure.
func With(ctx context.Context, alloc Allocator, capacity int, fn func(*Buffer) error) (err error) {
	logger := slog.Default().With("component", "buffer")

	b, err := acquire(alloc, capacity)
	if err != nil {
		logger.DebugContext(ctx, "Buffer acquisition failed", "capacity", capacity, "error", err)
		return err
	}
	logger.DebugContext(ctx, "Buffer acquired", "capacity", capacity)

	defer func() {
		reached := b.state
		if rerr := b.release(); rerr != nil {
			logger.ErrorContext(ctx, "Failed to release buffer", "capacity", capacity, "error", rerr)
			if err == nil {
				err = fmt.Errorf("failed to release buffer: %w", rerr)
			}
			return
		}
		logger.DebugContext(ctx, "Buffer released", "capacity", capacity, "reached", reached.String())
	}()

	return fn(b)
}
