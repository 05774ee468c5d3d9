package buffer

import (
	"unsafe"

	bufErrors "github.com/javi11/greetbuf/internal/errors"
)

// Tracker counts acquisitions and releases made through Next.
// Each region is identified by its first byte, so a double free or a free of
// foreign memory is rejected before it reaches Next.
type Tracker struct {
	Next Allocator

	acquired int
	released int
	live     map[uintptr]int
}

// NewTracker wraps next with acquisition accounting.
func NewTracker(next Allocator) *Tracker {
	return &Tracker{
		Next: next,
		live: make(map[uintptr]int),
	}
}

func (t *Tracker) Malloc(size int) ([]byte, error) {
	b, err := t.Next.Malloc(size)
	if err != nil {
		return nil, err
	}

	t.acquired++
	t.live[regionKey(b)] = len(b)
	return b, nil
}

func (t *Tracker) Free(b []byte) error {
	key := regionKey(b)
	if _, ok := t.live[key]; !ok {
		return bufErrors.WrapContract(bufErrors.ErrInvalidFree, "region of %d bytes was not acquired or is already released", len(b))
	}

	if err := t.Next.Free(b); err != nil {
		return err
	}

	delete(t.live, key)
	t.released++
	return nil
}

// Acquired returns the number of successful Malloc calls.
func (t *Tracker) Acquired() int { return t.acquired }

// Released returns the number of successful Free calls.
func (t *Tracker) Released() int { return t.released }

// Outstanding returns the number of regions acquired but not yet released.
func (t *Tracker) Outstanding() int { return len(t.live) }

// Balanced reports whether every acquisition has been released.
func (t *Tracker) Balanced() bool {
	return t.acquired == t.released && len(t.live) == 0
}

func (t *Tracker) Close() error {
	return CloseAllocator(t.Next)
}

func regionKey(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
