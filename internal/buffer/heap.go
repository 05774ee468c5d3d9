package buffer

import (
	"sync"

	"modernc.org/memory"

	bufErrors "github.com/javi11/greetbuf/internal/errors"
)

// HeapAllocator hands out manually managed memory from modernc.org/memory.
// The regions live outside the Go collected heap, so every Malloc must be paired with a Free
// and the allocator closed once no allocation is outstanding.
type HeapAllocator struct {
	mu    sync.Mutex
	alloc memory.Allocator
}

// NewHeapAllocator creates an empty heap allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

// Malloc returns an uninitialized region of exactly size bytes.
func (h *HeapAllocator) Malloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, bufErrors.NewAllocationError(size, errNonPositiveSize)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	b, err := h.alloc.Malloc(size)
	if err != nil {
		return nil, bufErrors.NewAllocationError(size, err)
	}

	// The allocator may round the region up to its size class.
	return b[:size:size], nil
}

// Free returns b to the allocator.
func (h *HeapAllocator) Free(b []byte) error {
	if b == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.alloc.Free(b)
}

// Close releases every page still held by the allocator.
func (h *HeapAllocator) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.alloc.Close()
}
