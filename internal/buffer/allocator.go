package buffer

import (
	"errors"
	"fmt"
	"strings"
)

var errNonPositiveSize = errors.New("size must be greater than 0")

type AllocatorKind string

const (
	// Memory obtained from modernc.org/memory, outside of the Go collected heap. Must be freed.
	HeapAllocatorKind AllocatorKind = "heap"
	// Plain Go slices, freeing is a no-op and the garbage collector reclaims them.
	GoAllocatorKind AllocatorKind = "go"
	// Slices recycled through a sync.Pool per capacity.
	PoolAllocatorKind AllocatorKind = "pool"
)

// Allocator is a source of fixed-size byte regions.
// A slice returned by Malloc must be passed back to Free exactly once.
type Allocator interface {
	Malloc(size int) ([]byte, error)
	Free(b []byte) error
}

// Closer is implemented by allocators that hold resources beyond individual allocations.
type Closer interface {
	Close() error
}

// ParseAllocatorKind converts a configured allocator name into an AllocatorKind.
func ParseAllocatorKind(name string) (AllocatorKind, error) {
	switch kind := AllocatorKind(strings.ToLower(strings.TrimSpace(name))); kind {
	case HeapAllocatorKind, GoAllocatorKind, PoolAllocatorKind:
		return kind, nil
	case "":
		return HeapAllocatorKind, nil
	default:
		return "", fmt.Errorf("unknown allocator kind %q", name)
	}
}

// New creates the allocator for the given kind.
func New(kind AllocatorKind) (Allocator, error) {
	switch kind {
	case HeapAllocatorKind, "":
		return NewHeapAllocator(), nil
	case GoAllocatorKind:
		return GoAllocator{}, nil
	case PoolAllocatorKind:
		return NewPoolAllocator(), nil
	default:
		return nil, fmt.Errorf("unknown allocator kind %q", kind)
	}
}

// CloseAllocator closes a if it holds resources. Decorators forward to what they wrap.
func CloseAllocator(a Allocator) error {
	if c, ok := a.(Closer); ok {
		return c.Close()
	}
	return nil
}
