package buffer

import (
	"sync"

	bufErrors "github.com/javi11/greetbuf/internal/errors"
)

// GoAllocator delegates to the Go runtime and keeps Free as a no-op.
type GoAllocator struct{}

func (GoAllocator) Malloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, bufErrors.NewAllocationError(size, errNonPositiveSize)
	}
	return make([]byte, size), nil
}

func (GoAllocator) Free([]byte) error { return nil }

// typedPool is a typed wrapper around sync.Pool.
type typedPool[T any] struct {
	p *sync.Pool
}

func newTypedPool[T any](ctor func() *T) *typedPool[T] {
	return &typedPool[T]{
		p: &sync.Pool{
			New: func() any { return ctor() },
		},
	}
}

func (p *typedPool[T]) Get() *T {
	return p.p.Get().(*T)
}

func (p *typedPool[T]) Put(v *T) {
	p.p.Put(v)
}

// PoolAllocator recycles regions through one sync.Pool per capacity.
// Regions are zeroed on Free so a recycled region never leaks a previous message.
type PoolAllocator struct {
	mu    sync.Mutex
	pools map[int]*typedPool[[]byte]
}

// NewPoolAllocator creates an empty pool allocator.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{
		pools: make(map[int]*typedPool[[]byte]),
	}
}

func (p *PoolAllocator) poolFor(size int) *typedPool[[]byte] {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[size]
	if !ok {
		pool = newTypedPool(func() *[]byte {
			b := make([]byte, size)
			return &b
		})
		p.pools[size] = pool
	}
	return pool
}

// Malloc returns a region of exactly size bytes, reusing a freed one when available.
func (p *PoolAllocator) Malloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, bufErrors.NewAllocationError(size, errNonPositiveSize)
	}
	return *p.poolFor(size).Get(), nil
}

// Free zeroes b and makes it available to the next Malloc of the same size.
func (p *PoolAllocator) Free(b []byte) error {
	if cap(b) == 0 {
		return nil
	}
	b = b[:cap(b)]
	clear(b)
	p.poolFor(len(b)).Put(&b)
	return nil
}
