package buffer

import (
	"fmt"

	bufErrors "github.com/javi11/greetbuf/internal/errors"
)

// LimitAllocator caps the number of outstanding bytes handed out by Next.
// A request that would go over Limit fails with an allocation error without reaching Next,
// which makes allocator exhaustion reproducible. A Limit of zero or less disables the cap.
// Only regions handed out by l count against the budget; freeing anything else is rejected.
type LimitAllocator struct {
	Next  Allocator
	Limit int

	inUse int
	live  map[uintptr]int
}

// NewLimitAllocator wraps next with a byte budget.
func NewLimitAllocator(next Allocator, limit int) *LimitAllocator {
	return &LimitAllocator{
		Next:  next,
		Limit: limit,
		live:  make(map[uintptr]int),
	}
}

func (l *LimitAllocator) Malloc(size int) ([]byte, error) {
	if l.Limit > 0 && l.inUse+size > l.Limit {
		return nil, bufErrors.NewAllocationError(size, fmt.Errorf("limit of %d bytes reached, %d in use", l.Limit, l.inUse))
	}

	b, err := l.Next.Malloc(size)
	if err != nil {
		return nil, err
	}

	if l.live == nil {
		l.live = make(map[uintptr]int)
	}
	l.live[regionKey(b)] = len(b)
	l.inUse += len(b)
	return b, nil
}

func (l *LimitAllocator) Free(b []byte) error {
	key := regionKey(b)
	size, ok := l.live[key]
	if !ok {
		return bufErrors.WrapContract(bufErrors.ErrInvalidFree, "region of %d bytes was not acquired through the limit or is already released", len(b))
	}

	if err := l.Next.Free(b); err != nil {
		return err
	}

	delete(l.live, key)
	l.inUse -= size
	return nil
}

// InUse returns the number of bytes currently allocated through l.
func (l *LimitAllocator) InUse() int {
	return l.inUse
}

func (l *LimitAllocator) Close() error {
	return CloseAllocator(l.Next)
}
