package buffer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	bufErrors "github.com/javi11/greetbuf/internal/errors"
)

func TestParseAllocatorKind(t *testing.T) {
	tests := []struct {
		input   string
		want    AllocatorKind
		wantErr bool
	}{
		{input: "heap", want: HeapAllocatorKind},
		{input: " Go ", want: GoAllocatorKind},
		{input: "POOL", want: PoolAllocatorKind},
		{input: "", want: HeapAllocatorKind},
		{input: "jemalloc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAllocatorKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	for _, kind := range []AllocatorKind{HeapAllocatorKind, GoAllocatorKind, PoolAllocatorKind} {
		t.Run(string(kind), func(t *testing.T) {
			alloc, err := New(kind)
			require.NoError(t, err)
			defer func() { assert.NoError(t, CloseAllocator(alloc)) }()

			b, err := alloc.Malloc(14)
			require.NoError(t, err)
			assert.Len(t, b, 14)
			assert.Equal(t, 14, cap(b))
			assert.NoError(t, alloc.Free(b))
		})
	}

	_, err := New("jemalloc")
	assert.Error(t, err)
}

func TestAllocators_RejectNonPositiveSize(t *testing.T) {
	heap := NewHeapAllocator()
	defer func() { assert.NoError(t, heap.Close()) }()

	for name, alloc := range map[string]Allocator{
		"heap": heap,
		"go":   GoAllocator{},
		"pool": NewPoolAllocator(),
	} {
		t.Run(name, func(t *testing.T) {
			for _, size := range []int{0, -1} {
				b, err := alloc.Malloc(size)
				assert.Nil(t, b)
				assert.True(t, bufErrors.IsAllocationFailure(err))
			}
		})
	}
}

func TestHeapAllocator_WriteAndFree(t *testing.T) {
	heap := NewHeapAllocator()
	defer func() { assert.NoError(t, heap.Close()) }()

	regions := make([][]byte, 0, 8)
	for i := range 8 {
		b, err := heap.Malloc(14)
		require.NoError(t, err)
		copy(b, "Hello, World!")
		b[13] = byte(i)
		regions = append(regions, b)
	}

	for i, b := range regions {
		assert.Equal(t, "Hello, World!", string(b[:13]))
		assert.Equal(t, byte(i), b[13], "regions must not overlap")
		assert.NoError(t, heap.Free(b))
	}

	assert.NoError(t, heap.Free(nil))
}

func TestPoolAllocator_ReusedRegionsAreZeroed(t *testing.T) {
	pool := NewPoolAllocator()

	b, err := pool.Malloc(14)
	require.NoError(t, err)
	copy(b, "Hello, World!")
	require.NoError(t, pool.Free(b))

	// sync.Pool may or may not hand the same slice back; either way it must be clean.
	again, err := pool.Malloc(14)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 14), again)

	other, err := pool.Malloc(32)
	require.NoError(t, err)
	assert.Len(t, other, 32)
}

func TestLimitAllocator(t *testing.T) {
	next := new(MockAllocator)
	region := make([]byte, 14)
	next.On("Malloc", 14).Return(region, nil).Once()
	next.On("Free", mock.Anything).Return(nil).Once()

	limit := NewLimitAllocator(next, 20)

	b, err := limit.Malloc(14)
	require.NoError(t, err)
	assert.Equal(t, 14, limit.InUse())

	_, err = limit.Malloc(14)
	assert.True(t, bufErrors.IsAllocationFailure(err))
	assert.ErrorContains(t, err, "limit of 20 bytes reached, 14 in use")

	require.NoError(t, limit.Free(b))
	assert.Equal(t, 0, limit.InUse())

	next.AssertExpectations(t)
}

func TestLimitAllocator_RejectsForeignAndRepeatedFree(t *testing.T) {
	next := new(MockAllocator)
	region := make([]byte, 14)
	next.On("Malloc", 14).Return(region, nil).Once()
	next.On("Free", mock.Anything).Return(nil).Once()

	limit := NewLimitAllocator(next, 14)

	b, err := limit.Malloc(14)
	require.NoError(t, err)

	assert.ErrorIs(t, limit.Free(make([]byte, 14)), bufErrors.ErrInvalidFree)
	assert.Equal(t, 14, limit.InUse())

	require.NoError(t, limit.Free(b))
	assert.ErrorIs(t, limit.Free(b), bufErrors.ErrInvalidFree)
	assert.Equal(t, 0, limit.InUse())

	// the budget is unchanged by the rejected frees
	_, err = limit.Malloc(15)
	assert.True(t, bufErrors.IsAllocationFailure(err))

	next.AssertExpectations(t)
}

func TestLimitAllocator_Unlimited(t *testing.T) {
	limit := NewLimitAllocator(GoAllocator{}, 0)

	b, err := limit.Malloc(1 << 16)
	require.NoError(t, err)
	assert.NoError(t, limit.Free(b))
}

func TestLimitAllocator_PropagatesNextError(t *testing.T) {
	next := new(MockAllocator)
	next.On("Malloc", 14).Return(nil, bufErrors.NewAllocationError(14, errors.New("mmap failed"))).Once()

	limit := NewLimitAllocator(next, 0)
	_, err := limit.Malloc(14)

	assert.True(t, bufErrors.IsAllocationFailure(err))
	assert.Equal(t, 0, limit.InUse())
	next.AssertExpectations(t)
}

func TestTracker(t *testing.T) {
	tracker := NewTracker(GoAllocator{})

	a, err := tracker.Malloc(14)
	require.NoError(t, err)
	b, err := tracker.Malloc(14)
	require.NoError(t, err)

	assert.Equal(t, 2, tracker.Acquired())
	assert.Equal(t, 2, tracker.Outstanding())
	assert.False(t, tracker.Balanced())

	require.NoError(t, tracker.Free(a))
	assert.ErrorIs(t, tracker.Free(a), bufErrors.ErrInvalidFree, "double free must be rejected")
	assert.ErrorIs(t, tracker.Free(make([]byte, 14)), bufErrors.ErrInvalidFree, "foreign region must be rejected")

	require.NoError(t, tracker.Free(b))
	assert.Equal(t, 2, tracker.Released())
	assert.True(t, tracker.Balanced())
}

func TestTracker_FailedMallocIsNotCounted(t *testing.T) {
	tracker := NewTracker(NewLimitAllocator(GoAllocator{}, 8))

	_, err := tracker.Malloc(14)
	assert.True(t, bufErrors.IsAllocationFailure(err))
	assert.Equal(t, 0, tracker.Acquired())
	assert.True(t, tracker.Balanced())
}
