package config

import "github.com/javi11/greetbuf/internal/buffer"

// GetCapacity returns the buffer capacity, derived from the greeting text when not set.
func (c *Config) GetCapacity() int {
	if c.Greeting.Capacity <= 0 {
		return buffer.CapacityFor(c.Greeting.Text)
	}
	return c.Greeting.Capacity
}

// GetAllocatorKind returns the configured allocator kind with a default fallback.
func (c *Config) GetAllocatorKind() buffer.AllocatorKind {
	kind, err := buffer.ParseAllocatorKind(c.Allocator.Kind)
	if err != nil {
		return buffer.HeapAllocatorKind // Default: manually managed memory
	}
	return kind
}

// NewAllocator builds the configured allocator, wrapped with the byte limit when one is set.
func (c *Config) NewAllocator() (buffer.Allocator, error) {
	alloc, err := buffer.New(c.GetAllocatorKind())
	if err != nil {
		return nil, err
	}

	if c.Allocator.LimitBytes > 0 {
		return buffer.NewLimitAllocator(alloc, c.Allocator.LimitBytes), nil
	}

	return alloc, nil
}
