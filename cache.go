package stockroom

import "fmt"

var _ Cache[any] = &SimpleCache[any]{}

// Cache is a bounded string-keyed registry with stable integer indices.
type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
}

// SimpleCache is the default Cache implementation.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	item := &c.items[index]
	return item
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	item := &c.items[index]
	return item
}

func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, fmt.Errorf("cache at maximum capacity (%d)", c.maxCapacity)
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)

	return idx, nil
}

func (c *SimpleCache[T]) Clear() {
	c.items = c.items[:0]
	c.itemIndices = make(map[string]int)
}
