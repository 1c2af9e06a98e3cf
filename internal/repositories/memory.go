package repositories

import (
	"sort"
	"sync"
	"time"
)

// NewMemorySet builds in-process repositories. Data lives as long as the returned Set.
func NewMemorySet() *Set {
	return &Set{
		Users:    NewMemoryUserRepository(),
		Products: NewMemoryProductRepository(),
		Carts:    NewMemoryCartRepository(),
		Orders:   NewMemoryOrderRepository(),
		Likes:    NewMemoryLikeRepository(),
		Reviews:  NewMemoryReviewRepository(),
	}
}

// memoryTable is a map of rows keyed by ID guarded by a RWMutex.
type memoryTable[T any] struct {
	rows map[string]T
	mu   sync.RWMutex
}

func newMemoryTable[T any]() *memoryTable[T] {
	return &memoryTable[T]{rows: make(map[string]T)}
}

func (t *memoryTable[T]) insert(id string, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; ok {
		return ErrDuplicateKey
	}
	t.rows[id] = row
	return nil
}

func (t *memoryTable[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrRecordNotFound
	}
	return row, nil
}

// replace swaps an existing row and hands the previous one to keep, which may carry
// fields over to the new row before it is stored.
func (t *memoryTable[T]) replace(id string, row *T, keep func(prev T, next *T)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.rows[id]
	if !ok {
		return ErrRecordNotFound
	}
	if keep != nil {
		keep(prev, row)
	}
	t.rows[id] = *row
	return nil
}

func (t *memoryTable[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return ErrRecordNotFound
	}
	delete(t.rows, id)
	return nil
}

// filter returns the rows accepted by match, newest first according to createdAt.
func (t *memoryTable[T]) filter(match func(T) bool, createdAt func(T) time.Time) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if match == nil || match(row) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	return out
}

func stampCreated(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
