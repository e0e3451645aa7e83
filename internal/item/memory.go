package item

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps items in process. Ids start at 1 and increase on every
// save; FindAll returns items in insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	items  map[int64]Item
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[int64]Item),
		now:   time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, it Item) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now()
	it.ID = s.nextID
	it.CreatedAt = now
	it.UpdatedAt = now
	s.items[it.ID] = it
	s.order = append(s.order, it.ID)
	return it, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

// Update overwrites name, price and quantity of an existing item.
func (s *MemoryStore) Update(ctx context.Context, id int64, it Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	existing.ItemName = it.ItemName
	existing.Price = it.Price
	existing.Quantity = it.Quantity
	existing.UpdatedAt = s.now()
	s.items[id] = existing
	return nil
}
