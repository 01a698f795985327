package game

import (
	"context"
	"fmt"
	"sync"
)

type MemoryHandStore struct {
	lock  sync.RWMutex
	hands map[string][]byte
}

func NewMemoryHandStore() *MemoryHandStore {
	return &MemoryHandStore{
		hands: make(map[string][]byte),
	}
}

func (m *MemoryHandStore) Save(_ context.Context, hand *Hand) error {
	data, err := encodeHand(hand)
	if err != nil {
		return err
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, exists := m.hands[hand.ID]; exists {
		return fmt.Errorf("Hand %s already exists", hand.ID)
	}
	m.hands[hand.ID] = data
	return nil
}

func (m *MemoryHandStore) FindByID(_ context.Context, id string) (*Hand, error) {
	m.lock.RLock()
	data, ok := m.hands[id]
	m.lock.RUnlock()
	if !ok {
		return nil, HandNotFoundError{HandID: id}
	}
	return decodeHand(data)
}

func (m *MemoryHandStore) Upsert(_ context.Context, id string, hand *Hand) error {
	data, err := encodeHand(hand)
	if err != nil {
		return err
	}
	m.lock.Lock()
	m.hands[id] = data
	m.lock.Unlock()
	return nil
}

func (m *MemoryHandStore) Count() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.hands)
}
