package storage

import (
	"context"
	"fmt"
	"sync"

	"Duet/core"
)

type MemoryStorage struct {
	modes map[int64]string
	mutex sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		modes: make(map[int64]string),
	}
}

func (m *MemoryStorage) GetMode(_ context.Context, userId int64) (core.Mode, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, ok := m.modes[userId]
	if !ok {
		return core.DefaultMode, nil
	}
	return core.ParseMode(value), nil
}

func (m *MemoryStorage) SetMode(_ context.Context, userId int64, mode core.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("set mode %q: %w", mode, core.ErrInvalidMode)
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.modes[userId] = mode.String()
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
