package storage

import (
	"context"
	"maps"
	"sync"
)

// MemoryStorage área en memoria para tests y para la consola sin archivo.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
	writes int

	// FailWrites hace fallar cada Write con este error (tests).
	FailWrites error
	// FailReads hace fallar cada Read con este error (tests).
	FailReads error
}

// NewMemoryStorage parte de una copia de initial (puede ser nil).
func NewMemoryStorage(initial map[string]string) *MemoryStorage {
	values := map[string]string{}
	maps.Copy(values, initial)
	return &MemoryStorage{values: values}
}

func (s *MemoryStorage) Read(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads != nil {
		return nil, s.FailReads
	}
	return maps.Clone(s.values), nil
}

func (s *MemoryStorage) Write(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.values = maps.Clone(values)
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.writes++
	return nil
}

// Values copia del contenido actual.
func (s *MemoryStorage) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

// Writes número de escrituras exitosas.
func (s *MemoryStorage) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
