// Package cache implementa el almacenamiento clave/valor con TTL del dashboard:
// Redis para despliegues con varias instancias y memoria como fallback.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/application/analytics"
)

// SweepInterval cada cuánto Set recorre el mapa borrando claves vencidas
// que nadie volvió a leer.
const SweepInterval = time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore cache en memoria del proceso. No comparte estado entre instancias.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	nextSweep time.Time
}

// NewMemoryStore crea el store con el reloj del sistema.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock crea el store con un reloj inyectado (tests de expiración).
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: now, nextSweep: now().Add(SweepInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// puede haberse reescrito entre los dos locks
		if cur, still := s.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
	}
	s.entries[key] = entry{value: append([]byte(nil), value...), expiresAt: now.Add(ttl)}
	return nil
}

// sweep requiere s.mu tomado.
func (s *MemoryStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.nextSweep = now.Add(SweepInterval)
}

// Len claves guardadas, vencidas incluidas mientras no se barran.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close no hace nada; existe para cumplir Store.
func (s *MemoryStore) Close() error { return nil }

var _ analytics.CacheStore = (*MemoryStore)(nil)
