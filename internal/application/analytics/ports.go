package analytics

import (
	"context"
	"time"
)

// CacheStore almacenamiento clave/valor con expiración (Redis o memoria).
// Get devuelve ok=false si la clave no existe o expiró.
type CacheStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
