package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// DefaultSnapshotTTL vigencia del snapshot del dashboard.
const DefaultSnapshotTTL = 300 * time.Second

// snapshotVersion se incrementa cuando cambia la forma de DashboardSnapshot.
// Un valor guardado con otra versión se descarta y se recalcula.
const snapshotVersion = 1

type envelope struct {
	V        int                    `json:"v"`
	Snapshot *dto.DashboardSnapshot `json:"snapshot"`
}

// SnapshotCache capa cache-aside tipada sobre CacheStore.
// Los errores del store se loguean y se tratan como miss: el dashboard nunca falla por la cache.
type SnapshotCache struct {
	store CacheStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewSnapshotCache construye la cache. ttl <= 0 usa DefaultSnapshotTTL.
func NewSnapshotCache(store CacheStore, ttl time.Duration, log *logger.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotCache{store: store, ttl: ttl, log: log}
}

// SnapshotKey llave por empresa y usuario.
func SnapshotKey(companyID, userID string) string {
	return "dashboard:" + companyID + ":" + userID
}

// Get devuelve el snapshot guardado si existe, decodifica y es de la versión actual.
func (c *SnapshotCache) Get(ctx context.Context, scope tenant.Scope) (*dto.DashboardSnapshot, bool) {
	key := SnapshotKey(scope.CompanyID, scope.UserID)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache no disponible, se recalcula el dashboard")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.V != snapshotVersion || env.Snapshot == nil {
		c.log.Debug().Str("key", key).Int("version", env.V).Msg("snapshot descartado")
		c.evict(ctx, key)
		return nil, false
	}
	return env.Snapshot, true
}

// Set guarda el snapshot con el TTL configurado.
func (c *SnapshotCache) Set(ctx context.Context, scope tenant.Scope, snap *dto.DashboardSnapshot) {
	key := SnapshotKey(scope.CompanyID, scope.UserID)
	raw, err := json.Marshal(envelope{V: snapshotVersion, Snapshot: snap})
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo serializar el snapshot")
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el snapshot")
	}
}

// Invalidate borra el snapshot del usuario.
func (c *SnapshotCache) Invalidate(ctx context.Context, scope tenant.Scope) error {
	return c.store.Delete(ctx, SnapshotKey(scope.CompanyID, scope.UserID))
}

func (c *SnapshotCache) evict(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo borrar el snapshot")
	}
}
