package cache

import (
	"github.com/jhoicas/SalesERP-api/internal/application/analytics"
	"github.com/jhoicas/SalesERP-api/pkg/config"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// Store cache con cierre de recursos.
type Store interface {
	analytics.CacheStore
	Close() error
}

// NewStore usa Redis si está configurado y responde; si no, memoria.
// Un Redis caído no impide arrancar: la cache es una optimización.
func NewStore(cfg config.RedisConfig, log *logger.Logger) Store {
	if cfg.Host == "" {
		log.Info().Msg("cache: Redis no configurado, usando memoria")
		return NewMemoryStore()
	}
	store, err := NewRedisStore(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("cache: Redis no disponible, usando memoria. La cache no se comparte entre instancias")
		return NewMemoryStore()
	}
	log.Info().Str("addr", cfg.Addr()).Msg("cache: usando Redis")
	return store
}
