package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/analytics"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/cache"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

func TestGet_SnapshotVigenteHasta300s(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	now := t0
	clock := func() time.Time { return now }
	sc := analytics.NewSnapshotCache(cache.NewMemoryStoreWithClock(clock), 300*time.Second, logger.Nop())
	uc := analytics.NewDashboardUseCase(db.Analytics(), sc, logger.Nop()).WithClock(clock)

	first, err := uc.Get(ctx, scope)
	require.NoError(t, err)
	assert.Zero(t, first.TotalLeads)

	seedLead(t, db, "l1", "c1", entity.LeadProspect, "")

	now = t0.Add(299 * time.Second)
	cached, err := uc.Get(ctx, scope)
	require.NoError(t, err)
	assert.Zero(t, cached.TotalLeads, "dentro del TTL se sirve el snapshot guardado")
	assert.True(t, cached.GeneratedAt.Equal(t0))

	now = t0.Add(301 * time.Second)
	fresh, err := uc.Get(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.TotalLeads)
}

func TestRefresh_InvalidaLaLlaveDelUsuario(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	sc := analytics.NewSnapshotCache(cache.NewMemoryStore(), 0, nil)
	uc := analytics.NewDashboardUseCase(db.Analytics(), sc, nil)

	_, err := uc.Get(ctx, scope)
	require.NoError(t, err)
	seedLead(t, db, "l1", "c1", entity.LeadProspect, "")

	require.NoError(t, uc.Refresh(ctx, scope))
	snap, err := uc.Get(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalLeads)
}

func TestSnapshotCache_VersionDistintaSeDescarta(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	key := analytics.SnapshotKey("c1", "u1")
	require.NoError(t, store.Set(ctx, key, []byte(`{"v":0,"snapshot":{"total_leads":9}}`), time.Minute))

	sc := analytics.NewSnapshotCache(store, 0, nil)
	_, ok := sc.Get(ctx, scope)
	assert.False(t, ok)

	_, stillThere, _ := store.Get(ctx, key)
	assert.False(t, stillThere, "la entrada vieja se borra")
}

func TestSnapshotCache_BasuraEsMiss(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, analytics.SnapshotKey("c1", "u1"), []byte("no-json"), time.Minute))

	_, ok := analytics.NewSnapshotCache(store, 0, nil).Get(ctx, scope)
	assert.False(t, ok)
}

func TestSnapshotKey_PorEmpresaYUsuario(t *testing.T) {
	assert.Equal(t, "dashboard:c1:u1", analytics.SnapshotKey("c1", "u1"))
	assert.NotEqual(t, analytics.SnapshotKey("c1", "u1"), analytics.SnapshotKey("c2", "u1"))
}
