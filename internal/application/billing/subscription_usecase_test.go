package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

func TestSubscription_UpgradeActualizaLimites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.subs.Upgrade(ctx, f.scope, "pro")
	require.NoError(t, err)
	assert.Equal(t, "pro", got.Plan)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, 20, got.MaxUsers)

	company, err := f.db.Store().Companies.GetByID(ctx, f.scope.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanPro, company.Plan)
	assert.Equal(t, 20, company.MaxUsers)
	assert.Equal(t, 1, countAction(f.db, f.scope.CompanyID, entity.AuditSubscriptionUpgraded))
}

func TestSubscription_NoPermiteBajarNiRepetir(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.subs.Upgrade(ctx, f.scope, "enterprise")
	require.NoError(t, err)

	_, err = f.subs.Upgrade(ctx, f.scope, "pro")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.subs.Upgrade(ctx, f.scope, "enterprise")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.subs.Upgrade(ctx, f.scope, "gold")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubscription_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.subs.Cancel(ctx, f.scope)
	require.NoError(t, err)
	assert.Equal(t, "canceled", got.Status)
	assert.True(t, got.CancelAtPeriodEnd)

	_, err = f.subs.Cancel(ctx, f.scope)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	cur, err := f.subs.Get(ctx, f.scope)
	require.NoError(t, err)
	assert.Equal(t, "canceled", cur.Status)
}

func TestSubscription_UpgradeReiniciaElPeriodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := time.Now()

	got, err := f.subs.Upgrade(ctx, f.scope, "pro")
	require.NoError(t, err)
	assert.False(t, got.CurrentPeriodStart.Before(before), "el periodo empieza al subir de plan")
	assert.Equal(t, entity.BillingPeriod, got.CurrentPeriodEnd.Sub(got.CurrentPeriodStart))
	assert.False(t, got.CancelAtPeriodEnd)
}

func TestSubscription_Usage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.storage.bytes = 5 << 29 // 2.5 GB

	got, err := f.subs.Usage(ctx, f.scope)
	require.NoError(t, err)
	assert.Equal(t, "starter", got.Plan)
	assert.Equal(t, dto.UsageMetric{Current: 1, Limit: 5, Percent: 20}, got.Users)
	assert.Equal(t, dto.UsageMetric{Current: 2.5, Limit: 10, Percent: 25}, got.Storage)

	_, err = f.subs.Upgrade(ctx, f.scope, "enterprise")
	require.NoError(t, err)
	got, err = f.subs.Usage(ctx, f.scope)
	require.NoError(t, err)
	assert.Zero(t, got.Users.Percent, "cupo ilimitado")

	f.storage.err = errors.New("disco no disponible")
	_, err = f.subs.Usage(ctx, f.scope)
	assert.Error(t, err)
}
