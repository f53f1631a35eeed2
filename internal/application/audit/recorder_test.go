package audit_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

func TestRecord_GuardaDetallesDelRequest(t *testing.T) {
	db := memstore.New()
	rec := audit.NewRecorder(db.Store().AuditLogs, logger.Nop())

	ctx := audit.WithRequestMeta(context.Background(), audit.RequestMeta{IP: "10.0.0.7", UserAgent: "curl/8.0"})
	ok := rec.Record(ctx, audit.Entry{
		CompanyID: "c1", UserID: "u1", Action: entity.AuditUserLogin, Message: "ingreso",
	})
	require.True(t, ok)

	logs := db.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "user_login", logs[0].Action)
	assert.Equal(t, "10.0.0.7", logs[0].IPAddress)
	assert.Equal(t, map[string]any{"message": "ingreso", "ip": "10.0.0.7", "user_agent": "curl/8.0"}, logs[0].Details)
}

func TestRecord_FallaNoPropagaYLoguea(t *testing.T) {
	db := memstore.New()
	db.FailAudit = memstore.ErrAuditUnavailable
	var buf bytes.Buffer
	rec := audit.NewRecorder(db.Store().AuditLogs, logger.FromWriter(&buf))

	ok := rec.Record(context.Background(), audit.Entry{CompanyID: "c1", Action: entity.AuditUserLogin})

	assert.False(t, ok)
	assert.Empty(t, db.AuditLogs())
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "user_login")
}

func TestWrite_ValidaCampos(t *testing.T) {
	db := memstore.New()
	err := audit.Write(context.Background(), db.Store().AuditLogs, audit.Entry{Action: "x"})
	assert.Error(t, err)
}

func TestList_SoloEmpresaYMasRecientePrimero(t *testing.T) {
	db := memstore.New()
	rec := audit.NewRecorder(db.Store().AuditLogs, nil)
	ctx := context.Background()
	rec.Record(ctx, audit.Entry{CompanyID: "c1", Action: "a"})
	rec.Record(ctx, audit.Entry{CompanyID: "c2", Action: "b"})
	rec.Record(ctx, audit.Entry{CompanyID: "c1", Action: "c"})

	out, err := rec.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.AuditLogs, 2)
	assert.Equal(t, "c", out.AuditLogs[0].Action)
	assert.Equal(t, "a", out.AuditLogs[1].Action)
	assert.Equal(t, 2, out.Pagination.Total)
}
