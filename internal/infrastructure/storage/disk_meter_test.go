package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/infrastructure/storage"
)

func TestDiskMeter_SumaSoloLaCarpetaDeLaEmpresa(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c-acme", "pdf"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c-otra"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c-acme", "logo.png"), make([]byte, 100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c-acme", "pdf", "q.pdf"), make([]byte, 50), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c-otra", "x.bin"), make([]byte, 999), 0o644))

	m := storage.NewDiskMeter(root)
	n, err := m.CompanyBytes(context.Background(), "c-acme")
	require.NoError(t, err)
	assert.Equal(t, int64(150), n)
}

func TestDiskMeter_SinCarpetaOIdRaroEsCero(t *testing.T) {
	root := t.TempDir()
	m := storage.NewDiskMeter(root)

	n, err := m.CompanyBytes(context.Background(), "c-nueva")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = m.CompanyBytes(context.Background(), "../etc")
	require.NoError(t, err)
	assert.Zero(t, n)
}
