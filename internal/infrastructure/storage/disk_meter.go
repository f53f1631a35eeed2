// Package storage mide el almacenamiento de archivos subidos por empresa.
package storage

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/jhoicas/SalesERP-api/internal/application/billing"
)

var _ billing.StorageMeter = (*DiskMeter)(nil)

// DiskMeter suma los archivos bajo <Root>/<company_id>.
type DiskMeter struct {
	Root string
}

// NewDiskMeter construye el medidor sobre el directorio de subidas.
func NewDiskMeter(root string) *DiskMeter {
	return &DiskMeter{Root: root}
}

// CompanyBytes devuelve 0 si la empresa aún no tiene carpeta.
func (m *DiskMeter) CompanyBytes(ctx context.Context, companyID string) (int64, error) {
	if m.Root == "" || companyID == "" || companyID != filepath.Base(companyID) {
		return 0, nil
	}
	var total int64
	err := filepath.WalkDir(filepath.Join(m.Root, companyID), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
