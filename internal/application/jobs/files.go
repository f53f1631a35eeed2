package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Cleanup borra los archivos subidos más viejos que la retención. Devuelve cuántos borró.
// Las carpetas se conservan aunque queden vacías.
func (r *Runner) Cleanup(ctx context.Context) (int, error) {
	if r.cfg.UploadDir == "" {
		return 0, nil
	}
	cutoff := r.now().AddDate(0, 0, -r.cfg.RetentionDays)
	removed := 0
	err := filepath.WalkDir(r.cfg.UploadDir, func(path string, d fs.DirEntry, err error) error {
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
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("borrar %s: %w", path, err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, err
	}
	r.log.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("limpieza de archivos")
	return removed, nil
}

// CompanyCounts filas por tabla de una empresa en el resumen de respaldo.
type CompanyCounts struct {
	CompanyID  string `json:"company_id"`
	Subdomain  string `json:"subdomain"`
	Users      int    `json:"users"`
	Leads      int    `json:"leads"`
	Customers  int    `json:"customers"`
	Quotations int    `json:"quotations"`
	Invoices   int    `json:"invoices"`
}

// BackupSummary contenido del archivo de respaldo lógico.
type BackupSummary struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Companies   []CompanyCounts `json:"companies"`
}

// Backup escribe en BackupDir un resumen JSON con los conteos por empresa y devuelve la ruta.
func (r *Runner) Backup(ctx context.Context) (string, error) {
	now := r.now()
	companies, err := r.store.Companies.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("listar empresas: %w", err)
	}
	summary := BackupSummary{GeneratedAt: now, Companies: make([]CompanyCounts, 0, len(companies))}
	for _, c := range companies {
		totals, err := r.analytics.Totals(ctx, c.ID)
		if err != nil {
			return "", fmt.Errorf("conteos de %s: %w", c.ID, err)
		}
		users, err := r.store.Users.ListByCompany(ctx, c.ID)
		if err != nil {
			return "", fmt.Errorf("usuarios de %s: %w", c.ID, err)
		}
		counts := CompanyCounts{
			CompanyID: c.ID, Subdomain: c.Subdomain, Users: len(users),
			Leads: totals.Leads, Customers: totals.Customers, Quotations: totals.Quotations, Invoices: totals.Invoices,
		}
		summary.Companies = append(summary.Companies, counts)
		r.log.Info().Str("company_id", c.ID).Int("users", counts.Users).Int("leads", counts.Leads).
			Int("customers", counts.Customers).Int("quotations", counts.Quotations).Int("invoices", counts.Invoices).
			Msg("respaldo: conteos")
	}

	if err := os.MkdirAll(r.cfg.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de respaldo: %w", err)
	}
	body, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(r.cfg.BackupDir, "backup_"+now.Format("20060102_150405")+".json")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("escribir respaldo: %w", err)
	}
	return path, nil
}
