package jobs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
)

// DailyReport envía a admins y managers el resumen del día anterior.
// Una empresa que falla se registra y no frena a las demás.
func (r *Runner) DailyReport(ctx context.Context) error {
	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -1)

	companies, err := r.store.Companies.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listar empresas: %w", err)
	}
	var errs []error
	for _, c := range companies {
		if err := r.reportCompany(ctx, c, from, today); err != nil {
			r.log.Error().Err(err).Str("company_id", c.ID).Msg("reporte diario: empresa omitida")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) reportCompany(ctx context.Context, c *entity.Company, from, to time.Time) error {
	stats, err := r.analytics.PeriodStats(ctx, c.ID, from, to)
	if err != nil {
		return fmt.Errorf("estadísticas de %s: %w", c.ID, err)
	}
	recipients, err := r.store.Users.ListByRoles(ctx, c.ID, entity.RoleAdmin, entity.RoleManager)
	if err != nil {
		return fmt.Errorf("destinatarios de %s: %w", c.ID, err)
	}
	if len(recipients) == 0 {
		return nil
	}
	emails := make([]string, 0, len(recipients))
	for _, u := range recipients {
		emails = append(emails, u.Email)
	}
	r.send(ctx, c.ID, reportEmail(c, from, stats, emails))
	return nil
}

func reportEmail(c *entity.Company, day time.Time, s repository.PeriodStats, to []string) ports.Email {
	date := day.Format("2006-01-02")
	text := fmt.Sprintf("Resumen %s de %s\nLeads nuevos: %d\nClientes nuevos: %d\nFacturas pagadas: %d\nIngresos: %s",
		date, c.Name, s.NewLeads, s.NewCustomers, s.PaidInvoices, s.PaidRevenue.StringFixed(2))
	body := fmt.Sprintf(`<h2>Resumen %s de %s</h2><table>
<tr><td>Leads nuevos</td><td>%d</td></tr>
<tr><td>Clientes nuevos</td><td>%d</td></tr>
<tr><td>Facturas pagadas</td><td>%d</td></tr>
<tr><td>Ingresos</td><td>%s</td></tr>
</table>`, date, html.EscapeString(c.Name), s.NewLeads, s.NewCustomers, s.PaidInvoices, s.PaidRevenue.StringFixed(2))
	return ports.Email{To: to, Subject: fmt.Sprintf("[%s] Reporte diario %s", c.Name, date), HTML: body, Text: text}
}
