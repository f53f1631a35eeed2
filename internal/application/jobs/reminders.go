package jobs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/SalesERP-api/internal/application/ports"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// Reminders avisa a cada responsable de sus tareas vencidas y seguimientos de leads atrasados.
// Lo que no tiene responsable se omite. Una empresa que falla se registra y no frena a las demás.
func (r *Runner) Reminders(ctx context.Context) error {
	now := r.now()
	companies, err := r.store.Companies.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listar empresas: %w", err)
	}
	var errs []error
	for _, c := range companies {
		if err := r.remindCompany(ctx, c, now); err != nil {
			r.log.Error().Err(err).Str("company_id", c.ID).Msg("recordatorios: empresa omitida")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) remindCompany(ctx context.Context, c *entity.Company, now time.Time) error {
	pending := map[string][]string{}

	tasks, err := r.store.Tasks.ListOverdue(ctx, c.ID, now)
	if err != nil {
		return fmt.Errorf("tareas vencidas de %s: %w", c.ID, err)
	}
	for _, t := range tasks {
		if t.AssignedTo == "" {
			continue
		}
		pending[t.AssignedTo] = append(pending[t.AssignedTo],
			fmt.Sprintf("Tarea vencida: %s (vence %s)", t.Title, t.DueDate.Format("2006-01-02 15:04")))
	}

	leads, err := r.store.Leads.ListFollowUpsDue(ctx, c.ID, now)
	if err != nil {
		return fmt.Errorf("seguimientos de %s: %w", c.ID, err)
	}
	for _, l := range leads {
		if l.AssignedTo == "" {
			continue
		}
		pending[l.AssignedTo] = append(pending[l.AssignedTo],
			fmt.Sprintf("Seguimiento pendiente: %s (%s)", l.FullName(), l.NextFollowUp.Format("2006-01-02 15:04")))
	}

	userIDs := make([]string, 0, len(pending))
	for id := range pending {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)
	for _, id := range userIDs {
		u, err := r.store.Users.GetByID(ctx, c.ID, id)
		if err != nil {
			return fmt.Errorf("usuario %s: %w", id, err)
		}
		if u == nil || !u.IsActive {
			continue
		}
		lines := pending[id]
		r.send(ctx, c.ID, ports.Email{
			To:      []string{u.Email},
			Subject: fmt.Sprintf("Tienes %d pendientes", len(lines)),
			HTML:    htmlList(lines),
			Text:    strings.Join(lines, "\n"),
		})
	}
	return nil
}

// htmlList arma un <ul> escapando cada línea: títulos y nombres los escribe el usuario.
func htmlList(lines []string) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, l := range lines {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(l))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
