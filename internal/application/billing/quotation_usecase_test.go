package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
)

func TestQuotation_CreateCalculaTotales(t *testing.T) {
	f := newFixture(t)
	q := f.quotation(t)

	// 2 x 100 + 19% = 238; 50 - 10% = 45 sin impuesto.
	require.Len(t, q.Items, 2)
	assert.Equal(t, "Licencia", q.Items[0].Description)
	assert.True(t, d("238").Equal(q.Items[0].LineTotal))
	assert.True(t, d("45").Equal(q.Items[1].LineTotal))
	assert.True(t, d("245").Equal(q.Totals.Subtotal))
	assert.True(t, d("38").Equal(q.Totals.TaxAmount))
	assert.True(t, d("283").Equal(q.Totals.Total))
	assert.Equal(t, "draft", q.Status)
	assert.Regexp(t, `^QT-\d{8}-[0-9A-F]{8}$`, q.Number)
	assert.Equal(t, 1, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationCreated))
}

func TestQuotation_CreateValidaClienteYLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.quotes.Create(ctx, f.scope, dto.CreateQuotationRequest{CustomerID: "otro", Subject: "x",
		Items: []dto.LineItemRequest{{ProductID: f.product, Quantity: d("1")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.quotes.Create(ctx, f.scope, dto.CreateQuotationRequest{CustomerID: f.customer, Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.quotes.Create(ctx, f.scope, dto.CreateQuotationRequest{CustomerID: f.customer, Subject: "x",
		Items: []dto.LineItemRequest{{Description: "libre", Quantity: d("1")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "línea libre sin unit_price")

	_, err = f.quotes.Create(ctx, f.scope, dto.CreateQuotationRequest{CustomerID: f.customer, Subject: "x",
		Items: []dto.LineItemRequest{{ProductID: f.product, Quantity: d("0")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuotation_Convert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	validUntil := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	q, err := f.quotes.Create(ctx, f.scope, dto.CreateQuotationRequest{
		CustomerID: f.customer, Subject: "Propuesta", ValidUntil: &validUntil, Notes: "net 30",
		Items: []dto.LineItemRequest{{ProductID: f.product, Quantity: d("3")}},
	})
	require.NoError(t, err)

	out, err := f.quotes.Convert(ctx, f.scope, q.ID)
	require.NoError(t, err)

	assert.Equal(t, "converted", out.Quotation.Status)
	assert.Equal(t, out.Invoice.ID, out.Quotation.ConvertedInvoiceID)
	assert.Equal(t, q.ID, out.Invoice.QuotationID)
	assert.Equal(t, "draft", out.Invoice.Status)
	assert.Equal(t, "Propuesta", out.Invoice.Subject)
	assert.Equal(t, "net 30", out.Invoice.Notes)
	require.NotNil(t, out.Invoice.DueDate)
	assert.True(t, validUntil.Equal(*out.Invoice.DueDate))
	assert.True(t, q.Totals.Total.Equal(out.Invoice.Totals.Total))
	assert.Len(t, out.Invoice.Items, 1)
	assert.NotEqual(t, q.Items[0].ID, out.Invoice.Items[0].ID)
	assert.Regexp(t, `^INV-`, out.Invoice.Number)

	_, err = f.quotes.Convert(ctx, f.scope, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una cotización convertida no se vuelve a convertir")
	assert.Equal(t, 1, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationConverted))
}

func TestQuotation_ConvertRechazadaFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)
	_, err := f.quotes.UpdateStatus(ctx, f.scope, q.ID, "rejected")
	require.NoError(t, err)

	_, err = f.quotes.Convert(ctx, f.scope, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := f.invoices.List(ctx, f.scope, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Invoices)
}

func TestQuotation_ConvertSinAuditoriaNoDejaFactura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)

	f.db.FailAudit = memstore.ErrAuditUnavailable
	_, err := f.quotes.Convert(ctx, f.scope, q.ID)
	require.ErrorIs(t, err, memstore.ErrAuditUnavailable)
	f.db.FailAudit = nil

	got, err := f.quotes.Get(ctx, f.scope, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Status)
	assert.Empty(t, got.ConvertedInvoiceID)
	list, err := f.invoices.List(ctx, f.scope, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Invoices)
}

func TestQuotation_UpdateStatusNoPermiteConverted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)

	_, err := f.quotes.UpdateStatus(ctx, f.scope, q.ID, "converted")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.quotes.UpdateStatus(ctx, f.scope, q.ID, "ganada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.quotes.UpdateStatus(ctx, f.scope, q.ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, "accepted", got.Status)
}

func TestQuotation_DuplicateCopiaTotalesTalCual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)
	_, err := f.quotes.Convert(ctx, f.scope, q.ID)
	require.NoError(t, err)

	dup, err := f.quotes.Duplicate(ctx, f.scope, q.ID)
	require.NoError(t, err)

	assert.NotEqual(t, q.ID, dup.ID)
	assert.NotEqual(t, q.Number, dup.Number)
	assert.Equal(t, billing.CopyPrefix+q.Subject, dup.Subject)
	assert.Equal(t, "draft", dup.Status)
	assert.Empty(t, dup.ConvertedInvoiceID)
	assert.True(t, q.Totals.Total.Equal(dup.Totals.Total))
	assert.Len(t, dup.Items, len(q.Items))
	assert.Equal(t, 1, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationDuplicated))
}

func TestQuotation_Recompute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)

	got, err := f.quotes.Recompute(ctx, f.scope, q.ID)
	require.NoError(t, err)
	assert.True(t, q.Totals.Total.Equal(got.Totals.Total))
	assert.Equal(t, 1, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationRecomputed))

	_, err = f.quotes.Convert(ctx, f.scope, q.ID)
	require.NoError(t, err)
	_, err = f.quotes.Recompute(ctx, f.scope, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestQuotation_OtraEmpresaNoLaVe(t *testing.T) {
	f := newFixture(t)
	q := f.quotation(t)
	other := tenant.Scope{CompanyID: "c-otra", UserID: "u-otra", Role: entity.RoleAdmin}

	_, err := f.quotes.Get(context.Background(), other, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.quotes.Convert(context.Background(), other, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuotation_ListFiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.quotation(t)
	f.quotation(t)
	_, err := f.quotes.UpdateStatus(ctx, f.scope, a.ID, "sent")
	require.NoError(t, err)

	all, err := f.quotes.List(ctx, f.scope, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Pagination.Total)

	sent, err := f.quotes.List(ctx, f.scope, "sent", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, sent.Quotations, 1)
	assert.Equal(t, a.ID, sent.Quotations[0].ID)

	_, err = f.quotes.List(ctx, f.scope, "won", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuotation_SendAdjuntaPDFYMarcaSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)

	out, err := f.quotes.Send(ctx, f.scope, q.ID, dto.SendQuotationRequest{To: "jane@client.io"})
	require.NoError(t, err)
	assert.Empty(t, out.Warning)
	assert.Equal(t, "sent", out.Quotation.Status)

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, []string{"jane@client.io"}, mail.To)
	require.Len(t, mail.Attachments, 1)
	assert.Equal(t, "cotizacion_"+q.Number+".pdf", mail.Attachments[0].Filename)
	assert.Equal(t, billing.KindQuotation, f.pdf.last.Kind)
	assert.Equal(t, "Jane", f.pdf.last.Customer.FirstName)
	assert.Equal(t, 1, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationSent))
}

func TestQuotation_SendEscapaElMensaje(t *testing.T) {
	f := newFixture(t)
	q := f.quotation(t)

	_, err := f.quotes.Send(context.Background(), f.scope, q.ID, dto.SendQuotationRequest{
		To:      "jane@client.io",
		Message: "<b>hola</b>\n<img src=x onerror=alert(1)>",
	})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, "<p>&lt;b&gt;hola&lt;/b&gt;<br>&lt;img src=x onerror=alert(1)&gt;</p>", mail.HTML)
	assert.Equal(t, "<b>hola</b>\n<img src=x onerror=alert(1)>", mail.Text)
}

func TestQuotation_SendCorreoFallidoDevuelveWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)
	f.mailer.err = errors.New("smtp caído")

	out, err := f.quotes.Send(ctx, f.scope, q.ID, dto.SendQuotationRequest{To: "jane@client.io"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Warning)
	assert.Equal(t, "draft", out.Quotation.Status)
	assert.Zero(t, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationSent))

	_, err = f.quotes.Send(ctx, f.scope, q.ID, dto.SendQuotationRequest{To: "sin-arroba"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuotation_UpdateCabeceraYLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)
	require.NoError(t, f.db.Store().Customers.Create(ctx, &entity.Customer{
		ID: "cu-2", CompanyID: f.scope.CompanyID, FirstName: "John", Email: "john@client.io",
	}))
	validUntil := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)

	out, err := f.quotes.Update(ctx, f.scope, q.ID, dto.UpdateQuotationRequest{
		CustomerID: "cu-2", Subject: " Propuesta revisada ", ValidUntil: &validUntil, Notes: "net 15",
	})
	require.NoError(t, err)
	assert.Equal(t, "cu-2", out.CustomerID)
	assert.Equal(t, "Propuesta revisada", out.Subject)
	assert.Equal(t, "net 15", out.Notes)
	require.NotNil(t, out.ValidUntil)
	assert.True(t, validUntil.Equal(*out.ValidUntil))
	assert.Len(t, out.Items, 2, "sin items conserva las líneas")
	assert.True(t, q.Totals.Total.Equal(out.Totals.Total))

	out, err = f.quotes.Update(ctx, f.scope, q.ID, dto.UpdateQuotationRequest{
		Subject: "Solo licencia", Items: []dto.LineItemRequest{{ProductID: f.product, Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "cu-2", out.CustomerID, "customer_id vacío no cambia el cliente")
	require.Len(t, out.Items, 1)
	assert.True(t, d("119").Equal(out.Totals.Total))
	assert.Equal(t, 2, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationUpdated))
}

func TestQuotation_UpdateValida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)

	_, err := f.quotes.Update(ctx, f.scope, q.ID, dto.UpdateQuotationRequest{Subject: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.quotes.Update(ctx, f.scope, q.ID, dto.UpdateQuotationRequest{Subject: "x", CustomerID: "de-otra-empresa"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.quotes.Update(ctx, f.scope, "no-existe", dto.UpdateQuotationRequest{Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.quotes.Convert(ctx, f.scope, q.ID)
	require.NoError(t, err)
	_, err = f.quotes.Update(ctx, f.scope, q.ID, dto.UpdateQuotationRequest{Subject: "tarde"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Zero(t, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationUpdated))
}

func TestQuotation_DeleteConservaLaFacturaConvertida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.quotation(t)
	conv, err := f.quotes.Convert(ctx, f.scope, q.ID)
	require.NoError(t, err)

	require.NoError(t, f.quotes.Delete(ctx, f.scope, q.ID))

	_, err = f.quotes.Get(ctx, f.scope, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	inv, err := f.invoices.Get(ctx, f.scope, conv.Invoice.ID)
	require.NoError(t, err)
	assert.Empty(t, inv.QuotationID)
	assert.Equal(t, 1, countAction(f.db, f.scope.CompanyID, entity.AuditQuotationDeleted))

	err = f.quotes.Delete(ctx, f.scope, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	other := tenant.Scope{CompanyID: "c-otra", UserID: "u-otra", Role: entity.RoleAdmin}
	q2 := f.quotation(t)
	err = f.quotes.Delete(ctx, other, q2.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
