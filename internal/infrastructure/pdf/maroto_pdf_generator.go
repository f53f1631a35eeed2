// Package pdf genera la representación PDF de cotizaciones y facturas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + contacto  │  Tipo + N° + Fecha + Estado  │
//	│  CLIENTE: Nombre + NIT/CC + contacto                         │
//	│  TABLA: Cant | Descripción | P.Unit | Desc% | IVA% | Total   │
//	│  TOTALES: Subtotal / Descuento / Impuestos / TOTAL           │
//	│  NOTAS + leyenda según el tipo de documento                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ billing.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los montos se formatean en es-CO.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// Generate arma el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(_ context.Context, doc billing.Document) ([]byte, error) {
	if doc.Company == nil || doc.Customer == nil {
		return nil, fmt.Errorf("pdf: documento %s sin empresa o cliente", doc.Number)
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(doc.Kind)+" "+doc.Number, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(doc.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc.Totals))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func title(kind billing.DocumentKind) string {
	if kind == billing.KindInvoice {
		return "FACTURA"
	}
	return "COTIZACIÓN"
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(doc billing.Document) core.Row {
	dateLabel := "Fecha: " + doc.IssueDate.Format("02/01/2006")
	if doc.DueDate != nil {
		due := "Vence: "
		if doc.Kind == billing.KindQuotation {
			due = "Válida hasta: "
		}
		dateLabel += "   " + due + doc.DueDate.Format("02/01/2006")
	}
	c := doc.Company
	return row.New(22).Add(
		col.New(7).Add(
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   Tel: %s", nonEmpty(c.Address, "-"), nonEmpty(c.Phone, "-")),
				props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New(nonEmpty(c.Email, ""), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(title(doc.Kind), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(doc.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New(dateLabel, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
			text.New("Estado: "+doc.Status, props.Text{Size: 8, Align: align.Right, Top: 18, Color: colorGray}),
		),
	)
}

func customerRow(cu *entity.Customer) core.Row {
	name := cu.FullName()
	if cu.CompanyName != "" {
		name = cu.CompanyName + " (" + name + ")"
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(cu.TaxID, "-"), nonEmpty(cu.Email, "-"), nonEmpty(cu.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc%", 1, align.Center),
		h("IVA%", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) itemRows(items []entity.LineItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.DiscountPercent.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(it.TaxPercent.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(it.LineTotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func (g *MarotoPDFGenerator) totalsRow(t entity.Totals) core.Row {
	label := func(s string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Top: top}
		if bold {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		return text.New(s, p)
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0, false),
			label("Descuento:", 5, false),
			label("Impuestos:", 10, false),
			label("TOTAL:", 16, true),
		),
		col.New(3).Add(
			label(g.money(t.Subtotal), 0, false),
			label("-"+g.money(t.DiscountAmount), 5, false),
			label(g.money(t.TaxAmount), 10, false),
			label(g.money(t.Total), 16, true),
		),
	)
}

func footerRows(doc billing.Document) []core.Row {
	var rows []core.Row
	if doc.Notes != "" {
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(text.New("NOTAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}))),
			row.New(12).Add(col.New(12).Add(text.New(doc.Notes, props.Text{Size: 8, Top: 1}))),
		)
	}
	legend := "Esta cotización no constituye factura. Precios sujetos a la fecha de validez indicada."
	if doc.Kind == billing.KindInvoice {
		legend = "Gracias por su compra. Conserve este documento como soporte de pago."
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(legend, props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Center}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separadores de miles locales y dos decimales.
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return g.printer.Sprintf("$%.2f", f)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
