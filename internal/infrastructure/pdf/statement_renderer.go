// Package pdf genera el estado de cuenta "por pagar" de multas y prediales.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título por categoría + cuenta  │  Fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Concepto | Expedida | Límite | Importe           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL A PAGAR                                               │
//	│  REFERENCIAS BANCARIAS: Banco | Referencia | Cuenta | CLABE  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: agradecimiento de Tesorería                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 21, Green: 101, Blue: 192}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 238, Green: 238, Blue: 238}
)

// BankReference cuenta bancaria donde el ciudadano puede pagar en ventanilla.
type BankReference struct {
	Bank      string
	Reference string
	Account   string
	CLABE     string
}

// DefaultBankReferences referencias impresas cuando no se configuran otras.
var DefaultBankReferences = []BankReference{
	{Bank: "BBVA Bancomer", Reference: "PDREF123", Account: "4152-3138-7891-0001", CLABE: "014320415231387891"},
	{Bank: "AFIRME", Reference: "PDREF456", Account: "4152-0000-1111-2222", CLABE: "014320415200011122"},
	{Bank: "Banorte", Reference: "PDREF789", Account: "4152-3333-4444-5555", CLABE: "014320415233334455"},
}

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ statement.Renderer = (*StatementRenderer)(nil)

// StatementRenderer implementa statement.Renderer usando Maroto v2.
type StatementRenderer struct {
	issuer string
	banks  []BankReference
}

// NewStatementRenderer construye el generador. banks nil usa DefaultBankReferences.
func NewStatementRenderer(issuer string, banks []BankReference) *StatementRenderer {
	if banks == nil {
		banks = DefaultBankReferences
	}
	return &StatementRenderer{issuer: issuer, banks: banks}
}

// RenderStatement genera el PDF y devuelve sus bytes.
func (g *StatementRenderer) RenderStatement(_ context.Context, doc statement.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(doc.Account), true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)
	if err := m.RegisterFooter(footerRow(g.issuer)); err != nil {
		return nil, fmt.Errorf("pdf: registrar footer: %w", err)
	}

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Obligations)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(doc))

	m.AddRows(row.New(6))
	m.AddRows(bankRows(g.banks)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func title(account entity.AccountRef) string {
	if account.Category == entity.CategoryAssessment {
		return "Pago Predial — Domicilio " + account.Key
	}
	return "Pago Infracciones de Tránsito — Placa " + account.Key
}

// headerRow: título por categoría (izq) y fecha de emisión (der).
func headerRow(doc statement.Document) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title(doc.Account), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d obligaciones pendientes", len(doc.Obligations)), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+doc.GeneratedAt.Format("02-01-2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
	}))
}

// tableHeaderRow: cabecera de la tabla de obligaciones.
func tableHeaderRow() core.Row {
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorLight}).Add(
		headerCell("#", 1, align.Center),
		headerCell("Concepto", 5, align.Left),
		headerCell("Expedida", 2, align.Center),
		headerCell("Fecha límite", 2, align.Center),
		headerCell("Importe", 2, align.Right),
	)
}

// tableDetailRows: una fila por obligación pendiente.
func tableDetailRows(list []*entity.Obligation) []core.Row {
	result := make([]core.Row, 0, len(list))
	for i, o := range list {
		concept := o.Concept
		if concept == "" {
			concept = nonEmpty(o.Address, "—")
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(concept, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(o.IssuedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(o.DueAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.Format(o.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalRow: total a pagar alineado a la derecha.
func totalRow(doc statement.Document) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(6).Add(text.New("Total a pagar: "+money.Format(doc.Total), props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// bankRows: referencias para pago en bancos.
func bankRows(banks []BankReference) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(text.New("Referencias para pago en bancos", props.Text{
			Style: fontstyle.Bold, Size: 11, Top: 1,
		}))),
		row.New(7).WithStyle(&props.Cell{BackgroundColor: colorLight}).Add(
			headerCell("Banco", 2, align.Left),
			headerCell("Referencia", 3, align.Left),
			headerCell("Cuenta", 3, align.Left),
			headerCell("CLABE", 4, align.Left),
		),
	}
	for _, b := range banks {
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(b.Bank, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(b.Reference, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(b.Account, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(b.CLABE, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return rows
}

func footerRow(issuer string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("Cuida de los pequeños gastos; un pequeño agujero hunde un barco.", props.Text{
			Style: fontstyle.Italic, Size: 9, Align: align.Center, Color: colorGray, Top: 2,
		}),
		text.New("Gracias por su pago. Atentamente, "+issuer+".", props.Text{
			Style: fontstyle.Italic, Size: 9, Align: align.Center, Color: colorGray, Top: 7,
		}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
