// Package pdf genera la hoja de despacho de una orden de movimiento.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + GS1        │  Tipo + N° Orden + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINO / ESTADO / CREADA POR                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Referencia | Serial | EPC | Cód. ant. | Estado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la clave de la orden + total de líneas       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/Retail-api/internal/application/returns"
)

var _ returns.SlipRenderer = (*MarotoSlipRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoSlipRenderer implementa returns.SlipRenderer usando Maroto v2.
type MarotoSlipRenderer struct{}

// NewMarotoSlipRenderer construye el renderer.
func NewMarotoSlipRenderer() *MarotoSlipRenderer { return &MarotoSlipRenderer{} }

// RenderOrderSlip genera el PDF y devuelve sus bytes.
func (g *MarotoSlipRenderer) RenderOrderSlip(_ context.Context, slip returns.OrderSlip) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden "+orderKey(slip), true).
		WithAuthor(slip.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(slip.Lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(slip returns.OrderSlip) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(slip.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("GS1: "+nonEmpty(slip.Company.GS1CompanyID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(nonEmpty(slip.TypeMovement.Name, "Orden")), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(orderKey(slip), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+slip.Order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func infoRow(slip returns.OrderSlip) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA ORDEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Destino: %s   |   Estado: %s   |   Creada por: %s",
				nonEmpty(slip.Order.Destination, "—"),
				nonEmpty(slip.Status.Name, "—"),
				nonEmpty(slip.CreatedBy, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
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
		h("#", 1, align.Center),
		h("Referencia", 3, align.Left),
		h("Serial", 2, align.Left),
		h("EPC", 3, align.Left),
		h("Cód. ant.", 1, align.Left),
		h("Estado", 2, align.Left),
	)
}

func tableLineRows(lines []returns.SlipLine) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1}))
	}
	result := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		result = append(result, row.New(7).Add(
			cell(strconv.Itoa(i+1), 1, align.Center),
			cell(nonEmpty(l.SkuName, "—"), 3, align.Left),
			cell(nonEmpty(l.Serial, "—"), 2, align.Left),
			cell(nonEmpty(l.EPC, "—"), 3, align.Left),
			cell(nonEmpty(l.LegacyCode, "—"), 1, align.Left),
			cell(nonEmpty(l.Status, "—"), 2, align.Left),
		))
	}
	return result
}

// footerRow: QR con la clave de la orden para escanear en bodega.
func footerRow(slip returns.OrderSlip) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(orderKey(slip), props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New(fmt.Sprintf("Total de líneas: %d", len(slip.Lines)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
			}),
			text.New("Escanea el código QR para abrir la orden.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// orderKey clave visible de la orden: iniciales del tipo + id (ej. "RE-000014").
func orderKey(slip returns.OrderSlip) string {
	return fmt.Sprintf("%s-%06d", nonEmpty(slip.TypeMovement.Initials, "OR"), slip.Order.ID)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
