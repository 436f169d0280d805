// Package pdf implementa la generación de la Guía de Remisión de un despacho:
// el documento impreso que viaja con la carga y contra el que el centro de
// destino verifica la llegada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Centro de origen  │  N° Remisión + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: tipo / dirección                                   │
//	│  DESTINO: nombre + tipo / dirección                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CARGA: Forma | Calidad | Estado                            │
//	│  TABLA: # | Lote | Peso (kg)                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Peso total despachado                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + observaciones                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/Cafetrace-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 62, Green: 39, Blue: 35}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa supplychain.DispatchNotePDFGenerator usando
// Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDispatchNote genera el PDF de la remisión y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDispatchNote(
	_ context.Context,
	doc *entity.PrimaryDispatch,
	from *entity.Center,
	to *entity.Center,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de Remisión de Despacho", true).
		WithAuthor(from.Name, true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(doc, from))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(origenRow(from))
	m.AddRows(destinoRow(to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Datos de la carga + tabla de lotes
	m.AddRows(cargaRow(doc))
	m.AddRows(tableHeaderRow())
	for _, r := range tableBatchRows(doc.Batches) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	// Footer de verificación
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(doc) {
		m.AddRows(r)
	}

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: centro de origen (izq) y N° de remisión + fecha (der).
func headerRow(doc *entity.PrimaryDispatch, from *entity.Center) core.Row {
	fecha := doc.DispatchDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(from.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Centro de despacho", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("GUÍA DE REMISIÓN DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.ID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// origenRow: datos del centro de origen.
func origenRow(from *entity.Center) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CENTRO DE ORIGEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Tipo: %s   |   Dirección: %s",
				string(from.Type),
				nonEmpty(from.Address, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// destinoRow: datos del centro de destino.
func destinoRow(to *entity.Center) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CENTRO DE DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(to.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tipo: %s   |   Dirección: %s",
				string(to.Type),
				nonEmpty(to.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// cargaRow: forma, calidad y estado operativo de la carga.
func cargaRow(doc *entity.PrimaryDispatch) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("CARGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Forma: %s   |   Calidad: %s   |   Estado: %s",
				string(doc.CoffeeForm),
				nonEmpty(doc.CoffeeGrade, "—"),
				doc.Status,
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de lotes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Lote de procesamiento", 7, align.Left),
		h("Peso (kg)", 4, align.Right),
	)
}

// tableBatchRows: una fila por línea de lote.
func tableBatchRows(batches []entity.DispatchBatch) []core.Row {
	result := make([]core.Row, 0, len(batches))
	for i, b := range batches {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(7).Add(text.New(
				b.BatchRef,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				b.QtyKg.StringFixed(3),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: peso total alineado a la derecha.
func totalsRow(doc *entity.PrimaryDispatch) core.Row {
	return row.New(12).Add(
		col.New(5),
		col.New(4).Add(
			text.New("PESO TOTAL DESPACHADO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 2,
			}),
		),
		col.New(3).Add(
			text.New(doc.WeightInKg.StringFixed(3)+" kg", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 2,
			}),
		),
	)
}

// footerRows: QR de verificación + observaciones + leyenda.
func footerRows(doc *entity.PrimaryDispatch) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("VERIFICACIÓN EN DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(40).Add(
			col.New(4).Add(code.NewQr(doc.ID, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR al registrar la llegada\npara ligar la recepción a este despacho.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("El centro receptor registra el peso llegado;\ntoda diferencia queda en tránsito del origen.", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 18,
					Left: 3, Color: colorPrimary,
				}),
			),
		),
	}

	if doc.Remarks != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Observaciones: "+doc.Remarks, props.Text{
				Size: 7, Color: colorGray, Top: 2,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Este documento acompaña la carga durante el transporte entre centros. "+
				"Consérvelo hasta confirmar la recepción completa.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
