// Package pdf implementa la tarjeta de visita de un empleado con Maroto v2.
//
// Layout (tamaño tarjeta estándar 85.6 × 54 mm, apaisado):
//
//	┌─────────────────────────────────────────┐
//	│  NOMBRE COMPLETO                        │
//	│  Cargo · Departamento                   │
//	│  ─────────────────────────────────────  │
//	│  email · teléfono                       │
//	└─────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Carnet-api/internal/application/card"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ card.Renderer = (*MarotoCardRenderer)(nil)

// MarotoCardRenderer implementa card.Renderer usando Maroto v2.
type MarotoCardRenderer struct {
	companyName string
}

// NewMarotoCardRenderer construye el renderer. companyName aparece en el pie
// de la tarjeta.
func NewMarotoCardRenderer(companyName string) *MarotoCardRenderer {
	return &MarotoCardRenderer{companyName: companyName}
}

// RenderCard genera el PDF de la tarjeta y devuelve sus bytes.
func (g *MarotoCardRenderer) RenderCard(_ context.Context, e *entity.Employee) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(85.6, 54).
		WithLeftMargin(6).WithRightMargin(6).
		WithTopMargin(6).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Tarjeta de visita", true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(9).Add(
		col.New(12).Add(
			text.New(e.FullName, props.Text{
				Size: 12, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Left,
			}),
		),
	))
	m.AddRows(row.New(6).Add(
		col.New(12).Add(
			text.New(subtitle(e), props.Text{Size: 8, Color: colorGray, Align: align.Left}),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(row.New(6).Add(
		col.New(12).Add(
			text.New(contactLine(e), props.Text{Size: 7, Align: align.Left}),
		),
	))
	if g.companyName != "" {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(
				text.New(g.companyName, props.Text{
					Size: 7, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right,
				}),
			),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tarjeta: %w", err)
	}
	return doc.GetBytes(), nil
}

func subtitle(e *entity.Employee) string {
	parts := make([]string, 0, 2)
	if e.Designation != "" {
		parts = append(parts, e.Designation)
	}
	if e.Department != "" {
		parts = append(parts, e.Department)
	}
	return strings.Join(parts, " · ")
}

func contactLine(e *entity.Employee) string {
	parts := make([]string, 0, 2)
	if e.Email != "" {
		parts = append(parts, e.Email)
	}
	if e.Phone != "" {
		parts = append(parts, e.Phone)
	}
	return strings.Join(parts, " · ")
}
