package components

import (
	"fmt"
	"html/template"
)

// SpacingUnit is the base spacing step in pixels.
const SpacingUnit = 8

func spacing(units int) string {
	return fmt.Sprintf("%dpx", units*SpacingUnit)
}

// ThreeColumnLayout is a grid with fixed-width side columns around a flexible centre.
type ThreeColumnLayout struct {
	Left   string
	Center string
	Right  string
	Gap    int
}

// DefaultThreeColumn is the book page grid: 280px sidebars and a flexible centre column.
func DefaultThreeColumn() ThreeColumnLayout {
	return ThreeColumnLayout{Left: "280px", Center: "1fr", Right: "280px", Gap: 4}
}

// Style returns the inline grid declaration.
func (l ThreeColumnLayout) Style() template.CSS {
	return template.CSS(fmt.Sprintf(
		"display: grid; grid-template-columns: %s %s %s; gap: %s; align-items: start;",
		l.Left, l.Center, l.Right, spacing(l.Gap),
	))
}

// PageContainer is the outer page wrapper.
type PageContainer struct {
	MarginTop    int
	MarginBottom int
}

func DefaultPageContainer() PageContainer {
	return PageContainer{MarginTop: 4, MarginBottom: 10}
}

func (p PageContainer) Style() template.CSS {
	return template.CSS(fmt.Sprintf("margin-top: %s; margin-bottom: %s;", spacing(p.MarginTop), spacing(p.MarginBottom)))
}
