package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// LabelValue renders a label and value on one line.
func (r *Renderer) LabelValue(label, value string) string {
	l := r.Theme.Label.Width(r.Theme.LabelWidth).Render(label + ":")
	return l + " " + r.Theme.Value.Render(value)
}

// Bar renders a text progress bar for value within rng.
func (r *Renderer) Bar(label string, value float64, rng FieldRange) string {
	frac := 0.0
	if span := rng.Max - rng.Min; span > 0 {
		frac = (value - rng.Min) / span
	}
	frac = math.Max(0, math.Min(1, frac))
	if math.IsNaN(frac) {
		frac = 0
	}

	filled := int(frac*float64(r.Theme.BarWidth) + 0.5)
	bar := r.Theme.BarFill.Render(strings.Repeat("█", filled)) +
		r.Theme.BarBg.Render(strings.Repeat("░", r.Theme.BarWidth-filled))
	return r.LabelValue(label, bar+fmt.Sprintf(" %3.0f%%", frac*100))
}

// Section renders a section header followed by its fields extracted from data.
func (r *Renderer) Section(section SectionDescriptor, data any) string {
	lines := []string{r.Theme.SectionHeader.Render(section.Title)}
	for _, f := range section.Fields {
		lines = append(lines, r.Field(f, data))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Field renders a single descriptor.
func (r *Renderer) Field(f FieldDescriptor, data any) string {
	switch f.Widget {
	case WidgetBar:
		return r.Bar(f.Label, f.Getter(data), f.Range)
	default:
		if f.TextGetter != nil {
			return r.LabelValue(f.Label, f.TextGetter(data))
		}
		format := f.Format
		if format == "" {
			format = "%.3f"
		}
		return r.LabelValue(f.Label, fmt.Sprintf(format, f.Getter(data)))
	}
}

// Panel wraps content in the bordered panel style.
func (r *Renderer) Panel(content string) string {
	return r.Theme.Panel.Render(content)
}
