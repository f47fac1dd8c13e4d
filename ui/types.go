// Package ui provides the terminal preview for generated heightmaps.
// Panels are described through field metadata rather than hard-coded
// layouts, so new run statistics only need a descriptor.
package ui

import "github.com/charmbracelet/lipgloss"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText WidgetType = iota // Plain text with format string
	WidgetBar                    // Progress bar over Range
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float64
	Max float64
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID         string            // Unique identifier for the field
	Label      string            // Display label
	Widget     WidgetType        // How to render
	Format     string            // Printf format for text (e.g., "%.2f")
	Range      FieldRange        // Value range for bars
	Getter     func(any) float64 // Value extractor (for numeric fields)
	TextGetter func(any) string  // Value extractor (for text fields)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID     string            // Unique identifier
	Title  string            // Section header text
	Fields []FieldDescriptor // Fields in this section
}

// Theme holds UI styling.
type Theme struct {
	Panel         lipgloss.Style
	SectionHeader lipgloss.Style
	Label         lipgloss.Style
	Value         lipgloss.Style
	BarFill       lipgloss.Style
	BarBg         lipgloss.Style
	Error         lipgloss.Style
	Help          lipgloss.Style
	LabelWidth    int
	BarWidth      int
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C4650")).
			Padding(0, 1),
		SectionHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD400")),
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		Value:         lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0")),
		BarFill:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6496C8")),
		BarBg:         lipgloss.NewStyle().Foreground(lipgloss.Color("#282828")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("#E10600")),
		Help:          lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#888888")),
		LabelWidth:    10,
		BarWidth:      16,
	}
}
