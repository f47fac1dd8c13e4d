package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/heightmap"
	"github.com/pthm-cable/heightfield/telemetry"
	"github.com/pthm-cable/heightfield/terrain"
)

// generatedMsg carries the result of a background generation.
type generatedMsg struct {
	gen   int
	hm    *heightmap.Heightmap
	stats telemetry.RunStats
	err   error
}

// Model is the bubbletea program that previews each strategy.
type Model struct {
	cfg      config.Config
	keys     *Keymap
	renderer *Renderer
	sections []SectionDescriptor
	names    []string

	index int
	seed  int64
	gen   int // Incremented per request so stale results are dropped

	width  int
	height int

	hm         *heightmap.Heightmap
	stats      telemetry.RunStats
	err        error
	showParams bool
}

// NewModel creates a preview starting at the first registered strategy.
func NewModel(cfg *config.Config) Model {
	return Model{
		cfg:      *cfg,
		keys:     DefaultKeymap(),
		renderer: NewRenderer(),
		sections: runSections(),
		names:    terrain.Names,
		seed:     cfg.Seed,
		width:    cfg.Preview.Width,
		height:   cfg.Preview.Height,
	}
}

// Strategy returns the name of the strategy on screen.
func (m Model) Strategy() string { return m.names[m.index] }

// Seed returns the current seed.
func (m Model) Seed() int64 { return m.seed }

// Err returns the last generation error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.generate()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action, ok := m.keys.Lookup(msg.String())
		if !ok {
			return m, nil
		}
		switch action {
		case ActionQuit:
			return m, tea.Quit
		case ActionToggleParam:
			m.showParams = !m.showParams
			return m, nil
		case ActionNext:
			m.index = (m.index + 1) % len(m.names)
		case ActionPrev:
			m.index = (m.index + len(m.names) - 1) % len(m.names)
		case ActionReseed:
			m.seed++
		case ActionMoreDetail:
			m.adjustDetail(1)
		case ActionLessDetail:
			m.adjustDetail(-1)
		}
		m.gen++
		return m, m.generate()

	case tea.WindowSizeMsg:
		m.width = max(1, min(m.cfg.Preview.Width, msg.Width/2))
		m.height = max(1, min(m.cfg.Preview.Height, msg.Height-3))

	case generatedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.hm, m.stats, m.err = msg.hm, msg.stats, msg.err
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	theme := m.renderer.Theme
	header := theme.SectionHeader.Render(fmt.Sprintf("%s  seed %d", m.Strategy(), m.seed))

	var body string
	switch {
	case m.err != nil:
		body = theme.Error.Render(m.err.Error())
	case m.hm == nil:
		body = "Generating..."
	default:
		body = Render(m.hm, m.width, m.height)
	}

	side := make([]string, 0, len(m.sections)+1)
	if m.hm != nil && m.err == nil {
		for _, s := range m.sections {
			side = append(side, m.renderer.Section(s, m.stats))
		}
	}
	if m.showParams {
		side = append(side, m.paramsYAML())
	}
	if len(side) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ",
			m.renderer.Panel(lipgloss.JoinVertical(lipgloss.Left, side...)))
	}

	return header + "\n" + body + "\n" + theme.Help.Render(m.keys.Help())
}

func (m Model) generate() tea.Cmd {
	cfg, name, seed, gen := m.cfg, m.Strategy(), m.seed, m.gen
	return func() tea.Msg {
		msg := generatedMsg{gen: gen}
		s, err := terrain.New(name, &cfg)
		if err != nil {
			msg.err = err
			return msg
		}
		rng := terrain.NewRNG(seed)
		start := time.Now()
		hm, err := s.Generate(rng)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.hm = hm
		msg.stats = telemetry.NewRunStats(name, seed, rng.Draws(), hm, time.Since(start))
		return msg
	}
}

// adjustDetail changes the parameter controlling how much detail the
// current strategy produces.
func (m *Model) adjustDetail(delta int) {
	c := &m.cfg
	switch m.Strategy() {
	case terrain.NameDiamondSquare:
		n := c.DiamondSquare.Size - 1
		if delta > 0 && n < 1024 {
			n *= 2
		} else if delta < 0 && n > 2 {
			n /= 2
		}
		c.DiamondSquare.Size = n + 1
	case terrain.NameMidpoint:
		c.Midpoint.Iterations = clampInt(c.Midpoint.Iterations+delta, 0, 20)
	case terrain.NameValueNoise:
		c.ValueNoise.Octaves = clampInt(c.ValueNoise.Octaves+delta, 1, 12)
	case terrain.NameGradient:
		c.Gradient.Octaves = clampInt(c.Gradient.Octaves+delta, 1, 12)
	case terrain.NameSimplex:
		c.Simplex.Octaves = clampInt(c.Simplex.Octaves+delta, 1, 12)
	case terrain.NamePerlin:
		c.Perlin.N = int32(clampInt(int(c.Perlin.N)+delta, 1, 12))
	}
}

// paramsYAML renders the configuration section of the current strategy.
func (m Model) paramsYAML() string {
	var key string
	var section any
	switch m.Strategy() {
	case terrain.NameDiamondSquare:
		key, section = "diamond_square", m.cfg.DiamondSquare
	case terrain.NameMidpoint:
		key, section = "midpoint", m.cfg.Midpoint
	case terrain.NameValueNoise:
		key, section = "value_noise", m.cfg.ValueNoise
	case terrain.NameGradient:
		key, section = "gradient", m.cfg.Gradient
	case terrain.NameSimplex:
		key, section = "simplex", m.cfg.Simplex
	case terrain.NamePerlin:
		key, section = "perlin", m.cfg.Perlin
	}
	out, err := yaml.Marshal(map[string]any{key: section})
	if err != nil {
		return m.renderer.Theme.Error.Render(err.Error())
	}
	return string(out)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// runSections describes the statistics panel for a telemetry.RunStats.
func runSections() []SectionDescriptor {
	run := func(data any) telemetry.RunStats { return data.(telemetry.RunStats) }
	return []SectionDescriptor{
		{
			ID:    "run",
			Title: "Run",
			Fields: []FieldDescriptor{
				{ID: "size", Label: "Size", TextGetter: func(d any) string {
					r := run(d)
					return fmt.Sprintf("%dx%d", r.Width, r.Height)
				}},
				{ID: "draws", Label: "Draws", Format: "%.0f", Getter: func(d any) float64 { return float64(run(d).Draws) }},
				{ID: "time", Label: "Time", Format: "%.2f ms", Getter: func(d any) float64 { return run(d).DurationMS }},
			},
		},
		{
			ID:    "heights",
			Title: "Heights",
			Fields: []FieldDescriptor{
				{ID: "min", Label: "Min", Getter: func(d any) float64 { return run(d).Min }},
				{ID: "max", Label: "Max", Getter: func(d any) float64 { return run(d).Max }},
				{ID: "mean", Label: "Mean", Getter: func(d any) float64 { return run(d).Mean }},
				{ID: "std", Label: "Std", Getter: func(d any) float64 { return run(d).Std }},
				{ID: "median", Label: "Median", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float64 {
					r := run(d)
					if r.Max == r.Min {
						return 0
					}
					return (r.P50 - r.Min) / (r.Max - r.Min)
				}},
			},
		},
	}
}
