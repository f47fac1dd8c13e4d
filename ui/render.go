package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/heightfield/heightmap"
)

// Shades used for single-row profiles.
const (
	profileGround uint8 = 200
	profileSky    uint8 = 24
)

// Render draws h into width x height terminal cells. Each cell stacks two
// samples with an upper half block, giving width x 2*height pixels. Samples
// are rescaled to the heightmap's own range. Single-row heightmaps are drawn
// as a filled profile.
func Render(h *heightmap.Heightmap, width, height int) string {
	if width < 1 || height < 1 || len(h.Data) == 0 {
		return ""
	}
	px := shadeGrid(h, width, 2*height)

	var b strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		top := px[2*row*width : (2*row+1)*width]
		bottom := px[(2*row+1)*width : (2*row+2)*width]
		for col := 0; col < width; col++ {
			b.WriteString(cellStyle(top[col], bottom[col]).Render("▀"))
		}
	}
	return b.String()
}

// shadeGrid resamples h with nearest-neighbour lookup into a cols x rows
// grid of gray levels.
func shadeGrid(h *heightmap.Heightmap, cols, rows int) []uint8 {
	lo, hi := h.Bounds()
	span := hi - lo
	level := func(v float64) float64 {
		if span == 0 {
			return 0.5
		}
		return (v - lo) / span
	}

	px := make([]uint8, cols*rows)
	if h.Height == 1 {
		for col := 0; col < cols; col++ {
			fill := int(level(h.Data[col*h.Width/cols]) * float64(rows-1))
			for r := 0; r < rows; r++ {
				if rows-1-r <= fill {
					px[r*cols+col] = profileGround
				} else {
					px[r*cols+col] = profileSky
				}
			}
		}
		return px
	}

	for r := 0; r < rows; r++ {
		y := r * h.Height / rows
		for col := 0; col < cols; col++ {
			x := col * h.Width / cols
			px[r*cols+col] = uint8(level(h.At(x, y))*255 + 0.5)
		}
	}
	return px
}

func cellStyle(top, bottom uint8) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(grayColor(top)).
		Background(grayColor(bottom))
}

func grayColor(v uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))
}
