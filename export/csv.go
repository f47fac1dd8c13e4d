package export

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/heightfield/heightmap"
	"github.com/pthm-cable/heightfield/terrain"
)

// Cell is one heightmap sample in long CSV form.
type Cell struct {
	X int     `csv:"x"`
	Y int     `csv:"y"`
	Z float64 `csv:"z"`
}

// CellsCSV writes every sample of h as an x,y,z row in row-major order.
func CellsCSV(w io.Writer, h *heightmap.Heightmap) error {
	cells := make([]Cell, 0, len(h.Data))
	for y := 0; y < h.Height; y++ {
		for x, z := range h.Row(y) {
			cells = append(cells, Cell{X: x, Y: y, Z: z})
		}
	}
	return gocsv.Marshal(cells, w)
}

// PointsCSV writes the polyline as x,y rows.
func PointsCSV(w io.Writer, points []terrain.Point2D) error {
	return gocsv.Marshal(points, w)
}

// WritePointsCSV writes the polyline to a file.
func WritePointsCSV(path string, points []terrain.Point2D) error {
	return writeFile(path, func(f *os.File) error { return PointsCSV(f, points) })
}
