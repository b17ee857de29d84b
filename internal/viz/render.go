package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/fieldlab/internal/integrators"
	"github.com/san-kum/fieldlab/internal/physics"
)

// shades from rest to full displacement
const shades = " .:-=+*#%@"

// shadeRune maps a displacement to a density character relative to scale.
func shadeRune(v, scale float64) rune {
	if scale <= 0 || math.IsNaN(v) {
		return ' '
	}
	n := len(shades) - 1
	idx := int(math.Abs(v)/scale*float64(n) + 0.5)
	if idx > n {
		idx = n
	}
	return rune(shades[idx])
}

type cellKind int

const (
	cellRest cellKind = iota
	cellCrest
	cellTrough
	cellMarker
)

// waveCell returns the glyph for grid cell (col, row) and how to colour it.
func waveCell(g *physics.Grid, col, row int, scale float64) (rune, cellKind) {
	v := g.At(col, row)
	r := shadeRune(v, scale)
	switch {
	case r == ' ':
		return r, cellRest
	case v < 0:
		return r, cellTrough
	default:
		return r, cellCrest
	}
}

// gridCell maps a plane coordinate onto a grid cell.
func gridCell(x, y float64, cols, rows int) (int, int) {
	col := int(x / physics.PlaneSize * float64(cols))
	row := int(y / physics.PlaneSize * float64(rows))
	return min(max(col, 0), cols-1), min(max(row, 0), rows-1)
}

// renderWave draws the sampled plane with sources as 'O' and the probe as '+'.
func renderWave(g *physics.Grid, scale float64, sources []physics.WaveSource, probeX, probeY float64, st styles) string {
	markers := make(map[int]rune, len(sources)+1)
	pc, pr := gridCell(probeX, probeY, g.Cols, g.Rows)
	markers[pr*g.Cols+pc] = '+'
	for _, src := range sources {
		if !src.Active {
			continue
		}
		c, r := gridCell(src.X, src.Y, g.Cols, g.Rows)
		markers[r*g.Cols+c] = 'O'
	}

	var b strings.Builder
	var run strings.Builder
	kind := cellRest
	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(styleFor(kind, st).Render(run.String()))
		run.Reset()
	}

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			r, k := waveCell(g, col, row, scale)
			if m, ok := markers[row*g.Cols+col]; ok {
				r, k = m, cellMarker
			}
			if k != kind {
				flush()
				kind = k
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func styleFor(k cellKind, st styles) lipgloss.Style {
	switch k {
	case cellCrest:
		return st.crest
	case cellTrough:
		return st.trough
	case cellMarker:
		return st.marker
	}
	return st.field
}

// toDots maps plane coordinates onto canvas dots.
func toDots(c *Canvas, plane physics.Plane, x, y float64) (int, int) {
	dx := int(x / plane.Width * float64(c.DotsWide()-1))
	dy := int(y / plane.Height * float64(c.DotsHigh()-1))
	return dx, dy
}

// drawSource outlines the magnetic source: a coil core, the wire crossing
// or the two bar poles.
func drawSource(c *Canvas, plane physics.Plane, src physics.Source) {
	cx, cy := plane.Center()
	x, y := toDots(c, plane, cx, cy)
	switch s := src.(type) {
	case physics.Coil:
		r := s.CoreRadius(plane) / plane.Width * float64(c.DotsWide())
		c.DrawCircle(x, y, int(r))
	case physics.BarMagnet:
		nx, ny, sx, sy := s.Poles(plane)
		x0, y0 := toDots(c, plane, sx, sy)
		x1, y1 := toDots(c, plane, nx, ny)
		c.DrawLine(x0, y0, x1, y1)
		c.DrawCircle(x1, y1, 2)
		c.DrawBlob(x0-1, y0-1)
	default:
		c.DrawCircle(x, y, 1)
	}
}

// drawTrail connects consecutive trail points.
func drawTrail(c *Canvas, plane physics.Plane, trail []integrators.Point) {
	for i := 1; i < len(trail); i++ {
		x0, y0 := toDots(c, plane, trail[i-1].X, trail[i-1].Y)
		x1, y1 := toDots(c, plane, trail[i].X, trail[i].Y)
		c.DrawLine(x0, y0, x1, y1)
	}
}

// chargeCounts returns how many particles carry each sign.
func chargeCounts(ps []integrators.Particle) (pos, neg int) {
	for _, p := range ps {
		if p.Charge < 0 {
			neg++
		} else {
			pos++
		}
	}
	return pos, neg
}
