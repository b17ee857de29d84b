package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/fieldlab/internal/physics"
	"github.com/san-kum/fieldlab/internal/sim"
	"github.com/san-kum/fieldlab/internal/viz"
)

const (
	background    = "#0a0a0a"
	crestColor    = "#5fafff"
	troughColor   = "#ff5f87"
	positiveColor = "#ff875f"
	negativeColor = "#5fd7ff"
	lineColor     = "#00ff88"
)

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.DotsWide())*scale, float64(canvas.DotsHigh())*scale)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", lineColor)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// GridToSVG renders a wave amplitude sample as a heat map. Crests and
// troughs get separate hues; opacity follows |value| / peak.
func GridToSVG(g *physics.Grid, cell float64) string {
	if g == nil || cell <= 0 {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(g.Cols)*cell, float64(g.Rows)*cell)

	peak := g.Peak
	if peak <= 0 {
		peak = 1
	}
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			v := g.At(col, row)
			alpha := math.Min(math.Abs(v)/peak, 1)
			if alpha < 0.01 {
				continue
			}
			fill := crestColor
			if v < 0 {
				fill = troughColor
			}
			fmt.Fprintf(&sb, "<rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\" fill-opacity=\"%.2f\"/>\n",
				float64(col)*cell, float64(row)*cell, cell, cell, fill, alpha)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrailsToSVG draws each particle's recorded path across snapshots as a
// polyline, coloured by the sign of its charge, with a dot at the last
// position.
func TrailsToSVG(snaps []sim.Snapshot, plane physics.Plane, width, height int) string {
	if len(snaps) == 0 || plane.Width <= 0 || plane.Height <= 0 {
		return ""
	}

	type path struct {
		points []string
		charge float64
		x, y   float64
	}
	paths := make(map[int]*path)
	sx, sy := float64(width)/plane.Width, float64(height)/plane.Height
	for _, s := range snaps {
		for _, p := range s.Particles {
			pt, ok := paths[p.ID]
			if !ok {
				pt = &path{charge: p.Charge}
				paths[p.ID] = pt
			}
			pt.x, pt.y = p.X*sx, p.Y*sy
			pt.points = append(pt.points, fmt.Sprintf("%.1f,%.1f", pt.x, pt.y))
		}
	}

	ids := make([]int, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	for _, id := range ids {
		pt := paths[id]
		color := positiveColor
		if pt.charge < 0 {
			color = negativeColor
		}
		fmt.Fprintf(&sb, "<polyline fill=\"none\" stroke=\"%s\" stroke-width=\"1.2\" points=\"%s\"/>\n",
			color, strings.Join(pt.points, " "))
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", pt.x, pt.y, color)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a line chart, for probe
// amplitude histories.
func SeriesToSVG(values []float64, width, height int) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	// 10% padding
	lo -= rng * 0.1
	rng *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", lineColor)

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/rng*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
