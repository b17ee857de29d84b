package analysis

import (
	"strings"

	"github.com/san-kum/fieldlab/internal/sim"
)

// TrajectoryToASCII plots the particle positions of every snapshot on a
// width×height character canvas. Bounds are fitted to the points with 10%
// padding; the newest position of each particle is drawn as '@'.
func TrajectoryToASCII(snaps []sim.Snapshot, width, height int) string {
	if len(snaps) == 0 || width < 2 || height < 2 {
		return ""
	}

	first := true
	var minX, maxX, minY, maxY float64
	for _, s := range snaps {
		for _, p := range s.Particles {
			if first {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				first = false
				continue
			}
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	if first {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(x, y float64, r rune) {
		col := int((x - minX) / rangeX * float64(width-1))
		// screen rows grow downward like plane y
		row := int((y - minY) / rangeY * float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = r
		}
	}
	for _, s := range snaps {
		for _, p := range s.Particles {
			plot(p.X, p.Y, '•')
		}
	}
	for _, p := range snaps[len(snaps)-1].Particles {
		plot(p.X, p.Y, '@')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
