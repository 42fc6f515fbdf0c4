package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/sim"
)

var strokePalette = []string{
	"#00ff88", "#00ccff", "#ff66cc", "#ffcc00", "#ff6644", "#aa88ff",
}

// SVG traces each body's xy trajectory across the samples as a polyline.
// Bodies that appear late (merge survivors keep their id) start mid-plot.
func SVG(w io.Writer, samples []sim.Sample, dim, width, height int) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to render")
	}

	paths := make(map[body.ID][][2]float64)
	order := make([]body.ID, 0)
	minX, maxX := samples[0].Pos[0], samples[0].Pos[0]
	minY, maxY := samples[0].Pos[1], samples[0].Pos[1]

	for _, s := range samples {
		for bi, id := range s.IDs {
			x := s.Pos[bi*dim]
			y := s.Pos[bi*dim+1]
			if _, ok := paths[id]; !ok {
				order = append(order, id)
			}
			paths[id] = append(paths[id], [2]float64{x, y})
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for pi, id := range order {
		pts := paths[id]
		if len(pts) < 2 {
			continue
		}
		color := strokePalette[pi%len(strokePalette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" opacity="0.8" d="M`, color))
		for i, p := range pts {
			x := (p[0] - minX) / rangeX * float64(width)
			y := float64(height) - (p[1]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	// mark final positions
	last := samples[len(samples)-1]
	for bi := range last.IDs {
		x := (last.Pos[bi*dim] - minX) / rangeX * float64(width)
		y := float64(height) - (last.Pos[bi*dim+1]-minY)/rangeY*float64(height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2" fill="#ffffff"/>`+"\n", x, y))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// SVGFile renders the trajectory plot to the given path.
func SVGFile(path string, samples []sim.Sample, dim, width, height int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return SVG(file, samples, dim, width, height)
}
