// Package export renders recorded runs as standalone SVG files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/springsim/internal/storage"
)

// Series is one line of a plot. X and Y must have the same length.
type Series struct {
	X, Y   []float64
	Stroke string
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

// pad widens the y range by a tenth on each side.
func (b bounds) pad() bounds {
	ry := b.maxY - b.minY
	if ry == 0 {
		ry = 1
	}
	return bounds{b.minX, b.maxX, b.minY - ry*0.1, b.maxY + ry*0.1}
}

func seriesBounds(series []Series) (bounds, bool) {
	var b bounds
	found := false
	for _, s := range series {
		for i := range s.X {
			if !found {
				b = bounds{s.X[i], s.X[i], s.Y[i], s.Y[i]}
				found = true
				continue
			}
			b.minX, b.maxX = min(b.minX, s.X[i]), max(b.maxX, s.X[i])
			b.minY, b.maxY = min(b.minY, s.Y[i]), max(b.maxY, s.Y[i])
		}
	}
	return b, found
}

// PlotSVG draws every series on shared axes. Series with fewer than two
// points are skipped.
func PlotSVG(w io.Writer, series []Series, width, height int) error {
	b, ok := seriesBounds(series)
	if !ok {
		return fmt.Errorf("nothing to plot")
	}
	b = b.pad()
	rangeX := b.maxX - b.minX
	if rangeX == 0 {
		rangeX = 1
	}
	rangeY := b.maxY - b.minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, s := range series {
		if len(s.X) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Stroke))
		for i := range s.X {
			x := (s.X[i] - b.minX) / rangeX * float64(width)
			y := float64(height) - (s.Y[i]-b.minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// TraceSVG plots target (red) and position (cyan) against time.
func TraceSVG(w io.Writer, tr *storage.Trace, width, height int) error {
	return PlotSVG(w, []Series{
		{X: tr.Times, Y: tr.Targets, Stroke: "#ff4444"},
		{X: tr.Times, Y: tr.Positions, Stroke: "#00ccff"},
	}, width, height)
}

// PhaseSVG plots velocity against position.
func PhaseSVG(w io.Writer, tr *storage.Trace, width, height int) error {
	return PlotSVG(w, []Series{
		{X: tr.Positions, Y: tr.Velocities, Stroke: "#00ff88"},
	}, width, height)
}
