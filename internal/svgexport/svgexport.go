// Package svgexport renders a striplayout.Snapshot to SVG using the
// same canvas.Path geometry the core already computes, reusing
// internal/geom's Polygon.ToPath instead of a separate drawing stack
// (spec §6 Outputs: the "visualize the final/intermediate packing"
// artifact cadences).
package svgexport

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/erlendvik/packfold/internal/striplayout"
)

var (
	containerStroke = canvas.Black
	itemFill        = canvas.Whitesmoke
	itemStroke      = canvas.Darkslategray
)

// Render draws snap's container outline plus every placement's
// transformed polygon onto a fresh canvas.Canvas sized to the strip.
func Render(snap *striplayout.Snapshot) *canvas.Canvas {
	width, height := snap.Width(), snap.Height()
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(containerStroke)
	ctx.SetStrokeWidth(0.5)
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	ctx.SetFillColor(itemFill)
	ctx.SetStrokeColor(itemStroke)
	for _, p := range snap.Placements() {
		path := p.Item.Shape.ToPath().Transform(p.Transform.Matrix())
		ctx.DrawPath(0, 0, path)
	}
	return c
}

// WriteFile renders snap to path as an SVG document, creating parent
// directories as needed.
func WriteFile(snap *striplayout.Snapshot, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("svgexport: creating parent directory for %q: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("svgexport: creating %q: %w", path, err)
	}
	defer f.Close()
	return Write(snap, f)
}

// Write renders snap as an SVG document to w.
func Write(snap *striplayout.Snapshot, w io.Writer) error {
	c := Render(snap)
	if err := svg.Writer(w, c); err != nil {
		return fmt.Errorf("svgexport: encoding svg: %w", err)
	}
	return nil
}

// roundedWidth formats a strip width the way the original's file
// naming convention does ("{counter}_{width:.3}_{suffix}"), kept as a
// small helper so Exporter's file names match without repeating the
// format string at each call site.
func roundedWidth(width float64) string {
	return fmt.Sprintf("%.3f", math.Max(width, 0))
}
