// Package lineage: deterministic categorical colors for terminal classes.

package lineage

import (
	"fmt"
	"math"
)

// tab20 is the classic 20-color categorical palette, used verbatim for up
// to 20 classes so small analyses get familiar, well-separated colors.
var tab20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// Palette returns n deterministic categorical hex colors. The first 20 are
// the tab20 palette; beyond that, hues are spaced evenly around the color
// wheel at full saturation. n <= 0 yields an empty slice.
func Palette(n int) []string {
	if n <= 0 {
		return nil
	}
	if n <= len(tab20) {
		return append([]string(nil), tab20[:n]...)
	}

	out := make([]string, n)
	copy(out, tab20)
	extra := n - len(tab20)
	for i := 0; i < extra; i++ {
		h := float64(i) / float64(extra) // evenly spaced hues in [0, 1)
		out[len(tab20)+i] = hsvToHex(h, 0.75, 0.9)
	}

	return out
}

// hsvToHex converts an HSV triple (each in [0, 1]) to a "#rrggbb" string.
func hsvToHex(h, s, v float64) string {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(r*255)), int(math.Round(g*255)), int(math.Round(b*255)))
}
