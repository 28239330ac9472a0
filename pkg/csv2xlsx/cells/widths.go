package cells

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// SampleRows is how many leading rows are measured for column widths.
	SampleRows = 100
	// MinColumnWidth and MaxColumnWidth bound fitted widths, in characters.
	MinColumnWidth = 8.0
	MaxColumnWidth = 80.0
	columnPadding  = 2.0
)

// Widths accumulates the display width of the widest value per column.
type Widths struct {
	max []int
}

// Observe measures each field of row. Multi-line fields count their
// longest line.
func (w *Widths) Observe(row []string) {
	for i, field := range row {
		width := 0
		for _, line := range strings.Split(field, "\n") {
			width = max(width, runewidth.StringWidth(line))
		}
		if i >= len(w.max) {
			w.max = append(w.max, make([]int, i+1-len(w.max))...)
		}
		w.max[i] = max(w.max[i], width)
	}
}

// Columns returns the fitted width for every observed column, indexed
// from zero.
func (w *Widths) Columns() []float64 {
	out := make([]float64, len(w.max))
	for i, chars := range w.max {
		out[i] = min(max(float64(chars)+columnPadding, MinColumnWidth), MaxColumnWidth)
	}
	return out
}
