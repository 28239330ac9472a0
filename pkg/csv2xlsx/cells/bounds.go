package cells

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Bounds tracks the extent of the rows written to a sheet.
type Bounds struct {
	// Rows is the number of rows written, blank rows included.
	Rows int
	// Cols is the widest row seen.
	Cols int
}

// Add records one row of the given width.
func (b *Bounds) Add(width int) {
	b.Rows++
	if width > b.Cols {
		b.Cols = width
	}
}

// NextCell returns the cell reference of the first column of the next row.
func (b *Bounds) NextCell() (string, error) {
	return excelize.CoordinatesToCellName(1, b.Rows+1)
}

// Range returns the used range in A1 notation, e.g. "A1:D10", or an empty
// string when no cell holds data.
func (b Bounds) Range() string {
	if b.Rows == 0 || b.Cols == 0 {
		return ""
	}
	// Convert to Excel range notation
	startCell, _ := excelize.CoordinatesToCellName(1, 1)
	endCell, err := excelize.CoordinatesToCellName(b.Cols, b.Rows)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:%s", startCell, endCell)
}
