// Package models defines the results reported by a conversion run.
package models

// WorkbookResult represents the written workbook and the outcome per sheet.
type WorkbookResult struct {
	// Output is the workbook path.
	Output string `json:"output"`
	// Size is the workbook size in bytes.
	Size int64 `json:"size"`
	// Sheets lists one result per input file, in sheet order.
	Sheets []SheetResult `json:"sheets"`
}

// Warnings returns the number of files that were only partially converted.
func (w *WorkbookResult) Warnings() int {
	n := 0
	for _, s := range w.Sheets {
		if !s.OK() {
			n++
		}
	}
	return n
}

// TotalRows returns the number of rows written across all sheets.
func (w *WorkbookResult) TotalRows() int {
	n := 0
	for _, s := range w.Sheets {
		n += s.Rows
	}
	return n
}
