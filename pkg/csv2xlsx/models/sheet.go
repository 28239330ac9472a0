package models

// SheetResult describes the worksheet built from one input file.
type SheetResult struct {
	// Title is the worksheet title.
	Title string `json:"title"`
	// Source is the input file path.
	Source string `json:"source"`
	// Delimiter is the field delimiter used, with tab spelled as \t.
	Delimiter string `json:"delimiter,omitempty"`
	// Sniffed is true when the delimiter was detected rather than given.
	Sniffed bool `json:"sniffed"`
	// Rows is the number of rows written, blank rows included.
	Rows int `json:"rows"`
	// Cols is the width of the widest row.
	Cols int `json:"cols"`
	// Range is the used cell range (e.g., "A1:D10"), empty for a blank sheet.
	Range string `json:"range,omitempty"`
	// Warning explains why the file was only partially converted.
	Warning string `json:"warning,omitempty"`
}

// OK reports whether the whole file was converted.
func (s SheetResult) OK() bool {
	return s.Warning == ""
}
