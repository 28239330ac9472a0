// Package csv2xlsx combines a directory of CSV files into one spreadsheet
// workbook with a worksheet per file.
package csv2xlsx

import (
	"log/slog"

	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/reader"
)

// Options configures a conversion run.
type Options struct {
	// Encoding names the text encoding of the input files.
	Encoding string
	// Delimiter overrides delimiter detection when non-zero.
	Delimiter rune
	// Recursive includes CSV files in subdirectories.
	Recursive bool
	// Exclude lists gitignore-style patterns of files to skip.
	Exclude []string
	// InferTypes writes numeric-looking fields as numbers instead of text.
	InferTypes bool
	// AutoFit sizes columns from the leading rows of each file.
	AutoFit bool
	// FreezeHeader keeps the first row of each sheet visible.
	FreezeHeader bool
	// Logger receives progress and warnings. If nil, nothing is reported.
	Logger *slog.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		Encoding: reader.DefaultEncoding,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
