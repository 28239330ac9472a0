package csv2xlsx

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/cells"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/dialect"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/discover"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/models"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/reader"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/sheetname"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
)

// headerPane freezes the first row.
var headerPane = &excelize.Panes{
	Freeze:      true,
	YSplit:      1,
	TopLeftCell: "A2",
	ActivePane:  "bottomLeft",
	Selection: []excelize.Selection{
		{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"},
	},
}

// CheckInputDir verifies that dir exists and is a directory.
func CheckInputDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return nil
}

// Combine converts the CSV files found in inputDir into a workbook at output.
func Combine(inputDir, output string, opts Options) (*models.WorkbookResult, error) {
	if err := CheckInputDir(inputDir); err != nil {
		return nil, err
	}

	files, err := discover.Find(inputDir, discover.Options{
		Recursive: opts.Recursive,
		Exclude:   opts.Exclude,
		Logger:    opts.logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("discover input files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in: %s", ErrNoInputFiles, inputDir)
	}

	return Build(files, output, opts)
}

// Build writes one worksheet per file, in the given order, and saves the
// workbook to output. A file that fails to convert leaves its sheet as far
// as it was written and is reported in the result; it does not fail the run.
func Build(files []string, output string, opts Options) (*models.WorkbookResult, error) {
	if len(files) == 0 {
		return nil, ErrNoInputFiles
	}
	enc, err := reader.LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if opts.Delimiter != 0 {
		if _, err := dialect.ParseDelimiter(string(opts.Delimiter)); err != nil {
			return nil, err
		}
	}
	log := opts.logger()

	f := excelize.NewFile()
	defer f.Close()

	used := sheetname.NewUsedNames()
	result := &models.WorkbookResult{Output: output}
	for i, path := range files {
		title := sheetname.Sanitize(filepath.Base(path), used)
		log.Info("adding sheet", "sheet", title, "source", path)

		sheet, err := writeSheet(f, i == 0, title, path, enc, opts)
		if err != nil {
			log.Warn("failed to process file", "source", path, "error", err)
		}
		result.Sheets = append(result.Sheets, sheet)
	}

	size, err := save(f, output)
	if err != nil {
		return nil, err
	}
	result.Size = size

	log.Info("wrote workbook",
		"output", output,
		"sheets", len(result.Sheets),
		"rows", humanize.Comma(int64(result.TotalRows())),
		"size", humanize.Bytes(uint64(size)),
	)
	return result, nil
}

// writeSheet creates the worksheet for one file and streams its rows into it.
func writeSheet(f *excelize.File, first bool, title, path string, enc encoding.Encoding, opts Options) (models.SheetResult, error) {
	sheet := models.SheetResult{Title: title, Source: path}
	fail := func(stage string, err error) (models.SheetResult, error) {
		ferr := NewFileError(path, title, stage, err)
		sheet.Warning = ferr.Error()
		return sheet, ferr
	}

	// The first file takes over the default sheet
	var err error
	if first {
		err = f.SetSheetName(f.GetSheetName(0), title)
	} else {
		_, err = f.NewSheet(title)
	}
	if err != nil {
		return fail("create sheet", err)
	}

	sw, err := f.NewStreamWriter(title)
	if err != nil {
		return fail("create sheet", err)
	}
	w := &sheetWriter{sw: sw, opts: opts}

	// Open and sniff the source; an unreadable file still leaves a valid empty sheet
	src, err := reader.Open(path, reader.Options{Encoding: enc, Delimiter: opts.Delimiter})
	if err != nil {
		if flushErr := w.flush(); flushErr != nil {
			err = errors.Join(err, flushErr)
		}
		return fail("open", err)
	}
	defer src.Close()

	d := src.Dialect()
	sheet.Delimiter = d.Name()
	sheet.Sniffed = d.Sniffed

	// Stream rows
	stage, err := w.copy(src.Rows())
	if flushErr := w.flush(); flushErr != nil && err == nil {
		stage, err = "write", flushErr
	}

	sheet.Rows = w.bounds.Rows
	sheet.Cols = w.bounds.Cols
	sheet.Range = w.bounds.Range()
	if err != nil {
		return fail(stage, err)
	}
	return sheet, nil
}

// sheetWriter appends rows to a stream writer. With AutoFit the leading
// rows are held back until their column widths are known, because widths
// must be set before the first row is written.
type sheetWriter struct {
	sw      *excelize.StreamWriter
	opts    Options
	bounds  cells.Bounds
	widths  cells.Widths
	pending []reader.Row
	started bool
}

// copy drains rows into the sheet and reports the stage that failed.
func (w *sheetWriter) copy(rows iter.Seq2[reader.Row, error]) (string, error) {
	for row, err := range rows {
		if err != nil {
			return "read", err
		}
		if err := w.add(row); err != nil {
			return "write", err
		}
	}
	return "", nil
}

func (w *sheetWriter) add(row reader.Row) error {
	if w.started || !w.opts.AutoFit {
		if !w.started {
			if err := w.begin(); err != nil {
				return err
			}
		}
		return w.write(row)
	}

	w.widths.Observe(row)
	w.pending = append(w.pending, row)
	if len(w.pending) >= cells.SampleRows {
		return w.begin()
	}
	return nil
}

// begin applies the sheet layout and writes any held-back rows.
func (w *sheetWriter) begin() error {
	w.started = true
	if w.opts.AutoFit {
		for i, width := range w.widths.Columns() {
			if i >= excelize.MaxColumns {
				break
			}
			if err := w.sw.SetColWidth(i+1, i+1, width); err != nil {
				return err
			}
		}
	}
	if w.opts.FreezeHeader {
		if err := w.sw.SetPanes(headerPane); err != nil {
			return err
		}
	}

	pending := w.pending
	w.pending = nil
	for _, row := range pending {
		if err := w.write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) write(row reader.Row) error {
	cell, err := w.bounds.NextCell()
	if err != nil {
		return err
	}
	if len(row) > excelize.MaxColumns {
		return fmt.Errorf("row %d has %d fields, limit is %d", w.bounds.Rows+1, len(row), excelize.MaxColumns)
	}
	if err := w.sw.SetRow(cell, cells.Values(row, w.opts.InferTypes)); err != nil {
		return err
	}
	w.bounds.Add(len(row))
	return nil
}

// flush writes held-back rows and finalizes the sheet. The stream is always
// flushed so that a partially written sheet stays well-formed.
func (w *sheetWriter) flush() error {
	var err error
	if !w.started {
		err = w.begin()
	}
	if flushErr := w.sw.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// save writes the workbook next to output and renames it into place.
func save(f *excelize.File, output string) (int64, error) {
	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := createTemp(dir)
	if err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	size, err := f.WriteTo(tmp)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	if err := os.Rename(tmpPath, output); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	committed = true
	return size, nil
}

// createTemp opens a new file in dir for the workbook. Unlike os.CreateTemp
// the file is created with mode 0666 so the process umask decides the final
// permissions, as for any other newly written file.
func createTemp(dir string) (*os.File, error) {
	for range 100 {
		name := filepath.Join(dir, ".csv2xlsx-"+strconv.FormatUint(rand.Uint64(), 36)+".tmp")
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("create temporary file in %s: %w", dir, fs.ErrExist)
}
