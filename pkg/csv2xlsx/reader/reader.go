// Package reader streams the records of a CSV file, decoding its text and
// detecting its delimiter on the way.
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode"

	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/dialect"
	"golang.org/x/text/encoding"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrConsumed is returned when the rows of a Source are requested twice.
var ErrConsumed = errors.New("rows already consumed")

// Row is the fields of one CSV record. Rows within a file may differ in length.
type Row []string

// Options configures how a file is decoded and split.
type Options struct {
	// Encoding decodes the file bytes. Nil means UTF-8 with BOM removal.
	Encoding encoding.Encoding
	// Delimiter overrides sniffing when non-zero.
	Delimiter rune
}

// Source is an open CSV file whose dialect has been resolved.
type Source struct {
	path     string
	file     *os.File
	dialect  dialect.Dialect
	enc      encoding.Encoding
	consumed bool
}

// Open opens path, sniffs its dialect from the decoded leading bytes and
// rewinds it.
// The caller must Close the returned Source.
func Open(path string, opts Options) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	sample := make([]byte, dialect.SampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		f.Close()
		return nil, fmt.Errorf("read sample: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind: %w", err)
	}

	enc := opts.Encoding
	if enc == nil {
		enc = xunicode.UTF8BOM
	}
	text := sample[:n]
	if decoded, err := enc.NewDecoder().Bytes(text); err == nil {
		text = decoded
	}

	return &Source{
		path:    path,
		file:    f,
		dialect: dialect.Sniff(text, opts.Delimiter),
		enc:     enc,
	}, nil
}

// Path returns the file path the source was opened from.
func (s *Source) Path() string {
	return s.path
}

// Dialect returns the dialect used to split records.
func (s *Source) Dialect() dialect.Dialect {
	return s.dialect
}

// Close releases the underlying file.
func (s *Source) Close() error {
	return s.file.Close()
}

// Rows returns the records of the file in order. The sequence can be
// ranged over once; later calls yield ErrConsumed. Undecodable bytes become
// U+FFFD. Blank lines between records are reported as empty rows. A parse
// error is yielded once and ends the sequence.
func (s *Source) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		if s.consumed {
			yield(nil, ErrConsumed)
			return
		}
		s.consumed = true

		r := csv.NewReader(transform.NewReader(s.file, s.enc.NewDecoder()))
		r.Comma = s.dialect.Delimiter
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.TrimLeadingSpace = s.dialect.SkipInitialSpace && !unicode.IsSpace(s.dialect.Delimiter)

		next := 1
		for {
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}

			line, _ := r.FieldPos(0)
			for ; next < line; next++ {
				if !yield(Row{}, nil) {
					return
				}
			}
			last := len(record) - 1
			lastLine, _ := r.FieldPos(last)
			next = lastLine + strings.Count(record[last], "\n") + 1

			if !yield(Row(record), nil) {
				return
			}
		}
	}
}
