// Package dialect infers the field delimiter of a CSV file from a sample of
// its leading bytes.
package dialect

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SampleSize is the number of leading bytes inspected when sniffing.
const SampleSize = 4096

// ErrUndetermined indicates no candidate delimiter fits the sample.
var ErrUndetermined = errors.New("could not determine delimiter")

// ErrInvalidDelimiter indicates a delimiter override that cannot be used.
var ErrInvalidDelimiter = errors.New("invalid delimiter")

// Candidates are the delimiters considered when sniffing.
var Candidates = []rune{',', ';', '\t', '|'}

// Dialect holds the parsing parameters chosen for one file.
type Dialect struct {
	// Delimiter separates fields within a record.
	Delimiter rune
	// SkipInitialSpace ignores a space that directly follows a delimiter.
	SkipInitialSpace bool
	// Sniffed is true when the delimiter was inferred rather than given.
	Sniffed bool
}

// Default is the comma-separated dialect used when nothing else applies.
var Default = Dialect{Delimiter: ','}

// Name returns a printable name for the delimiter.
func (d Dialect) Name() string {
	return DelimiterName(d.Delimiter)
}

// Sniff picks the dialect for a file. A non-zero override always wins.
// Otherwise the sample is analysed, and any failure yields Default.
func Sniff(sample []byte, override rune) (d Dialect) {
	if override != 0 {
		return Dialect{Delimiter: override}
	}

	defer func() {
		if recover() != nil {
			d = Default
		}
	}()

	text := strings.ToValidUTF8(string(sample), "")
	guessed, err := Guess(text, Candidates)
	if err != nil {
		return Default
	}
	return guessed
}

// ParseDelimiter converts a user-supplied delimiter to a rune. An empty
// string means no override. The two-character token \t stands for tab.
func ParseDelimiter(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if strings.EqualFold(s, `\t`) {
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("%w %q: must be a single character", ErrInvalidDelimiter, s)
	}
	switch r {
	case utf8.RuneError, '"', '\r', '\n':
		return 0, fmt.Errorf("%w %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

// DelimiterName returns a readable label for r, spelling out whitespace.
func DelimiterName(r rune) string {
	switch r {
	case '\t':
		return `\t`
	case ' ':
		return "space"
	case 0:
		return ""
	}
	return string(r)
}
