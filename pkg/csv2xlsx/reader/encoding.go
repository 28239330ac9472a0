package reader

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is UTF-8 with a leading byte order mark removed.
const DefaultEncoding = "utf-8-sig"

// ErrUnknownEncoding indicates an encoding name that cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown encoding")

// LookupEncoding resolves an encoding name such as "utf-8-sig", "latin-1"
// or "shift_jis". Names are matched case-insensitively against the common
// aliases first, then the IANA registry, then the WHATWG labels.
func LookupEncoding(name string) (encoding.Encoding, error) {
	trimmed := strings.TrimSpace(name)
	key := strings.ReplaceAll(strings.ToLower(trimmed), "_", "-")

	switch key {
	case "", "utf-8-sig", "utf8-sig":
		return unicode.UTF8BOM, nil
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16-le", "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16-be", "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "latin-1", "latin1", "iso-8859-1", "l1":
		return charmap.ISO8859_1, nil
	}

	for _, candidate := range []string{trimmed, key} {
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			return enc, nil
		}
		if enc, err := htmlindex.Get(candidate); err == nil && enc != nil {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}
