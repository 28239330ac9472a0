// Package sheetname turns arbitrary file names into worksheet titles that
// spreadsheet applications accept.
package sheetname

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MaxLength is the longest title, in characters, a worksheet may carry.
const MaxLength = 31

// Fallback is used when nothing printable survives sanitization.
const Fallback = "Sheet"

// illegalReplacer maps characters rejected in sheet titles to underscores.
var illegalReplacer = strings.NewReplacer(
	"[", "_",
	"]", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"/", "_",
	"\\", "_",
	"'", "_",
)

// UsedNames records the titles already assigned within one workbook.
// Lookups are case-insensitive because workbook titles are.
type UsedNames struct {
	seen map[string]struct{}
}

// NewUsedNames returns an empty set.
func NewUsedNames() *UsedNames {
	return &UsedNames{seen: make(map[string]struct{})}
}

// Contains reports whether name has been assigned already.
func (u *UsedNames) Contains(name string) bool {
	if u == nil || u.seen == nil {
		return false
	}
	_, ok := u.seen[foldKey(name)]
	return ok
}

// Add records name as assigned.
func (u *UsedNames) Add(name string) {
	if u.seen == nil {
		u.seen = make(map[string]struct{})
	}
	u.seen[foldKey(name)] = struct{}{}
}

// Len returns the number of assigned titles.
func (u *UsedNames) Len() int {
	if u == nil {
		return 0
	}
	return len(u.seen)
}

func foldKey(name string) string {
	return cases.Fold().String(name)
}

// Clean strips the extension and illegal characters from name and bounds
// its length. The result is a valid title but is not checked for uniqueness.
func Clean(name string) string {
	name = trimExtension(name)
	name = illegalReplacer.Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		name = Fallback
	}
	return truncate(name, MaxLength)
}

// Sanitize returns a valid title for name that is not yet in used, and
// records it there. Collisions get a numeric suffix (_1, _2, ...); the base
// is shortened so the suffixed title still fits MaxLength.
func Sanitize(name string, used *UsedNames) string {
	base := Clean(name)

	candidate := base
	for counter := 1; used.Contains(candidate); counter++ {
		suffix := "_" + strconv.Itoa(counter)
		candidate = truncate(base, MaxLength-len(suffix)) + suffix
	}

	used.Add(candidate)
	return candidate
}

// trimExtension removes one extension from the last path segment. Leading
// dots belong to the name, so ".csv" has no extension.
func trimExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return name
	}
	stem := name[:len(name)-len(ext)]
	segment := stem[strings.LastIndexFunc(stem, isSeparator)+1:]
	if strings.Trim(segment, ".") == "" {
		return name
	}
	return stem
}

func isSeparator(r rune) bool {
	return r < utf8.RuneSelf && os.IsPathSeparator(uint8(r))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
