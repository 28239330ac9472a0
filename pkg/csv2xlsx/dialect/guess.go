package dialect

import (
	"slices"
	"strings"
	"unicode"
)

const (
	chunkLines         = 10
	consistencyStart   = 1.0
	consistencyMinimum = 0.9
	consistencyStep    = 0.01
)

// preferred breaks ties when several delimiters are equally consistent.
var preferred = []rune{',', '\t', ';', ' ', ':'}

// Guess infers a dialect from sample, considering only the given candidate
// delimiters. Quoted fields are examined first; when they are absent or
// inconclusive, per-line delimiter frequencies decide.
func Guess(sample string, candidates []rune) (Dialect, error) {
	if d, ok := guessFromQuotes(sample, candidates); ok {
		return d, nil
	}
	if d, ok := guessFromFrequency(sample, candidates); ok {
		return d, nil
	}
	return Dialect{}, ErrUndetermined
}

// guessFromQuotes looks for delimiters next to quoted fields. Three rules
// are tried in order and the first one with any match decides:
// `D"x"D`, then `"x"D` at the start of a line, then `D"x"` at the end of a
// line. SkipInitialSpace is set when the winning delimiter's match count
// equals the number of matches with a space after the delimiter.
func guessFromQuotes(sample string, candidates []rune) (Dialect, bool) {
	runes := []rune(sample)
	for _, scan := range []func([]rune) quotePass{quotedBetween, quotedAtLineStart, quotedAtLineEnd} {
		p := scan(runes)
		if p.matches() == 0 {
			continue
		}

		votes := make(map[rune]int)
		var order []rune
		for _, m := range p {
			if !slices.Contains(candidates, m.delim) {
				continue
			}
			if _, ok := votes[m.delim]; !ok {
				order = append(order, m.delim)
			}
			votes[m.delim]++
		}
		if len(order) == 0 {
			return Dialect{}, false
		}

		best := order[0]
		for _, r := range order[1:] {
			if votes[r] > votes[best] {
				best = r
			}
		}
		return Dialect{
			Delimiter:        best,
			SkipInitialSpace: votes[best] == p.spaces(),
			Sniffed:          true,
		}, true
	}
	return Dialect{}, false
}

type quoteMatch struct {
	delim rune
	space bool
}

// quotePass holds the matches of one rule in sample order.
type quotePass []quoteMatch

func (p quotePass) matches() int {
	return len(p)
}

// spaces counts matches with a space after the delimiter, whichever
// delimiter they used.
func (p quotePass) spaces() int {
	n := 0
	for _, m := range p {
		if m.space {
			n++
		}
	}
	return n
}

// quotedBetween matches `D"x"D`, with an optional space after the first D.
func quotedBetween(runes []rune) quotePass {
	var p quotePass
	for i := 0; i < len(runes); i++ {
		delim := runes[i]
		if !isDelimiterRune(delim) {
			continue
		}
		q, space := openingQuote(runes, i+1)
		if q < 0 {
			continue
		}
		end := closingQuote(runes, q, func(next int) bool {
			return next < len(runes) && runes[next] == delim
		})
		if end < 0 {
			continue
		}
		p = append(p, quoteMatch{delim: delim, space: space})
		i = end + 1
	}
	return p
}

// quotedAtLineStart matches `"x"D` where the opening quote starts a line.
func quotedAtLineStart(runes []rune) quotePass {
	var p quotePass
	for i := 0; i < len(runes); i++ {
		if i > 0 && runes[i-1] != '\n' || !isQuote(runes[i]) {
			continue
		}
		end := closingQuote(runes, i, func(next int) bool {
			return next < len(runes) && isDelimiterRune(runes[next])
		})
		if end < 0 {
			continue
		}
		space := end+2 < len(runes) && runes[end+2] == ' '
		p = append(p, quoteMatch{delim: runes[end+1], space: space})
		i = end + 1
		if space {
			i++
		}
	}
	return p
}

// quotedAtLineEnd matches `D"x"` where the closing quote ends a line.
func quotedAtLineEnd(runes []rune) quotePass {
	var p quotePass
	for i := 0; i < len(runes); i++ {
		delim := runes[i]
		if !isDelimiterRune(delim) {
			continue
		}
		q, space := openingQuote(runes, i+1)
		if q < 0 {
			continue
		}
		end := closingQuote(runes, q, func(next int) bool {
			return next == len(runes) || runes[next] == '\n'
		})
		if end < 0 {
			continue
		}
		p = append(p, quoteMatch{delim: delim, space: space})
		i = end
	}
	return p
}

// openingQuote returns the index of a quote at i, or at i+1 after a single
// space, and whether the space was present. It returns -1 if neither holds.
func openingQuote(runes []rune, i int) (int, bool) {
	if i < len(runes) && isQuote(runes[i]) {
		return i, false
	}
	if i+1 < len(runes) && runes[i] == ' ' && isQuote(runes[i+1]) {
		return i + 1, true
	}
	return -1, false
}

// closingQuote returns the first index after open holding the same quote
// character and accepted by follows for the position after it, or -1.
func closingQuote(runes []rune, open int, follows func(next int) bool) int {
	for k := open + 1; k < len(runes); k++ {
		if runes[k] == runes[open] && follows(k+1) {
			return k
		}
	}
	return -1
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

// isDelimiterRune reports whether r could separate fields: anything but a
// word character, newline, or quote.
func isDelimiterRune(r rune) bool {
	switch {
	case r == '\n', isQuote(r), r == '_':
		return false
	case unicode.IsLetter(r), unicode.IsNumber(r):
		return false
	}
	return true
}

type mode struct {
	freq  int
	count int
}

// histogram maps a per-line occurrence count to the number of lines with
// that count, keeping first-seen order for tie breaks.
type histogram struct {
	freqs  []int
	counts map[int]int
}

func (h *histogram) add(freq int) {
	if h.counts == nil {
		h.counts = make(map[int]int)
	}
	if _, ok := h.counts[freq]; !ok {
		h.freqs = append(h.freqs, freq)
	}
	h.counts[freq]++
}

// mode returns the most common frequency, discounted by every other bucket.
func (h *histogram) mode() (mode, bool) {
	if len(h.freqs) == 1 && h.freqs[0] == 0 {
		return mode{}, false
	}
	best := h.freqs[0]
	for _, f := range h.freqs[1:] {
		if h.counts[f] > h.counts[best] {
			best = f
		}
	}
	m := mode{freq: best, count: h.counts[best]}
	for _, f := range h.freqs {
		if f != best {
			m.count -= h.counts[f]
		}
	}
	return m, true
}

// guessFromFrequency looks for a delimiter that occurs the same number of
// times on (nearly) every line, examining the sample in chunks of lines.
func guessFromFrequency(sample string, candidates []rune) (Dialect, bool) {
	var lines []string
	for _, line := range strings.Split(sample, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return Dialect{}, false
	}

	chunk := min(chunkLines, len(lines))
	frequencies := make(map[rune]*histogram, len(candidates))
	for _, r := range candidates {
		frequencies[r] = &histogram{}
	}

	delims := make(map[rune]mode)
	iteration := 0
	for start, end := 0, chunk; start < len(lines); start, end = end, end+chunk {
		iteration++
		for _, line := range lines[start:min(end, len(lines))] {
			for _, r := range candidates {
				frequencies[r].add(strings.Count(line, string(r)))
			}
		}

		modes := make(map[rune]mode)
		for _, r := range candidates {
			if m, ok := frequencies[r].mode(); ok {
				modes[r] = m
			}
		}

		total := float64(min(chunk*iteration, len(lines)))
		for consistency := consistencyStart; len(delims) == 0 && consistency >= consistencyMinimum; consistency -= consistencyStep {
			for _, r := range candidates {
				m, ok := modes[r]
				if !ok || m.freq <= 0 || m.count <= 0 {
					continue
				}
				if float64(m.count)/total >= consistency {
					delims[r] = m
				}
			}
		}

		if len(delims) == 1 {
			for r := range delims {
				return frequencyDialect(r, lines[0]), true
			}
		}
	}

	if len(delims) == 0 {
		return Dialect{}, false
	}

	for _, r := range preferred {
		if _, ok := delims[r]; ok {
			return frequencyDialect(r, lines[0]), true
		}
	}

	var best rune
	var bestMode mode
	for r, m := range delims {
		if best == 0 || m.freq > bestMode.freq ||
			(m.freq == bestMode.freq && m.count > bestMode.count) ||
			(m.freq == bestMode.freq && m.count == bestMode.count && r > best) {
			best, bestMode = r, m
		}
	}
	return frequencyDialect(best, lines[0]), true
}

func frequencyDialect(delim rune, firstLine string) Dialect {
	d := string(delim)
	return Dialect{
		Delimiter:        delim,
		SkipInitialSpace: strings.Count(firstLine, d) == strings.Count(firstLine, d+" "),
		Sniffed:          true,
	}
}
