// internal/compare/cpt.go
package compare

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// defaultCPTCodes are the procedure codes the benchmark form can bill:
// 81415 (WES) and 81416 (WES comparator, often billed twice for a trio).
var defaultCPTCodes = []string{"81415", "81416"}

// CPTComparer parses loosely formatted procedure-code fields and compares
// them by billed quantity. Agents type these fields free-form ("81416 x2",
// "2*81416", "81415, 81416(2)"), so presence alone is not enough.
type CPTComparer struct {
	codes    []string
	trailing map[string]*regexp.Regexp
	leading  map[string]*regexp.Regexp
}

// NewCPTComparer builds a comparer for the given codes. A nil or empty
// slice selects the default code set.
func NewCPTComparer(codes []string) *CPTComparer {
	if len(codes) == 0 {
		codes = defaultCPTCodes
	}
	c := &CPTComparer{
		codes:    append([]string(nil), codes...),
		trailing: make(map[string]*regexp.Regexp, len(codes)),
		leading:  make(map[string]*regexp.Regexp, len(codes)),
	}
	for _, code := range c.codes {
		quoted := regexp.QuoteMeta(code)
		// 81416x2, 81416*2, 81416(2), 81416(x2)
		c.trailing[code] = regexp.MustCompile(quoted + `(?:\((?:x)?(\d+)\)|[x*](\d+))`)
		// 2x81416, 2*81416
		c.leading[code] = regexp.MustCompile(`(\d+)[x*]` + quoted)
	}
	return c
}

// Codes returns the known code set in binding order.
func (c *CPTComparer) Codes() []string { return append([]string(nil), c.codes...) }

// Counts parses a scalar or list of free-text tokens into a per-code
// quantity map. Unknown codes are ignored; known codes absent from the
// input stay 0. Malformed multiplier text counts the code once rather than
// penalizing ambiguous formatting.
func (c *CPTComparer) Counts(v any) map[string]int {
	counts := make(map[string]int, len(c.codes))
	for _, code := range c.codes {
		counts[code] = 0
	}
	for _, token := range c.tokens(v) {
		compact := compactToken(token)
		for _, code := range c.codes {
			if !strings.Contains(compact, code) {
				continue
			}
			multiplier := 1
			if m := c.trailing[code].FindStringSubmatch(compact); m != nil {
				multiplier = pickMultiplier(m[1], m[2])
			} else if m := c.leading[code].FindStringSubmatch(compact); m != nil {
				multiplier = pickMultiplier(m[1], "")
			}
			if multiplier < 1 {
				multiplier = 1
			}
			counts[code] += multiplier
		}
	}
	return counts
}

// Exact reports whether the two inputs carry identical normalized tokens,
// formatting included. Stricter than Semantic; used for the exact-match
// reporting column only.
func (c *CPTComparer) Exact(a, b any) bool {
	ta, tb := c.tokens(a), c.tokens(b)
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

// Semantic reports whether the two inputs bill the same quantity of every
// known code. This is the form used for scoring.
func (c *CPTComparer) Semantic(a, b any) bool {
	ca, cb := c.Counts(a), c.Counts(b)
	for code, n := range ca {
		if cb[code] != n {
			return false
		}
	}
	return true
}

// tokens splits the input on commas and semicolons and normalizes each
// piece to a trimmed, lowercased token. Empty pieces are dropped.
func (c *CPTComparer) tokens(v any) []string {
	var out []string
	for _, item := range ToList(v) {
		for _, part := range splitCodes(Stringify(item)) {
			token := strings.ToLower(strings.TrimSpace(part))
			if token == "" {
				continue
			}
			out = append(out, token)
		}
	}
	return out
}

func splitCodes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
}

// compactToken removes all whitespace and folds multiplication glyphs to a
// plain "x" so the multiplier patterns only have one shape to match.
func compactToken(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		switch {
		case unicode.IsSpace(r):
		case r == '×' || r == '✕' || r == '✖':
			b.WriteRune('x')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pickMultiplier(groups ...string) int {
	for _, g := range groups {
		if g == "" {
			continue
		}
		if n, err := strconv.Atoi(g); err == nil {
			return n
		}
	}
	return 1
}
