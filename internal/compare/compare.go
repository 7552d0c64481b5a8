// internal/compare/compare.go
// Package compare implements the field-equivalence rules used to score
// submitted pre-authorization forms against ground truth. Each form field is
// bound to a comparison strategy at construction time; values are compared
// under that strategy's tolerance (formatting, casing, ordering) so that
// cosmetic drift is never scored as a wrong answer.
package compare

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Strategy selects the equivalence rule applied to a field.
type Strategy int

const (
	// Generic applies the fallback chain: single-item-list/scalar unwrap,
	// case-insensitive strings, element-wise list compare, strict equality.
	Generic Strategy = iota
	// DigitsOnly strips every non-digit rune before comparing. Used for
	// member IDs (issuer prefixes) and phone/fax numbers (formatting).
	DigitsOnly
	// AlphanumericOnly strips every non-alphanumeric rune and lowercases.
	// Used for addresses, where punctuation and spacing drift freely.
	AlphanumericOnly
	// SetOfCodes compares both sides as unordered sets of normalized code
	// strings. Order and duplicates are irrelevant.
	SetOfCodes
	// QuantityAwareCodes compares procedure codes by total billed quantity
	// per code, tolerating free-text multiplier notation.
	QuantityAwareCodes
)

// Comparator decides whether two field values represent the same fact.
// The zero value is not usable; construct with New.
type Comparator struct {
	strategies map[string]Strategy
	cpt        *CPTComparer
}

// New returns a Comparator with the default field bindings for the
// pre-authorization form.
func New() *Comparator {
	return &Comparator{
		strategies: map[string]Strategy{
			"member_id":        DigitsOnly,
			"provider_phone":   DigitsOnly,
			"provider_fax":     DigitsOnly,
			"patient_address":  AlphanumericOnly,
			"provider_address": AlphanumericOnly,
			"lab_address":      AlphanumericOnly,
			"icd_codes":        SetOfCodes,
			"cpt_codes":        QuantityAwareCodes,
		},
		cpt: NewCPTComparer(nil),
	}
}

// Bind overrides or adds the strategy for a single field.
func (c *Comparator) Bind(field string, s Strategy) {
	c.strategies[field] = s
}

// CPT exposes the procedure-code comparer so callers can report exact vs
// semantic correctness separately.
func (c *Comparator) CPT() *CPTComparer { return c.cpt }

// UseCPTCodes replaces the set of procedure codes that carry billed
// quantities. An empty slice keeps the defaults.
func (c *Comparator) UseCPTCodes(codes []string) {
	if len(codes) == 0 {
		return
	}
	c.cpt = NewCPTComparer(codes)
}

// Equal reports whether a and b represent the same value for the named
// field. It never fails: shapes no rule recognizes fall through to strict
// equality, which simply reports false.
func (c *Comparator) Equal(field string, a, b any) bool {
	switch c.strategies[field] {
	case DigitsOnly:
		return DigitString(a) == DigitString(b)
	case AlphanumericOnly:
		return AlnumString(a) == AlnumString(b)
	case SetOfCodes:
		return codeSetEqual(a, b)
	case QuantityAwareCodes:
		return c.cpt.Semantic(a, b)
	default:
		return genericEqual(a, b)
	}
}

// genericEqual is the fallback chain for fields without a specialized rule.
func genericEqual(a, b any) bool {
	// A UI wrapping a single value in a list should not fail the compare.
	if la, ok := a.([]any); ok && !isList(b) {
		if len(la) == 1 && isScalar(la[0]) && isScalar(b) {
			return NormString(la[0]) == NormString(b)
		}
	}
	if lb, ok := b.([]any); ok && !isList(a) {
		if len(lb) == 1 && isScalar(lb[0]) && isScalar(a) {
			return NormString(lb[0]) == NormString(a)
		}
	}

	sa, aIsStr := a.(string)
	sb, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return NormString(sa) == NormString(sb)
	}

	// Same-length lists compare element-wise and order-sensitive: the
	// multi-valued fields that reach this path are intrinsically ordered.
	la, aIsList := a.([]any)
	lb, bIsList := b.([]any)
	if aIsList && bIsList {
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if NormString(la[i]) != NormString(lb[i]) {
				return false
			}
		}
		return true
	}

	if isScalar(a) && isScalar(b) {
		return NormString(a) == NormString(b)
	}
	return reflect.DeepEqual(a, b)
}

func codeSetEqual(a, b any) bool {
	sa := make(map[string]struct{})
	for _, v := range ToList(a) {
		sa[NormString(v)] = struct{}{}
	}
	sb := make(map[string]struct{})
	for _, v := range ToList(b) {
		sb[NormString(v)] = struct{}{}
	}
	if len(sa) != len(sb) {
		return false
	}
	for k := range sa {
		if _, ok := sb[k]; !ok {
			return false
		}
	}
	return true
}

// ToList flattens a value into a slice: nil becomes empty, a list stays a
// list, a scalar becomes a one-element list.
func ToList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{v}
	}
}

// Stringify renders a scalar the way it appears on the form: bools as
// true/false, whole-number floats without a fraction (JSON numbers decode
// as float64).
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// NormString is the shared scalar normalization: stringified, trimmed,
// lowercased.
func NormString(v any) string {
	return strings.ToLower(strings.TrimSpace(Stringify(v)))
}

// DigitString keeps only the digit runes of a scalar, unwrapping a
// one-element list first.
func DigitString(v any) string {
	return filterRunes(firstScalar(v), func(r rune) bool { return r >= '0' && r <= '9' })
}

// AlnumString keeps only letters and digits, lowercased.
func AlnumString(v any) string {
	s := filterRunes(firstScalar(v), func(r rune) bool {
		return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
	})
	return strings.ToLower(s)
}

func firstScalar(v any) string {
	if l, ok := v.([]any); ok {
		if len(l) == 0 {
			return ""
		}
		return Stringify(l[0])
	}
	return Stringify(v)
}

func filterRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, float64, int:
		return true
	}
	return false
}

// IsEmpty reports whether a submitted value counts as "not filled in":
// nil, empty string, empty list, or empty object.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
