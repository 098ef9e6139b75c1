package listing

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TypeRule maps a property-type label fragment to category codes.
type TypeRule struct {
	Label string
	Codes []string
}

// TypeTable is an ordered list of label rules.
type TypeTable []TypeRule

// DefaultTypeTable covers the commercial categories of the listing service.
func DefaultTypeTable() TypeTable {
	return TypeTable{
		{Label: "사무실", Codes: []string{"D01"}},
		{Label: "상가", Codes: []string{"D02"}},
		{Label: "건물", Codes: []string{"D03"}},
		{Label: "지식산업센터", Codes: []string{"E04"}},
	}
}

// Codes returns every code whose rule label occurs in the given label.
// A label such as "상가건물" matches more than one rule.
func (t TypeTable) Codes(label string) []string {
	label = norm.NFC.String(label)
	var codes []string
	for _, rule := range t {
		if rule.Label == "" {
			continue
		}
		if strings.Contains(label, norm.NFC.String(rule.Label)) {
			codes = append(codes, rule.Codes...)
		}
	}
	return codes
}

// CodeSet is a set of category codes. An empty set allows everything.
type CodeSet map[string]struct{}

// NewCodeSet builds a set from codes, ignoring blanks.
func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" {
			s[c] = struct{}{}
		}
	}
	return s
}

// Has reports whether code is in the set.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// AllowsAny reports whether any of codes passes the filter.
func (s CodeSet) AllowsAny(codes []string) bool {
	if len(s) == 0 {
		return true
	}
	for _, c := range codes {
		if s.Has(c) {
			return true
		}
	}
	return false
}
