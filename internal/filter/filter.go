// Package filter implements the small match-term language used by the bucket
// table. A clause is a comma-separated list of terms; each term is an exact
// match, an exclusion ("<>" prefix) or a prefix match (one-character wildcard
// suffix). Clauses are compiled once and then applied per record value.
package filter

import "strings"

// Default markers as authored in the bucket spreadsheets.
const (
	DefaultExclusionMarker = "<>"
	DefaultWildcardMarker  = "x"
)

// Markers are package-wide so that every clause in a run is parsed the same
// way. Configurable for donors whose spreadsheets use different conventions.
var (
	exclusionMarker = DefaultExclusionMarker
	wildcardMarker  = DefaultWildcardMarker
)

// SetMarkers reconfigures the exclusion and wildcard markers. Empty arguments
// leave the corresponding marker unchanged.
func SetMarkers(exclusion, wildcard string) {
	if exclusion != "" {
		exclusionMarker = exclusion
	}
	if wildcard != "" {
		wildcardMarker = wildcard
	}
}

// TermKind discriminates the three match-term variants.
type TermKind int

const (
	// TermExact requires the record value to equal the term value.
	TermExact TermKind = iota
	// TermExcluded requires the record value to differ from the term value.
	TermExcluded
	// TermPrefix requires the record value to start with the term value.
	TermPrefix
)

// Term is one atomic comparison unit within a clause.
type Term struct {
	Kind  TermKind
	Value string
}

// Clause is a compiled filter clause. Inclusion terms (exact and prefix) are
// OR-combined; exclusion terms are AND-combined. A clause holding only
// exclusions treats empty record values as vacuously matching.
type Clause struct {
	includes []Term
	excludes []Term
}

// Compile parses a raw clause value into a Clause. Whitespace around terms is
// ignored; empty terms (from stray commas) are dropped. An empty raw value
// compiles to the empty clause, which matches every record.
func Compile(raw string) Clause {
	var c Clause
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c.add(parseTerm(part))
	}
	return c
}

func parseTerm(raw string) Term {
	if strings.HasPrefix(raw, exclusionMarker) {
		return Term{Kind: TermExcluded, Value: strings.TrimPrefix(raw, exclusionMarker)}
	}
	if len(raw) > len(wildcardMarker) && strings.HasSuffix(raw, wildcardMarker) {
		return Term{Kind: TermPrefix, Value: strings.TrimSuffix(raw, wildcardMarker)}
	}
	return Term{Kind: TermExact, Value: raw}
}

func (c *Clause) add(t Term) {
	if t.Kind == TermExcluded {
		c.excludes = append(c.excludes, t)
		return
	}
	c.includes = append(c.includes, t)
}

// Empty reports whether the clause carries no terms at all. Empty clauses are
// no-ops in rule evaluation.
func (c Clause) Empty() bool {
	return len(c.includes) == 0 && len(c.excludes) == 0
}

// Terms returns the total number of compiled terms, mostly for logging.
func (c Clause) Terms() int {
	return len(c.includes) + len(c.excludes)
}

// Matches applies the clause to one record value.
//
// Semantics: with inclusion terms present, the value must satisfy at least
// one inclusion and every exclusion. With only exclusions, every exclusion
// must hold, and an empty value satisfies them vacuously.
func (c Clause) Matches(value string) bool {
	if c.Empty() {
		return true
	}

	if len(c.includes) == 0 {
		if value == "" {
			return true
		}
		return c.allExcluded(value)
	}

	return c.anyIncluded(value) && c.allExcluded(value)
}

func (c Clause) anyIncluded(value string) bool {
	for _, t := range c.includes {
		switch t.Kind {
		case TermExact:
			if value == t.Value {
				return true
			}
		case TermPrefix:
			if strings.HasPrefix(value, t.Value) {
				return true
			}
		}
	}
	return false
}

func (c Clause) allExcluded(value string) bool {
	for _, t := range c.excludes {
		if value == t.Value {
			return false
		}
	}
	return true
}
