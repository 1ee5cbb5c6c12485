package relic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Era is the relic tier (age bracket) a code belongs to.
type Era string

const (
	Lith Era = "Lith"
	Meso Era = "Meso"
	Neo  Era = "Neo"
	Axi  Era = "Axi"
)

// Eras returns all eras in canonical order.
func Eras() []Era {
	return []Era{Lith, Meso, Neo, Axi}
}

// Code identifies one relic: era plus letter (A-Z) plus number (1-99).
type Code struct {
	Era    Era
	Letter byte
	Number int
}

// codePattern accepts lenient input: any casing, optional spaces between
// the era, letter and number.
var codePattern = regexp.MustCompile(`^(?i)(lith|meso|neo|axi)\s*([a-z])\s*([0-9]{1,2})$`)

// Parse parses a code from lenient textual form ("neo a10", "NEO A 10",
// "NeoA10") into its canonical representation.
func Parse(s string) (Code, error) {
	m := codePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Code{}, fmt.Errorf("invalid relic code %q", s)
	}

	era := Era(strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:]))
	letter := strings.ToUpper(m[2])[0]

	n, err := strconv.Atoi(m[3])
	if err != nil || n < 1 || n > 99 {
		return Code{}, fmt.Errorf("invalid relic number %q", m[3])
	}

	return Code{Era: era, Letter: letter, Number: n}, nil
}

// Canonicalize normalizes a lenient code string to canonical form.
// Canonicalizing an already-canonical string yields it unchanged.
func Canonicalize(s string) (string, error) {
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Valid reports whether each component of the code is independently valid.
func (c Code) Valid() bool {
	switch c.Era {
	case Lith, Meso, Neo, Axi:
	default:
		return false
	}
	if c.Letter < 'A' || c.Letter > 'Z' {
		return false
	}
	return c.Number >= 1 && c.Number <= 99
}

// String returns the canonical textual form, e.g. "Neo A10".
func (c Code) String() string {
	return fmt.Sprintf("%s %c%d", c.Era, c.Letter, c.Number)
}

// Compact returns the code without its internal space ("NeoA10").
// Used for edit-distance comparison against whitespace-split tokens.
func (c Code) Compact() string {
	return fmt.Sprintf("%s%c%d", c.Era, c.Letter, c.Number)
}
