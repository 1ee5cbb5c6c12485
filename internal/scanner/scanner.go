// Package scanner recovers relic codes from noisy recognized text.
//
// Recovery runs in two passes: an exact pattern scan over the raw text,
// then a fuzzy pass matching leftover whitespace tokens against the full
// code space within a small edit-distance budget.
package scanner

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/relicscan/relic-data/internal/relic"
	"github.com/relicscan/relic-data/internal/textmatch"
)

// Mode selects how recovered codes are grouped into output slots.
type Mode int

const (
	// ModeOpen yields one slot per recovered code, unbounded.
	ModeOpen Mode = iota

	// ModeFissure always yields exactly SlotCount slots; codes beyond the
	// last slot are dropped, not reassigned.
	ModeFissure
)

// Config holds scanner settings.
type Config struct {
	// MaxCodeDistance is the edit-distance budget for fuzzy recovery.
	// A token is only recovered when its best candidate is at most this
	// many edits away. Deliberately tighter than the resolver's name
	// threshold: codes are short, so they tolerate fewer absolute edits.
	MaxCodeDistance int

	// SlotCount is the fixed slot count for ModeFissure.
	SlotCount int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxCodeDistance: 1,
		SlotCount:       4,
	}
}

var (
	// quantityPrefix matches OCR quantity artifacts like "x12 ". Applied
	// only to text the exact pass left behind: run over raw text it would
	// eat the letter and number of every X-letter code ("Lith X1" ->
	// "Lith ").
	quantityPrefix = regexp.MustCompile(`(?i)x\d+\s*`)

	// codeScan matches era + optional spaces + letter + digits anywhere
	// in the text. The trailing boundary keeps a trailing misread
	// character (e.g. "NeoA1O") out of the exact pass so the fuzzy pass
	// can repair the whole token.
	codeScan = regexp.MustCompile(`(?i)(lith|meso|neo|axi)\s*[a-z]\d{1,2}\b`)
)

// Scanner recovers relic codes from free text.
type Scanner struct {
	cfg    Config
	logger *slog.Logger

	// Compact lowercase forms of the full code space, index-aligned with
	// codes. Built once at construction.
	pool  []string
	codes []relic.Code
}

// New creates a Scanner. Zero config fields fall back to defaults.
func New(cfg Config, logger *slog.Logger) *Scanner {
	def := DefaultConfig()
	if cfg.MaxCodeDistance == 0 {
		cfg.MaxCodeDistance = def.MaxCodeDistance
	}
	if cfg.SlotCount == 0 {
		cfg.SlotCount = def.SlotCount
	}
	if logger == nil {
		logger = slog.Default()
	}

	codes := relic.AllCodes()
	pool := make([]string, len(codes))
	for i, c := range codes {
		pool[i] = strings.ToLower(c.Compact())
	}

	return &Scanner{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		codes:  codes,
	}
}

// Recover extracts relic codes from text in order of first appearance.
// Duplicates are allowed in the exact pass; the fuzzy pass never adds a
// code already present. Empty or unrecognizable text yields an empty
// result, never an error.
func (s *Scanner) Recover(text string) []relic.Code {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var result []relic.Code
	present := make(map[relic.Code]bool)

	// The exact pass runs over the raw text; a quantity artifact never
	// overlaps a well-formed code.
	for _, raw := range codeScan.FindAllString(text, -1) {
		code, err := relic.Parse(raw)
		if err != nil {
			continue
		}
		present[code] = true
		result = append(result, code)
	}

	// The fuzzy pass works on what the exact pass left behind, with
	// quantity artifacts stripped.
	leftover := codeScan.ReplaceAllString(text, " ")
	leftover = quantityPrefix.ReplaceAllString(leftover, "")

	for _, token := range strings.Fields(leftover) {
		idx, dist := s.bestCandidate(strings.ToLower(token))
		if idx < 0 {
			continue
		}

		code := s.codes[idx]
		if present[code] {
			continue
		}

		s.logger.Debug("fuzzy-recovered relic code",
			"token", token,
			"code", code.String(),
			"distance", dist,
		)
		present[code] = true
		result = append(result, code)
	}

	return result
}

// bestCandidate searches the code space for the candidate closest to
// token within the distance budget. Equidistant candidates are broken by
// length proximity to the token, so a single misread character resolves
// to the same-length code ("neoa1o" -> "neoa10", not "neoa1"); remaining
// ties keep the earlier candidate in enumeration order.
func (s *Scanner) bestCandidate(token string) (idx, dist int) {
	idx = -1
	dist = s.cfg.MaxCodeDistance + 1
	lenDiff := 0

	for i, cand := range s.pool {
		d, ok := textmatch.DistanceWithin(token, cand, dist)
		if !ok {
			continue
		}

		ld := len(cand) - len(token)
		if ld < 0 {
			ld = -ld
		}
		if d < dist || (d == dist && idx >= 0 && ld < lenDiff) {
			idx, dist, lenDiff = i, d, ld
		}
	}

	return idx, dist
}

// Slot is one grouped output position. OK is false for an empty slot.
type Slot struct {
	Code relic.Code
	OK   bool
}

// Group arranges recovered codes into slots according to mode.
func (s *Scanner) Group(codes []relic.Code, mode Mode) []Slot {
	if mode == ModeFissure {
		slots := make([]Slot, s.cfg.SlotCount)
		for i := 0; i < s.cfg.SlotCount && i < len(codes); i++ {
			slots[i] = Slot{Code: codes[i], OK: true}
		}
		return slots
	}

	slots := make([]Slot, len(codes))
	for i, c := range codes {
		slots[i] = Slot{Code: c, OK: true}
	}
	return slots
}
