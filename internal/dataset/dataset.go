// Package dataset loads the static relic reference data and answers
// reward lookups by code prefix.
//
// The dataset is loaded once and read-only thereafter. Quality variants
// ("Neo A10 Radiant") share the base code as a name prefix, which is why
// lookup is prefix match rather than equality: recovery always yields the
// base code, and the base (intact) record is listed first.
package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/relicscan/relic-data/internal/relic"
)

// Item is the tradable item a reward grants.
type Item struct {
	Name string `json:"name"`
}

// Reward is one possible drop of a relic. MarketSlug, when present, is a
// pre-bound catalog identifier that bypasses name resolution.
type Reward struct {
	Item       Item   `json:"item"`
	MarketSlug string `json:"marketSlug,omitempty"`
}

// Record is one relic entry in the reference dataset.
type Record struct {
	Name    string   `json:"name"`
	Rewards []Reward `json:"rewards"`
}

// Dataset is the loaded, read-only reference data.
type Dataset struct {
	records []Record
}

// New wraps already-parsed records.
func New(records []Record) *Dataset {
	return &Dataset{records: records}
}

// Load reads and parses the dataset file. A missing or malformed file is
// an error; callers that prefer degraded operation can fall back to an
// empty dataset, where every lookup reports not found.
func Load(path string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse dataset json: %w", err)
	}

	d := New(records)
	d.warnPrefixCollisions(logger)

	logger.Info("reference dataset loaded", "path", path, "records", len(records))
	return d, nil
}

// Find returns the first record whose name starts with the canonical code
// string. First in dataset order wins when two records share a prefix.
func (d *Dataset) Find(code relic.Code) (Record, bool) {
	prefix := code.String()
	for _, r := range d.records {
		if strings.HasPrefix(r.Name, prefix) {
			return r, true
		}
	}
	return Record{}, false
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// warnPrefixCollisions flags codes whose first record in dataset order is
// not the shortest record for that code. Variants sharing the base code
// as a name prefix are expected; a base record listed after a variant
// would be shadowed on lookup, and that assumption is unverified
// upstream, so it is checked once at load time.
func (d *Dataset) warnPrefixCollisions(logger *slog.Logger) {
	first := make(map[string]string)
	for _, r := range d.records {
		code, ok := leadingCode(r.Name)
		if !ok {
			continue
		}
		prev, seen := first[code]
		if !seen {
			first[code] = r.Name
			continue
		}
		if len(r.Name) < len(prev) {
			logger.Warn("dataset record shadowed by earlier longer record, first wins on lookup",
				"kept", prev,
				"shadowed", r.Name,
			)
		}
	}
}

// leadingCode extracts the canonical code prefix from a record name.
func leadingCode(name string) (string, bool) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return "", false
	}
	c, err := relic.Canonicalize(fields[0] + " " + fields[1])
	if err != nil {
		return "", false
	}
	return c, true
}
