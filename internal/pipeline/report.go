package pipeline

import (
	"fmt"
	"strings"

	"github.com/relicscan/relic-data/internal/pricing"
	"github.com/relicscan/relic-data/internal/scanner"
)

// Report is the result of one scan: a section per slot, each section
// carrying its reward rows or a scoped error.
type Report struct {
	Mode     scanner.Mode
	Sections []Section
}

// Section is one slot's worth of output.
type Section struct {
	Slot    scanner.Slot
	Err     error
	Rewards []RewardRow
}

// RewardRow is one priced (or failed) reward.
type RewardRow struct {
	Name   string
	Slug   string
	Method string
	Price  pricing.Price
	Err    error
}

// String renders the report as the plain text the CLI prints.
func (r *Report) String() string {
	var b strings.Builder

	for i, sec := range r.Sections {
		if !sec.Slot.OK {
			fmt.Fprintf(&b, "Slot %d: empty\n", i+1)
			continue
		}

		fmt.Fprintf(&b, "Slot %d: %s\n", i+1, sec.Slot.Code)
		if sec.Err != nil {
			fmt.Fprintf(&b, "  %v\n", sec.Err)
			continue
		}

		for _, row := range sec.Rewards {
			if row.Err != nil {
				fmt.Fprintf(&b, "  %-40s %v\n", row.Name, row.Err)
				continue
			}
			fmt.Fprintf(&b, "  %-40s %s (%s)\n", row.Name, row.Price, row.Method)
		}
	}

	return b.String()
}
