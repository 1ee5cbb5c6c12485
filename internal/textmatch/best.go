package textmatch

// Match is the result of a candidate-pool search.
type Match struct {
	Index    int // index into the candidate slice
	Distance int // exact edit distance, never the search ceiling
}

// Best returns the candidate with the smallest edit distance to s that is
// <= max. The running best distance tightens the ceiling for later
// candidates, so most non-matches abandon their DP scan early. Ties keep
// the earlier candidate (first found wins, in enumeration order).
func Best(s string, candidates []string, max int) (Match, bool) {
	best := Match{Index: -1}
	ceiling := max

	for i, c := range candidates {
		d, ok := DistanceWithin(s, c, ceiling)
		if !ok {
			continue
		}
		best = Match{Index: i, Distance: d}
		if d == 0 {
			break
		}
		// Only strictly better candidates may replace the current best.
		ceiling = d - 1
	}

	return best, best.Index >= 0
}
