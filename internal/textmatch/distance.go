// Package textmatch implements bounded Levenshtein matching over short
// strings. It backs both fuzzy code recovery and identifier resolution.
package textmatch

// Distance returns the minimum number of single-character insertions,
// deletions, or substitutions needed to transform a into b. Classic
// full-matrix dynamic programming; no transposition shortcut.
func Distance(a, b string) int {
	d, _ := DistanceWithin(a, b, -1)
	return d
}

// DistanceWithin computes the edit distance between a and b under a
// ceiling. If the distance is <= max, it returns the exact distance and
// true. Once every entry of a DP row exceeds max the scan stops early and
// the function returns false; the int returned in that case is not a
// distance. A negative max disables the ceiling.
func DistanceWithin(a, b string, max int) (int, bool) {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return boundedResult(len(rb), max)
	}
	if len(rb) == 0 {
		return boundedResult(len(ra), max)
	}

	// Length difference is a lower bound on the distance.
	if diff := len(ra) - len(rb); max >= 0 && (diff > max || -diff > max) {
		return 0, false
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		rowMin := curr[0]

		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			v := del
			if ins < v {
				v = ins
			}
			if sub < v {
				v = sub
			}
			curr[j] = v

			if v < rowMin {
				rowMin = v
			}
		}

		if max >= 0 && rowMin > max {
			return 0, false
		}
		prev, curr = curr, prev
	}

	return boundedResult(prev[len(rb)], max)
}

func boundedResult(d, max int) (int, bool) {
	if max >= 0 && d > max {
		return 0, false
	}
	return d, true
}
