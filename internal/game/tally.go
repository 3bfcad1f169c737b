package game

// Tally returns the plurality winner among the non-abstain ballots.
// Targets tied at the maximum count are broken in favor of the target
// whose first ballot was cast earliest. ok is false when no non-abstain
// ballot was cast.
func Tally(ballots []Ballot) (target int64, ok bool) {
	counts := make(map[int64]int)
	first := make(map[int64]int)
	for i, b := range ballots {
		if b.Target == AbstainTarget {
			continue
		}
		if _, seen := counts[b.Target]; !seen {
			first[b.Target] = i
		}
		counts[b.Target]++
	}
	if len(counts) == 0 {
		return 0, false
	}

	best := int64(0)
	bestCount := 0
	for t, c := range counts {
		if c > bestCount || (c == bestCount && first[t] < first[best]) {
			best, bestCount = t, c
		}
	}
	return best, true
}

// ResolveExecution applies the Day vote rules: the plurality target is
// executed unless skip votes strictly outnumber its ballots or no
// target received any ballot.
func ResolveExecution(ballots []Ballot) (target int64, ok bool) {
	top, ok := Tally(ballots)
	if !ok {
		return 0, false
	}
	abstains, votes := 0, 0
	for _, b := range ballots {
		if b.Target == AbstainTarget {
			abstains++
		} else if b.Target == top {
			votes++
		}
	}
	if abstains > votes {
		return 0, false
	}
	return top, true
}
