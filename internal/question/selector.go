package question

import (
	"math/rand"
	"sort"
)

// PickComparisonIndices selects up to k bank indices answered "yes" to be
// inverted into comparison questions. With k or fewer "yes" answers the
// whole yes-set is returned in index order; with more, a uniform sample of
// size k is drawn without replacement. The random source is injected so
// callers can fix the seed.
func PickComparisonIndices(rng *rand.Rand, answers []bool, k int) []int {
	yes := make([]int, 0, len(answers))
	for i, ans := range answers {
		if ans {
			yes = append(yes, i)
		}
	}

	if len(yes) == 0 {
		return nil
	}
	if len(yes) <= k {
		return yes
	}

	picked := make([]int, 0, k)
	for _, j := range rng.Perm(len(yes))[:k] {
		picked = append(picked, yes[j])
	}
	sort.Ints(picked)
	return picked
}
