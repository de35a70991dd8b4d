// Package ranking places a user's score inside the population of prior
// submissions for a flow.
package ranking

// TiePolicy selects how equal scores share a rank.
//
// The two policies intentionally differ per flow to match historical
// behaviour: Budget uses StrictAbove, Health and Quiz use Inclusive. The
// asymmetry looks like drift between parallel code paths in the system this
// replaces, but unifying it would change published ranks, so it is kept
// pending product sign-off.
type TiePolicy int

const (
	// StrictAbove ranks as count(scores strictly greater) + 1; ties share
	// the better rank.
	StrictAbove TiePolicy = iota
	// Inclusive ranks as count(scores greater or equal); the user's own
	// persisted score counts itself, so the best possible rank is 1.
	Inclusive
)

// Rank returns the user's ordinal rank under the given policy and the total
// population size.
func Rank(score float64, population []float64, policy TiePolicy) (rank, totalUsers int) {
	switch policy {
	case Inclusive:
		for _, s := range population {
			if s >= score {
				rank++
			}
		}
	default:
		rank = 1
		for _, s := range population {
			if s > score {
				rank++
			}
		}
	}
	return rank, len(population)
}
