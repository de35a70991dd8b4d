package scoring

// QuizEntry pairs one answered question's weight and answer sets with the
// answer the user actually gave.
type QuizEntry struct {
	Answer   string
	Weight   int
	Positive []string
	Negative []string
}

// QuizResult is the immutable outcome of the personality quiz.
type QuizResult struct {
	Score       int
	Personality string
	Description string
	Tip         string
}

// Personality archetypes.
const (
	PersonalityPlanner    = "Planner"
	PersonalitySaver      = "Saver"
	PersonalityMinimalist = "Minimalist"
	PersonalitySpender    = "Spender"
	PersonalityAvoider    = "Avoider"
)

// Quiz sums signed weights over the answered questions and maps the total
// to a personality archetype. An answer outside both sets contributes zero.
func Quiz(entries []QuizEntry) QuizResult {
	score := 0
	for _, entry := range entries {
		switch {
		case contains(entry.Positive, entry.Answer):
			score += entry.Weight
		case contains(entry.Negative, entry.Answer):
			score -= entry.Weight
		}
	}

	result := QuizResult{Score: score}
	switch {
	case score >= 6:
		result.Personality = PersonalityPlanner
		result.Description = "You plan your finances well."
		result.Tip = "Save regularly."
	case score >= 2:
		result.Personality = PersonalitySaver
		result.Description = "You save consistently."
		result.Tip = "Increase your savings rate."
	case score >= 0:
		result.Personality = PersonalityMinimalist
		result.Description = "You maintain a balanced approach."
		result.Tip = "Consider a budget."
	case score >= -2:
		result.Personality = PersonalitySpender
		result.Description = "You enjoy spending."
		result.Tip = "Track your expenses."
	default:
		result.Personality = PersonalityAvoider
		result.Description = "You avoid financial planning."
		result.Tip = "Start with a simple plan."
	}
	return result
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
