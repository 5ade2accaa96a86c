package command

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// suggestionThreshold is the maximum edit distance for a name to qualify as
// a "did you mean" candidate.
const suggestionThreshold = 2

// Suggestion is a ranked "did you mean" candidate for an unresolved token.
type Suggestion struct {
	Name        string
	Description string
	Distance    int
}

func distance(a, b string) int {
	return levenshtein.Distance(a, b, levenshtein.NewParams())
}

// closestChoice returns the declared choice nearest to the given value, or
// "" when even the nearest is too far off to be a useful hint.
func closestChoice(value string, choices []string) string {
	best := ""
	bestDistance := suggestionThreshold + 1

	for _, choice := range choices {
		if d := distance(value, choice); d < bestDistance {
			best = choice
			bestDistance = d
		}
	}

	return best
}

// Suggest collects commands whose name or alias is within the edit-distance
// threshold of the token, or which the token textually prefixes. Hidden
// commands never appear. Results are ranked by ascending distance; ties keep
// declaration order.
func Suggest(token string, commands []*Command) []Suggestion {
	var suggestions []Suggestion

	for _, cmd := range commands {
		if cmd.Hidden {
			continue
		}

		names := append([]string{cmd.Name}, cmd.Aliases...)

		bestDistance := -1
		candidate := false
		for _, name := range names {
			d := distance(token, name)
			if bestDistance < 0 || d < bestDistance {
				bestDistance = d
			}
			if d <= suggestionThreshold || strings.HasPrefix(name, token) {
				candidate = true
			}
		}

		if candidate {
			suggestions = append(suggestions, Suggestion{
				Name:        cmd.Name,
				Description: cmd.Description,
				Distance:    bestDistance,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Distance < suggestions[j].Distance
	})

	return suggestions
}
