// Package citation extracts score-thresholded excerpts that anchor
// persona claims to real posts and comments.
package citation

import (
	"reddit-persona/reddit"
)

// Category keys. Only interests and communication_style are populated;
// the other three are always present but empty.
const (
	CategoryPersonalityTraits  = "personality_traits"
	CategoryInterests          = "interests"
	CategoryCommunicationStyle = "communication_style"
	CategoryBehaviorPatterns   = "behavior_patterns"
	CategoryValuesBeliefs      = "values_beliefs"
)

const (
	// Strict thresholds: a post scoring exactly 10 or a comment scoring
	// exactly 5 does not qualify.
	postScoreThreshold    = 10
	commentScoreThreshold = 5

	excerptLength = 100

	redditBaseURL = "https://reddit.com"
)

// Citation is one excerpt with its source link and score.
type Citation struct {
	Text  string
	URL   string
	Score int
}

// Set groups citations by category. All five category keys are present
// in every Set.
type Set map[string][]Citation

// Extract pulls citations from high-scoring items: posts scoring above
// 10 become interest markers, comments scoring above 5 become
// communication-style markers. Items keep their collected order.
func Extract(data *reddit.UserData) Set {
	set := Set{
		CategoryPersonalityTraits:  {},
		CategoryInterests:          {},
		CategoryCommunicationStyle: {},
		CategoryBehaviorPatterns:   {},
		CategoryValuesBeliefs:      {},
	}
	if data == nil {
		return set
	}

	for _, p := range data.Posts {
		if p.Score <= postScoreThreshold {
			continue
		}
		set[CategoryInterests] = append(set[CategoryInterests], Citation{
			Text:  excerpt(p.Title),
			URL:   redditBaseURL + p.Permalink,
			Score: p.Score,
		})
	}

	for _, c := range data.Comments {
		if c.Score <= commentScoreThreshold {
			continue
		}
		set[CategoryCommunicationStyle] = append(set[CategoryCommunicationStyle], Citation{
			Text:  excerpt(c.Body),
			URL:   redditBaseURL + c.Permalink,
			Score: c.Score,
		})
	}

	return set
}

// excerpt keeps the first 100 characters and appends an ellipsis
// unconditionally, even when nothing was cut.
func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}
