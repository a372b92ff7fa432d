// Package analyzer derives activity statistics from collected Reddit data:
// word frequencies, subreddit interaction counts, posting cadence, and
// comment sentiment.
package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bbalet/stopwords"
	"github.com/jonreiter/govader"

	"reddit-persona/reddit"
)

const (
	maxTopWords      = 20
	maxTopSubreddits = 10

	// Tokens this short carry no signal for interest keywords.
	minWordLength = 4
)

// wordPattern matches the lowercase alphanumeric tokens left after
// stopword filtering.
var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

var vader = govader.NewSentimentIntensityAnalyzer()

func init() {
	// Keep digits when the stopword filter segments words.
	stopwords.DontStripDigits()
}

// WordCount is one keyword and its frequency across the text corpus.
type WordCount struct {
	Word  string
	Count int
}

// SubredditCount is one subreddit and the number of posts plus comments
// the user made there.
type SubredditCount struct {
	Name  string
	Count int
}

// Sentiment holds VADER polarity scores for one piece of text. Compound
// ranges from -1 (most negative) to 1 (most positive).
type Sentiment struct {
	Negative float64
	Neutral  float64
	Positive float64
	Compound float64
}

// Result is the derived view of one user's activity. Slices are ordered
// by descending count; equal counts keep first-encountered order.
type Result struct {
	TopWords    []WordCount
	TotalWords  int
	UniqueWords int

	TopSubreddits   []SubredditCount
	TotalSubreddits int

	PostCount    int
	CommentCount int

	AvgSecondsBetweenPosts float64
	AvgCommentSentiment    float64
}

// Analyze computes the full statistics for one user's collected data.
// Empty input yields zero counts and empty slices, never an error.
func Analyze(data *reddit.UserData) *Result {
	if data == nil {
		data = &reddit.UserData{}
	}

	res := &Result{
		PostCount:    len(data.Posts),
		CommentCount: len(data.Comments),
	}

	corpus := make([]string, 0, len(data.Posts)*2+len(data.Comments))
	for _, p := range data.Posts {
		corpus = append(corpus, p.Title)
		if p.SelfText != "" {
			corpus = append(corpus, p.SelfText)
		}
	}
	for _, c := range data.Comments {
		corpus = append(corpus, c.Body)
	}

	words := tokenize(strings.Join(corpus, " "))
	res.TotalWords = len(words)

	wordCounts := make(map[string]int)
	var wordOrder []string
	for _, w := range words {
		if wordCounts[w] == 0 {
			wordOrder = append(wordOrder, w)
		}
		wordCounts[w]++
	}
	res.UniqueWords = len(wordOrder)
	res.TopWords = topWords(wordOrder, wordCounts, maxTopWords)

	subCounts := make(map[string]int)
	var subOrder []string
	countSubreddit := func(name string) {
		if name == "" {
			return
		}
		if subCounts[name] == 0 {
			subOrder = append(subOrder, name)
		}
		subCounts[name]++
	}
	for _, p := range data.Posts {
		countSubreddit(p.Subreddit)
	}
	for _, c := range data.Comments {
		countSubreddit(c.Subreddit)
	}
	res.TotalSubreddits = len(subOrder)
	res.TopSubreddits = topSubreddits(subOrder, subCounts, maxTopSubreddits)

	res.AvgSecondsBetweenPosts = avgGapSeconds(data.Posts)
	res.AvgCommentSentiment = avgCommentSentiment(data.Comments)

	return res
}

// SentimentScore scores a single text with VADER.
func SentimentScore(text string) Sentiment {
	s := vader.PolarityScores(text)
	return Sentiment{
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Positive: s.Positive,
		Compound: s.Compound,
	}
}

// tokenize lowercases the text, strips English stopwords, and returns the
// alphanumeric tokens long enough to count as keywords.
func tokenize(text string) []string {
	cleaned := stopwords.CleanString(text, "en", false)

	var words []string
	for _, w := range wordPattern.FindAllString(cleaned, -1) {
		if len(w) >= minWordLength {
			words = append(words, w)
		}
	}
	return words
}

func topWords(order []string, counts map[string]int, n int) []WordCount {
	ranked := make([]WordCount, 0, len(order))
	for _, w := range order {
		ranked = append(ranked, WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func topSubreddits(order []string, counts map[string]int, n int) []SubredditCount {
	ranked := make([]SubredditCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, SubredditCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// avgGapSeconds is the mean interval between consecutive posts. Fewer
// than two posts means no interval to measure.
func avgGapSeconds(posts []reddit.Post) float64 {
	if len(posts) < 2 {
		return 0
	}

	times := make([]float64, len(posts))
	for i, p := range posts {
		times[i] = p.CreatedUTC
	}
	sort.Float64s(times)

	var total float64
	for i := 1; i < len(times); i++ {
		total += times[i] - times[i-1]
	}
	return total / float64(len(times)-1)
}

func avgCommentSentiment(comments []reddit.Comment) float64 {
	var total float64
	scored := 0
	for _, c := range comments {
		if strings.TrimSpace(c.Body) == "" {
			continue
		}
		total += vader.PolarityScores(c.Body).Compound
		scored++
	}
	if scored == 0 {
		return 0
	}
	return total / float64(scored)
}
