package citation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"reddit-persona/reddit"
)

func TestExtractAllCategoriesPresent(t *testing.T) {
	set := Extract(&reddit.UserData{})

	wantKeys := []string{
		CategoryPersonalityTraits,
		CategoryInterests,
		CategoryCommunicationStyle,
		CategoryBehaviorPatterns,
		CategoryValuesBeliefs,
	}
	if len(set) != len(wantKeys) {
		t.Errorf("Set has %d categories, want %d", len(set), len(wantKeys))
	}
	for _, key := range wantKeys {
		cites, ok := set[key]
		if !ok {
			t.Errorf("category %q missing", key)
			continue
		}
		if len(cites) != 0 {
			t.Errorf("category %q has %d citations, want 0", key, len(cites))
		}
	}
}

func TestExtractNil(t *testing.T) {
	set := Extract(nil)
	if len(set) != 5 {
		t.Errorf("Set has %d categories, want 5", len(set))
	}
	for key, cites := range set {
		if len(cites) != 0 {
			t.Errorf("category %q has %d citations, want 0", key, len(cites))
		}
	}
}

func TestExtractThresholdsAreStrict(t *testing.T) {
	data := &reddit.UserData{
		Posts: []reddit.Post{
			{Title: "exactly at threshold", Score: 10, Permalink: "/r/a/comments/1/"},
			{Title: "just above threshold", Score: 11, Permalink: "/r/a/comments/2/"},
		},
		Comments: []reddit.Comment{
			{Body: "exactly at threshold", Score: 5, Permalink: "/r/a/comments/3/"},
			{Body: "just above threshold", Score: 6, Permalink: "/r/a/comments/4/"},
		},
	}

	set := Extract(data)

	interests := set[CategoryInterests]
	if len(interests) != 1 {
		t.Fatalf("interests has %d citations, want 1", len(interests))
	}
	if interests[0].Score != 11 {
		t.Errorf("interest score = %d, want 11", interests[0].Score)
	}

	style := set[CategoryCommunicationStyle]
	if len(style) != 1 {
		t.Fatalf("communication_style has %d citations, want 1", len(style))
	}
	if style[0].Score != 6 {
		t.Errorf("style score = %d, want 6", style[0].Score)
	}
}

func TestExtractCollectsAllQualifyingItems(t *testing.T) {
	data := &reddit.UserData{
		Posts: []reddit.Post{
			{Title: "Guide to production deployments", Score: 127, Permalink: "/r/programming/comments/aa/"},
			{Title: "Training pipeline writeup", Score: 89, Permalink: "/r/MachineLearning/comments/bb/"},
		},
		Comments: []reddit.Comment{
			{Body: "Detailed answer about pandas", Score: 15, Permalink: "/r/datascience/comments/cc/"},
			{Body: "Short opinion on tooling", Score: 8, Permalink: "/r/programming/comments/dd/"},
		},
	}

	set := Extract(data)

	if got := len(set[CategoryInterests]); got != 2 {
		t.Errorf("interests has %d citations, want 2", got)
	}
	if got := len(set[CategoryCommunicationStyle]); got != 2 {
		t.Errorf("communication_style has %d citations, want 2", got)
	}

	first := set[CategoryInterests][0]
	if first.Text != "Guide to production deployments..." {
		t.Errorf("Text = %q, want title with ellipsis", first.Text)
	}
	if first.URL != "https://reddit.com/r/programming/comments/aa/" {
		t.Errorf("URL = %q, want reddit host plus permalink", first.URL)
	}
	if first.Score != 127 {
		t.Errorf("Score = %d, want 127", first.Score)
	}
}

func TestExtractTruncatesLongText(t *testing.T) {
	longTitle := strings.Repeat("é", 150)
	data := &reddit.UserData{
		Posts: []reddit.Post{
			{Title: longTitle, Score: 50, Permalink: "/r/a/comments/1/"},
		},
	}

	set := Extract(data)

	text := set[CategoryInterests][0].Text
	if !strings.HasSuffix(text, "...") {
		t.Errorf("Text %q does not end with ellipsis", text)
	}
	if got := utf8.RuneCountInString(text); got != 103 {
		t.Errorf("Text is %d runes, want 103 (100 content + ellipsis)", got)
	}
	if !strings.HasPrefix(text, strings.Repeat("é", 100)) {
		t.Error("Text does not start with the first 100 characters")
	}
}

func TestExtractShortTextKeepsEllipsis(t *testing.T) {
	data := &reddit.UserData{
		Comments: []reddit.Comment{
			{Body: "yes", Score: 9, Permalink: "/r/a/comments/1/"},
		},
	}

	set := Extract(data)

	if got := set[CategoryCommunicationStyle][0].Text; got != "yes..." {
		t.Errorf("Text = %q, want %q", got, "yes...")
	}
}
