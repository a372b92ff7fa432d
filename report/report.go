// Package report writes the persona analysis to a timestamped text file.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reddit-persona/analyzer"
	"reddit-persona/citation"
	"reddit-persona/reddit"
)

// Display caps. Extraction keeps everything; only the rendered file is
// bounded.
const (
	maxReportSubreddits = 10
	maxReportKeywords   = 15
	maxReportCitations  = 5
)

var banner = strings.Repeat("=", 80)

// Report bundles everything one persona run produced.
type Report struct {
	Username  string
	User      *reddit.UserInfo
	Persona   string
	Analysis  *analyzer.Result
	Citations citation.Set
}

// Writer renders reports into an output directory, one file per run,
// named persona_<username>_<timestamp>.txt.
type Writer struct {
	dir string
	now func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the timestamp source (for testing).
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a report writer. An empty dir means the current
// directory.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir: dir,
		now: time.Now,
	}
	if w.dir == "" {
		w.dir = "."
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the report and returns the path of the created file.
func (w *Writer) Write(r *Report) (string, error) {
	user := r.User
	if user == nil {
		user = &reddit.UserInfo{}
	}
	analysis := r.Analysis
	if analysis == nil {
		analysis = &analyzer.Result{}
	}

	now := w.now()
	filename := fmt.Sprintf("persona_%s_%s.txt", r.Username, now.Format("20060102_150405"))
	path := filepath.Join(w.dir, filename)

	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString("REDDIT USER PERSONA ANALYSIS\n")
	b.WriteString(banner + "\n\n")

	fmt.Fprintf(&b, "Generated on: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Username: %s\n", r.Username)
	fmt.Fprintf(&b, "Account Created: %s\n", time.Unix(int64(user.CreatedUTC), 0).Format("2006-01-02"))
	fmt.Fprintf(&b, "Total Karma: %d\n\n", user.CommentKarma+user.LinkKarma)

	b.WriteString(banner + "\n")
	b.WriteString("USER PERSONA\n")
	b.WriteString(banner + "\n\n")
	b.WriteString(r.Persona)
	b.WriteString("\n\n")

	b.WriteString(banner + "\n")
	b.WriteString("ANALYSIS DATA\n")
	b.WriteString(banner + "\n\n")

	b.WriteString("Activity Summary:\n")
	fmt.Fprintf(&b, "- Total Posts Analyzed: %d\n", analysis.PostCount)
	fmt.Fprintf(&b, "- Total Comments Analyzed: %d\n", analysis.CommentCount)
	fmt.Fprintf(&b, "- Subreddits Active In: %d\n", analysis.TotalSubreddits)
	fmt.Fprintf(&b, "- Average Comment Sentiment: %.2f\n\n", analysis.AvgCommentSentiment)

	b.WriteString("Top Subreddits:\n")
	subreddits := analysis.TopSubreddits
	if len(subreddits) > maxReportSubreddits {
		subreddits = subreddits[:maxReportSubreddits]
	}
	for _, s := range subreddits {
		fmt.Fprintf(&b, "- r/%s: %d interactions\n", s.Name, s.Count)
	}
	b.WriteString("\n")

	b.WriteString("Top Interests (Keywords):\n")
	words := analysis.TopWords
	if len(words) > maxReportKeywords {
		words = words[:maxReportKeywords]
	}
	for _, word := range words {
		fmt.Fprintf(&b, "- %s: %d mentions\n", word.Word, word.Count)
	}
	b.WriteString("\n")

	b.WriteString(banner + "\n")
	b.WriteString("CITATIONS\n")
	b.WriteString(banner + "\n\n")

	b.WriteString("High-Scoring Posts (Interest Indicators):\n")
	writeCitations(&b, r.Citations[citation.CategoryInterests])

	b.WriteString("High-Scoring Comments (Communication Style):\n")
	writeCitations(&b, r.Citations[citation.CategoryCommunicationStyle])

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	slog.Info("persona saved", "path", path)
	return path, nil
}

func writeCitations(b *strings.Builder, cites []citation.Citation) {
	if len(cites) > maxReportCitations {
		cites = cites[:maxReportCitations]
	}
	for _, c := range cites {
		fmt.Fprintf(b, "- %s\n", c.Text)
		fmt.Fprintf(b, "  URL: %s (Score: %d)\n\n", c.URL, c.Score)
	}
}
