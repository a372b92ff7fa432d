// Package persona orchestrates one generation run: normalize the input,
// collect the user's data, analyze it, generate the persona text, and
// write the report.
package persona

import (
	"context"
	"fmt"
	"log/slog"

	"reddit-persona/analyzer"
	"reddit-persona/citation"
	"reddit-persona/prompt"
	"reddit-persona/reddit"
	"reddit-persona/report"
)

// Collector fetches one user's profile and activity snapshot.
type Collector interface {
	CollectUserData(ctx context.Context, username string, maxPosts, maxComments int) (*reddit.UserData, error)
}

// Generator turns a prompt into persona text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReportWriter renders the final report file and returns its path.
type ReportWriter interface {
	Write(r *report.Report) (string, error)
}

// Result summarizes a completed run.
type Result struct {
	Username      string
	ReportPath    string
	PostCount     int
	CommentCount  int
	CitationCount int
}

// Runner orchestrates the persona workflow.
type Runner struct {
	collector   Collector
	generator   Generator
	writer      ReportWriter
	maxPosts    int
	maxComments int
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxPosts caps the number of posts collected per run.
func WithMaxPosts(n int) Option {
	return func(r *Runner) {
		r.maxPosts = n
	}
}

// WithMaxComments caps the number of comments collected per run.
func WithMaxComments(n int) Option {
	return func(r *Runner) {
		r.maxComments = n
	}
}

// NewRunner creates a persona runner.
func NewRunner(collector Collector, generator Generator, writer ReportWriter, opts ...Option) *Runner {
	r := &Runner{
		collector:   collector,
		generator:   generator,
		writer:      writer,
		maxPosts:    50,
		maxComments: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run generates one persona from a profile URL or bare username and
// returns the written report's location. Each stage failure returns
// immediately with the stage named; nothing is written before the report
// stage. The Runner keeps no state between calls.
func (r *Runner) Run(ctx context.Context, rawInput string) (*Result, error) {
	username, err := reddit.ParseUsername(rawInput)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	slog.Info("processing user", "username", username)

	data, err := r.collector.CollectUserData(ctx, username, r.maxPosts, r.maxComments)
	if err != nil {
		return nil, fmt.Errorf("collect user data: %w", err)
	}

	analysis := analyzer.Analyze(data)
	slog.Info("analyzed activity",
		"total_words", analysis.TotalWords,
		"unique_words", analysis.UniqueWords,
		"subreddits", analysis.TotalSubreddits,
		"avg_comment_sentiment", analysis.AvgCommentSentiment,
	)

	personaText, err := r.generator.Generate(ctx, prompt.Build(data, analysis))
	if err != nil {
		return nil, fmt.Errorf("generate persona: %w", err)
	}

	citations := citation.Extract(data)

	path, err := r.writer.Write(&report.Report{
		Username:  username,
		User:      data.User,
		Persona:   personaText,
		Analysis:  analysis,
		Citations: citations,
	})
	if err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	slog.Info("persona generation complete", "username", username, "path", path)

	return &Result{
		Username:      username,
		ReportPath:    path,
		PostCount:     len(data.Posts),
		CommentCount:  len(data.Comments),
		CitationCount: len(citations[citation.CategoryInterests]) + len(citations[citation.CategoryCommunicationStyle]),
	}, nil
}
