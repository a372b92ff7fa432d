package persona

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reddit-persona/citation"
	"reddit-persona/reddit"
	"reddit-persona/report"
)

type mockCollector struct {
	data *reddit.UserData
	err  error

	calls       int
	gotUsername string
	gotPosts    int
	gotComments int
}

func (m *mockCollector) CollectUserData(ctx context.Context, username string, maxPosts, maxComments int) (*reddit.UserData, error) {
	m.calls++
	m.gotUsername = username
	m.gotPosts = maxPosts
	m.gotComments = maxComments
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

type mockGenerator struct {
	text string
	err  error

	calls     int
	gotPrompt string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.gotPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

type mockWriter struct {
	path string
	err  error

	calls int
	got   *report.Report
}

func (m *mockWriter) Write(r *report.Report) (string, error) {
	m.calls++
	m.got = r
	if m.err != nil {
		return "", m.err
	}
	return m.path, nil
}

func sampleData() *reddit.UserData {
	return &reddit.UserData{
		User: &reddit.UserInfo{
			Username:     "alice",
			CreatedUTC:   1600000000,
			CommentKarma: 100,
			LinkKarma:    50,
		},
		Posts: []reddit.Post{
			{ID: "p1", Title: "Kubernetes deployment guide", Subreddit: "golang", Score: 127, Permalink: "/r/golang/comments/p1/"},
			{ID: "p2", Title: "Docker question", Subreddit: "docker", Score: 3, Permalink: "/r/docker/comments/p2/"},
		},
		Comments: []reddit.Comment{
			{ID: "c1", Body: "Detailed answer about clusters", Subreddit: "golang", Score: 15, Permalink: "/r/golang/comments/c1/"},
			{ID: "c2", Body: "short reply", Subreddit: "docker", Score: 1, Permalink: "/r/docker/comments/c2/"},
		},
	}
}

func TestRun(t *testing.T) {
	collector := &mockCollector{data: sampleData()}
	generator := &mockGenerator{text: "PERSONA TEXT"}
	writer := &mockWriter{path: "/out/persona_alice_20240305_143045.txt"}

	runner := NewRunner(collector, generator, writer, WithMaxPosts(5), WithMaxComments(7))
	result, err := runner.Run(context.Background(), "https://reddit.com/user/alice/")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Username != "alice" {
		t.Errorf("Username = %q, want alice", result.Username)
	}
	if result.ReportPath != writer.path {
		t.Errorf("ReportPath = %q, want %q", result.ReportPath, writer.path)
	}
	if result.PostCount != 2 || result.CommentCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", result.PostCount, result.CommentCount)
	}
	if result.CitationCount != 2 {
		t.Errorf("CitationCount = %d, want 2", result.CitationCount)
	}

	if collector.gotUsername != "alice" {
		t.Errorf("collector got username %q, want alice", collector.gotUsername)
	}
	if collector.gotPosts != 5 || collector.gotComments != 7 {
		t.Errorf("collector got caps %d/%d, want 5/7", collector.gotPosts, collector.gotComments)
	}

	if !strings.Contains(generator.gotPrompt, "- Username: alice") {
		t.Error("prompt does not embed the username")
	}
	if !strings.Contains(generator.gotPrompt, "Post: Kubernetes deployment guide") {
		t.Error("prompt does not embed post samples")
	}

	if writer.got == nil {
		t.Fatal("writer never received a report")
	}
	if writer.got.Persona != "PERSONA TEXT" {
		t.Errorf("report persona = %q", writer.got.Persona)
	}
	if writer.got.User == nil || writer.got.User.Username != "alice" {
		t.Error("report missing user info")
	}
	if got := len(writer.got.Citations[citation.CategoryInterests]); got != 1 {
		t.Errorf("report has %d interest citations, want 1", got)
	}
	if writer.got.Analysis == nil || writer.got.Analysis.PostCount != 2 {
		t.Error("report missing analysis")
	}
}

func TestRunDefaultCaps(t *testing.T) {
	collector := &mockCollector{data: sampleData()}
	runner := NewRunner(collector, &mockGenerator{text: "p"}, &mockWriter{path: "out"})

	if _, err := runner.Run(context.Background(), "alice"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if collector.gotPosts != 50 || collector.gotComments != 100 {
		t.Errorf("collector got caps %d/%d, want defaults 50/100", collector.gotPosts, collector.gotComments)
	}
}

func TestRunInvalidInput(t *testing.T) {
	collector := &mockCollector{data: sampleData()}
	runner := NewRunner(collector, &mockGenerator{text: "p"}, &mockWriter{path: "out"})

	_, err := runner.Run(context.Background(), "https://reddit.com/r/golang")
	if err == nil {
		t.Fatal("expected error for invalid input")
	}
	if !errors.Is(err, reddit.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput in chain", err)
	}
	if collector.calls != 0 {
		t.Errorf("collector called %d times for invalid input, want 0", collector.calls)
	}
}

func TestRunCollectorFailure(t *testing.T) {
	collector := &mockCollector{err: reddit.ErrUserNotFound}
	generator := &mockGenerator{text: "p"}
	writer := &mockWriter{path: "out"}
	runner := NewRunner(collector, generator, writer)

	_, err := runner.Run(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error when collection fails")
	}
	if !errors.Is(err, reddit.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound in chain", err)
	}
	if generator.calls != 0 {
		t.Errorf("generator called %d times after collection failure, want 0", generator.calls)
	}
	if writer.calls != 0 {
		t.Errorf("writer called %d times after collection failure, want 0", writer.calls)
	}
}

func TestRunGeneratorFailure(t *testing.T) {
	genErr := errors.New("model exploded")
	writer := &mockWriter{path: "out"}
	runner := NewRunner(&mockCollector{data: sampleData()}, &mockGenerator{err: genErr}, writer)

	_, err := runner.Run(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error when generation fails")
	}
	if !errors.Is(err, genErr) {
		t.Errorf("error = %v, want generator error in chain", err)
	}
	if !strings.Contains(err.Error(), "generate persona") {
		t.Errorf("error %q does not name the stage", err)
	}
	if writer.calls != 0 {
		t.Errorf("writer called %d times after generation failure, want 0", writer.calls)
	}
}

func TestRunWriterFailure(t *testing.T) {
	writeErr := errors.New("disk full")
	runner := NewRunner(&mockCollector{data: sampleData()}, &mockGenerator{text: "p"}, &mockWriter{err: writeErr})

	result, err := runner.Run(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error when report write fails")
	}
	if !errors.Is(err, writeErr) {
		t.Errorf("error = %v, want writer error in chain", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil on failure", result)
	}
}
