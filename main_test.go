package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPromptUsername(t *testing.T) {
	var prompt bytes.Buffer
	got, err := promptUsername(&prompt, strings.NewReader("  u/spez \n"))
	if err != nil {
		t.Fatalf("promptUsername returned error: %v", err)
	}
	if got != "u/spez" {
		t.Errorf("expected trimmed input %q, got %q", "u/spez", got)
	}
	if !strings.Contains(prompt.String(), "Enter Reddit profile URL or username: ") {
		t.Errorf("prompt not written: %q", prompt.String())
	}
}

func TestPromptUsernameWithoutNewline(t *testing.T) {
	got, err := promptUsername(io.Discard, strings.NewReader("alice"))
	if err != nil {
		t.Fatalf("promptUsername returned error: %v", err)
	}
	if got != "alice" {
		t.Errorf("expected %q, got %q", "alice", got)
	}
}

func TestPromptUsernameEmptyInput(t *testing.T) {
	got, err := promptUsername(io.Discard, strings.NewReader(""))
	if err == nil {
		t.Fatalf("expected error for empty input, got %q", got)
	}
}

func TestPrintEnvHelp(t *testing.T) {
	var buf bytes.Buffer
	printEnvHelp(&buf, []string{"REDDIT_CLIENT_ID", "GEMINI_API_KEY"})
	out := buf.String()

	for _, want := range []string{
		"Missing required environment variables:",
		"  - REDDIT_CLIENT_ID\n",
		"  - GEMINI_API_KEY\n",
		"Please create a .env file with the following variables:",
		"REDDIT_CLIENT_SECRET=your_reddit_client_secret\n",
		"GEMINI_API_KEY=your_gemini_api_key\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("env help missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "  - REDDIT_USERNAME") {
		t.Errorf("env help lists a variable that is not missing:\n%s", out)
	}
}

func TestNewAppFlagsAndCommands(t *testing.T) {
	app := newApp()

	names := make(map[string]bool)
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"config", "posts", "comments", "output", "model"} {
		if !names[want] {
			t.Errorf("missing flag %q", want)
		}
	}

	var hasCheck bool
	for _, cmd := range app.Commands {
		if cmd.Name == "check" {
			hasCheck = true
		}
	}
	if !hasCheck {
		t.Error("missing check command")
	}
}

func TestCheckReportsMissingVars(t *testing.T) {
	for _, v := range []string{
		"REDDIT_CLIENT_ID", "REDDIT_CLIENT_SECRET",
		"REDDIT_USERNAME", "REDDIT_PASSWORD", "GEMINI_API_KEY",
	} {
		t.Setenv(v, "")
	}

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := newApp().Run([]string{"reddit-persona", "check"})

	w.Close()
	os.Stdout = oldStdout
	out, _ := io.ReadAll(r)

	if err == nil {
		t.Fatal("expected an error when credentials are missing")
	}
	if !strings.Contains(string(out), "  - REDDIT_PASSWORD") {
		t.Errorf("check output does not list missing variables:\n%s", out)
	}
}
