package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"reddit-persona/config"
	"reddit-persona/llm"
	"reddit-persona/persona"
	"reddit-persona/reddit"
	"reddit-persona/report"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// envTemplate documents the .env layout expected on first run.
const envTemplate = `REDDIT_CLIENT_ID=your_reddit_client_id
REDDIT_CLIENT_SECRET=your_reddit_client_secret
REDDIT_USERNAME=your_reddit_username
REDDIT_PASSWORD=your_reddit_password
REDDIT_USER_AGENT=reddit-persona/1.0
GEMINI_API_KEY=your_gemini_api_key
`

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApp creates the CLI application.
func newApp() *cli.App {
	return &cli.App{
		Name:      "reddit-persona",
		Usage:     "Generate a user persona from a Reddit profile",
		Version:   Version,
		ArgsUsage: "[username or profile URL]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.Path(), Usage: "Path to the YAML config file"},
			&cli.IntFlag{Name: "posts", Usage: "Maximum number of posts to fetch"},
			&cli.IntFlag{Name: "comments", Usage: "Maximum number of comments to fetch"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Directory for generated reports"},
			&cli.StringFlag{Name: "model", Usage: "Gemini model name"},
		},
		Commands: []*cli.Command{
			checkCmd(),
		},
		Action: generateAction,
	}
}

func generateAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			printEnvHelp(os.Stderr, config.MissingVars())
		}
		return err
	}

	// Flags override file and environment settings
	if c.IsSet("posts") {
		cfg.MaxPosts = c.Int("posts")
	}
	if c.IsSet("comments") {
		cfg.MaxComments = c.Int("comments")
	}
	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if c.IsSet("model") {
		cfg.GeminiModel = c.String("model")
	}

	setupLogging(cfg.LogLevel)
	slog.Info("config loaded", "path", c.String("config"), "model", cfg.GeminiModel)

	input := strings.TrimSpace(c.Args().First())
	if input == "" {
		fmt.Println("Reddit User Persona Generator")
		fmt.Println(strings.Repeat("=", 50))
		input, err = promptUsername(os.Stdout, os.Stdin)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redditClient := reddit.NewClient(reddit.Credentials{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		Username:     cfg.RedditUsername,
		Password:     cfg.RedditPassword,
		UserAgent:    cfg.RedditUserAgent,
	}, reddit.WithTimeout(cfg.FetchTimeout()))

	llmClient := llm.NewClient(cfg.GeminiAPIKey,
		llm.WithModel(cfg.GeminiModel),
		llm.WithTimeout(cfg.LLMTimeout()),
		llm.WithRetry(cfg.RetryAttempts, cfg.RetryDelay()),
	)

	runner := persona.NewRunner(redditClient, llmClient, report.NewWriter(cfg.OutputDir),
		persona.WithMaxPosts(cfg.MaxPosts),
		persona.WithMaxComments(cfg.MaxComments),
	)

	fmt.Println("Generating persona... This may take a few minutes.")

	result, err := runner.Run(ctx, input)
	if err != nil {
		slog.Error("persona generation failed", "error", err)
		return err
	}

	fmt.Println("Persona generated successfully!")
	fmt.Printf("Analyzed %d posts and %d comments (%d cited excerpts).\n",
		result.PostCount, result.CommentCount, result.CitationCount)
	fmt.Printf("Output saved to: %s\n", result.ReportPath)
	return nil
}

// checkCmd creates the check command.
func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify credentials and configuration without generating a persona",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.Path(), Usage: "Path to the YAML config file"},
			&cli.BoolFlag{Name: "live", Usage: "Send a test request to the Gemini API"},
		},
		Action: func(c *cli.Context) error {
			if missing := config.MissingVars(); len(missing) > 0 {
				printEnvHelp(os.Stdout, missing)
				return errors.New("configuration incomplete")
			}

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			fmt.Println("Configuration OK")

			if c.Bool("live") {
				ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				client := llm.NewClient(cfg.GeminiAPIKey,
					llm.WithModel(cfg.GeminiModel),
					llm.WithTimeout(cfg.LLMTimeout()),
				)
				if err := client.Verify(ctx); err != nil {
					return err
				}
				fmt.Printf("Gemini API OK (model %s)\n", cfg.GeminiModel)
			}
			return nil
		},
	}
}

// setupLogging installs a JSON slog handler on stderr, keeping stdout
// free for the report path.
func setupLogging(level string) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	slog.SetDefault(logger)
}

// parseLogLevel maps a config log level to a slog level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// promptUsername asks for a profile URL or username and reads one line.
func promptUsername(w io.Writer, r io.Reader) (string, error) {
	fmt.Fprint(w, "Enter Reddit profile URL or username: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// printEnvHelp lists missing credential variables and shows a .env template.
func printEnvHelp(w io.Writer, missing []string) {
	fmt.Fprintln(w, "Missing required environment variables:")
	for _, v := range missing {
		fmt.Fprintf(w, "  - %s\n", v)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Please create a .env file with the following variables:")
	fmt.Fprint(w, envTemplate)
}
