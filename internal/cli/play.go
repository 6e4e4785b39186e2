package cli

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"timed-quiz-service/internal/client"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/session"
	"timed-quiz-service/internal/ui"
)

type playOptions struct {
	backendURL string
	timeLimit  time.Duration
	noColor    bool
	logFile    string
}

// NewPlayCmd runs the terminal quiz client against a running server.
func NewPlayCmd(configPath *string) *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, opts)
		},
	}
	cmd.Flags().StringVar(&opts.backendURL, "backend", os.Getenv("BACKEND_URL"), "quiz server base URL (default http://localhost:8080)")
	cmd.Flags().DurationVar(&opts.timeLimit, "time-limit", 0, "quiz time limit (default 5m)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of discarding them")
	return cmd
}

func runPlay(ctx context.Context, configPath string, opts playOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}

	backendURL := opts.backendURL
	if backendURL == "" {
		backendURL = cfg.Client.BackendURL
	}
	if backendURL == "" {
		backendURL = "http://localhost:8080"
	}
	timeLimit := opts.timeLimit
	if timeLimit <= 0 {
		timeLimit = config.TTLDuration(cfg.Quiz.TimeLimit, session.DefaultTimeLimit)
	}

	// logs would tear the terminal UI
	log.SetOutput(io.Discard)
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	}

	api := client.New(backendURL, config.TTLDuration(cfg.Client.Timeout, 10*time.Second))
	sess := session.New(api, api,
		session.WithTimeLimit(timeLimit),
		session.WithSubmitTimeout(config.TTLDuration(cfg.Quiz.SubmitTimeout, session.DefaultSubmitTimeout)),
	)
	defer sess.Close()
	log.Printf("play: session %s against %s", sess.ID(), backendURL)

	program := tea.NewProgram(ui.NewModel(ctx, sess, ui.Options{NoColor: opts.noColor}), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
