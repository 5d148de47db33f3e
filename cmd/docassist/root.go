package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/docassist/pkg/docassist"
	"github.com/randalmurphal/docassist/pkg/docassist/config"
	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/store"
	"github.com/randalmurphal/docassist/pkg/docassist/tools"
)

// rootFlags holds the persistent flags shared by all subcommands.
type rootFlags struct {
	configPath string
	dbPath     string
	corpusPath string
	sessionID  string
	userID     string
	model      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "docassist",
		Short: "Stateful document assistant",
		Long: `docassist answers questions about a document corpus, summarizes
documents, and evaluates arithmetic, keeping per-session conversation
state in SQLite so sessions survive restarts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Best effort; a missing .env file is not an error.
			_ = godotenv.Load()

			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML or JSON config file")
	pf.StringVar(&flags.dbPath, "db", "./sessions.db", "path to the SQLite session database")
	pf.StringVar(&flags.corpusPath, "corpus", "", "path to a YAML document corpus")
	pf.StringVar(&flags.sessionID, "session", "default", "session identifier")
	pf.StringVar(&flags.userID, "user", "", "user identifier")
	pf.StringVar(&flags.model, "model", "", "model name passed to the claude CLI")
	pf.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	cmd.AddCommand(
		newAskCmd(flags),
		newChatCmd(flags),
		newSessionsCmd(flags),
	)

	return cmd
}

// buildAssistant assembles the assistant from flags, config file, and
// environment. The returned cleanup closes the session store.
func buildAssistant(flags *rootFlags) (*docassist.Assistant, func(), error) {
	cfg := config.New(nil)
	if flags.configPath != "" {
		loaded, err := config.FromFile(flags.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	dbPath := cfg.String("db_path", flags.dbPath)
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}

	corpusPath := flags.corpusPath
	if corpusPath == "" {
		corpusPath = cfg.String("corpus_path", "")
	}
	docs := tools.NewMemoryDocumentStore()
	if corpusPath != "" {
		loaded, err := tools.LoadCorpus(corpusPath)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		for _, d := range loaded {
			docs.Add(d)
		}
	}

	model := flags.model
	if model == "" {
		model = cfg.String("model", os.Getenv("DOCASSIST_MODEL"))
	}
	clientOpts := []llm.ClaudeOption{
		llm.WithTimeout(cfg.Duration("llm_timeout", 2*time.Minute)),
	}
	if model != "" {
		clientOpts = append(clientOpts, llm.WithModel(model))
	}
	if path := cfg.String("claude_path", os.Getenv("DOCASSIST_CLAUDE_PATH")); path != "" {
		clientOpts = append(clientOpts, llm.WithClaudePath(path))
	}
	client := llm.NewClaudeCLI(clientOpts...)

	assistantOpts := []docassist.Option{
		docassist.WithLogger(slog.Default()),
	}
	if cfg.Bool("metrics", false) {
		assistantOpts = append(assistantOpts, docassist.WithMetrics(observability.NewMetricsRecorder()))
	}
	if cfg.Bool("tracing", false) {
		assistantOpts = append(assistantOpts, docassist.WithTracing(observability.NewSpanManager()))
	}

	a, err := docassist.New(client, docs, st, assistantOpts...)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := st.Close(); err != nil {
			slog.Warn("closing session store", slog.String("error", err.Error()))
		}
	}
	return a, cleanup, nil
}
