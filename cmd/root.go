package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/penwise/internal/app"
	"github.com/abhisek/penwise/internal/config"
	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/llm"
	"github.com/abhisek/penwise/internal/practice"
	"github.com/abhisek/penwise/internal/store"
	"github.com/abhisek/penwise/internal/writing"
)

var rootCmd = &cobra.Command{
	Use:   "penwise",
	Short: "Timed writing practice for English proficiency exams",
	Long: "Penwise is a terminal tutor for IELTS, TOEFL and CET writing tasks. " +
		"Generate a question, write against the clock and get a band-scored review.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.AddFlags(rootCmd)

	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// services bundles what the commands share: the audit store and the
// logged LLM pipeline built from the resolved configuration.
type services struct {
	cfg       *config.Config
	store     *store.Store
	provider  llm.Provider
	generator *writing.Generator
	evaluator *writing.Evaluator
}

// loadConfig resolves the configuration and installs the stderr logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogging(os.Stderr, cfg)
	return cfg, nil
}

func openServices(cmd *cobra.Command) (*services, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client, err := llm.NewClientFromConfig(cfg.LLM)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("configure LLM: %w", err)
	}
	provider := llm.WithLogging(client, cfg.LLM.Provider, st.EventRepo())

	slog.Debug("services ready",
		"provider", cfg.LLM.Provider,
		"model", client.ModelID(),
		"keys", len(cfg.LLM.APIKeys),
		"db", cfg.DBPath)

	return &services{
		cfg:       cfg,
		store:     st,
		provider:  provider,
		generator: writing.NewGenerator(provider),
		evaluator: writing.NewEvaluator(provider),
	}, nil
}

func (s *services) Close() error {
	return s.store.Close()
}

// newMachine builds a fresh writing session over the shared pipeline.
func (s *services) newMachine() *practice.Machine {
	return practice.NewMachine(practice.Options{
		Catalog:   exam.DefaultCatalog(),
		Questions: s.generator,
		Grader:    s.evaluator,
		Recorder:  s.store.EventRepo(),
		Tick:      s.cfg.Tick,
	})
}

func (s *services) providerLabel() string {
	return s.cfg.LLM.Provider + " · " + s.cfg.LLM.ResolvedModel()
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	svc, err := openServices(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	// The terminal belongs to the TUI; logs go next to the database.
	logPath := filepath.Join(filepath.Dir(svc.cfg.DBPath), "penwise.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	setupLogging(logFile, svc.cfg)
	slog.Info("starting penwise", "version", version, "provider", svc.cfg.LLM.Provider)

	return app.Run(cmd.Context(), app.Options{
		NewMachine: svc.newMachine,
		Catalog:    exam.DefaultCatalog(),
		EventRepo:  svc.store.EventRepo(),
		Provider:   svc.providerLabel(),
	})
}

func setupLogging(w io.Writer, cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
