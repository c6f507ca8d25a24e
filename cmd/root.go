package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/app"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/config"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Adaptive AI tutor",
	Long: "tutor answers learner questions with retrieved examples, adapts tone and\n" +
		"length to the learner, and authors and grades quizzes.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides TUTOR_STORE_PATH)")
	pf.String("provider", "", "LLM provider: gemini, anthropic, openai, openrouter, mock")
	pf.String("corpus", "", "Directory holding <subject>/train_clean.json(l) corpora")
	pf.String("strategy", "", "Retrieval strategy: vector or lexical")
	pf.String("log-mode", "", "Log encoding: development or production")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration with the command's flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// buildApp loads configuration and assembles every component.
func buildApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}
