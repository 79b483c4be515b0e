// Package main provides the entry point for the pick grading CLI.
package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/database"
	"github.com/yourusername/convergence/internal/grader"
	"github.com/yourusername/convergence/internal/logger"
	"github.com/yourusername/convergence/internal/repository"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "grade",
		Short: "Settle pending picks against completed games",
		Long: "Fetches every pending pick whose game date has passed, resolves the " +
			"final score, and grades the pick WIN, LOSS or PUSH against its own line.",
		RunE: runSweep,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Path to config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	ctx := context.Background()
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	sweeper := grader.NewSweeper(
		repository.NewPostgresPickRepository(db),
		repository.NewPostgresGameRepository(db),
		appLog,
		nil,
	)

	graded, err := sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	appLog.WithField("graded", graded).Info("Grading finished")
	return nil
}
