// Package main provides the entry point for the walk-forward backtest CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/backtest"
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/database"
	"github.com/yourusername/convergence/internal/datasource"
	"github.com/yourusername/convergence/internal/logger"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/repository"
	"github.com/yourusername/convergence/internal/signal"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		sportFlag  = flag.String("sport", "NBA", "Sport to backtest")
		startFlag  = flag.String("start", "", "Walk start date YYYY-MM-DD (required)")
		endFlag    = flag.String("end", "", "Walk end date YYYY-MM-DD (required)")
		output     = flag.String("output", "", "Report output path (default: config backtest.output_path)")
		noArchive  = flag.Bool("no-archive", false, "Skip the rating archive; model signals stay neutral")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	start, end, err := parseRange(*startFlag, *endFlag)
	if err != nil {
		appLog.WithError(err).Fatal("Invalid date range")
	}

	profiles, err := config.LoadProfiles(cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load scoring profiles")
	}

	ctx := context.Background()
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	var archive datasource.PITRatingArchive
	if !*noArchive {
		clientCfg := datasource.DefaultHTTPClientConfig()
		clientCfg.RateLimit = cfg.Ratings.RequestsPerSecond
		clientCfg.Timeout = time.Duration(cfg.Ratings.TimeoutSeconds) * time.Second
		clientCfg.MaxRetries = cfg.Ratings.MaxRetries
		httpClient := datasource.NewRateLimitedHTTPClient(clientCfg, nil)
		defer httpClient.Close()
		archive = datasource.NewRatingsAPIClient(cfg.Ratings.APIURL, cfg.Ratings.APIKey, httpClient, nil)
	}

	runner := backtest.NewRunner(
		cfg.Backtest,
		repository.NewPostgresGameRepository(db),
		archive,
		signal.NewRegistry(profiles),
		appLog,
	)

	appLog.WithFields(logrus.Fields{
		"sport": *sportFlag,
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
	}).Info("Starting walk-forward backtest")

	report, err := runner.Run(ctx, models.Sport(*sportFlag), start, end)
	if err != nil {
		appLog.WithError(err).Fatal("Backtest failed")
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = cfg.Backtest.OutputPath
	}
	if err := writeReport(report, outputPath); err != nil {
		appLog.WithError(err).Fatal("Failed to write report")
	}

	appLog.WithFields(logrus.Fields{
		"picks":    report.PicksGraded,
		"win_rate": fmt.Sprintf("%.1f%%", report.Overall.WinRate()*100),
		"roi":      fmt.Sprintf("%.2f%%", report.Overall.ROI()*100),
		"output":   outputPath,
	}).Info("Backtest report written")
}

func parseRange(startFlag, endFlag string) (time.Time, time.Time, error) {
	if startFlag == "" || endFlag == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-start and -end are required")
	}
	start, err := time.Parse("2006-01-02", startFlag)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", endFlag)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s precedes start %s", endFlag, startFlag)
	}
	return start, end, nil
}

func writeReport(report *backtest.Report, path string) error {
	if path == "" {
		path = "./output/backtest_report.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
