// Package main provides the entry point for the daily pick generation CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/database"
	"github.com/yourusername/convergence/internal/datasource"
	"github.com/yourusername/convergence/internal/engine"
	"github.com/yourusername/convergence/internal/logger"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/ratings"
	"github.com/yourusername/convergence/internal/repository"
	"github.com/yourusername/convergence/internal/signal"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		sportFlag  = flag.String("sport", "", "Restrict generation to one sport (default: all configured)")
		dateFlag   = flag.String("date", "", "Slate date YYYY-MM-DD (default: today)")
		dryRun     = flag.Bool("dry-run", false, "Score the slate without persisting picks")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := loadConfig(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	date, err := resolveDate(*dateFlag)
	if err != nil {
		appLog.WithError(err).Fatal("Invalid date")
	}

	profiles, err := config.LoadProfiles(cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load scoring profiles")
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	history := repository.NewPostgresGameRepository(db)
	var sink engine.PickSink
	if *dryRun {
		appLog.Info("Dry run: picks will not be persisted")
	} else {
		sink = repository.NewPostgresPickRepository(db)
	}

	httpClient := newHTTPClient(cfg)
	defer httpClient.Close()

	ratingsAPI := datasource.NewRatingsAPIClient(cfg.Ratings.APIURL, cfg.Ratings.APIKey, httpClient, nil)
	linesAPI := datasource.NewLinesAPIClient(cfg.Ratings.APIURL, cfg.Ratings.APIKey, httpClient)
	cached := ratings.NewCachedProvider(ratingsAPI, time.Duration(cfg.Ratings.CacheTTLSeconds)*time.Second, appLog)

	eng := engine.New(engine.Options{
		Config:         cfg.Engine,
		Registry:       signal.NewRegistry(profiles),
		Matchups:       linesAPI,
		History:        history,
		Angles:         linesAPI,
		Ratings:        cached,
		Sink:           sink,
		Logger:         appLog,
		ProfileVersion: config.ProfileVersion,
	})

	sports := cfg.Engine.Sports
	if *sportFlag != "" {
		sports = []string{*sportFlag}
	}

	failed := false
	for _, sport := range sports {
		picks, telemetry, err := eng.Run(ctx, models.Sport(sport), date)
		if err != nil {
			appLog.WithError(err).WithField("sport", sport).Error("Generation run failed")
			failed = true
			continue
		}
		appLog.WithFields(logrus.Fields{
			"sport":     sport,
			"generated": len(picks),
			"rejected":  telemetry.Rejected,
			"errored":   telemetry.Errored,
		}).Info("Generation run finished")
	}
	if failed {
		os.Exit(1)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func newHTTPClient(cfg *config.Config) *datasource.RateLimitedHTTPClient {
	clientCfg := datasource.DefaultHTTPClientConfig()
	clientCfg.RateLimit = cfg.Ratings.RequestsPerSecond
	clientCfg.Timeout = time.Duration(cfg.Ratings.TimeoutSeconds) * time.Second
	clientCfg.MaxRetries = cfg.Ratings.MaxRetries
	return datasource.NewRateLimitedHTTPClient(clientCfg, nil)
}

func resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", dateFlag)
}
