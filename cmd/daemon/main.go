// Package main provides the entry point for the convergence daemon: scheduled
// pick generation, periodic grading, and the health/metrics endpoints.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/database"
	"github.com/yourusername/convergence/internal/datasource"
	"github.com/yourusername/convergence/internal/engine"
	"github.com/yourusername/convergence/internal/grader"
	"github.com/yourusername/convergence/internal/health"
	"github.com/yourusername/convergence/internal/logger"
	"github.com/yourusername/convergence/internal/metrics"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/ratings"
	"github.com/yourusername/convergence/internal/repository"
	"github.com/yourusername/convergence/internal/scheduler"
	convsignal "github.com/yourusername/convergence/internal/signal"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the convergence pick engine as a long-lived service",
		RunE:  runDaemon,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Path to config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment":     cfg.App.Environment,
		"profile_version": config.ProfileVersion,
	}).Info("Convergence daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	profiles, err := config.LoadProfiles(cfg)
	if err != nil {
		return err
	}

	clientCfg := datasource.DefaultHTTPClientConfig()
	clientCfg.RateLimit = cfg.Ratings.RequestsPerSecond
	clientCfg.Timeout = time.Duration(cfg.Ratings.TimeoutSeconds) * time.Second
	clientCfg.MaxRetries = cfg.Ratings.MaxRetries
	httpClient := datasource.NewRateLimitedHTTPClient(clientCfg, nil)
	defer httpClient.Close()

	ratingsAPI := datasource.NewRatingsAPIClient(cfg.Ratings.APIURL, cfg.Ratings.APIKey, httpClient, nil)
	linesAPI := datasource.NewLinesAPIClient(cfg.Ratings.APIURL, cfg.Ratings.APIKey, httpClient)
	cached := ratings.NewCachedProvider(ratingsAPI, time.Duration(cfg.Ratings.CacheTTLSeconds)*time.Second, appLog)
	cached.Instrument(m.RatingCacheHits.Inc, m.RatingCacheMisses.Inc)

	pickRepo := repository.NewPostgresPickRepository(db)
	gameRepo := repository.NewPostgresGameRepository(db)

	eng := engine.New(engine.Options{
		Config:         cfg.Engine,
		Registry:       convsignal.NewRegistry(profiles),
		Matchups:       linesAPI,
		History:        gameRepo,
		Angles:         linesAPI,
		Ratings:        cached,
		Sink:           pickRepo,
		Logger:         appLog,
		Metrics:        m,
		ProfileVersion: config.ProfileVersion,
	})
	sweeper := grader.NewSweeper(pickRepo, gameRepo, appLog, m)

	sched := scheduler.NewScheduler(appLog)
	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleGeneration(cfg.Scheduler.GenerationCron, func(jobCtx context.Context) error {
			return generateAll(jobCtx, eng, cfg.Engine.Sports, appLog)
		}); err != nil {
			return err
		}
		if err := sched.ScheduleGrading(cfg.Scheduler.GradingIntervalMins, func(jobCtx context.Context) error {
			_, err := sweeper.Sweep(jobCtx)
			return err
		}); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Warn("Scheduler stop failed")
			}
		}()
	}

	var healthServer *health.Server
	if cfg.Metrics.Enabled {
		healthServer = health.NewServer(cfg.Metrics, registry, appLog, map[string]health.Checker{
			"database": db,
		})
		go func() {
			if err := healthServer.Start(); err != nil {
				appLog.WithError(err).Error("Health server exited")
				cancel()
			}
		}()
	}

	// Block until signalled.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		appLog.WithField("signal", sig.String()).Info("Shutting down")
	case <-ctx.Done():
	}

	if healthServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Warn("Health server shutdown failed")
		}
	}
	return nil
}

func generateAll(ctx context.Context, eng *engine.Engine, sports []string, appLog *logrus.Logger) error {
	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var lastErr error
	for _, sport := range sports {
		if _, _, err := eng.Run(ctx, models.Sport(sport), date); err != nil {
			appLog.WithError(err).WithField("sport", sport).Error("Scheduled generation failed")
			lastErr = err
		}
	}
	return lastErr
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
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
