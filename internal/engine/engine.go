// Package engine orchestrates live pick generation: it assembles the temporal
// inputs for a slate, runs every (matchup, market) through its signal
// pipeline, and publishes the picks that clear the tier gates.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/convergence"
	"github.com/yourusername/convergence/internal/datasource"
	"github.com/yourusername/convergence/internal/logger"
	"github.com/yourusername/convergence/internal/metrics"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/signal"
	"github.com/yourusername/convergence/internal/tracker"
)

// historyLookbackDays bounds the settled-game fetch used to seed the tracker
// for a run. A year covers any league's season plus its offseason gap.
const historyLookbackDays = 365

// RatingSource serves the current rating snapshot, nil when unavailable
type RatingSource interface {
	Current(ctx context.Context, sport models.Sport) *models.RatingSnapshot
}

// PickSink persists published picks
type PickSink interface {
	SavePicks(ctx context.Context, picks []*models.Pick) error
}

// Engine generates picks for a slate of upcoming matchups
type Engine struct {
	cfg      config.EngineConfig
	registry *signal.Registry
	matchups datasource.MatchupProvider
	history  datasource.GameHistoryProvider
	angles   datasource.AngleProvider
	ratings  RatingSource
	sink     PickSink
	log      *logrus.Logger
	audit    *logger.AuditLogger
	metrics  *metrics.Metrics
	version  string
}

// Options carries the engine's dependencies. Sink and Metrics are optional;
// everything else is required.
type Options struct {
	Config         config.EngineConfig
	Registry       *signal.Registry
	Matchups       datasource.MatchupProvider
	History        datasource.GameHistoryProvider
	Angles         datasource.AngleProvider
	Ratings        RatingSource
	Sink           PickSink
	Logger         *logrus.Logger
	Metrics        *metrics.Metrics
	ProfileVersion string
}

// New creates an Engine
func New(opts Options) *Engine {
	return &Engine{
		cfg:      opts.Config,
		registry: opts.Registry,
		matchups: opts.Matchups,
		history:  opts.History,
		angles:   opts.Angles,
		ratings:  opts.Ratings,
		sink:     opts.Sink,
		log:      opts.Logger,
		audit:    logger.NewAuditLogger(opts.Logger),
		metrics:  opts.Metrics,
		version:  opts.ProfileVersion,
	}
}

// matchupOutcome is one worker's result for a single matchup
type matchupOutcome struct {
	picks    []*models.Pick
	rejected int
	errored  bool
	stale    bool
}

// Run generates picks for one sport's slate on the given date. A matchup that
// fails to evaluate is counted and skipped, never fatal; only the inability
// to fetch the slate itself aborts the run.
func (e *Engine) Run(ctx context.Context, sport models.Sport, date time.Time) ([]*models.Pick, models.RunTelemetry, error) {
	started := time.Now()
	telemetry := models.RunTelemetry{
		RunID: uuid.New(),
		Sport: sport,
		Date:  date,
	}

	slate, err := e.matchups.UpcomingMatchups(ctx, sport, date)
	if err != nil {
		return nil, telemetry, fmt.Errorf("fetching slate for %s: %w", sport, err)
	}
	if len(slate) == 0 {
		e.log.WithFields(logrus.Fields{"sport": sport, "date": date.Format("2006-01-02")}).Info("Empty slate, nothing to generate")
		return nil, telemetry, nil
	}

	source, err := e.buildTracker(ctx, sport, date)
	if err != nil {
		return nil, telemetry, err
	}
	snapshot := e.ratings.Current(ctx, sport)

	outcomes := e.evaluateSlate(ctx, sport, date, slate, source, snapshot)

	var picks []*models.Pick
	for _, outcome := range outcomes {
		switch {
		case outcome.stale:
			telemetry.StaleLines++
		case outcome.errored:
			telemetry.Errored++
		default:
			telemetry.Processed++
			telemetry.Rejected += outcome.rejected
			picks = append(picks, outcome.picks...)
		}
	}
	telemetry.Generated = len(picks)

	if e.sink != nil && len(picks) > 0 {
		if err := e.sink.SavePicks(ctx, picks); err != nil {
			return picks, telemetry, fmt.Errorf("persisting %d picks: %w", len(picks), err)
		}
	}

	e.audit.LogRunCompleted(telemetry)
	if e.metrics != nil {
		e.metrics.RunDuration.WithLabelValues(string(sport)).Observe(time.Since(started).Seconds())
		e.metrics.LastRunTimestamp.WithLabelValues(string(sport)).SetToCurrentTime()
	}
	return picks, telemetry, nil
}

// buildTracker replays the recent settled history into a fresh tracker. Games
// dated on or after the slate date are excluded even if the provider returns
// them.
func (e *Engine) buildTracker(ctx context.Context, sport models.Sport, date time.Time) (tracker.StatsSource, error) {
	start := date.AddDate(0, 0, -historyLookbackDays)
	games, err := e.history.GamesByDateRange(ctx, sport, start, date)
	if err != nil {
		return nil, fmt.Errorf("fetching game history for %s: %w", sport, err)
	}

	t := tracker.New()
	for _, game := range games {
		if !game.Date.Before(date) {
			continue
		}
		t.AddGame(game)
	}
	return t, nil
}

// evaluateSlate fans the slate out over a bounded worker pool
func (e *Engine) evaluateSlate(ctx context.Context, sport models.Sport, date time.Time, slate []models.Matchup, source tracker.StatsSource, snapshot *models.RatingSnapshot) []matchupOutcome {
	workers := e.cfg.BatchSize
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan models.Matchup)
	outcomes := make([]matchupOutcome, 0, len(slate))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for matchup := range jobs {
				outcome := e.evaluateMatchup(ctx, sport, date, matchup, source, snapshot)
				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
			}
		}()
	}

	for _, matchup := range slate {
		jobs <- matchup
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// evaluateMatchup scores one matchup on both markets
func (e *Engine) evaluateMatchup(ctx context.Context, sport models.Sport, date time.Time, matchup models.Matchup, source tracker.StatsSource, snapshot *models.RatingSnapshot) matchupOutcome {
	if e.lineIsStale(matchup) {
		e.log.WithFields(logrus.Fields{
			"matchup":    matchup.Label(),
			"updated_at": matchup.LinesUpdatedAt,
		}).Warn("Skipping matchup with stale lines")
		if e.metrics != nil {
			e.metrics.StaleLines.WithLabelValues(string(sport)).Inc()
		}
		return matchupOutcome{stale: true}
	}

	outcome := matchupOutcome{}
	for _, market := range []models.Market{models.MarketSpread, models.MarketTotal} {
		pipeline, err := e.registry.Get(sport, market)
		if err != nil {
			e.log.WithError(err).WithField("matchup", matchup.Label()).Error("No pipeline for market")
			if e.metrics != nil {
				e.metrics.MatchupErrors.WithLabelValues(string(sport), string(market)).Inc()
			}
			outcome.errored = true
			return outcome
		}

		// Angle lookup failure degrades to an empty set, same as every other
		// missing input.
		angles, err := e.angles.AnglesFor(ctx, matchup, market)
		if err != nil {
			e.log.WithError(err).WithField("matchup", matchup.Label()).Debug("Angle provider unavailable")
			angles = nil
		}

		signals := pipeline.Evaluate(signal.Context{
			Matchup: matchup,
			Stats:   source,
			Rating:  snapshot,
			Angles:  angles,
			Date:    date,
		})

		result := convergence.Score(signals, pipeline.Profile)
		line := matchup.Line(market)
		tier := convergence.Tier(result, signals, line, pipeline.Profile)

		if e.metrics != nil {
			e.metrics.MatchupsProcessed.WithLabelValues(string(sport), string(market)).Inc()
			e.metrics.ConvergenceScore.WithLabelValues(string(sport), string(market)).Observe(float64(result.Score))
		}

		if tier == models.Tier0 {
			outcome.rejected++
			e.audit.LogPickRejected(sport, market, matchup.Label(), result.Score)
			if e.metrics != nil {
				e.metrics.PicksRejected.WithLabelValues(string(sport), string(market)).Inc()
			}
			continue
		}

		pick := e.buildPick(sport, market, matchup, line, result, tier)
		outcome.picks = append(outcome.picks, pick)
		e.audit.LogPickGenerated(pick, e.version)
		if e.metrics != nil {
			e.metrics.PicksGenerated.WithLabelValues(string(sport), string(market), fmt.Sprintf("%d", tier)).Inc()
		}
	}
	return outcome
}

func (e *Engine) lineIsStale(matchup models.Matchup) bool {
	if matchup.LinesUpdatedAt.IsZero() {
		return true
	}
	threshold := time.Duration(e.cfg.StaleLineThresholdMin) * time.Minute
	return time.Since(matchup.LinesUpdatedAt) > threshold
}

func (e *Engine) buildPick(sport models.Sport, market models.Market, matchup models.Matchup, line float64, result models.ConvergenceResult, tier int) *models.Pick {
	return &models.Pick{
		ID:        uuid.New(),
		Sport:     sport,
		Market:    market,
		Matchup:   matchup.Label(),
		GameDate:  matchup.Date,
		Side:      result.Winner,
		Line:      line,
		Score:     result.Score,
		Tier:      tier,
		Headline:  Headline(matchup, market, result.Winner, line),
		Reasoning: result.Reasoning,
		Result:    models.PickPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Headline renders the conventional ticket text for a side at a line
func Headline(matchup models.Matchup, market models.Market, side models.Direction, line float64) string {
	switch side {
	case models.DirectionHome:
		return fmt.Sprintf("%s %+.1f", matchup.HomeTeam, line)
	case models.DirectionAway:
		return fmt.Sprintf("%s %+.1f", matchup.AwayTeam, -line)
	case models.DirectionOver:
		return fmt.Sprintf("%s Over %.1f", matchup.Label(), line)
	case models.DirectionUnder:
		return fmt.Sprintf("%s Under %.1f", matchup.Label(), line)
	default:
		return matchup.Label()
	}
}
