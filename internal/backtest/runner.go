// Package backtest replays historical seasons through the exact scoring path
// the live engine uses. The walk is strictly forward in time: a date is
// scored with only the data available strictly before it, and its games join
// the history only after its slate is fully scored.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/config"
	"github.com/yourusername/convergence/internal/convergence"
	"github.com/yourusername/convergence/internal/datasource"
	"github.com/yourusername/convergence/internal/grader"
	"github.com/yourusername/convergence/internal/models"
	"github.com/yourusername/convergence/internal/ratings"
	"github.com/yourusername/convergence/internal/signal"
	"github.com/yourusername/convergence/internal/tracker"
)

// archiveLookbackDays extends the snapshot fetch before the walk start so the
// first scored dates have a rating snapshot to stand on.
const archiveLookbackDays = 90

// Runner executes walk-forward backtests
type Runner struct {
	cfg      config.BacktestConfig
	history  datasource.GameHistoryProvider
	archive  datasource.PITRatingArchive
	registry *signal.Registry
	log      *logrus.Logger
	version  string
}

// NewRunner creates a backtest Runner. The archive may be nil; rating-based
// signals then degrade to neutral for the whole run.
func NewRunner(cfg config.BacktestConfig, history datasource.GameHistoryProvider, archive datasource.PITRatingArchive, registry *signal.Registry, log *logrus.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		history:  history,
		archive:  archive,
		registry: registry,
		log:      log,
		version:  config.ProfileVersion,
	}
}

// Run replays [start, end] for one sport and returns the graded report
func (r *Runner) Run(ctx context.Context, sport models.Sport, start, end time.Time) (*Report, error) {
	games, err := r.history.GamesByDateRange(ctx, sport, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching %s history: %w", sport, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%s %s to %s: %w", sport,
			start.Format("2006-01-02"), end.Format("2006-01-02"), models.ErrNoGames)
	}

	pit := r.loadArchive(ctx, sport, start, end)
	days := groupByDate(games)

	report := newReport(sport, start, end, r.cfg.VigPrice, r.cfg.WarmupDays, r.version)
	payout := winPayout(r.cfg.VigPrice)
	warmupCutoff := start.AddDate(0, 0, r.cfg.WarmupDays)

	track := tracker.New()
	for _, day := range days {
		// Score first, then absorb: the day's own results must never inform
		// the day's own picks.
		if !day.date.Before(warmupCutoff) {
			r.scoreDay(day, pit.AsOf(day.date), track, report, payout)
		}
		for _, game := range day.games {
			track.AddGame(game)
		}
	}

	report.finalize(r.cfg.MinDayVolume)

	r.log.WithFields(logrus.Fields{
		"sport":          sport,
		"days":           len(report.Days),
		"games_scored":   report.GamesScored,
		"picks_graded":   report.PicksGraded,
		"picks_rejected": report.PicksRejected,
		"win_rate":       fmt.Sprintf("%.3f", report.Overall.WinRate()),
		"roi":            fmt.Sprintf("%.3f", report.Overall.ROI()),
	}).Info("Backtest completed")
	return report, nil
}

func (r *Runner) loadArchive(ctx context.Context, sport models.Sport, start, end time.Time) *ratings.PITStore {
	if r.archive == nil {
		return ratings.NewPITStore(nil)
	}
	snapshots, err := r.archive.SnapshotsByRange(ctx, sport, start.AddDate(0, 0, -archiveLookbackDays), end)
	if err != nil {
		r.log.WithError(err).Warn("Rating archive unavailable, model signals degrade to neutral")
		return ratings.NewPITStore(nil)
	}
	return ratings.NewPITStore(snapshots)
}

// scoreDay evaluates and grades one date's slate against the pre-date tracker
func (r *Runner) scoreDay(day dayGames, snapshot *models.RatingSnapshot, track *tracker.Tracker, report *Report, payout decimal.Decimal) {
	dayResult := DayResult{Date: day.date}

	for _, game := range day.games {
		report.GamesScored++
		matchup := matchupFromGame(game)

		for _, market := range []models.Market{models.MarketSpread, models.MarketTotal} {
			pipeline, err := r.registry.Get(game.Sport, market)
			if err != nil {
				r.log.WithError(err).WithField("game", matchup.Label()).Error("No pipeline for market")
				continue
			}

			signals := pipeline.Evaluate(signal.Context{
				Matchup: matchup,
				Stats:   track,
				Rating:  snapshot,
				Date:    day.date,
			})

			result := convergence.Score(signals, pipeline.Profile)
			line := matchup.Line(market)
			tier := convergence.Tier(result, signals, line, pipeline.Profile)
			if tier == models.Tier0 {
				report.PicksRejected++
				continue
			}

			pick := &models.Pick{
				ID:        uuid.New(),
				Sport:     game.Sport,
				Market:    market,
				Matchup:   matchup.Label(),
				GameDate:  game.Date,
				Side:      result.Winner,
				Line:      line,
				Score:     result.Score,
				Tier:      tier,
				Reasoning: result.Reasoning,
				Result:    models.PickPending,
			}

			outcome, err := grader.Settle(pick.Side, pick.Line, game)
			if err != nil {
				r.log.WithError(err).WithField("game", matchup.Label()).Error("Settle failed")
				continue
			}
			pick.Result = outcome

			report.recordPick(pick, payout)
			dayResult.Record.add(outcome, payout)
		}
	}

	report.Days = append(report.Days, dayResult)
}

// matchupFromGame reconstructs the pre-game view of a historical game. Only
// the closing lines survive in the archive; moneylines and weather do not, so
// the corresponding signals sit out of replays.
func matchupFromGame(game *models.Game) models.Matchup {
	return models.Matchup{
		ID:             game.ID,
		Sport:          game.Sport,
		Date:           game.Date,
		HomeTeam:       game.HomeTeam,
		AwayTeam:       game.AwayTeam,
		Spread:         game.Spread,
		Total:          game.Total,
		LinesUpdatedAt: game.Date,
	}
}

type dayGames struct {
	date  time.Time
	games []*models.Game
}

// groupByDate buckets games into calendar days, ordered ascending
func groupByDate(games []*models.Game) []dayGames {
	buckets := map[time.Time][]*models.Game{}
	for _, g := range games {
		day := g.Date.UTC().Truncate(24 * time.Hour)
		buckets[day] = append(buckets[day], g)
	}

	days := make([]dayGames, 0, len(buckets))
	for date, bucket := range buckets {
		days = append(days, dayGames{date: date, games: bucket})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].date.Before(days[j].date)
	})
	return days
}
