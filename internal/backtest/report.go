package backtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/convergence/internal/models"
)

// Record accumulates graded outcomes with vig-adjusted profit in flat units
type Record struct {
	Wins   int             `json:"wins"`
	Losses int             `json:"losses"`
	Pushes int             `json:"pushes"`
	Profit decimal.Decimal `json:"profit"`
}

// winPayout converts a negative American price to the profit on a one-unit
// winning bet. At -110 a winner returns 100/110 of the stake.
func winPayout(vigPrice int) decimal.Decimal {
	price := decimal.NewFromInt(int64(-vigPrice))
	return decimal.NewFromInt(100).DivRound(price, 6)
}

func (r *Record) add(result models.PickResult, payout decimal.Decimal) {
	switch result {
	case models.PickWin:
		r.Wins++
		r.Profit = r.Profit.Add(payout)
	case models.PickLoss:
		r.Losses++
		r.Profit = r.Profit.Sub(decimal.NewFromInt(1))
	case models.PickPush:
		// Stake returned, no profit impact.
		r.Pushes++
	}
}

// Graded returns the number of settled picks including pushes
func (r *Record) Graded() int {
	return r.Wins + r.Losses + r.Pushes
}

// WinRate returns wins over decided picks; pushes are excluded
func (r *Record) WinRate() float64 {
	decided := r.Wins + r.Losses
	if decided == 0 {
		return 0
	}
	return float64(r.Wins) / float64(decided)
}

// ROI returns profit over total units risked. Pushed stakes are returned but
// were still risked, so they stay in the denominator.
func (r *Record) ROI() float64 {
	staked := r.Graded()
	if staked == 0 {
		return 0
	}
	roi, _ := r.Profit.DivRound(decimal.NewFromInt(int64(staked)), 6).Float64()
	return roi
}

// DayResult is one scored date's aggregate
type DayResult struct {
	Date   time.Time `json:"date"`
	Record Record    `json:"record"`
}

// Report is the full walk-forward backtest output
type Report struct {
	Sport          models.Sport `json:"sport"`
	ProfileVersion string       `json:"profile_version"`
	Start          time.Time    `json:"start"`
	End            time.Time    `json:"end"`
	VigPrice       int          `json:"vig_price"`

	Overall      Record             `json:"overall"`
	ByMarket     map[string]*Record `json:"by_market"`
	ByTier       map[string]*Record `json:"by_tier"`
	ByTierMarket map[string]*Record `json:"by_tier_market"`
	ByMonth      map[string]*Record `json:"by_month"`

	Days     []DayResult `json:"days"`
	BestDay  *DayResult  `json:"best_day,omitempty"`
	WorstDay *DayResult  `json:"worst_day,omitempty"`

	// Volume telemetry for the whole run.
	GamesScored   int `json:"games_scored"`
	PicksGraded   int `json:"picks_graded"`
	PicksRejected int `json:"picks_rejected"`
	WarmupDays    int `json:"warmup_days"`
}

func newReport(sport models.Sport, start, end time.Time, vigPrice, warmupDays int, version string) *Report {
	return &Report{
		Sport:          sport,
		ProfileVersion: version,
		Start:          start,
		End:            end,
		VigPrice:       vigPrice,
		ByMarket:       map[string]*Record{},
		ByTier:         map[string]*Record{},
		ByTierMarket:   map[string]*Record{},
		ByMonth:        map[string]*Record{},
		WarmupDays:     warmupDays,
	}
}

func (r *Report) bucket(m map[string]*Record, key string) *Record {
	record, ok := m[key]
	if !ok {
		record = &Record{}
		m[key] = record
	}
	return record
}

// recordPick folds one graded pick into every breakdown
func (r *Report) recordPick(pick *models.Pick, payout decimal.Decimal) {
	r.Overall.add(pick.Result, payout)
	r.bucket(r.ByMarket, string(pick.Market)).add(pick.Result, payout)
	r.bucket(r.ByTier, fmt.Sprintf("tier%d", pick.Tier)).add(pick.Result, payout)
	r.bucket(r.ByTierMarket, fmt.Sprintf("tier%d:%s", pick.Tier, pick.Market)).add(pick.Result, payout)
	r.bucket(r.ByMonth, pick.GameDate.Format("2006-01")).add(pick.Result, payout)
	r.PicksGraded++
}

// finalize ranks days by profit. Days below the volume floor never qualify as
// best or worst; a hot 1-pick day is noise, not an outlier worth reporting.
func (r *Report) finalize(minDayVolume int) {
	sort.Slice(r.Days, func(i, j int) bool {
		return r.Days[i].Date.Before(r.Days[j].Date)
	})

	for i := range r.Days {
		day := &r.Days[i]
		if day.Record.Graded() < minDayVolume {
			continue
		}
		if r.BestDay == nil || day.Record.Profit.GreaterThan(r.BestDay.Record.Profit) {
			r.BestDay = day
		}
		if r.WorstDay == nil || day.Record.Profit.LessThan(r.WorstDay.Record.Profit) {
			r.WorstDay = day
		}
	}
}
