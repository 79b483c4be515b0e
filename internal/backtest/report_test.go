package backtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/convergence/internal/models"
)

func TestWinPayout(t *testing.T) {
	payout, _ := winPayout(-110).Float64()
	assert.InDelta(t, 0.909091, payout, 1e-6)

	even, _ := winPayout(-100).Float64()
	assert.InDelta(t, 1.0, even, 1e-9)
}

func TestRecordMath(t *testing.T) {
	payout := winPayout(-110)
	r := &Record{}
	r.add(models.PickWin, payout)
	r.add(models.PickWin, payout)
	r.add(models.PickLoss, payout)
	r.add(models.PickPush, payout)

	assert.Equal(t, 2, r.Wins)
	assert.Equal(t, 1, r.Losses)
	assert.Equal(t, 1, r.Pushes)
	assert.Equal(t, 4, r.Graded())
	// Pushes sit out of the win rate but stay in the ROI denominator.
	assert.InDelta(t, 2.0/3.0, r.WinRate(), 1e-9)

	profit, _ := r.Profit.Float64()
	assert.InDelta(t, 2*0.909091-1, profit, 1e-5)
	assert.InDelta(t, (2*0.909091-1)/4, r.ROI(), 1e-5)
}

func TestRecordBreakEvenAtStandardVig(t *testing.T) {
	// 11 wins and 10 losses at -110 is almost exactly flat.
	payout := winPayout(-110)
	r := &Record{}
	for i := 0; i < 11; i++ {
		r.add(models.PickWin, payout)
	}
	for i := 0; i < 10; i++ {
		r.add(models.PickLoss, payout)
	}
	assert.InDelta(t, 0, r.ROI(), 1e-4)
}

func TestEmptyRecord(t *testing.T) {
	r := &Record{}
	assert.Zero(t, r.WinRate())
	assert.Zero(t, r.ROI())
	assert.True(t, r.Profit.Equal(decimal.Zero))
}

func TestReportBreakdowns(t *testing.T) {
	report := newReport(models.SportNBA, time.Now(), time.Now(), -110, 14, "2024.2")
	payout := winPayout(-110)

	pick := &models.Pick{
		Sport:    models.SportNBA,
		Market:   models.MarketSpread,
		Tier:     models.Tier5,
		GameDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Result:   models.PickWin,
	}
	report.recordPick(pick, payout)

	totalPick := &models.Pick{
		Sport:    models.SportNBA,
		Market:   models.MarketTotal,
		Tier:     models.Tier4,
		GameDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Result:   models.PickLoss,
	}
	report.recordPick(totalPick, payout)

	assert.Equal(t, 2, report.PicksGraded)
	assert.Equal(t, 2, report.Overall.Graded())

	require.Contains(t, report.ByMarket, "SPREAD")
	assert.Equal(t, 1, report.ByMarket["SPREAD"].Wins)
	require.Contains(t, report.ByTier, "tier5")
	require.Contains(t, report.ByTierMarket, "tier4:TOTAL")
	assert.Equal(t, 1, report.ByTierMarket["tier4:TOTAL"].Losses)
	require.Contains(t, report.ByMonth, "2024-01")
	require.Contains(t, report.ByMonth, "2024-02")
}

func TestFinalizeBestWorstRespectsVolumeFloor(t *testing.T) {
	report := newReport(models.SportNBA, time.Now(), time.Now(), -110, 0, "2024.2")
	payout := winPayout(-110)

	bigWin := DayResult{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)}
	bigWin.Record.add(models.PickWin, payout)
	// A 1-pick day, however profitable, is below the floor.
	report.Days = append(report.Days, bigWin)

	steady := DayResult{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for i := 0; i < 3; i++ {
		steady.Record.add(models.PickWin, payout)
	}
	steady.Record.add(models.PickLoss, payout)
	report.Days = append(report.Days, steady)

	rough := DayResult{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	for i := 0; i < 4; i++ {
		rough.Record.add(models.PickLoss, payout)
	}
	report.Days = append(report.Days, rough)

	report.finalize(3)

	require.NotNil(t, report.BestDay)
	require.NotNil(t, report.WorstDay)
	assert.Equal(t, steady.Date, report.BestDay.Date)
	assert.Equal(t, rough.Date, report.WorstDay.Date)

	// Days come back sorted ascending after finalize.
	assert.True(t, report.Days[0].Date.Before(report.Days[1].Date))
	assert.True(t, report.Days[1].Date.Before(report.Days[2].Date))
}

func TestFinalizeNoQualifyingDays(t *testing.T) {
	report := newReport(models.SportNBA, time.Now(), time.Now(), -110, 0, "2024.2")
	day := DayResult{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	day.Record.add(models.PickWin, winPayout(-110))
	report.Days = append(report.Days, day)

	report.finalize(5)
	assert.Nil(t, report.BestDay)
	assert.Nil(t, report.WorstDay)
}
