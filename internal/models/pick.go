package models

import (
	"time"

	"github.com/google/uuid"
)

// PickResult is the pick lifecycle state, set exactly once by the grader
type PickResult string

const (
	PickPending PickResult = "PENDING"
	PickWin     PickResult = "WIN"
	PickLoss    PickResult = "LOSS"
	PickPush    PickResult = "PUSH"
)

// Tier levels. Tier 0 means the pick was rejected by the quality gates and is
// reported only in telemetry.
const (
	Tier0 = 0
	Tier3 = 3
	Tier4 = 4
	Tier5 = 5
)

// Pick is one recommendation for a (game, market). Immutable after creation
// except for the grading fields.
type Pick struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Sport    Sport     `db:"sport" json:"sport" validate:"required"`
	Market   Market    `db:"market" json:"market" validate:"required"`
	Matchup  string    `db:"matchup" json:"matchup" validate:"required"`
	GameDate time.Time `db:"game_date" json:"game_date" validate:"required"`
	Side     Direction `db:"side" json:"side" validate:"required"`
	// Line is the market line at generation time, the line the pick is graded
	// against.
	Line      float64    `db:"line" json:"line"`
	Score     int        `db:"score" json:"score" validate:"gte=0,lte=100"`
	Tier      int        `db:"tier" json:"tier" validate:"oneof=0 3 4 5"`
	Headline  string     `db:"headline" json:"headline"`
	Reasoning []Reason   `db:"reasoning" json:"reasoning"`
	Result    PickResult `db:"result" json:"result"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	GradedAt  *time.Time `db:"graded_at" json:"graded_at"`
}

// IsGraded reports whether the grader has settled this pick
func (p *Pick) IsGraded() bool {
	return p.Result != PickPending
}

// RunTelemetry summarizes one pick-generation run
type RunTelemetry struct {
	RunID      uuid.UUID `json:"run_id"`
	Sport      Sport     `json:"sport"`
	Date       time.Time `json:"date"`
	Processed  int       `json:"processed"`
	Errored    int       `json:"errored"`
	Generated  int       `json:"generated"`
	Rejected   int       `json:"rejected"`
	StaleLines int       `json:"stale_lines"`
}
