package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sport identifies a supported league
type Sport string

const (
	SportNBA Sport = "NBA"
	SportNFL Sport = "NFL"
	SportMLB Sport = "MLB"
	SportNHL Sport = "NHL"
)

// Market represents the bet market a pick targets
type Market string

const (
	MarketSpread Market = "SPREAD"
	MarketTotal  Market = "TOTAL"
)

// ATSResult represents the settled against-the-spread outcome of a game
type ATSResult string

const (
	ATSHomeCover ATSResult = "HOME_COVER"
	ATSAwayCover ATSResult = "AWAY_COVER"
	ATSPush      ATSResult = "PUSH"
)

// OUResult represents the settled over/under outcome of a game
type OUResult string

const (
	OUOver  OUResult = "OVER"
	OUUnder OUResult = "UNDER"
	OUPush  OUResult = "PUSH"
)

// Game represents a completed game with closing lines and settled results
type Game struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Sport     Sport     `db:"sport" json:"sport" validate:"required"`
	Date      time.Time `db:"game_date" json:"game_date" validate:"required"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	HomeScore int       `db:"home_score" json:"home_score"`
	AwayScore int       `db:"away_score" json:"away_score"`
	// Spread is the closing home line; negative means the home side was favored.
	Spread  float64   `db:"spread" json:"spread"`
	Total   float64   `db:"total" json:"total"`
	ATS     ATSResult `db:"ats_result" json:"ats_result"`
	OU      OUResult  `db:"ou_result" json:"ou_result"`
	Settled bool      `db:"settled" json:"settled"`
}

// SettleResults derives ATS and O/U outcomes from final scores and closing lines
func (g *Game) SettleResults() {
	margin := float64(g.HomeScore - g.AwayScore)
	adjusted := margin + g.Spread
	switch {
	case adjusted > 0:
		g.ATS = ATSHomeCover
	case adjusted < 0:
		g.ATS = ATSAwayCover
	default:
		g.ATS = ATSPush
	}

	combined := float64(g.HomeScore + g.AwayScore)
	switch {
	case combined > g.Total:
		g.OU = OUOver
	case combined < g.Total:
		g.OU = OUUnder
	default:
		g.OU = OUPush
	}
	g.Settled = true
}

// Matchup represents an upcoming game with current market lines
type Matchup struct {
	ID       uuid.UUID `json:"id"`
	Sport    Sport     `json:"sport" validate:"required"`
	Date     time.Time `json:"game_date" validate:"required"`
	HomeTeam string    `json:"home_team" validate:"required"`
	AwayTeam string    `json:"away_team" validate:"required"`
	// Spread is the current home line; Total the current combined-score line.
	Spread float64 `json:"spread"`
	Total  float64 `json:"total"`
	// American-odds moneylines; nil when the book has not posted one.
	HomeMoneyline *int `json:"home_moneyline"`
	AwayMoneyline *int `json:"away_moneyline"`
	// WindMPH is nil indoors or when the feed omits weather.
	WindMPH        *float64  `json:"wind_mph"`
	LinesUpdatedAt time.Time `json:"lines_updated_at"`
}

// Label returns the conventional away-at-home matchup label
func (m Matchup) Label() string {
	return fmt.Sprintf("%s @ %s", m.AwayTeam, m.HomeTeam)
}

// Line returns the relevant market line for a matchup
func (m Matchup) Line(market Market) float64 {
	if market == MarketTotal {
		return m.Total
	}
	return m.Spread
}

// TeamStats is a derived snapshot of a team's settled outcomes, scoped to the
// games replayed into the tracker so far. Never persisted.
type TeamStats struct {
	Team        string
	GamesPlayed int

	ATSWins   int
	ATSLosses int
	ATSPushes int

	Overs       int
	Unders      int
	TotalPushes int

	Last5ATSWins   int
	Last5ATSLosses int
	Last5Overs     int
	Last5Unders    int
	Last5Games     int
}

// ATSRate returns the cover rate excluding pushes
func (s TeamStats) ATSRate() float64 {
	decided := s.ATSWins + s.ATSLosses
	if decided == 0 {
		return 0
	}
	return float64(s.ATSWins) / float64(decided)
}

// OverRate returns the over rate excluding pushes
func (s TeamStats) OverRate() float64 {
	decided := s.Overs + s.Unders
	if decided == 0 {
		return 0
	}
	return float64(s.Overs) / float64(decided)
}

// HeadToHeadRecord summarizes prior meetings between two specific teams
type HeadToHeadRecord struct {
	Meetings           int
	FirstTeamATSWins   int
	FirstTeamATSLosses int
	Overs              int
	Unders             int
}
