package models

import "time"

// TeamRating is one team's entry in a rating snapshot
type TeamRating struct {
	Team string `json:"team"`
	// Power is the net rating in points relative to an average opponent on a
	// neutral floor.
	Power float64 `json:"power"`
	// OffEff and DefEff are points scored/allowed per 100 possessions.
	OffEff float64 `json:"off_eff"`
	DefEff float64 `json:"def_eff"`
	// Pace is possessions per game.
	Pace float64 `json:"pace"`
}

// RatingSnapshot is a dated copy of an external rating system. Point-in-time
// lookup selects the latest snapshot dated at or before the query date.
type RatingSnapshot struct {
	Sport   Sport                 `json:"sport"`
	Date    time.Time             `json:"date"`
	Ratings map[string]TeamRating `json:"ratings"`
}

// Get looks up a team rating by canonical name
func (s *RatingSnapshot) Get(team string) (TeamRating, bool) {
	if s == nil || s.Ratings == nil {
		return TeamRating{}, false
	}
	r, ok := s.Ratings[team]
	return r, ok
}

// Angle is one externally discovered historical filter that currently applies
// to a matchup side.
type Angle struct {
	Label    string    `json:"label"`
	Side     Direction `json:"side"`
	Wins     int       `json:"wins"`
	Losses   int       `json:"losses"`
	Rate     float64   `json:"rate"`
	Strength Strength  `json:"strength"`
}
