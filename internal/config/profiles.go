package config

import (
	"fmt"

	"github.com/yourusername/convergence/internal/models"
)

// ProfileVersion is bumped whenever a default constant is recalibrated, so a
// backtest report can always be tied to the profile that produced it.
const ProfileVersion = "2024.2"

// ScoringProfile is the single source of truth for every tuned constant of
// one (sport, market) pipeline. The live engine and the backtest both receive
// profiles from the same registry; recalibration means editing defaults or
// overriding via YAML, never touching scorer structure.
type ScoringProfile struct {
	Version string
	Sport   models.Sport
	Market  models.Market
	Weights models.WeightTable

	// Quality gate: fewer active signals than this yields the neutral
	// default (score 50, no pick).
	MinActive int

	// Bonuses are disabled for markets where validation showed signal
	// agreement correlates with worse outcomes.
	SkipAgreementBonus bool

	NeutralScore int
	ScoreScale   float64

	AgreementHighShare float64
	AgreementLowShare  float64
	AgreementMinActive int
	AgreementBonusHigh int
	AgreementBonusLow  int

	ContradictionPenaltyMajor int
	ContradictionPenaltyMinor int

	MultiAgreementBonusHigh int
	MultiAgreementBonusLow  int

	Tier5Min int
	Tier4Min int
	// UseTotalsTierOverride routes tiering through the validated
	// magnitude+line function instead of the score thresholds.
	UseTotalsTierOverride bool

	// Model edge constants.
	DeadZonePoints        float64
	HomeAdvantage         float64
	SeasonalRecalibration float64
	PointsPerMagnitude    float64
	ModelEdgeConfidence   float64
	// MarginSigma is the sport's historical margin standard deviation, used
	// to turn a predicted margin into a win probability.
	MarginSigma float64

	// Season form. FlipSeasonForm inverts the lean for sports where the
	// season-long trend empirically mean-reverts.
	FlipSeasonForm          bool
	SeasonFormMinGames      int
	SeasonFormScale         float64
	SeasonFormConfidenceCap int

	// Recent form.
	StreakBonus4        float64
	StreakBonus5        float64
	RecentFormPerGame   float64
	RecentFormStrongMin float64

	HeadToHeadMinGames int
	HeadToHeadScale    float64

	// Situational decision-table constants.
	BackToBackMagnitude float64
	RestMagnitude       float64
	RestAdvantageMin    int
	WindThresholdMPH    float64
	WindMagnitude       float64

	DivergenceThreshold float64
	DivergenceScale     float64

	AngleConfidenceBoost float64

	AngleMultiplierStrong   int
	AngleMultiplierModerate int
	AngleMultiplierWeak     int
}

// ProfileOverride is a YAML-supplied partial override of one profile
type ProfileOverride struct {
	Sport              string             `mapstructure:"sport" validate:"required,sport"`
	Market             string             `mapstructure:"market" validate:"required,market"`
	Weights            map[string]float64 `mapstructure:"weights"`
	MinActive          *int               `mapstructure:"min_active"`
	SkipAgreementBonus *bool              `mapstructure:"skip_agreement_bonus"`
	Tier5Min           *int               `mapstructure:"tier5_min"`
	Tier4Min           *int               `mapstructure:"tier4_min"`
	DeadZonePoints     *float64           `mapstructure:"dead_zone_points"`
	HomeAdvantage      *float64           `mapstructure:"home_advantage"`
	FlipSeasonForm     *bool              `mapstructure:"flip_season_form"`
}

// Profiles is the registry of scoring profiles keyed by (sport, market)
type Profiles map[string]*ScoringProfile

func profileKey(sport models.Sport, market models.Market) string {
	return string(sport) + ":" + string(market)
}

// Get returns the profile for a (sport, market) pipeline
func (p Profiles) Get(sport models.Sport, market models.Market) (*ScoringProfile, error) {
	profile, ok := p[profileKey(sport, market)]
	if !ok {
		return nil, fmt.Errorf("no scoring profile for %s %s", sport, market)
	}
	return profile, nil
}

// Apply layers YAML overrides on top of the defaults
func (p Profiles) Apply(overrides []ProfileOverride) error {
	for _, o := range overrides {
		profile, err := p.Get(models.Sport(o.Sport), models.Market(o.Market))
		if err != nil {
			return err
		}
		for category, weight := range o.Weights {
			profile.Weights[models.SignalCategory(category)] = weight
		}
		if o.MinActive != nil {
			profile.MinActive = *o.MinActive
		}
		if o.SkipAgreementBonus != nil {
			profile.SkipAgreementBonus = *o.SkipAgreementBonus
		}
		if o.Tier5Min != nil {
			profile.Tier5Min = *o.Tier5Min
		}
		if o.Tier4Min != nil {
			profile.Tier4Min = *o.Tier4Min
		}
		if o.DeadZonePoints != nil {
			profile.DeadZonePoints = *o.DeadZonePoints
		}
		if o.HomeAdvantage != nil {
			profile.HomeAdvantage = *o.HomeAdvantage
		}
		if o.FlipSeasonForm != nil {
			profile.FlipSeasonForm = *o.FlipSeasonForm
		}
	}
	return nil
}

// baseProfile carries the constants shared by every pipeline before
// sport/market-specific calibration.
func baseProfile(sport models.Sport, market models.Market) *ScoringProfile {
	return &ScoringProfile{
		Version: ProfileVersion,
		Sport:   sport,
		Market:  market,
		Weights: models.WeightTable{
			models.CategoryModelEdge:        0.30,
			models.CategorySeasonForm:       0.15,
			models.CategoryRecentForm:       0.15,
			models.CategoryHeadToHead:       0.10,
			models.CategorySituational:      0.10,
			models.CategoryMarketDivergence: 0.10,
			models.CategoryAngles:           0.10,
		},

		MinActive: 2,

		NeutralScore: 50,
		ScoreScale:   80,

		AgreementHighShare: 0.80,
		AgreementLowShare:  0.60,
		AgreementMinActive: 3,
		AgreementBonusHigh: 8,
		AgreementBonusLow:  4,

		ContradictionPenaltyMajor: 10,
		ContradictionPenaltyMinor: 5,

		MultiAgreementBonusHigh: 6,
		MultiAgreementBonusLow:  3,

		Tier5Min: 85,
		Tier4Min: 70,

		DeadZonePoints:      0.5,
		PointsPerMagnitude:  1.0,
		ModelEdgeConfidence: 0.85,
		MarginSigma:         12,

		SeasonFormMinGames:      5,
		SeasonFormScale:         20,
		SeasonFormConfidenceCap: 20,

		StreakBonus4:        1.5,
		StreakBonus5:        2.5,
		RecentFormPerGame:   1.5,
		RecentFormStrongMin: 7,

		HeadToHeadMinGames: 3,
		HeadToHeadScale:    20,

		BackToBackMagnitude: 3,
		RestMagnitude:       2,
		RestAdvantageMin:    2,
		WindThresholdMPH:    15,
		WindMagnitude:       4,

		DivergenceThreshold: 0.04,
		DivergenceScale:     50,

		AngleConfidenceBoost: 0.1,

		AngleMultiplierStrong:   3,
		AngleMultiplierModerate: 2,
		AngleMultiplierWeak:     1,
	}
}

// DefaultProfiles builds the calibrated registry for every supported
// (sport, market) pipeline.
func DefaultProfiles() Profiles {
	profiles := Profiles{}

	add := func(profile *ScoringProfile) {
		profiles[profileKey(profile.Sport, profile.Market)] = profile
	}

	nbaSpread := baseProfile(models.SportNBA, models.MarketSpread)
	nbaSpread.HomeAdvantage = 2.8
	nbaSpread.SeasonalRecalibration = 0.3
	nbaSpread.PointsPerMagnitude = 1.2
	add(nbaSpread)

	nbaTotal := baseProfile(models.SportNBA, models.MarketTotal)
	nbaTotal.SeasonalRecalibration = 1.8
	nbaTotal.PointsPerMagnitude = 1.5
	nbaTotal.UseTotalsTierOverride = true
	add(nbaTotal)

	nflSpread := baseProfile(models.SportNFL, models.MarketSpread)
	nflSpread.HomeAdvantage = 2.1
	nflSpread.PointsPerMagnitude = 0.9
	nflSpread.RestAdvantageMin = 4
	nflSpread.MarginSigma = 13.5
	add(nflSpread)

	nflTotal := baseProfile(models.SportNFL, models.MarketTotal)
	nflTotal.PointsPerMagnitude = 1.1
	// Validation showed agreeing NFL total signals grade worse than mixed
	// ones; bonuses stay off for this pipeline.
	nflTotal.SkipAgreementBonus = true
	add(nflTotal)

	nhlSpread := baseProfile(models.SportNHL, models.MarketSpread)
	nhlSpread.HomeAdvantage = 0.25
	nhlSpread.PointsPerMagnitude = 0.3
	nhlSpread.DeadZonePoints = 0.25
	nhlSpread.MarginSigma = 1.9
	add(nhlSpread)

	nhlTotal := baseProfile(models.SportNHL, models.MarketTotal)
	nhlTotal.PointsPerMagnitude = 0.35
	nhlTotal.DeadZonePoints = 0.25
	add(nhlTotal)

	mlbSpread := baseProfile(models.SportMLB, models.MarketSpread)
	mlbSpread.HomeAdvantage = 0.2
	mlbSpread.PointsPerMagnitude = 0.35
	mlbSpread.DeadZonePoints = 0.25
	mlbSpread.MarginSigma = 3.2
	add(mlbSpread)

	mlbTotal := baseProfile(models.SportMLB, models.MarketTotal)
	mlbTotal.PointsPerMagnitude = 0.5
	mlbTotal.DeadZonePoints = 0.25
	// MLB totals mean-revert across a season; the season-form lean is
	// inverted for this pipeline.
	mlbTotal.FlipSeasonForm = true
	mlbTotal.SkipAgreementBonus = true
	add(mlbTotal)

	return profiles
}
