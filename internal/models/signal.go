package models

// Direction is the side a signal or pick points at. Spread signals use
// home/away, total signals use over/under; neutral carries no lean.
type Direction string

const (
	DirectionHome    Direction = "home"
	DirectionAway    Direction = "away"
	DirectionOver    Direction = "over"
	DirectionUnder   Direction = "under"
	DirectionNeutral Direction = "neutral"
)

// Opposite returns the opposing direction within the same market
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionHome:
		return DirectionAway
	case DirectionAway:
		return DirectionHome
	case DirectionOver:
		return DirectionUnder
	case DirectionUnder:
		return DirectionOver
	default:
		return DirectionNeutral
	}
}

// Strength classifies how statistically meaningful a signal is
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
	StrengthNoise    Strength = "noise"
)

// SignalCategory is the closed vocabulary of evidence categories
type SignalCategory string

const (
	CategoryModelEdge        SignalCategory = "model_edge"
	CategorySeasonForm       SignalCategory = "season_form"
	CategoryRecentForm       SignalCategory = "recent_form"
	CategoryHeadToHead       SignalCategory = "head_to_head"
	CategorySituational      SignalCategory = "situational"
	CategoryMarketDivergence SignalCategory = "market_divergence"
	CategoryAngles           SignalCategory = "angles"
)

// SignalResult is the uniform output of every signal provider.
// Magnitude 0 or a neutral direction contributes zero scoring weight but the
// signal is still reported for transparency.
type SignalResult struct {
	Category   SignalCategory `json:"category"`
	Direction  Direction      `json:"direction"`
	Magnitude  float64        `json:"magnitude"`  // [0,10]
	Confidence float64        `json:"confidence"` // [0,1]
	Label      string         `json:"label"`
	Strength   Strength       `json:"strength"`
}

// IsActive reports whether the signal carries scoring weight
func (s SignalResult) IsActive() bool {
	return s.Direction != DirectionNeutral && s.Magnitude > 0
}

// WeightTable maps signal categories to their weight for one (sport, market).
// Weights are expected to roughly sum to 1; that is a calibration invariant,
// not enforced in code.
type WeightTable map[SignalCategory]float64

// Reason is one ranked entry of a convergence result's reasoning
type Reason struct {
	Label    string   `json:"label"`
	Weight   int      `json:"weight"`
	Strength Strength `json:"strength"`
	Opposing bool     `json:"opposing"`
}

// ConvergenceResult is the scorer output: composite score, winning side and
// ranked reasoning. Derived, never persisted on its own.
type ConvergenceResult struct {
	Score     int       `json:"score"`
	Winner    Direction `json:"winner"`
	Reasoning []Reason  `json:"reasoning"`
}
