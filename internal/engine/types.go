package engine

import "time"

// MarketRegime is the broad market trend classification computed upstream
type MarketRegime string

const (
	RegimeBull    MarketRegime = "bull"
	RegimeNeutral MarketRegime = "neutral"
	RegimeBear    MarketRegime = "bear"
)

// Action is the terminal outcome of one evaluation
type Action string

const (
	ActionEnterNow        Action = "enter_now"
	ActionWaitForPullback Action = "wait_for_pullback"
	ActionPass            Action = "pass"
)

// Timeframe indicates how soon the recommended action applies
type Timeframe string

const (
	TimeframeImmediate Timeframe = "immediate"
	Timeframe1To3Days  Timeframe = "1-3_days"
	TimeframeThisWeek  Timeframe = "this_week"
	TimeframeNextWeek  Timeframe = "next_week"
)

// Rating grades a spread's quality score
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingFair      Rating = "fair"
	RatingPoor      Rating = "poor"
)

// ConfidenceLevel buckets the overall setup confidence
type ConfidenceLevel string

const (
	ConfidenceVeryHigh     ConfidenceLevel = "very_high"
	ConfidenceHigh         ConfidenceLevel = "high"
	ConfidenceModerate     ConfidenceLevel = "moderate"
	ConfidenceLow          ConfidenceLevel = "low"
	ConfidenceInsufficient ConfidenceLevel = "insufficient"
)

// PositionSize is the discrete sizing tier from the sizing matrix
type PositionSize string

const (
	SizeFull         PositionSize = "full"
	SizeThreeQuarter PositionSize = "three_quarter"
	SizeHalf         PositionSize = "half"
	SizeQuarter      PositionSize = "quarter"
	SizeSkip         PositionSize = "skip"
)

// RSIZone classifies the current RSI reading
type RSIZone string

const (
	ZoneOversold   RSIZone = "oversold"
	ZoneIdeal      RSIZone = "ideal"
	ZoneNeutral    RSIZone = "neutral"
	ZoneExtended   RSIZone = "extended"
	ZoneOverbought RSIZone = "overbought"
)

// PricePosition locates price relative to the 20-day moving average
type PricePosition string

const (
	PriceBelowMA PricePosition = "below"
	PriceAtMA    PricePosition = "at"
	PriceAboveMA PricePosition = "above"
)

// TimingAction is the timing analyzer's enter-vs-wait call
type TimingAction string

const (
	TimingEnter TimingAction = "enter"
	TimingWait  TimingAction = "wait"
)

// TrendDirection describes a momentum signal's direction
type TrendDirection string

const (
	TrendImproving     TrendDirection = "improving"
	TrendStable        TrendDirection = "stable"
	TrendDeteriorating TrendDirection = "deteriorating"
)

// RelativeStrength categorizes the stock's trend versus its sector/benchmark
type RelativeStrength string

const (
	RSStrong          RelativeStrength = "strong"
	RSModerate        RelativeStrength = "moderate"
	RSWeak            RelativeStrength = "weak"
	RSUnderperforming RelativeStrength = "underperforming"
)

// SpreadCandidate is one debit-spread candidate produced by the upstream
// spread selector. Immutable once built.
type SpreadCandidate struct {
	LongStrike   float64   `json:"long_strike"`
	ShortStrike  float64   `json:"short_strike"`
	Expiration   time.Time `json:"expiration"`
	NetDebit     float64   `json:"net_debit"`
	MaxProfit    float64   `json:"max_profit"`
	Breakeven    float64   `json:"breakeven"`
	IntrinsicPct float64   `json:"intrinsic_pct"`
	CushionPct   float64   `json:"cushion_pct"`
	Delta        float64   `json:"delta"`
}

// SpreadScoreBreakdown holds the eight weighted sub-scores, each clamped
// to its own maximum before summing.
type SpreadScoreBreakdown struct {
	IntrinsicValue    float64 `json:"intrinsic_value"`
	Cushion           float64 `json:"cushion"`
	DeltaAlignment    float64 `json:"delta_alignment"`
	DTEAlignment      float64 `json:"dte_alignment"`
	SpreadWidth       float64 `json:"spread_width"`
	ReturnOnRisk      float64 `json:"return_on_risk"`
	SupportProtection float64 `json:"support_protection"`
	EarningsRisk      float64 `json:"earnings_risk"`
}

// SpreadQualityScore grades one candidate on a 0-100 scale
type SpreadQualityScore struct {
	Total     int                  `json:"total"`
	Breakdown SpreadScoreBreakdown `json:"breakdown"`
	Rating    Rating               `json:"rating"`
}

// ScoredSpread pairs a candidate with its computed days-to-expiration and
// quality score. Built fresh to rank candidates within one evaluation.
type ScoredSpread struct {
	SpreadCandidate
	DTE          int                `json:"dte"`
	QualityScore SpreadQualityScore `json:"quality_score"`
}

// ConfidenceBreakdown holds the five weighted confidence sub-scores
type ConfidenceBreakdown struct {
	StockScore       int `json:"stock_score"`
	ChecklistRate    int `json:"checklist_rate"`
	Momentum         int `json:"momentum"`
	RelativeStrength int `json:"relative_strength"`
	MarketRegime     int `json:"market_regime"`
}

// ConfidenceScore grades the overall setup independent of any spread
type ConfidenceScore struct {
	Total     int                 `json:"total"`
	Level     ConfidenceLevel     `json:"level"`
	Breakdown ConfidenceBreakdown `json:"breakdown"`
}

// PositionSizing is the sizing recommendation derived from confidence and
// regime via the sizing matrix.
type PositionSizing struct {
	Size           PositionSize `json:"size"`
	Percentage     float64      `json:"percentage"`
	MaxContracts   int          `json:"max_contracts"`
	MaxRiskDollars int          `json:"max_risk_dollars"`
	Reasoning      []string     `json:"reasoning"`
}

// TimingAnalysis classifies current price action into enter-vs-wait
type TimingAnalysis struct {
	Action            TimingAction  `json:"action"`
	RSIZone           RSIZone       `json:"rsi_zone"`
	PriceVsMA20       PricePosition `json:"price_vs_ma20"`
	DistanceToSupport float64       `json:"distance_to_support"`
	RecentPullback    bool          `json:"recent_pullback"`
	WaitTarget        *float64      `json:"wait_target,omitempty"`
	WaitReason        string        `json:"wait_reason,omitempty"`
	Reasons           []string      `json:"reasons,omitempty"`
}

// Checklist carries the externally computed pass/fail gate results
type Checklist struct {
	Passed      int      `json:"passed"`
	Total       int      `json:"total"`
	FailReasons []string `json:"fail_reasons,omitempty"`
}

// MomentumState carries the overall momentum classification plus the
// directions of the individual momentum signals feeding it.
type MomentumState struct {
	Overall TrendDirection   `json:"overall"`
	Signals []TrendDirection `json:"signals,omitempty"`
}

// Input is the fully materialized bundle the engine consumes. All fields
// are produced by upstream collaborators; pointer fields are optional and
// degrade to "no information" when nil.
type Input struct {
	Ticker       string  `json:"ticker"`
	CurrentPrice float64 `json:"current_price"`

	StockScore       float64          `json:"stock_score"`
	TechnicalScore   float64          `json:"technical_score,omitempty"`
	FundamentalScore float64          `json:"fundamental_score,omitempty"`
	AnalystScore     float64          `json:"analyst_score,omitempty"`
	Checklist        Checklist        `json:"checklist"`
	Momentum         MomentumState    `json:"momentum"`
	RelativeStrength RelativeStrength `json:"relative_strength"`
	MarketRegime     MarketRegime     `json:"market_regime"`

	RSI            *float64 `json:"rsi,omitempty"`
	MA20           *float64 `json:"ma20,omitempty"`
	MA50           *float64 `json:"ma50,omitempty"`
	MA200          *float64 `json:"ma200,omitempty"`
	Support1       *float64 `json:"support1,omitempty"`
	Support2       *float64 `json:"support2,omitempty"`
	Resistance1    *float64 `json:"resistance1,omitempty"`
	DaysToEarnings *int     `json:"days_to_earnings,omitempty"`

	Candidates []SpreadCandidate `json:"candidates"`

	AccountSize    float64 `json:"account_size,omitempty"`
	MaxRiskPercent float64 `json:"max_risk_percent,omitempty"`
}

// EntryDecision is the engine's sole output: one terminal action with the
// full audit trail of why it was chosen.
type EntryDecision struct {
	Ticker            string              `json:"ticker"`
	Action            Action              `json:"action"`
	Confidence        ConfidenceScore     `json:"confidence"`
	Timeframe         Timeframe           `json:"timeframe"`
	PositionSizing    PositionSizing      `json:"position_sizing"`
	RecommendedSpread *ScoredSpread       `json:"recommended_spread,omitempty"`
	SpreadScore       *SpreadQualityScore `json:"spread_score,omitempty"`
	Timing            TimingAnalysis      `json:"timing"`
	MarketRegime      MarketRegime        `json:"market_regime"`
	Reasoning         []string            `json:"reasoning"`
	EntryGuidance     []string            `json:"entry_guidance"`
	RiskManagement    []string            `json:"risk_management"`
	Warnings          []string            `json:"warnings"`
}

// Defaults applied when the caller leaves account overrides unset
const (
	DefaultAccountSize    = 10000.0
	DefaultMaxRiskPercent = 2.0
)
