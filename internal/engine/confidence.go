package engine

import "math"

// Maximum points per confidence factor
const (
	MaxStockScorePoints  = 30
	MaxChecklistPoints   = 25
	MaxMomentumPoints    = 20
	MaxRelStrengthPoints = 15
	MaxRegimePoints      = 10
)

// Confidence level thresholds on the 0-100 total
const (
	confidenceVeryHighMin = 85
	confidenceHighMin     = 70
	confidenceModerateMin = 55
	confidenceLowMin      = 40
)

// Momentum consensus adjustment: with four or more individual signals
// agreeing, the base classification gets a bonus or penalty.
const (
	momentumConsensusCount   = 4
	momentumImprovingBonus   = 3
	momentumDeterioratingCut = 5
)

// ScoreConfidence grades the overall setup on five weighted criteria,
// independent of any specific spread. Missing optional fields contribute
// zero to their sub-score instead of failing.
func ScoreConfidence(in Input) ConfidenceScore {
	breakdown := ConfidenceBreakdown{
		StockScore:       scoreStockScore(in.StockScore),
		ChecklistRate:    scoreChecklistRate(in.Checklist),
		Momentum:         scoreMomentum(in.Momentum),
		RelativeStrength: scoreRelativeStrength(in.RelativeStrength),
		MarketRegime:     scoreRegime(in.MarketRegime),
	}

	total := breakdown.StockScore + breakdown.ChecklistRate + breakdown.Momentum +
		breakdown.RelativeStrength + breakdown.MarketRegime

	return ConfidenceScore{
		Total:     total,
		Level:     levelForTotal(total),
		Breakdown: breakdown,
	}
}

func levelForTotal(total int) ConfidenceLevel {
	switch {
	case total >= confidenceVeryHighMin:
		return ConfidenceVeryHigh
	case total >= confidenceHighMin:
		return ConfidenceHigh
	case total >= confidenceModerateMin:
		return ConfidenceModerate
	case total >= confidenceLowMin:
		return ConfidenceLow
	default:
		return ConfidenceInsufficient
	}
}

func scoreStockScore(stockScore float64) int {
	points := int(math.Round(stockScore / 100 * MaxStockScorePoints))
	return clampInt(points, 0, MaxStockScorePoints)
}

func scoreChecklistRate(c Checklist) int {
	if c.Total <= 0 {
		return 0
	}
	points := int(math.Round(float64(c.Passed) / float64(c.Total) * MaxChecklistPoints))
	return clampInt(points, 0, MaxChecklistPoints)
}

// scoreMomentum starts from the overall classification and adjusts for
// signal consensus: four or more improving signals add a bonus, four or
// more deteriorating signals subtract, clamped to [0, max].
func scoreMomentum(m MomentumState) int {
	var points int
	switch m.Overall {
	case TrendImproving:
		points = 20
	case TrendStable:
		points = 12
	case TrendDeteriorating:
		points = 4
	default:
		points = 0
	}

	improving, deteriorating := 0, 0
	for _, s := range m.Signals {
		switch s {
		case TrendImproving:
			improving++
		case TrendDeteriorating:
			deteriorating++
		}
	}
	if improving >= momentumConsensusCount {
		points += momentumImprovingBonus
	}
	if deteriorating >= momentumConsensusCount {
		points -= momentumDeterioratingCut
	}

	return clampInt(points, 0, MaxMomentumPoints)
}

func scoreRelativeStrength(rs RelativeStrength) int {
	switch rs {
	case RSStrong:
		return MaxRelStrengthPoints
	case RSModerate:
		return 10
	case RSWeak:
		return 5
	case RSUnderperforming:
		return 2
	default:
		return 0
	}
}

func scoreRegime(regime MarketRegime) int {
	switch regime {
	case RegimeBull:
		return MaxRegimePoints
	case RegimeNeutral:
		return 6
	case RegimeBear:
		return 2
	default:
		return 0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
