package engine

import (
	"fmt"
	"math"
)

// sizingCell is one entry in the confidence-by-regime sizing matrix
type sizingCell struct {
	Size       PositionSize
	Percentage float64
}

type sizingKey struct {
	Level  ConfidenceLevel
	Regime MarketRegime
}

// sizingMatrix maps (confidence level, market regime) to a sizing tier.
// For a fixed regime, size never increases as confidence drops; for a
// fixed confidence, size never increases as the regime worsens.
var sizingMatrix = map[sizingKey]sizingCell{
	{ConfidenceVeryHigh, RegimeBull}:    {SizeFull, 100},
	{ConfidenceVeryHigh, RegimeNeutral}: {SizeThreeQuarter, 75},
	{ConfidenceVeryHigh, RegimeBear}:    {SizeHalf, 50},

	{ConfidenceHigh, RegimeBull}:    {SizeThreeQuarter, 75},
	{ConfidenceHigh, RegimeNeutral}: {SizeHalf, 50},
	{ConfidenceHigh, RegimeBear}:    {SizeQuarter, 25},

	{ConfidenceModerate, RegimeBull}:    {SizeHalf, 50},
	{ConfidenceModerate, RegimeNeutral}: {SizeQuarter, 25},
	{ConfidenceModerate, RegimeBear}:    {SizeSkip, 0},

	{ConfidenceLow, RegimeBull}:    {SizeQuarter, 25},
	{ConfidenceLow, RegimeNeutral}: {SizeSkip, 0},
	{ConfidenceLow, RegimeBear}:    {SizeSkip, 0},

	{ConfidenceInsufficient, RegimeBull}:    {SizeSkip, 0},
	{ConfidenceInsufficient, RegimeNeutral}: {SizeSkip, 0},
	{ConfidenceInsufficient, RegimeBear}:    {SizeSkip, 0},
}

// Sub-score thresholds below which sizing attaches a qualitative warning
const (
	weakMomentumThreshold    = 10
	weakRelStrengthThreshold = 8
)

// ResolvePositionSizing maps confidence and regime to a sizing tier, then
// converts that tier into a contract count and dollar risk ceiling for the
// given account. A non-positive spread debit yields zero contracts rather
// than dividing by it.
func ResolvePositionSizing(confidence ConfidenceScore, regime MarketRegime, spreadDebit, accountSize, maxRiskPercent float64) PositionSizing {
	cell, ok := sizingMatrix[sizingKey{confidence.Level, regime}]
	if !ok {
		cell = sizingCell{SizeSkip, 0}
	}

	maxRiskDollars := int(math.Round(accountSize * maxRiskPercent / 100 * cell.Percentage / 100))
	maxContracts := 0
	if spreadDebit > 0 {
		maxContracts = int(math.Floor(float64(maxRiskDollars) / (spreadDebit * 100)))
		if maxContracts < 0 {
			maxContracts = 0
		}
	}

	reasoning := []string{
		fmt.Sprintf("Confidence level: %s", confidence.Level),
		fmt.Sprintf("Market regime: %s", regime),
		fmt.Sprintf("Position size: %s (%.0f%% of normal allocation)", cell.Size, cell.Percentage),
	}
	reasoning = append(reasoning, SizingWarnings(confidence, regime)...)

	return PositionSizing{
		Size:           cell.Size,
		Percentage:     cell.Percentage,
		MaxContracts:   maxContracts,
		MaxRiskDollars: maxRiskDollars,
		Reasoning:      reasoning,
	}
}

// SizingWarnings returns the qualitative notes attached when the momentum
// or relative-strength sub-scores are weak, or the regime is bearish. The
// orchestrator surfaces the same notes in the decision's warning list.
func SizingWarnings(confidence ConfidenceScore, regime MarketRegime) []string {
	var warnings []string
	if confidence.Breakdown.Momentum < weakMomentumThreshold {
		warnings = append(warnings, "Weak momentum: consider a smaller position")
	}
	if confidence.Breakdown.RelativeStrength < weakRelStrengthThreshold {
		warnings = append(warnings, "Weak relative strength versus sector")
	}
	if regime == RegimeBear {
		warnings = append(warnings, "Bear market regime: reduced sizing applied")
	}
	return warnings
}
