package engine

import (
	"math"
	"time"
)

// Maximum points per spread quality factor. Tests assert against these
// constants rather than repeating the numbers.
const (
	MaxIntrinsicPoints    = 20.0
	MaxCushionPoints      = 20.0
	MaxDeltaPoints        = 10.0
	MaxDTEPoints          = 10.0
	MaxWidthPoints        = 5.0
	MaxReturnPoints       = 10.0
	MaxSupportPoints      = 15.0
	MaxEarningsRiskPoints = 10.0
)

// Rating thresholds for the 0-100 quality total
const (
	ratingExcellentMin = 80
	ratingGoodMin      = 60
	ratingFairMin      = 40
)

// canonicalSpreadWidth is the width the scorer treats as ideal, in dollars
const canonicalSpreadWidth = 5.0

// ScoreSpread grades one candidate against the eight weighted criteria.
// support and daysToEarnings are optional; nil means "no information" and
// contributes zero (or full points for earnings risk, where no known date
// means no risk). The function is pure: same inputs and now always produce
// the same score.
func ScoreSpread(c SpreadCandidate, support *float64, daysToEarnings *int, now time.Time) SpreadQualityScore {
	dte := DaysToExpiration(c.Expiration, now)

	breakdown := SpreadScoreBreakdown{
		IntrinsicValue:    scoreIntrinsic(c.IntrinsicPct),
		Cushion:           scoreCushion(c.CushionPct),
		DeltaAlignment:    scoreDelta(c.Delta),
		DTEAlignment:      scoreDTE(dte),
		SpreadWidth:       scoreWidth(c.NetDebit + c.MaxProfit),
		ReturnOnRisk:      scoreReturnOnRisk(c.NetDebit, c.MaxProfit),
		SupportProtection: scoreSupportProtection(c.Breakeven, support),
		EarningsRisk:      scoreEarningsRisk(dte, daysToEarnings),
	}

	total := int(math.Round(breakdown.IntrinsicValue + breakdown.Cushion +
		breakdown.DeltaAlignment + breakdown.DTEAlignment + breakdown.SpreadWidth +
		breakdown.ReturnOnRisk + breakdown.SupportProtection + breakdown.EarningsRisk))

	return SpreadQualityScore{
		Total:     total,
		Breakdown: breakdown,
		Rating:    ratingForTotal(total),
	}
}

// DaysToExpiration returns the ceiling of calendar days between now and the
// expiration date. Expired contracts yield zero or negative values.
func DaysToExpiration(expiration, now time.Time) int {
	return int(math.Ceil(expiration.Sub(now).Hours() / 24))
}

func ratingForTotal(total int) Rating {
	switch {
	case total >= ratingExcellentMin:
		return RatingExcellent
	case total >= ratingGoodMin:
		return RatingGood
	case total >= ratingFairMin:
		return RatingFair
	default:
		return RatingPoor
	}
}

// scoreIntrinsic rewards paying at or below intrinsic value. 100%+ means
// the debit is fully covered by intrinsic value.
func scoreIntrinsic(intrinsicPct float64) float64 {
	switch {
	case intrinsicPct >= 100:
		return MaxIntrinsicPoints
	case intrinsicPct >= 80:
		return 16 + (intrinsicPct-80)/20*4
	case intrinsicPct >= 60:
		return 10 + (intrinsicPct-60)/20*6
	case intrinsicPct >= 40:
		return 5 + (intrinsicPct-40)/20*5
	case intrinsicPct > 0:
		return intrinsicPct / 40 * 5
	default:
		return 0
	}
}

// scoreCushion rewards buffer between current price and breakeven.
// Negative cushion means price already breached breakeven.
func scoreCushion(cushionPct float64) float64 {
	switch {
	case cushionPct >= 7:
		return MaxCushionPoints
	case cushionPct >= 5:
		return 16 + (cushionPct-5)/2*4
	case cushionPct >= 3:
		return 10 + (cushionPct-3)/2*6
	case cushionPct >= 1:
		return 5 + (cushionPct-1)/2*5
	case cushionPct >= 0:
		return cushionPct * 5
	default:
		return 0
	}
}

// scoreDelta rewards the deep-ITM zone where the spread behaves stock-like
func scoreDelta(delta float64) float64 {
	switch {
	case delta >= 0.75 && delta <= 0.85:
		return MaxDeltaPoints
	case delta >= 0.70 && delta <= 0.90:
		return 7
	case delta >= 0.60 && delta <= 0.95:
		return 4
	default:
		return 2
	}
}

func scoreDTE(dte int) float64 {
	switch {
	case dte >= 21 && dte <= 45:
		return MaxDTEPoints
	case dte >= 14 && dte <= 60:
		return 7
	case dte >= 7 && dte <= 90:
		return 4
	default:
		return 2
	}
}

// scoreWidth rewards spreads close to the canonical $5 width
func scoreWidth(width float64) float64 {
	diff := math.Abs(width - canonicalSpreadWidth)
	switch {
	case diff <= 0.5:
		return MaxWidthPoints
	case width >= 4 && width <= 6:
		return 4
	case width >= 3 && width <= 7:
		return 2
	default:
		return 0
	}
}

// scoreReturnOnRisk rewards the max profit as a percentage of the debit
// paid. A non-positive debit contributes zero rather than dividing by it.
func scoreReturnOnRisk(netDebit, maxProfit float64) float64 {
	if netDebit <= 0 {
		return 0
	}
	ror := maxProfit / netDebit * 100
	switch {
	case ror >= 50:
		return MaxReturnPoints
	case ror >= 30:
		return 7 + (ror-30)/20*3
	case ror >= 15:
		return 4 + (ror-15)/15*3
	case ror >= 5:
		return (ror - 5) / 10 * 4
	default:
		return 0
	}
}

// scoreSupportProtection rewards a known support level sitting below the
// breakeven price. The further below breakeven the support sits, the more
// protection it offers.
func scoreSupportProtection(breakeven float64, support *float64) float64 {
	if support == nil || breakeven <= 0 {
		return 0
	}
	if *support >= breakeven {
		return 2
	}
	marginPct := (breakeven - *support) / breakeven * 100
	switch {
	case marginPct >= 5:
		return MaxSupportPoints
	case marginPct >= 3:
		return 10
	case marginPct >= 1:
		return 6
	case marginPct > 0:
		return 3
	default:
		return 0
	}
}

// scoreEarningsRisk penalizes earnings dates falling inside the holding
// window. No known earnings date, or one already behind us, means no risk.
func scoreEarningsRisk(dte int, daysToEarnings *int) float64 {
	if daysToEarnings == nil {
		return MaxEarningsRiskPoints
	}
	d := *daysToEarnings
	switch {
	case d < 0:
		return MaxEarningsRiskPoints
	case d > dte+7:
		return MaxEarningsRiskPoints
	case d > dte:
		return 7
	case d > dte-5:
		return 3
	default:
		return 0
	}
}
