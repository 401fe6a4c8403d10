package engine

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propNow = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func TestSpreadScore_Bounds_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("quality total stays within [0, 100]", prop.ForAll(
		func(intrinsic, cushion, delta, debit, profit, breakeven float64, days int) bool {
			c := SpreadCandidate{
				Expiration:   propNow.Add(time.Duration(days) * 24 * time.Hour),
				NetDebit:     debit,
				MaxProfit:    profit,
				Breakeven:    breakeven,
				IntrinsicPct: intrinsic,
				CushionPct:   cushion,
				Delta:        delta,
			}
			support := breakeven * 0.95
			score := ScoreSpread(c, &support, nil, propNow)
			return score.Total >= 0 && score.Total <= 100
		},
		gen.Float64Range(-50, 300),
		gen.Float64Range(-20, 30),
		gen.Float64Range(0, 1.5),
		gen.Float64Range(-2, 20),
		gen.Float64Range(-2, 20),
		gen.Float64Range(-10, 500),
		gen.IntRange(-10, 400),
	))

	properties.Property("raising cushion never lowers the cushion sub-score", prop.ForAll(
		func(cushion, bump float64) bool {
			return scoreCushion(cushion+bump) >= scoreCushion(cushion)
		},
		gen.Float64Range(-20, 30),
		gen.Float64Range(0, 30),
	))

	properties.TestingRun(t)
}

func TestConfidence_Bounds_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	regimes := []MarketRegime{RegimeBull, RegimeNeutral, RegimeBear}
	strengths := []RelativeStrength{RSStrong, RSModerate, RSWeak, RSUnderperforming}
	trends := []TrendDirection{TrendImproving, TrendStable, TrendDeteriorating}

	properties.Property("confidence total stays within [0, 100]", prop.ForAll(
		func(stock float64, passed, total, regimeIdx, rsIdx, trendIdx, signalCount int) bool {
			signals := make([]TrendDirection, signalCount)
			for i := range signals {
				signals[i] = trends[(trendIdx+i)%len(trends)]
			}
			in := Input{
				StockScore:       stock,
				Checklist:        Checklist{Passed: passed, Total: total},
				Momentum:         MomentumState{Overall: trends[trendIdx], Signals: signals},
				RelativeStrength: strengths[rsIdx],
				MarketRegime:     regimes[regimeIdx],
			}
			score := ScoreConfidence(in)
			return score.Total >= 0 && score.Total <= 100
		},
		gen.Float64Range(-20, 150),
		gen.IntRange(0, 10),
		gen.IntRange(0, 10),
		gen.IntRange(0, 2),
		gen.IntRange(0, 3),
		gen.IntRange(0, 2),
		gen.IntRange(0, 8),
	))

	properties.Property("raising the stock score never lowers the total", prop.ForAll(
		func(stock, bump float64, regimeIdx int) bool {
			base := Input{
				StockScore:       stock,
				Checklist:        Checklist{Passed: 5, Total: 7},
				Momentum:         MomentumState{Overall: TrendStable},
				RelativeStrength: RSModerate,
				MarketRegime:     regimes[regimeIdx],
			}
			raised := base
			raised.StockScore = stock + bump
			return ScoreConfidence(raised).Total >= ScoreConfidence(base).Total
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}

func TestEvaluate_SafetyOverride_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	e := NewWithClock(func() time.Time { return propNow })

	properties.Property("below MA200 without oversold RSI never enters now", prop.ForAll(
		func(price, maGap, rsi, stock float64, passed int) bool {
			if rsi < 30 {
				rsi += 30 // keep out of the oversold zone
			}
			ma200 := price + maGap
			in := Input{
				Ticker:           "PROP",
				CurrentPrice:     price,
				StockScore:       stock,
				Checklist:        Checklist{Passed: passed, Total: 7},
				Momentum:         MomentumState{Overall: TrendImproving},
				RelativeStrength: RSStrong,
				MarketRegime:     RegimeBull,
				RSI:              &rsi,
				MA200:            &ma200,
				Candidates:       []SpreadCandidate{idealCandidate()},
			}
			return e.Evaluate(in).Action != ActionEnterNow
		},
		gen.Float64Range(10, 500),
		gen.Float64Range(0.01, 100),
		gen.Float64Range(0, 99),
		gen.Float64Range(0, 100),
		gen.IntRange(0, 7),
	))

	properties.Property("contract count is never negative and respects the risk ceiling", prop.ForAll(
		func(debit, account, riskPct float64) bool {
			confidence := ConfidenceScore{Level: ConfidenceVeryHigh}
			sizing := ResolvePositionSizing(confidence, RegimeBull, debit, account, riskPct)
			if sizing.MaxContracts < 0 {
				return false
			}
			if debit > 0 {
				return float64(sizing.MaxContracts)*debit*100 <= float64(sizing.MaxRiskDollars)
			}
			return sizing.MaxContracts == 0
		},
		gen.Float64Range(-5, 50),
		gen.Float64Range(0, 1_000_000),
		gen.Float64Range(0, 10),
	))

	properties.TestingRun(t)
}
