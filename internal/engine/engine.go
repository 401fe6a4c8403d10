// Package engine implements the entry decision engine for options debit
// spreads: it combines externally computed signals (stock score, checklist,
// momentum, relative strength, market regime, technical levels) with a list
// of spread candidates and produces one explainable decision per call.
//
// The engine is pure and synchronous. It performs no I/O, holds no shared
// state, and is safe to call concurrently with distinct inputs. Wall-clock
// time enters only through the injected clock, used for days-to-expiration
// and days-to-earnings; freeze it for reproducible results.
package engine

import (
	"fmt"
	"time"
)

// minUsableSpreadScore is the quality total below which the best candidate
// is treated as no spread data at all.
const minUsableSpreadScore = 40

// earningsWarningDays triggers the earnings proximity warning
const earningsWarningDays = 14

// maxFailReasonWarnings caps how many checklist failure reasons are passed
// through into the warning list.
const maxFailReasonWarnings = 3

// Engine evaluates entry decisions. The zero-cost constructor uses the
// system clock; inject a fixed clock for replay and tests.
type Engine struct {
	now func() time.Time
}

// New returns an engine using the system clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock returns an engine whose "now" is supplied by the given
// function. Callers needing reproducible output pass a frozen clock.
func NewWithClock(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Evaluate runs the full decision procedure: score every candidate, score
// the setup confidence, analyze timing, resolve sizing, then walk the
// prioritized decision tree. The returned decision is fully materialized
// and owned by the caller.
func (e *Engine) Evaluate(in Input) *EntryDecision {
	now := e.now()

	accountSize := in.AccountSize
	if accountSize <= 0 {
		accountSize = DefaultAccountSize
	}
	maxRisk := in.MaxRiskPercent
	if maxRisk <= 0 {
		maxRisk = DefaultMaxRiskPercent
	}

	best, hasSpreadData := selectBestSpread(in.Candidates, in.Support1, in.DaysToEarnings, now)

	confidence := ScoreConfidence(in)
	timing := AnalyzeTiming(in.CurrentPrice, in.RSI, in.MA20, in.Support1)

	spreadDebit := 0.0
	if hasSpreadData {
		spreadDebit = best.NetDebit
	}
	sizing := ResolvePositionSizing(confidence, in.MarketRegime, spreadDebit, accountSize, maxRisk)

	decision := &EntryDecision{
		Ticker:         in.Ticker,
		Confidence:     confidence,
		PositionSizing: sizing,
		Timing:         timing,
		MarketRegime:   in.MarketRegime,
	}

	decision.Warnings = collectWarnings(in, confidence)
	decision.Warnings = append(decision.Warnings, SizingWarnings(confidence, in.MarketRegime)...)

	belowMA200 := in.MA200 != nil && in.CurrentPrice < *in.MA200

	// Prioritized decision tree: the first matching rule wins.
	switch {
	case sizing.Size == SizeSkip:
		decision.Action = ActionPass
		decision.Timeframe = TimeframeThisWeek
		decision.Reasoning = append(decision.Reasoning,
			"Insufficient confidence or unfavorable conditions for entry")

	case confidence.Level == ConfidenceInsufficient:
		decision.Action = ActionPass
		decision.Timeframe = TimeframeThisWeek
		decision.Reasoning = append(decision.Reasoning,
			fmt.Sprintf("Confidence score too low to act (%d/100)", confidence.Total))

	case belowMA200 && timing.RSIZone != ZoneOversold:
		decision.Action = ActionWaitForPullback
		decision.Timeframe = TimeframeThisWeek
		decision.Warnings = append(decision.Warnings, "Price below MA200")
		decision.Reasoning = append(decision.Reasoning,
			"Price trading below the 200-day moving average without an oversold reading: trend safety override")

	case confidence.Level == ConfidenceLow && !hasSpreadData:
		decision.Action = ActionPass
		decision.Timeframe = TimeframeThisWeek
		decision.Reasoning = append(decision.Reasoning,
			"Low confidence and no viable spread candidates")

	case timing.Action == TimingWait:
		decision.Action = ActionWaitForPullback
		if timing.RSIZone == ZoneOverbought {
			decision.Timeframe = TimeframeThisWeek
		} else {
			decision.Timeframe = Timeframe1To3Days
		}
		if timing.WaitReason != "" {
			decision.Reasoning = append(decision.Reasoning, timing.WaitReason)
		}

	case hasSpreadData:
		decision.Action = ActionEnterNow
		decision.Timeframe = TimeframeImmediate
		decision.RecommendedSpread = best
		score := best.QualityScore
		decision.SpreadScore = &score
		decision.Reasoning = append(decision.Reasoning,
			fmt.Sprintf("Best spread scores %d/100 (%s)", score.Total, score.Rating))

	default:
		// Equity-only entry: conditions favor entering but no spread
		// candidate cleared the quality bar.
		decision.Action = ActionEnterNow
		decision.Timeframe = TimeframeImmediate
	}

	decision.Reasoning = append(decision.Reasoning, summarizeSetup(in, confidence, timing)...)
	decision.EntryGuidance = buildEntryGuidance(decision, in)
	decision.RiskManagement = buildRiskManagement(decision, in)

	return decision
}

// selectBestSpread scores every candidate and returns the one with the
// highest quality total. Candidates are scanned in input order with a
// strictly-greater comparison, so the first maximum wins ties. A best
// score below the usable threshold, or an empty list, reports no data.
func selectBestSpread(candidates []SpreadCandidate, support *float64, daysToEarnings *int, now time.Time) (*ScoredSpread, bool) {
	var best *ScoredSpread
	for _, c := range candidates {
		scored := ScoredSpread{
			SpreadCandidate: c,
			DTE:             DaysToExpiration(c.Expiration, now),
			QualityScore:    ScoreSpread(c, support, daysToEarnings, now),
		}
		if best == nil || scored.QualityScore.Total > best.QualityScore.Total {
			s := scored
			best = &s
		}
	}
	if best == nil || best.QualityScore.Total < minUsableSpreadScore {
		return best, false
	}
	return best, true
}

// collectWarnings accumulates the non-exclusive warning conditions from the
// raw input and the confidence breakdown.
func collectWarnings(in Input, confidence ConfidenceScore) []string {
	var warnings []string

	if in.DaysToEarnings != nil && *in.DaysToEarnings >= 0 && *in.DaysToEarnings <= earningsWarningDays {
		warnings = append(warnings, fmt.Sprintf("Earnings in %d days", *in.DaysToEarnings))
	}
	if in.MarketRegime == RegimeBear {
		warnings = append(warnings, "Bear market regime")
	}
	if in.Checklist.Total-in.Checklist.Passed > 2 {
		warnings = append(warnings, fmt.Sprintf("Checklist: only %d of %d criteria passed",
			in.Checklist.Passed, in.Checklist.Total))
	}
	if in.Momentum.Overall == TrendDeteriorating {
		warnings = append(warnings, "Momentum deteriorating")
	}
	if in.RelativeStrength == RSUnderperforming {
		warnings = append(warnings, "Underperforming relative to sector")
	}
	for i, reason := range in.Checklist.FailReasons {
		if i >= maxFailReasonWarnings {
			break
		}
		warnings = append(warnings, reason)
	}

	return warnings
}

// summarizeSetup produces the shared narrative lines appended to every
// decision's reasoning, regardless of outcome.
func summarizeSetup(in Input, confidence ConfidenceScore, timing TimingAnalysis) []string {
	lines := []string{
		fmt.Sprintf("Confidence %s (%d/100)", confidence.Level, confidence.Total),
		fmt.Sprintf("Stock score %.0f/100, checklist %d/%d", in.StockScore, in.Checklist.Passed, in.Checklist.Total),
		fmt.Sprintf("Momentum %s, relative strength %s, market regime %s",
			in.Momentum.Overall, in.RelativeStrength, in.MarketRegime),
		fmt.Sprintf("Timing: %s (RSI zone %s, price %s MA20, %.1f%% above support)",
			timing.Action, timing.RSIZone, timing.PriceVsMA20, timing.DistanceToSupport),
	}
	return lines
}

func buildEntryGuidance(d *EntryDecision, in Input) []string {
	switch d.Action {
	case ActionEnterNow:
		if d.RecommendedSpread != nil {
			s := d.RecommendedSpread
			return []string{
				fmt.Sprintf("Buy the %.2f/%.2f call debit spread expiring %s",
					s.LongStrike, s.ShortStrike, s.Expiration.Format("2006-01-02")),
				fmt.Sprintf("Cost: $%.2f per contract ($%.0f total per spread)", s.NetDebit, s.NetDebit*100),
				fmt.Sprintf("Suggested size: %d contract(s)", d.PositionSizing.MaxContracts),
			}
		}
		return []string{
			"Conditions favor entry but no spread candidate cleared the quality bar",
			"Consider an equity entry, or build a debit spread manually:",
			fmt.Sprintf("Target a long leg 6-10%% in the money (near %.2f) and a short leg 2-5%% in the money (near %.2f), aiming at a $5-wide spread",
				in.CurrentPrice*0.92, in.CurrentPrice*0.965),
		}
	case ActionWaitForPullback:
		if d.Timing.WaitTarget != nil {
			return []string{
				fmt.Sprintf("Wait for a pullback toward %.2f before entering", *d.Timing.WaitTarget),
				"Re-evaluate the setup once the target is reached",
			}
		}
		return []string{"Wait for a pullback before entering", "Re-evaluate the setup after the next pullback"}
	default:
		return []string{"No entry recommended: continue monitoring"}
	}
}

func buildRiskManagement(d *EntryDecision, in Input) []string {
	if d.Action == ActionPass || d.RecommendedSpread == nil {
		return nil
	}
	s := d.RecommendedSpread
	contracts := d.PositionSizing.MaxContracts
	if contracts < 1 {
		contracts = 1
	}

	notes := []string{
		fmt.Sprintf("Maximum loss: $%.0f (%d contract(s) at $%.2f debit)",
			s.NetDebit*100*float64(contracts), contracts, s.NetDebit),
		fmt.Sprintf("Breakeven at %.2f", s.Breakeven),
	}
	if in.Support1 != nil {
		notes = append(notes, fmt.Sprintf("Consider exiting on a daily close below support at %.2f", *in.Support1))
	}
	notes = append(notes, "Take profits at 50-60% of maximum gain")
	return notes
}
