package engine

// RSI zone boundaries
const (
	rsiOversoldMax   = 30.0
	rsiIdealMax      = 50.0
	rsiNeutralMax    = 55.0
	rsiOverboughtMin = 70.0
	rsiDefault       = 50.0
)

// maBand is the +/- tolerance treated as "at" the 20-day moving average
const maBand = 0.01

// defaultSupportDistance is assumed when no support level is known
const defaultSupportDistance = 10.0

// AnalyzeTiming classifies current price action into an enter-vs-wait call.
// rsi, ma20 and support are optional; missing values fall back to neutral
// defaults. The recent-pullback check is a proxy (RSI below 45 while close
// to support) standing in for a true multi-day lookback, since no
// historical series is threaded into the analyzer.
func AnalyzeTiming(currentPrice float64, rsi, ma20, support *float64) TimingAnalysis {
	rsiValue := rsiDefault
	if rsi != nil {
		rsiValue = *rsi
	}

	zone := classifyRSIZone(rsiValue)
	vsMA := classifyPriceVsMA20(currentPrice, ma20)

	distance := defaultSupportDistance
	if support != nil && currentPrice > 0 {
		distance = (currentPrice - *support) / currentPrice * 100
	}

	pullback := rsiValue < 45 && distance < 5

	analysis := TimingAnalysis{
		RSIZone:           zone,
		PriceVsMA20:       vsMA,
		DistanceToSupport: distance,
		RecentPullback:    pullback,
	}

	enterVotes := 0
	if zone == ZoneOversold {
		enterVotes++
		analysis.Reasons = append(analysis.Reasons, "RSI oversold")
	}
	if zone == ZoneIdeal && vsMA != PriceAboveMA {
		enterVotes++
		analysis.Reasons = append(analysis.Reasons, "RSI in ideal entry zone with price not extended above MA20")
	}
	if distance < 3 {
		enterVotes++
		analysis.Reasons = append(analysis.Reasons, "Price close to support")
	}
	if pullback {
		enterVotes++
		analysis.Reasons = append(analysis.Reasons, "Recent pullback in progress")
	}

	waitVotes := 0
	waitReason := ""
	if zone == ZoneOverbought {
		waitVotes++
		waitReason = "RSI overbought: wait for a cooldown"
	}
	if zone == ZoneExtended && vsMA == PriceAboveMA {
		waitVotes++
		if waitReason == "" {
			waitReason = "Price extended above MA20: wait for a pullback"
		}
	}
	if distance > 7 && zone != ZoneOversold {
		waitVotes++
		if waitReason == "" {
			waitReason = "Price far from support: wait for a better entry"
		}
	}

	if zone == ZoneOversold || enterVotes > waitVotes {
		analysis.Action = TimingEnter
		return analysis
	}

	analysis.Action = TimingWait
	analysis.WaitReason = waitReason
	analysis.WaitTarget = waitTarget(currentPrice, ma20, support, zone)
	return analysis
}

func classifyRSIZone(rsi float64) RSIZone {
	switch {
	case rsi < rsiOversoldMax:
		return ZoneOversold
	case rsi <= rsiIdealMax:
		return ZoneIdeal
	case rsi < rsiNeutralMax:
		return ZoneNeutral
	case rsi < rsiOverboughtMin:
		return ZoneExtended
	default:
		return ZoneOverbought
	}
}

func classifyPriceVsMA20(price float64, ma20 *float64) PricePosition {
	if ma20 == nil || *ma20 <= 0 {
		return PriceAtMA
	}
	switch {
	case price < *ma20*(1-maBand):
		return PriceBelowMA
	case price > *ma20*(1+maBand):
		return PriceAboveMA
	default:
		return PriceAtMA
	}
}

// waitTarget picks the price to wait for: MA20 when known, else support,
// else a percentage discount sized to how stretched the RSI looks.
func waitTarget(price float64, ma20, support *float64, zone RSIZone) *float64 {
	if ma20 != nil && *ma20 > 0 {
		t := *ma20
		return &t
	}
	if support != nil && *support > 0 {
		t := *support
		return &t
	}
	discount := 0.97
	switch zone {
	case ZoneOverbought:
		discount = 0.95
	case ZoneExtended:
		discount = 0.96
	}
	t := price * discount
	return &t
}
