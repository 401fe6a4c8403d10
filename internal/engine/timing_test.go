package engine

import "testing"

func TestClassifyRSIZone(t *testing.T) {
	cases := []struct {
		rsi  float64
		want RSIZone
	}{
		{15, ZoneOversold},
		{29.9, ZoneOversold},
		{30, ZoneIdeal},
		{45, ZoneIdeal},
		{50, ZoneIdeal},
		{52, ZoneNeutral},
		{54.9, ZoneNeutral},
		{55, ZoneExtended},
		{65, ZoneExtended},
		{70, ZoneOverbought},
		{85, ZoneOverbought},
	}
	for _, c := range cases {
		if got := classifyRSIZone(c.rsi); got != c.want {
			t.Errorf("classifyRSIZone(%.1f) = %s, want %s", c.rsi, got, c.want)
		}
	}
}

func TestClassifyPriceVsMA20(t *testing.T) {
	ma := 100.0
	cases := []struct {
		price float64
		want  PricePosition
	}{
		{98.5, PriceBelowMA},
		{99.5, PriceAtMA},
		{100, PriceAtMA},
		{100.5, PriceAtMA},
		{101.5, PriceAboveMA},
	}
	for _, c := range cases {
		if got := classifyPriceVsMA20(c.price, &ma); got != c.want {
			t.Errorf("classifyPriceVsMA20(%.1f) = %s, want %s", c.price, got, c.want)
		}
	}
	if got := classifyPriceVsMA20(100, nil); got != PriceAtMA {
		t.Errorf("missing MA20 should classify as at, got %s", got)
	}
}

func TestAnalyzeTiming_Defaults(t *testing.T) {
	got := AnalyzeTiming(100, nil, nil, nil)
	if got.RSIZone != ZoneIdeal {
		t.Errorf("default RSI should land in ideal zone, got %s", got.RSIZone)
	}
	if got.PriceVsMA20 != PriceAtMA {
		t.Errorf("missing MA20 should report at, got %s", got.PriceVsMA20)
	}
	if got.DistanceToSupport != defaultSupportDistance {
		t.Errorf("missing support should default to %.0f, got %.1f", defaultSupportDistance, got.DistanceToSupport)
	}
}

func TestAnalyzeTiming_OversoldAlwaysEnters(t *testing.T) {
	rsi := 25.0
	// Even with price far from support, oversold forces an enter call.
	support := 80.0
	got := AnalyzeTiming(100, &rsi, nil, &support)
	if got.Action != TimingEnter {
		t.Errorf("oversold should force enter, got %s", got.Action)
	}
}

func TestAnalyzeTiming_OverboughtWaits(t *testing.T) {
	rsi := 75.0
	ma := 95.0
	got := AnalyzeTiming(100, &rsi, &ma, nil)
	if got.Action != TimingWait {
		t.Fatalf("overbought should wait, got %s", got.Action)
	}
	if got.WaitTarget == nil || *got.WaitTarget != ma {
		t.Errorf("wait target should be MA20 (%.1f), got %v", ma, got.WaitTarget)
	}
	if got.WaitReason == "" {
		t.Error("waiting should carry a reason")
	}
}

func TestAnalyzeTiming_PullbackNearSupport(t *testing.T) {
	rsi := 40.0
	support := 97.0 // 3% below price
	got := AnalyzeTiming(100, &rsi, nil, &support)
	if !got.RecentPullback {
		t.Error("RSI below 45 close to support should flag a recent pullback")
	}
	if got.Action != TimingEnter {
		t.Errorf("pullback near support should enter, got %s", got.Action)
	}
}

func TestAnalyzeTiming_ExtendedAboveMAWaits(t *testing.T) {
	rsi := 62.0
	ma := 95.0
	support := 85.0 // 15% below: far from support
	got := AnalyzeTiming(100, &rsi, &ma, &support)
	if got.Action != TimingWait {
		t.Fatalf("extended above MA20 and far from support should wait, got %s", got.Action)
	}
	if got.PriceVsMA20 != PriceAboveMA {
		t.Errorf("price 100 vs MA 95 should be above, got %s", got.PriceVsMA20)
	}
}

func TestAnalyzeTiming_WaitTargetFallbacks(t *testing.T) {
	rsi := 75.0

	// No MA20: fall back to support.
	support := 90.0
	got := AnalyzeTiming(100, &rsi, nil, &support)
	if got.WaitTarget == nil || *got.WaitTarget != support {
		t.Errorf("wait target should fall back to support, got %v", got.WaitTarget)
	}

	// No MA20 and no support: overbought discounts 5%.
	got = AnalyzeTiming(100, &rsi, nil, nil)
	if got.WaitTarget == nil || !almostEqual(*got.WaitTarget, 95) {
		t.Errorf("overbought wait target should be 95, got %v", got.WaitTarget)
	}
}

func TestAnalyzeTiming_DistanceSigned(t *testing.T) {
	support := 105.0 // above price: breached support
	got := AnalyzeTiming(100, nil, nil, &support)
	if got.DistanceToSupport >= 0 {
		t.Errorf("support above price should give negative distance, got %.1f", got.DistanceToSupport)
	}
}
