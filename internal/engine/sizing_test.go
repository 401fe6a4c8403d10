package engine

import "testing"

func confidenceAt(level ConfidenceLevel) ConfidenceScore {
	return ConfidenceScore{
		Level: level,
		Breakdown: ConfidenceBreakdown{
			Momentum:         15,
			RelativeStrength: 10,
		},
	}
}

func TestResolvePositionSizing_Matrix(t *testing.T) {
	cases := []struct {
		level    ConfidenceLevel
		regime   MarketRegime
		wantSize PositionSize
		wantPct  float64
	}{
		{ConfidenceVeryHigh, RegimeBull, SizeFull, 100},
		{ConfidenceVeryHigh, RegimeNeutral, SizeThreeQuarter, 75},
		{ConfidenceVeryHigh, RegimeBear, SizeHalf, 50},
		{ConfidenceHigh, RegimeBull, SizeThreeQuarter, 75},
		{ConfidenceHigh, RegimeNeutral, SizeHalf, 50},
		{ConfidenceHigh, RegimeBear, SizeQuarter, 25},
		{ConfidenceModerate, RegimeBull, SizeHalf, 50},
		{ConfidenceModerate, RegimeNeutral, SizeQuarter, 25},
		{ConfidenceModerate, RegimeBear, SizeSkip, 0},
		{ConfidenceLow, RegimeBull, SizeQuarter, 25},
		{ConfidenceLow, RegimeNeutral, SizeSkip, 0},
		{ConfidenceLow, RegimeBear, SizeSkip, 0},
		{ConfidenceInsufficient, RegimeBull, SizeSkip, 0},
		{ConfidenceInsufficient, RegimeNeutral, SizeSkip, 0},
		{ConfidenceInsufficient, RegimeBear, SizeSkip, 0},
	}

	for _, c := range cases {
		got := ResolvePositionSizing(confidenceAt(c.level), c.regime, 3.0, 10000, 2)
		if got.Size != c.wantSize || got.Percentage != c.wantPct {
			t.Errorf("(%s, %s): got %s/%.0f%%, want %s/%.0f%%",
				c.level, c.regime, got.Size, got.Percentage, c.wantSize, c.wantPct)
		}
	}
}

// TestResolvePositionSizing_Monotonic verifies the matrix's monotonic
// property: size never increases as confidence drops (fixed regime) or as
// the regime worsens (fixed confidence).
func TestResolvePositionSizing_Monotonic(t *testing.T) {
	levels := []ConfidenceLevel{ConfidenceVeryHigh, ConfidenceHigh, ConfidenceModerate, ConfidenceLow, ConfidenceInsufficient}
	regimes := []MarketRegime{RegimeBull, RegimeNeutral, RegimeBear}

	for _, regime := range regimes {
		prev := 101.0
		for _, level := range levels {
			pct := sizingMatrix[sizingKey{level, regime}].Percentage
			if pct > prev {
				t.Errorf("regime %s: percentage increased from %.0f to %.0f at level %s", regime, prev, pct, level)
			}
			prev = pct
		}
	}
	for _, level := range levels {
		prev := 101.0
		for _, regime := range regimes {
			pct := sizingMatrix[sizingKey{level, regime}].Percentage
			if pct > prev {
				t.Errorf("level %s: percentage increased from %.0f to %.0f in regime %s", level, prev, pct, regime)
			}
			prev = pct
		}
	}
}

func TestResolvePositionSizing_ContractMath(t *testing.T) {
	// full size, $10k account, 2% risk -> $200 ceiling; $0.85 debit ->
	// $85 per contract -> 2 contracts
	got := ResolvePositionSizing(confidenceAt(ConfidenceVeryHigh), RegimeBull, 0.85, 10000, 2)
	if got.MaxRiskDollars != 200 {
		t.Errorf("maxRiskDollars = %d, want 200", got.MaxRiskDollars)
	}
	if got.MaxContracts != 2 {
		t.Errorf("maxContracts = %d, want 2", got.MaxContracts)
	}

	// half size in a bear regime halves the ceiling
	got = ResolvePositionSizing(confidenceAt(ConfidenceVeryHigh), RegimeBear, 0.85, 10000, 2)
	if got.MaxRiskDollars != 100 {
		t.Errorf("maxRiskDollars = %d, want 100", got.MaxRiskDollars)
	}
	if got.MaxContracts != 1 {
		t.Errorf("maxContracts = %d, want 1", got.MaxContracts)
	}
}

func TestResolvePositionSizing_ZeroDebit(t *testing.T) {
	got := ResolvePositionSizing(confidenceAt(ConfidenceVeryHigh), RegimeBull, 0, 10000, 2)
	if got.MaxContracts != 0 {
		t.Errorf("zero debit should yield 0 contracts, got %d", got.MaxContracts)
	}
	got = ResolvePositionSizing(confidenceAt(ConfidenceVeryHigh), RegimeBull, -2, 10000, 2)
	if got.MaxContracts != 0 {
		t.Errorf("negative debit should yield 0 contracts, got %d", got.MaxContracts)
	}
}

func TestResolvePositionSizing_Reasoning(t *testing.T) {
	got := ResolvePositionSizing(confidenceAt(ConfidenceHigh), RegimeNeutral, 3, 10000, 2)
	if len(got.Reasoning) < 3 {
		t.Fatalf("reasoning should state level, regime and percentage, got %v", got.Reasoning)
	}
}

func TestSizingWarnings(t *testing.T) {
	weak := ConfidenceScore{
		Level: ConfidenceHigh,
		Breakdown: ConfidenceBreakdown{
			Momentum:         5, // below the warning threshold
			RelativeStrength: 4, // below the warning threshold
		},
	}
	warnings := SizingWarnings(weak, RegimeBear)
	if len(warnings) != 3 {
		t.Errorf("expected momentum, relative strength and bear warnings, got %v", warnings)
	}

	strong := confidenceAt(ConfidenceVeryHigh)
	if w := SizingWarnings(strong, RegimeBull); len(w) != 0 {
		t.Errorf("strong setup in bull regime should have no sizing warnings, got %v", w)
	}
}
