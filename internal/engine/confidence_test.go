package engine

import "testing"

// TestScoreConfidence_StrongSetup covers a strong setup: 80 stock score,
// 6/7 checklist, improving momentum with broad signal consensus, strong
// relative strength in a bull regime.
func TestScoreConfidence_StrongSetup(t *testing.T) {
	in := Input{
		StockScore: 80,
		Checklist:  Checklist{Passed: 6, Total: 7},
		Momentum: MomentumState{
			Overall: TrendImproving,
			Signals: []TrendDirection{TrendImproving, TrendImproving, TrendImproving, TrendImproving},
		},
		RelativeStrength: RSStrong,
		MarketRegime:     RegimeBull,
	}

	score := ScoreConfidence(in)

	if score.Breakdown.StockScore != 24 {
		t.Errorf("stock sub-score = %d, want 24", score.Breakdown.StockScore)
	}
	if score.Breakdown.ChecklistRate != 21 {
		t.Errorf("checklist sub-score = %d, want 21", score.Breakdown.ChecklistRate)
	}
	// Improving base plus the consensus bonus, clamped to the factor cap.
	if score.Breakdown.Momentum != MaxMomentumPoints {
		t.Errorf("momentum sub-score = %d, want %d", score.Breakdown.Momentum, MaxMomentumPoints)
	}
	if score.Breakdown.RelativeStrength != 15 {
		t.Errorf("relative strength sub-score = %d, want 15", score.Breakdown.RelativeStrength)
	}
	if score.Breakdown.MarketRegime != 10 {
		t.Errorf("regime sub-score = %d, want 10", score.Breakdown.MarketRegime)
	}
	if score.Total != 90 {
		t.Errorf("total = %d, want 90", score.Total)
	}
	if score.Level != ConfidenceVeryHigh {
		t.Errorf("level = %s, want %s", score.Level, ConfidenceVeryHigh)
	}
}

func TestScoreConfidence_LevelBoundaries(t *testing.T) {
	cases := []struct {
		total int
		want  ConfidenceLevel
	}{
		{100, ConfidenceVeryHigh},
		{85, ConfidenceVeryHigh},
		{84, ConfidenceHigh},
		{70, ConfidenceHigh},
		{69, ConfidenceModerate},
		{55, ConfidenceModerate},
		{54, ConfidenceLow},
		{40, ConfidenceLow},
		{39, ConfidenceInsufficient},
		{0, ConfidenceInsufficient},
	}
	for _, c := range cases {
		if got := levelForTotal(c.total); got != c.want {
			t.Errorf("levelForTotal(%d) = %s, want %s", c.total, got, c.want)
		}
	}
}

func TestScoreConfidence_ExactBoundaryInputs(t *testing.T) {
	// 30 + 25 + 12 + 15 + 2 = 84 -> high
	in := Input{
		StockScore:       100,
		Checklist:        Checklist{Passed: 5, Total: 5},
		Momentum:         MomentumState{Overall: TrendStable},
		RelativeStrength: RSStrong,
		MarketRegime:     RegimeBear,
	}
	score := ScoreConfidence(in)
	if score.Total != 84 || score.Level != ConfidenceHigh {
		t.Errorf("got total=%d level=%s, want 84/high", score.Total, score.Level)
	}

	// 30 + 25 + 20 + 10 + 0 = 85 -> very_high
	in.Momentum = MomentumState{Overall: TrendImproving}
	in.RelativeStrength = RSModerate
	in.MarketRegime = ""
	score = ScoreConfidence(in)
	if score.Total != 85 || score.Level != ConfidenceVeryHigh {
		t.Errorf("got total=%d level=%s, want 85/very_high", score.Total, score.Level)
	}
}

func TestScoreConfidence_MomentumConsensus(t *testing.T) {
	deteriorating := make([]TrendDirection, 4)
	for i := range deteriorating {
		deteriorating[i] = TrendDeteriorating
	}

	cases := []struct {
		name string
		m    MomentumState
		want int
	}{
		{"improving, no signals", MomentumState{Overall: TrendImproving}, 20},
		{"stable, no signals", MomentumState{Overall: TrendStable}, 12},
		{"deteriorating, no signals", MomentumState{Overall: TrendDeteriorating}, 4},
		{"stable with 4 improving", MomentumState{
			Overall: TrendStable,
			Signals: []TrendDirection{TrendImproving, TrendImproving, TrendImproving, TrendImproving},
		}, 15},
		{"stable with 4 deteriorating", MomentumState{Overall: TrendStable, Signals: deteriorating}, 7},
		{"deteriorating with 4 deteriorating", MomentumState{Overall: TrendDeteriorating, Signals: deteriorating}, 0},
		{"3 improving is not consensus", MomentumState{
			Overall: TrendStable,
			Signals: []TrendDirection{TrendImproving, TrendImproving, TrendImproving},
		}, 12},
	}
	for _, c := range cases {
		if got := scoreMomentum(c.m); got != c.want {
			t.Errorf("%s: momentum = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestScoreConfidence_EmptyChecklist(t *testing.T) {
	score := ScoreConfidence(Input{StockScore: 50})
	if score.Breakdown.ChecklistRate != 0 {
		t.Errorf("empty checklist should contribute 0, got %d", score.Breakdown.ChecklistRate)
	}
	if score.Total < 0 || score.Total > 100 {
		t.Errorf("total %d outside [0, 100]", score.Total)
	}
}

func TestScoreConfidence_RelativeStrengthTiers(t *testing.T) {
	cases := []struct {
		rs   RelativeStrength
		want int
	}{
		{RSStrong, 15},
		{RSModerate, 10},
		{RSWeak, 5},
		{RSUnderperforming, 2},
		{"", 0},
	}
	for _, c := range cases {
		if got := scoreRelativeStrength(c.rs); got != c.want {
			t.Errorf("scoreRelativeStrength(%q) = %d, want %d", c.rs, got, c.want)
		}
	}
}
