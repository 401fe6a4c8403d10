package cache

import (
	"context"
	"testing"
	"time"

	"spread-entry-engine/internal/engine"

	"github.com/rs/zerolog"
)

func testDecision(ticker string) *engine.EntryDecision {
	return &engine.EntryDecision{
		Ticker: ticker,
		Action: engine.ActionEnterNow,
	}
}

func TestLocalFallbackSetGet(t *testing.T) {
	c := New(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	if got := c.Get(ctx, "AAPL"); got != nil {
		t.Errorf("Expected miss on empty cache, got %+v", got)
	}

	c.Set(ctx, "AAPL", testDecision("AAPL"))

	got := c.Get(ctx, "AAPL")
	if got == nil {
		t.Fatal("Expected a cached decision")
	}
	if got.Ticker != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %s", got.Ticker)
	}
}

func TestLocalEntryExpires(t *testing.T) {
	c := New(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, "MSFT", testDecision("MSFT"))

	// Force expiry without waiting
	c.mu.Lock()
	entry := c.local["MSFT"]
	entry.expiresAt = time.Now().Add(-time.Second)
	c.local["MSFT"] = entry
	c.mu.Unlock()

	if got := c.Get(ctx, "MSFT"); got != nil {
		t.Errorf("Expected expired entry to miss, got %+v", got)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, "NVDA", testDecision("NVDA"))
	c.Invalidate(ctx, "NVDA")

	if got := c.Get(ctx, "NVDA"); got != nil {
		t.Errorf("Expected miss after invalidation, got %+v", got)
	}
}

func TestZeroTTLDefaultsToFiveMinutes(t *testing.T) {
	c := New(nil, 0, zerolog.Nop())
	if c.ttl != 5*time.Minute {
		t.Errorf("Expected default TTL of 5m, got %v", c.ttl)
	}
}

func TestTickersAreIndependent(t *testing.T) {
	c := New(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, "AAPL", testDecision("AAPL"))
	c.Set(ctx, "MSFT", testDecision("MSFT"))
	c.Invalidate(ctx, "AAPL")

	if got := c.Get(ctx, "AAPL"); got != nil {
		t.Error("AAPL should be invalidated")
	}
	if got := c.Get(ctx, "MSFT"); got == nil {
		t.Error("MSFT should still be cached")
	}
}
