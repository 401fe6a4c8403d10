// Package cache provides a short-TTL cache of evaluated decisions keyed by
// ticker. Redis is the primary store so multiple service instances share
// results; when Redis is unavailable the cache degrades to an in-memory
// map so evaluation keeps working.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"spread-entry-engine/internal/engine"
)

const decisionKeyPrefix = "entry:decision"

// DecisionCache caches recent EntryDecisions by ticker
type DecisionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	mu    sync.RWMutex
	local map[string]localEntry
}

type localEntry struct {
	decision  *engine.EntryDecision
	expiresAt time.Time
}

// New creates a decision cache. client may be nil, in which case only the
// in-memory fallback is used.
func New(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *DecisionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DecisionCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "DecisionCache").Logger(),
		local:  make(map[string]localEntry),
	}
}

func decisionKey(ticker string) string {
	return fmt.Sprintf("%s:%s", decisionKeyPrefix, ticker)
}

// Get returns the cached decision for a ticker, or nil on a miss
func (c *DecisionCache) Get(ctx context.Context, ticker string) *engine.EntryDecision {
	if c.client != nil {
		data, err := c.client.Get(ctx, decisionKey(ticker)).Bytes()
		if err == nil {
			var decision engine.EntryDecision
			if jsonErr := json.Unmarshal(data, &decision); jsonErr == nil {
				return &decision
			}
		} else if err != redis.Nil {
			c.logger.Debug().Err(err).Str("ticker", ticker).Msg("redis get failed, using local cache")
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.local[ticker]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.decision
}

// Set stores a decision for a ticker. Redis failures are logged and the
// in-memory fallback still records the entry.
func (c *DecisionCache) Set(ctx context.Context, ticker string, decision *engine.EntryDecision) {
	if c.client != nil {
		data, err := json.Marshal(decision)
		if err == nil {
			if err := c.client.Set(ctx, decisionKey(ticker), data, c.ttl).Err(); err != nil {
				c.logger.Debug().Err(err).Str("ticker", ticker).Msg("redis set failed, using local cache")
			}
		}
	}

	c.mu.Lock()
	c.local[ticker] = localEntry{decision: decision, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops a ticker's cached decision
func (c *DecisionCache) Invalidate(ctx context.Context, ticker string) {
	if c.client != nil {
		if err := c.client.Del(ctx, decisionKey(ticker)).Err(); err != nil {
			c.logger.Debug().Err(err).Str("ticker", ticker).Msg("redis del failed")
		}
	}
	c.mu.Lock()
	delete(c.local, ticker)
	c.mu.Unlock()
}
