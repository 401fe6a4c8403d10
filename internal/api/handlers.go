package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spread-entry-engine/internal/engine"
	"spread-entry-engine/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// batchEvaluateRequest is the payload for /api/evaluate/batch
type batchEvaluateRequest struct {
	Inputs []engine.Input `json:"inputs" binding:"required"`
}

// evaluationResult wraps a decision with its audit log identifier. In
// batch responses Error is set instead of Decision for inputs that failed
// validation, so the caller always gets one entry per submitted input.
type evaluationResult struct {
	ID          string                `json:"id,omitempty"`
	Ticker      string                `json:"ticker,omitempty"`
	Decision    *engine.EntryDecision `json:"decision,omitempty"`
	EvaluatedAt time.Time             `json:"evaluated_at"`
	Cached      bool                  `json:"cached"`
	Error       string                `json:"error,omitempty"`
}

// handleEvaluate runs the decision engine for a single ticker
func (s *Server) handleEvaluate(c *gin.Context) {
	var input engine.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	input.Ticker = strings.ToUpper(strings.TrimSpace(input.Ticker))
	if input.Ticker == "" {
		errorResponse(c, http.StatusBadRequest, "ticker is required")
		return
	}
	if input.CurrentPrice <= 0 {
		errorResponse(c, http.StatusBadRequest, "current_price must be positive")
		return
	}

	// Serve from cache unless the caller forces a fresh evaluation
	refresh := c.Query("refresh") == "true"
	if !refresh {
		if cached := s.cache.Get(c.Request.Context(), input.Ticker); cached != nil {
			successResponse(c, evaluationResult{
				ID:          uuid.New().String(),
				Ticker:      cached.Ticker,
				Decision:    cached,
				EvaluatedAt: time.Now().UTC(),
				Cached:      true,
			})
			return
		}
	}

	result := s.evaluateAndRecord(c.Request.Context(), input)
	successResponse(c, result)
}

// handleEvaluateBatch runs the decision engine for multiple tickers
func (s *Server) handleEvaluateBatch(c *gin.Context) {
	var req batchEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Inputs) == 0 {
		errorResponse(c, http.StatusBadRequest, "inputs must not be empty")
		return
	}
	if len(req.Inputs) > 50 {
		errorResponse(c, http.StatusBadRequest, "at most 50 inputs per batch")
		return
	}

	// One result per input, in order; invalid inputs carry an error
	// entry rather than disappearing from the response
	results := make([]evaluationResult, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		input.Ticker = strings.ToUpper(strings.TrimSpace(input.Ticker))
		if input.Ticker == "" {
			results = append(results, evaluationResult{Error: "ticker is required"})
			continue
		}
		if input.CurrentPrice <= 0 {
			results = append(results, evaluationResult{
				Ticker: input.Ticker,
				Error:  "current_price must be positive",
			})
			continue
		}
		results = append(results, s.evaluateAndRecord(c.Request.Context(), input))
	}

	successResponse(c, results)
}

// evaluateAndRecord runs the engine, caches the decision, publishes the
// decision event and persists the audit row when a database is attached.
// Requests that omit account sizing inherit the operator-configured
// defaults before the engine applies its own fallbacks.
func (s *Server) evaluateAndRecord(ctx context.Context, input engine.Input) evaluationResult {
	if input.AccountSize <= 0 && s.config.DefaultAccountSize > 0 {
		input.AccountSize = s.config.DefaultAccountSize
	}
	if input.MaxRiskPercent <= 0 && s.config.DefaultMaxRiskPercent > 0 {
		input.MaxRiskPercent = s.config.DefaultMaxRiskPercent
	}

	decision := s.engine.Evaluate(input)
	evaluatedAt := time.Now().UTC()
	id := uuid.New().String()

	s.cache.Set(ctx, input.Ticker, decision)
	s.eventBus.PublishDecision(id, decision.Ticker, string(decision.Action), decision.Confidence.Total)

	if s.db != nil {
		// Persist outside the request lifecycle so a slow database
		// never delays the response
		go func() {
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.db.SaveDecision(saveCtx, id, decision, evaluatedAt); err != nil {
				s.logger.Error().Err(err).Str("ticker", decision.Ticker).Msg("Failed to save decision")
			}
		}()
	}

	return evaluationResult{
		ID:          id,
		Ticker:      decision.Ticker,
		Decision:    decision,
		EvaluatedAt: evaluatedAt,
	}
}

// handleGetDecisions returns recent decisions from the audit log
func (s *Server) handleGetDecisions(c *gin.Context) {
	if s.db == nil {
		errorResponse(c, http.StatusServiceUnavailable, "decision history requires database persistence")
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))

	records, err := s.db.RecentDecisions(c.Request.Context(), ticker, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to query decisions")
		errorResponse(c, http.StatusInternalServerError, "failed to query decisions")
		return
	}

	successResponse(c, records)
}

// handleGetCachedDecision returns the cached decision for a ticker
func (s *Server) handleGetCachedDecision(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		errorResponse(c, http.StatusBadRequest, "ticker is required")
		return
	}

	decision := s.cache.Get(c.Request.Context(), ticker)
	if decision == nil {
		errorResponse(c, http.StatusNotFound, "no cached decision for "+ticker)
		return
	}

	successResponse(c, decision)
}

// handleInvalidateDecision drops the cached decision for a ticker
func (s *Server) handleInvalidateDecision(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		errorResponse(c, http.StatusBadRequest, "ticker is required")
		return
	}

	s.cache.Invalidate(c.Request.Context(), ticker)
	s.eventBus.Publish(events.Event{
		Type: events.EventDecisionInvalidated,
		Data: map[string]interface{}{
			"ticker":      ticker,
			"invalidated": true,
		},
	})

	successResponse(c, gin.H{"ticker": ticker, "invalidated": true})
}
