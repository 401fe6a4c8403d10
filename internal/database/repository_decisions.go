package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spread-entry-engine/internal/engine"
)

// DecisionRecord is one row of the decision audit log
type DecisionRecord struct {
	ID              string                 `json:"id"`
	Ticker          string                 `json:"ticker"`
	Action          engine.Action          `json:"action"`
	Timeframe       engine.Timeframe       `json:"timeframe"`
	ConfidenceTotal int                    `json:"confidence_total"`
	ConfidenceLevel engine.ConfidenceLevel `json:"confidence_level"`
	MarketRegime    engine.MarketRegime    `json:"market_regime"`
	SpreadScore     *int                   `json:"spread_score,omitempty"`
	PositionSize    engine.PositionSize    `json:"position_size"`
	MaxContracts    int                    `json:"max_contracts"`
	Decision        *engine.EntryDecision  `json:"decision"`
	EvaluatedAt     time.Time              `json:"evaluated_at"`
}

// SaveDecision appends an evaluated decision to the audit log
func (db *DB) SaveDecision(ctx context.Context, id string, decision *engine.EntryDecision, evaluatedAt time.Time) error {
	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	var spreadScore *int
	if decision.SpreadScore != nil {
		total := decision.SpreadScore.Total
		spreadScore = &total
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO entry_decisions
			(id, ticker, action, timeframe, confidence_total, confidence_level,
			 market_regime, spread_score, position_size, max_contracts, decision, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, decision.Ticker, decision.Action, decision.Timeframe,
		decision.Confidence.Total, decision.Confidence.Level,
		decision.MarketRegime, spreadScore,
		decision.PositionSizing.Size, decision.PositionSizing.MaxContracts,
		payload, evaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}
	return nil
}

// RecentDecisions returns the latest decisions, optionally filtered by
// ticker, newest first.
func (db *DB) RecentDecisions(ctx context.Context, ticker string, limit int) ([]DecisionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `
		SELECT id, ticker, action, timeframe, confidence_total, confidence_level,
		       market_regime, spread_score, position_size, max_contracts, decision, evaluated_at
		FROM entry_decisions`
	args := []interface{}{}
	if ticker != "" {
		query += ` WHERE ticker = $1 ORDER BY evaluated_at DESC LIMIT $2`
		args = append(args, ticker, limit)
	} else {
		query += ` ORDER BY evaluated_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.Ticker, &rec.Action, &rec.Timeframe,
			&rec.ConfidenceTotal, &rec.ConfidenceLevel, &rec.MarketRegime,
			&rec.SpreadScore, &rec.PositionSize, &rec.MaxContracts,
			&payload, &rec.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		var decision engine.EntryDecision
		if err := json.Unmarshal(payload, &decision); err == nil {
			rec.Decision = &decision
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
