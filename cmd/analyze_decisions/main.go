// Command analyze_decisions summarizes the decision audit log: how often
// each action fires, and how decisions distribute across confidence levels
// per market regime. Aggregation happens in SQL so the log can grow
// without the report loading every row.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type levelBucket struct {
	Level     string
	Total     int
	Entered   int
	Waited    int
	Passed    int
	AvgPoints float64
}

type regimeBucket struct {
	Regime  string
	Entered int
	Waited  int
	Passed  int
}

type recentDecision struct {
	Ticker          string
	Action          string
	ConfidenceLevel string
	ConfidenceTotal int
	EvaluatedAt     time.Time
}

func main() {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "entry_engine")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("ENTRY DECISION AUDIT LOG ANALYSIS")
	fmt.Println("=================================")

	var totalDecisions int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM entry_decisions`).Scan(&totalDecisions); err != nil {
		fmt.Printf("Count query failed: %v\n", err)
		os.Exit(1)
	}
	if totalDecisions == 0 {
		fmt.Println("\nNo decisions found in the audit log.")
		return
	}
	fmt.Printf("\nAnalyzing %d decisions...\n\n", totalDecisions)

	buckets, err := loadLevelBuckets(ctx, pool)
	if err != nil {
		fmt.Printf("Level aggregation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("CONFIDENCE LEVEL BREAKDOWN")
	fmt.Printf("%-14s %8s %8s %8s %8s %10s\n", "Level", "Total", "Enter", "Wait", "Pass", "Avg Pts")
	for _, lvl := range []string{"very_high", "high", "moderate", "low", "insufficient"} {
		b, ok := buckets[lvl]
		if !ok {
			b = levelBucket{Level: lvl}
		}
		fmt.Printf("%-14s %8d %8d %8d %8d %10.1f\n",
			b.Level, b.Total, b.Entered, b.Waited, b.Passed, b.AvgPoints)
	}

	regimes, err := loadRegimeBuckets(ctx, pool)
	if err != nil {
		fmt.Printf("Regime aggregation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nMARKET REGIME BREAKDOWN")
	fmt.Printf("%-10s %8s %8s %8s\n", "Regime", "Enter", "Wait", "Pass")
	for _, regime := range []string{"bull", "neutral", "bear"} {
		b, ok := regimes[regime]
		if !ok {
			continue
		}
		fmt.Printf("%-10s %8d %8d %8d\n", b.Regime, b.Entered, b.Waited, b.Passed)
	}

	recent, err := loadRecentDecisions(ctx, pool, 10)
	if err != nil {
		fmt.Printf("Recent decisions query failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nMOST RECENT DECISIONS")
	for _, d := range recent {
		fmt.Printf("  %-8s %-18s %-12s %3d pts  %s\n",
			d.Ticker, d.Action, d.ConfidenceLevel, d.ConfidenceTotal,
			d.EvaluatedAt.Format("2006-01-02 15:04"))
	}
}

func loadLevelBuckets(ctx context.Context, pool *pgxpool.Pool) (map[string]levelBucket, error) {
	rows, err := pool.Query(ctx, `
		SELECT confidence_level,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE action = 'enter_now'),
		       COUNT(*) FILTER (WHERE action = 'wait_for_pullback'),
		       COUNT(*) FILTER (WHERE action = 'pass'),
		       AVG(confidence_total)::float8
		FROM entry_decisions
		GROUP BY confidence_level
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make(map[string]levelBucket)
	for rows.Next() {
		var b levelBucket
		if err := rows.Scan(&b.Level, &b.Total, &b.Entered, &b.Waited, &b.Passed, &b.AvgPoints); err != nil {
			return nil, err
		}
		buckets[b.Level] = b
	}
	return buckets, rows.Err()
}

func loadRegimeBuckets(ctx context.Context, pool *pgxpool.Pool) (map[string]regimeBucket, error) {
	rows, err := pool.Query(ctx, `
		SELECT market_regime,
		       COUNT(*) FILTER (WHERE action = 'enter_now'),
		       COUNT(*) FILTER (WHERE action = 'wait_for_pullback'),
		       COUNT(*) FILTER (WHERE action = 'pass')
		FROM entry_decisions
		GROUP BY market_regime
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make(map[string]regimeBucket)
	for rows.Next() {
		var b regimeBucket
		if err := rows.Scan(&b.Regime, &b.Entered, &b.Waited, &b.Passed); err != nil {
			return nil, err
		}
		buckets[b.Regime] = b
	}
	return buckets, rows.Err()
}

func loadRecentDecisions(ctx context.Context, pool *pgxpool.Pool, limit int) ([]recentDecision, error) {
	rows, err := pool.Query(ctx, `
		SELECT ticker, action, confidence_level, confidence_total, evaluated_at
		FROM entry_decisions
		ORDER BY evaluated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []recentDecision
	for rows.Next() {
		var d recentDecision
		if err := rows.Scan(&d.Ticker, &d.Action, &d.ConfidenceLevel, &d.ConfidenceTotal, &d.EvaluatedAt); err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
