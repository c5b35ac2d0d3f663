package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

// ScoreRepository persists user scores in PostgreSQL. It keeps the same
// read-all / write-all contract as the file-backed repository: Load returns
// the full mapping and Save replaces it in one transaction, so the last
// writer wins exactly as with the JSON file.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a ScoreRepository on top of the given pool.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Migrate creates the scores table if it does not exist yet.
func (r *ScoreRepository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS user_scores (
			user_id TEXT PRIMARY KEY,
			total   INT NOT NULL DEFAULT 0,
			weekly  INT NOT NULL DEFAULT 0
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create user_scores table: %w", err)
	}

	return nil
}

// Load reads the full score mapping. An empty table yields an empty mapping.
func (r *ScoreRepository) Load(ctx context.Context) (map[string]entities.UserScore, error) {
	query := "SELECT user_id, total, weekly FROM user_scores"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select user scores: %w", err)
	}
	defer rows.Close()

	scores := map[string]entities.UserScore{}
	for rows.Next() {
		var (
			userID string
			score  entities.UserScore
		)
		if err = rows.Scan(&userID, &score.Total, &score.Weekly); err != nil {
			return nil, fmt.Errorf("scan user score: %w", err)
		}
		scores[userID] = score
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user scores: %w", err)
	}

	return scores, nil
}

// Save replaces the stored mapping with the given one inside a transaction.
func (r *ScoreRepository) Save(ctx context.Context, scores map[string]entities.UserScore) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, "DELETE FROM user_scores"); err != nil {
		return fmt.Errorf("clear user scores: %w", err)
	}

	query := `
		INSERT INTO user_scores (user_id, total, weekly)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			total = EXCLUDED.total,
			weekly = EXCLUDED.weekly
	`

	for userID, score := range scores {
		if _, err = tx.Exec(ctx, query, userID, score.Total, score.Weekly); err != nil {
			return fmt.Errorf("upsert score for user %s: %w", userID, err)
		}
	}

	return tx.Commit(ctx)
}
