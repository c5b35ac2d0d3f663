package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aqylbek/islamquiz-bot/internal/domain/entities"
)

// ScoreRepository persists user scores in a single JSON file. The file is
// read and written whole; Save replaces it atomically via a temp file and
// rename, so no reader ever observes a partial write.
type ScoreRepository struct {
	path string
}

// NewScoreRepository creates a repository backed by the given file path.
// The file does not need to exist yet.
func NewScoreRepository(path string) *ScoreRepository {
	return &ScoreRepository{path: path}
}

// Load reads the full score mapping. A missing file is an empty ledger,
// not an error.
func (r *ScoreRepository) Load(ctx context.Context) (map[string]entities.UserScore, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]entities.UserScore{}, nil
		}
		return nil, fmt.Errorf("read scores file: %w", err)
	}

	scores := map[string]entities.UserScore{}
	if err = json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores JSON: %w", err)
	}

	return scores, nil
}

// Save overwrites the scores file with the given mapping.
func (r *ScoreRepository) Save(ctx context.Context, scores map[string]entities.UserScore) error {
	data, err := json.MarshalIndent(scores, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "scores-*.json")
	if err != nil {
		return fmt.Errorf("create temp scores file: %w", err)
	}

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp scores file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp scores file: %w", err)
	}

	if err = os.Rename(tmp.Name(), r.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace scores file: %w", err)
	}

	return nil
}
