package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "concours-workers/internal/common/errors"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/models"
)

const scoreConfigCacheKey = "concours:score-config"

// ScoreConfigStore persists the scoring singleton. Reads go through a
// Redis cache that is rewritten on every save, so a saved change is
// visible to the next read. The configuration is the only cached
// object in the system.
type ScoreConfigStore struct {
	db     *sql.DB
	cache  *redis.Client
	logger logger.Logger
}

func NewScoreConfigStore(db *sql.DB, cache *redis.Client, log logger.Logger) *ScoreConfigStore {
	return &ScoreConfigStore{db: db, cache: cache, logger: log}
}

// Get returns the current configuration, falling back to the shipped
// defaults when nothing has ever been saved. Cache faults degrade to a
// database read.
func (s *ScoreConfigStore) Get(ctx context.Context) (models.ScoreConfig, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, scoreConfigCacheKey).Result()
		if err == nil {
			var cfg models.ScoreConfig
			if err := json.Unmarshal([]byte(raw), &cfg); err == nil {
				return cfg, nil
			}
			s.logger.Warn("discarding undecodable cached score config", map[string]interface{}{
				"key": scoreConfigCacheKey,
			})
		} else if err != redis.Nil {
			s.logger.Warn("score config cache read failed, falling back to database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	cfg, err := s.load(ctx)
	if err != nil {
		return models.ScoreConfig{}, err
	}
	s.fillCache(ctx, cfg)
	return cfg, nil
}

// Save validates nothing; callers hold the validation responsibility.
// The row is upserted and the cache rewritten in the same call.
func (s *ScoreConfigStore) Save(ctx context.Context, cfg models.ScoreConfig) error {
	cfg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO score_config (id, bac_weight, grad_weight, written_exam_count, oral_exam_count, deadline, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET bac_weight = EXCLUDED.bac_weight,
		    grad_weight = EXCLUDED.grad_weight,
		    written_exam_count = EXCLUDED.written_exam_count,
		    oral_exam_count = EXCLUDED.oral_exam_count,
		    deadline = EXCLUDED.deadline,
		    updated_at = NOW()`,
		cfg.BacWeight, cfg.GradWeight, cfg.WrittenExamCount, cfg.OralExamCount, cfg.Deadline)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("score_config_save", err)
	}

	s.fillCache(ctx, cfg)
	return nil
}

func (s *ScoreConfigStore) load(ctx context.Context) (models.ScoreConfig, error) {
	var (
		cfg       models.ScoreConfig
		deadline  sql.NullTime
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT bac_weight, grad_weight, written_exam_count, oral_exam_count, deadline, updated_at
		FROM score_config WHERE id = 1`).
		Scan(&cfg.BacWeight, &cfg.GradWeight, &cfg.WrittenExamCount, &cfg.OralExamCount, &deadline, &updatedAt)
	if err == sql.ErrNoRows {
		return models.DefaultScoreConfig(), nil
	}
	if err != nil {
		return models.ScoreConfig{}, apperrors.NewQueryExecutionFailedError("score_config_get", err)
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		cfg.Deadline = &d
	}
	cfg.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return cfg, nil
}

func (s *ScoreConfigStore) fillCache(ctx context.Context, cfg models.ScoreConfig) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, scoreConfigCacheKey, raw, 0).Err(); err != nil {
		s.logger.Warn("score config cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
