package queries

import (
	"context"
	"time"

	"concours-workers/internal/models"
)

func PositionsAll(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()
	positions, err := deps.Positions.List(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	if published, _ := params["publishedOnly"].(bool); published {
		filtered := positions[:0]
		for _, p := range positions {
			if !p.Archived {
				filtered = append(filtered, p)
			}
		}
		positions = filtered
	}
	return positions, len(positions), time.Since(start).Milliseconds(), nil
}

func ListCatalog(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	catalogName, ok := params["catalog"].(string)
	if !ok || catalogName == "" {
		return nil, 0, 0, ErrMissingParam
	}
	catalog := models.ListCatalog(catalogName)
	if !catalog.Valid() {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()
	items, err := deps.Lists.List(ctx, catalog)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, len(items), time.Since(start).Milliseconds(), nil
}

func ScoreConfigQuery(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()
	cfg, err := deps.ScoreConfig.Get(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	return cfg, 1, time.Since(start).Milliseconds(), nil
}
