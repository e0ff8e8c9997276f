package queries

import (
	"context"
	"errors"
	"fmt"

	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
	"concours-workers/internal/store"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// Deps bundles the repositories the read-side queries draw from.
type Deps struct {
	Applicants    *store.ApplicantStore
	Notifications *store.NotificationStore
	Positions     *store.PositionStore
	Lists         *store.ListStore
	ScoreConfig   *store.ScoreConfigStore
	Events        *events.Publisher
	Logger        logger.Logger
}

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeApplicantByID:            ApplicantByID,
	models.QueryTypeApplicantByEmail:         ApplicantByEmail,
	models.QueryTypeApplicantsByPosition:     ApplicantsByPosition,
	models.QueryTypeNotificationsByApplicant: NotificationsByApplicant,
	models.QueryTypePositionsAll:             PositionsAll,
	models.QueryTypeListCatalog:              ListCatalog,
	models.QueryTypeScoreConfig:              ScoreConfigQuery,
	models.QueryTypePortalSnapshot:           PortalSnapshot,
	models.QueryTypeLastChange:               LastChange,
}

func Execute(ctx context.Context, deps *Deps, queryType models.QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, deps, params)
}
