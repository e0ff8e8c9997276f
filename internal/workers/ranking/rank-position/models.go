package rankposition

import (
	"concours-workers/internal/admission/scoring"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/store"
)

const (
	ScopePosition = "position"
	ScopeGlobal   = "global"
)

type Input struct {
	Scope        string `json:"scope"`
	PositionCode string `json:"positionCode,omitempty"`
}

type Output struct {
	Scope        string              `json:"scope"`
	PositionCode string              `json:"positionCode,omitempty"`
	Capacity     int                 `json:"capacity"`
	Entries      []scoring.RankEntry `json:"entries"`
	ComputedAt   string              `json:"computedAt"`
}

type Dependencies struct {
	Applicants  *store.ApplicantStore
	ScoreConfig *store.ScoreConfigStore
	Logger      logger.Logger
}
