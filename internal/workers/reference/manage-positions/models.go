package managepositions

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
	"concours-workers/internal/store"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionArchive = "archive"
	ActionList    = "list"
)

type Input struct {
	Action        string `json:"action"`
	Code          string `json:"code,omitempty"`
	Title         string `json:"title,omitempty"`
	OpenPositions int    `json:"openPositions,omitempty"`
}

type Output struct {
	Action    string            `json:"action"`
	Position  *models.Position  `json:"position,omitempty"`
	Positions []models.Position `json:"positions,omitempty"`
	UpdatedAt string            `json:"updatedAt"`
}

type Dependencies struct {
	Positions *store.PositionStore
	Publisher *events.Publisher
	Logger    logger.Logger
}
