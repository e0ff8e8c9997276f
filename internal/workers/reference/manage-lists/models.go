package managelists

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
	Action  string `json:"action"`
	Catalog string `json:"catalog"`
	Value   string `json:"value,omitempty"`
	Label   string `json:"label,omitempty"`
}

type Output struct {
	Action  string            `json:"action"`
	Catalog string            `json:"catalog"`
	Item    *models.ListItem  `json:"item,omitempty"`
	Items   []models.ListItem `json:"items,omitempty"`
}

type Dependencies struct {
	Lists     *store.ListStore
	Publisher *events.Publisher
	Logger    logger.Logger
}
