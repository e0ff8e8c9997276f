package savescoreconfig

import (
	"concours-workers/internal/common/logger"
	"concours-workers/internal/events"
	"concours-workers/internal/models"
	"concours-workers/internal/store"
)

type Input struct {
	BacWeight        float64 `json:"bacWeight"`
	GradWeight       float64 `json:"gradWeight"`
	WrittenExamCount int     `json:"writtenExamCount"`
	OralExamCount    int     `json:"oralExamCount"`
	Deadline         *string `json:"deadline,omitempty"`
}

type Output struct {
	Config  models.ScoreConfig `json:"config"`
	SavedAt string             `json:"savedAt"`
}

type Dependencies struct {
	ScoreConfig *store.ScoreConfigStore
	Publisher   *events.Publisher
	Logger      logger.Logger
}
