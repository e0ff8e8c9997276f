package models

import "time"

// ScoreConfig is the process-wide weighting/capacity/deadline record.
// It is a singleton mutated only by an explicit administrator save and
// threaded explicitly into every scoring, ranking and deadline call.
type ScoreConfig struct {
	BacWeight        float64    `json:"bacWeight"`
	GradWeight       float64    `json:"gradWeight"`
	WrittenExamCount int        `json:"writtenExamCount"`
	OralExamCount    int        `json:"oralExamCount"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	UpdatedAt        string     `json:"updatedAt,omitempty"`
}

// DefaultScoreConfig mirrors the values the concours opens with before
// an administrator ever saves the form.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		BacWeight:        40,
		GradWeight:       60,
		WrittenExamCount: 20,
		OralExamCount:    10,
	}
}
