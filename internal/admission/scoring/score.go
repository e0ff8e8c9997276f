// Package scoring implements the score calculator and the ranking and
// funnel engine. Everything here is pure: scores are recomputed on every
// call and never persisted, because the weighting configuration can
// change between calls.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"concours-workers/internal/models"
)

// Score computes the weighted admission score for one applicant.
// Total by contract: a missing or non-numeric average counts as 0, so an
// incomplete dossier sorts to the bottom instead of breaking the pass.
func Score(a models.Applicant, cfg models.ScoreConfig) float64 {
	bac := parseAverage(a.Education.BacAverage)
	grad := parseAverage(a.Education.GradAverage)
	return bac*(cfg.BacWeight/100) + grad*(cfg.GradWeight/100)
}

func parseAverage(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
