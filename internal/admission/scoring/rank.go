package scoring

import (
	"sort"

	"concours-workers/internal/models"
)

// RankEntry is one row of an ordered eligibility list.
type RankEntry struct {
	ApplicantID string  `json:"applicantId"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	IsRetained  bool    `json:"isRetained"`
}

// RankKey orders a funnel stage. Stage 1 uses the weighted dossier
// score; stage 2 plugs in the written-exam result once a result feed
// exists.
type RankKey func(a models.Applicant) float64

// Rank produces the per-position eligibility list: accepted applicants
// targeting positionCode, ordered by score descending with 1-based
// ranks. The sort is stable so equal scores keep their input order and
// repeated calls on identical input return identical rankings.
// isRetained marks membership in the written-exam funnel.
func Rank(positionCode string, applicants []models.Applicant, cfg models.ScoreConfig) []RankEntry {
	eligible := make([]models.Applicant, 0, len(applicants))
	for _, a := range applicants {
		if a.Status != models.StatusAccepted {
			continue
		}
		if positionCode != "" && a.TargetPositionNumber != positionCode {
			continue
		}
		eligible = append(eligible, a)
	}

	return rankBy(eligible, func(a models.Applicant) float64 {
		return Score(a, cfg)
	}, cfg.WrittenExamCount)
}

// RankGlobal is the administrator's cross-position ordering: the same
// algorithm with no position filter. It is display-only; the
// per-position list is what admission decisions are based on.
func RankGlobal(applicants []models.Applicant, cfg models.ScoreConfig) []RankEntry {
	return Rank("", applicants, cfg)
}

// RankStage orders an already-filtered funnel population by an arbitrary
// key under an arbitrary capacity. The oral-exam funnel reuses this with
// a written-exam result key over the stage-1 population.
func RankStage(population []models.Applicant, key RankKey, capacity int) []RankEntry {
	return rankBy(population, key, capacity)
}

func rankBy(population []models.Applicant, key RankKey, capacity int) []RankEntry {
	type scored struct {
		id    string
		score float64
	}

	rows := make([]scored, len(population))
	for i, a := range population {
		rows[i] = scored{id: a.ID, score: key(a)}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	entries := make([]RankEntry, len(rows))
	for i, r := range rows {
		rank := i + 1
		entries[i] = RankEntry{
			ApplicantID: r.id,
			Score:       r.score,
			Rank:        rank,
			IsRetained:  WithinCapacity(rank, capacity),
		}
	}
	return entries
}

// WithinCapacity is the funnel membership predicate shared by both exam
// stages: a capacity of 0 retains nobody.
func WithinCapacity(rank, capacity int) bool {
	return rank >= 1 && rank <= capacity
}
