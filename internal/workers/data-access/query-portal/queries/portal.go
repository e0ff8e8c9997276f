package queries

import (
	"context"
	"time"

	"concours-workers/internal/admission/deadline"
	"concours-workers/internal/admission/scoring"
	"concours-workers/internal/models"
)

// PortalSnapshot assembles everything one polling cycle of the
// applicant portal needs: the dossier, its live score and rank, the
// capacity verdict and the notification feed. Score and rank are
// recomputed from the stored set on every call.
func PortalSnapshot(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	applicantID, ok := params["applicantId"].(string)
	if !ok || applicantID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	applicant, err := deps.Applicants.GetByID(ctx, applicantID)
	if err != nil {
		return nil, 0, 0, err
	}
	cfg, err := deps.ScoreConfig.Get(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	all, err := deps.Applicants.List(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	feed, err := deps.Notifications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, 0, 0, err
	}

	totalAccepted := 0
	for _, a := range all {
		if a.Status == models.StatusAccepted {
			totalAccepted++
		}
	}

	rank := 0
	isRetained := false
	entries := scoring.Rank(applicant.TargetPositionNumber, all, cfg)
	for _, e := range entries {
		if e.ApplicantID == applicant.ID {
			rank = e.Rank
			isRetained = e.IsRetained
			break
		}
	}

	var position *models.Position
	if applicant.TargetPositionNumber != "" {
		if p, err := deps.Positions.GetByCode(ctx, applicant.TargetPositionNumber); err == nil {
			position = p
		}
	}

	unread := 0
	for _, n := range feed {
		if !n.IsRead {
			unread++
		}
	}

	result := map[string]interface{}{
		"applicant":        applicant,
		"score":            scoring.Score(*applicant, cfg),
		"rank":             rank,
		"isRetained":       isRetained,
		"totalAccepted":    totalAccepted,
		"positionPoolSize": len(entries),
		"position":         position,
		"notifications":    feed,
		"unreadCount":      unread,
		"scoreConfig":      cfg,
		"editingClosed":    deadline.IsExpired(cfg, time.Now().UTC()),
	}

	return result, 1, time.Since(start).Milliseconds(), nil
}

// LastChange reports when the dataset last moved. Pollers compare the
// marker against their previous read and skip the full snapshot when
// nothing changed; an empty marker means no event was ever published.
func LastChange(ctx context.Context, deps *Deps, _ map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	marker, err := deps.Events.LastChange(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	return map[string]interface{}{"lastChange": marker}, 1, time.Since(start).Milliseconds(), nil
}
