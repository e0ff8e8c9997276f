package queries

import (
	"context"
	"time"
)

func ApplicantByID(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	applicantID, ok := params["applicantId"].(string)
	if !ok || applicantID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()
	applicant, err := deps.Applicants.GetByID(ctx, applicantID)
	if err != nil {
		return nil, 0, 0, err
	}
	return applicant, 1, time.Since(start).Milliseconds(), nil
}

func ApplicantByEmail(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	email, ok := params["email"].(string)
	if !ok || email == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()
	applicant, err := deps.Applicants.GetByEmail(ctx, email)
	if err != nil {
		return nil, 0, 0, err
	}
	if applicant == nil {
		return nil, 0, time.Since(start).Milliseconds(), nil
	}
	return applicant, 1, time.Since(start).Milliseconds(), nil
}

func ApplicantsByPosition(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	positionCode, ok := params["positionCode"].(string)
	if !ok || positionCode == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()
	applicants, err := deps.Applicants.ListByPosition(ctx, positionCode)
	if err != nil {
		return nil, 0, 0, err
	}
	return applicants, len(applicants), time.Since(start).Milliseconds(), nil
}

func NotificationsByApplicant(ctx context.Context, deps *Deps, params map[string]interface{}) (interface{}, int, int64, error) {
	applicantID, ok := params["applicantId"].(string)
	if !ok || applicantID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()
	feed, err := deps.Notifications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, 0, 0, err
	}
	return feed, len(feed), time.Since(start).Milliseconds(), nil
}
