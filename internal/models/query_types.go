package models

// QueryType enumerates the read-side queries served by the query-portal
// worker. Reads are recomputed from the store on every call; nothing is
// cached between polls except the score configuration singleton.
type QueryType string

const (
	QueryTypeApplicantByID            QueryType = "applicant_by_id"
	QueryTypeApplicantByEmail         QueryType = "applicant_by_email"
	QueryTypeApplicantsByPosition     QueryType = "applicants_by_position"
	QueryTypeNotificationsByApplicant QueryType = "notifications_by_applicant"
	QueryTypePositionsAll             QueryType = "positions_all"
	QueryTypeListCatalog              QueryType = "list_catalog"
	QueryTypeScoreConfig              QueryType = "score_config"
	QueryTypePortalSnapshot           QueryType = "portal_snapshot"
	QueryTypeLastChange               QueryType = "last_change"
)
