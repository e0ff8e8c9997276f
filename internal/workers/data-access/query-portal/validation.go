package queryportal

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"queryType"},
		Properties: map[string]validation.Property{
			"queryType": {
				Type:        "string",
				Description: "Registered read-side query to run",
				Enum: []string{
					"applicant_by_id", "applicant_by_email", "applicants_by_position",
					"notifications_by_applicant", "positions_all", "list_catalog",
					"score_config", "portal_snapshot", "last_change",
				},
			},
			"params": {
				Type:        "object",
				Description: "Query parameters keyed by name",
			},
		},
		AdditionalProperties: false,
	}
}
