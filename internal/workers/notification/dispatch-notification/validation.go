package dispatchnotification

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"applicantId", "previousStatus", "newStatus"},
		Properties: map[string]validation.Property{
			"applicantId": {
				Type:        "string",
				Description: "Applicant the notification belongs to",
				MinLength:   validation.IntPtr(1),
			},
			"previousStatus": {
				Type: "string",
				Enum: []string{"pending", "accepted", "rejected"},
			},
			"newStatus": {
				Type: "string",
				Enum: []string{"pending", "accepted", "rejected"},
			},
			"title": {
				Type:        "string",
				Description: "Override for the built-in notification title",
			},
			"message": {
				Type:        "string",
				Description: "Override for the built-in notification message",
			},
		},
		AdditionalProperties: false,
	}
}
