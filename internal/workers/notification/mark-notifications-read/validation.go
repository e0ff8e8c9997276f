package marknotificationsread

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"applicantId"},
		Properties: map[string]validation.Property{
			"applicantId": {
				Type:        "string",
				Description: "Applicant whose feed is marked read",
				MinLength:   validation.IntPtr(1),
			},
		},
		AdditionalProperties: false,
	}
}
