package setstatus

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"applicantId", "newStatus"},
		Properties: map[string]validation.Property{
			"applicantId": {
				Type:        "string",
				Description: "Identifier of the applicant being decided on",
				MinLength:   validation.IntPtr(1),
			},
			"newStatus": {
				Type:        "string",
				Description: "Target status of the decision",
				Enum:        []string{"pending", "accepted", "rejected"},
			},
		},
		AdditionalProperties: false,
	}
}
