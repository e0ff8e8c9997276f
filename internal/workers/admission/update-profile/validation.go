package updateprofile

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"applicantId"},
		Properties: map[string]validation.Property{
			"applicantId": {
				Type:        "string",
				Description: "Identifier of the dossier being edited",
				MinLength:   validation.IntPtr(1),
			},
			"targetPosition": {
				Type:        "string",
				Description: "New target position code, unchanged when omitted",
			},
			"personal": {
				Type:        "object",
				Description: "Replacement identity section",
			},
			"civilStatus": {
				Type:        "object",
				Description: "Replacement civil status section",
			},
			"education": {
				Type:        "object",
				Description: "Replacement education section",
			},
		},
		AdditionalProperties: false,
	}
}
