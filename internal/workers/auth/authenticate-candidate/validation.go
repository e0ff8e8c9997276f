package authenticatecandidate

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"action", "email"},
		Properties: map[string]validation.Property{
			"action": {
				Type: "string",
				Enum: []string{ActionLogin, ActionResetPassword},
			},
			"email": {
				Type:        "string",
				Description: "Login email of the candidate account",
			},
			"password": {
				Type:        "string",
				Description: "Submitted password, required for login",
			},
		},
		AdditionalProperties: false,
	}
}
