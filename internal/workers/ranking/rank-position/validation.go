package rankposition

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"scope"},
		Properties: map[string]validation.Property{
			"scope": {
				Type:        "string",
				Description: "Ranking scope, per position or over the whole concours",
				Enum:        []string{ScopePosition, ScopeGlobal},
			},
			"positionCode": {
				Type:        "string",
				Description: "Position code, required for position scope",
			},
		},
		AdditionalProperties: false,
	}
}
