package bulkacceptpending

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"requestedBy": {
				Type:        "string",
				Description: "Administrator account that triggered the sweep",
			},
		},
		AdditionalProperties: false,
	}
}
