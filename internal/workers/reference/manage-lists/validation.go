package managelists

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"action", "catalog"},
		Properties: map[string]validation.Property{
			"action": {
				Type: "string",
				Enum: []string{ActionCreate, ActionUpdate, ActionArchive, ActionList},
			},
			"catalog": {
				Type:        "string",
				Description: "Which reference catalog is addressed",
				Enum:        []string{"degrees", "bacSpecialties"},
			},
			"value": {
				Type:        "string",
				Description: "Entry value, unique within the catalog",
			},
			"label": {
				Type:        "string",
				Description: "Display label shown on the submission form",
			},
		},
		AdditionalProperties: false,
	}
}
