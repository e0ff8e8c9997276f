package managepositions

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"action"},
		Properties: map[string]validation.Property{
			"action": {
				Type:        "string",
				Description: "Catalog operation to perform",
				Enum:        []string{ActionCreate, ActionUpdate, ActionArchive, ActionList},
			},
			"code": {
				Type:        "string",
				Description: "Position code, the immutable identity",
			},
			"title": {
				Type: "string",
			},
			"openPositions": {
				Type:        "integer",
				Description: "Number of seats offered, at least one",
				Minimum:     validation.Float64Ptr(1),
			},
		},
		AdditionalProperties: false,
	}
}
