package searchdossiers

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"keywords": {
				Type:        "string",
				Description: "Free text matched against name, email and CIN",
				MaxLength:   validation.IntPtr(200),
			},
			"positionCode": {
				Type:        "string",
				Description: "Exact filter on the target position",
			},
			"status": {
				Type: "string",
				Enum: []string{"pending", "accepted", "rejected"},
			},
			"degree": {
				Type:        "string",
				Description: "Exact filter on the degree catalog value",
			},
			"pagination": {
				Type: "object",
				Properties: map[string]validation.Property{
					"from": {Type: "integer", Minimum: validation.Float64Ptr(0)},
					"size": {Type: "integer", Minimum: validation.Float64Ptr(1), Maximum: validation.Float64Ptr(100)},
				},
			},
		},
		AdditionalProperties: false,
	}
}
