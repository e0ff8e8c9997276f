package savescoreconfig

import "concours-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"bacWeight", "gradWeight", "writtenExamCount", "oralExamCount"},
		Properties: map[string]validation.Property{
			"bacWeight": {
				Type:        "number",
				Description: "Weight applied to the bac average, in percent",
				Minimum:     validation.Float64Ptr(0),
				Maximum:     validation.Float64Ptr(100),
			},
			"gradWeight": {
				Type:        "number",
				Description: "Weight applied to the graduation average, in percent",
				Minimum:     validation.Float64Ptr(0),
				Maximum:     validation.Float64Ptr(100),
			},
			"writtenExamCount": {
				Type:        "integer",
				Description: "Written exam intake per position",
			},
			"oralExamCount": {
				Type:        "integer",
				Description: "Oral exam intake per position",
			},
			"deadline": {
				Type:        "string",
				Description: "RFC 3339 instant after which applicant edits close; null leaves editing open",
			},
		},
		AdditionalProperties: false,
	}
}
