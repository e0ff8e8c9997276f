package submitapplication

import (
	"strings"

	"concours-workers/internal/common/validation"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"email", "targetPosition", "personal", "education"},
		Properties: map[string]validation.Property{
			"email": {
				Type:        "string",
				Description: "Applicant login email, unique across all dossiers",
				Pattern:     validation.StringPtr(`^[^@\s]+@[^@\s]+\.[^@\s]+$`),
				MaxLength:   validation.IntPtr(255),
			},
			"targetPosition": {
				Type:        "string",
				Description: "Code of the position the applicant competes for",
				MinLength:   validation.IntPtr(1),
			},
			"personal": {
				Type:        "object",
				Description: "Identity section of the dossier",
				Required:    []string{"fullName", "cin"},
			},
			"civilStatus": {
				Type:        "object",
				Description: "Civil status section of the dossier",
			},
			"education": {
				Type:        "object",
				Description: "Education section of the dossier",
				Required:    []string{"degree"},
			},
		},
		AdditionalProperties: false,
	}
}

// missingDossierFields lists the required fields the input leaves
// empty, in a stable order so the error message is reproducible.
func missingDossierFields(input *Input) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	check("email", input.Email)
	check("targetPosition", input.TargetPosition)
	check("personal.fullName", input.Personal.FullName)
	check("personal.cin", input.Personal.CIN)
	check("education.degree", input.Education.Degree)
	check("education.gradAverage", input.Education.GradAverage)
	return missing
}
