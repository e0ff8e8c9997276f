package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"concours-workers/internal/models"
)

func applicantWithAverages(bac, grad string) models.Applicant {
	return models.Applicant{
		ID:     "app-001",
		Status: models.StatusAccepted,
		Education: models.EducationInfo{
			BacAverage:  bac,
			GradAverage: grad,
		},
	}
}

func TestScore(t *testing.T) {
	cfg := models.ScoreConfig{BacWeight: 40, GradWeight: 60}

	tests := []struct {
		name     string
		bac      string
		grad     string
		expected float64
	}{
		{
			name:     "reference example",
			bac:      "15",
			grad:     "13",
			expected: 13.8, // 15*0.4 + 13*0.6
		},
		{
			name:     "decimal averages",
			bac:      "12.5",
			grad:     "14.25",
			expected: 12.5*0.4 + 14.25*0.6,
		},
		{
			name:     "missing bac average counts as zero",
			bac:      "",
			grad:     "10",
			expected: 6,
		},
		{
			name:     "non-numeric grad average counts as zero",
			bac:      "10",
			grad:     "excellent",
			expected: 4,
		},
		{
			name:     "both averages unusable",
			bac:      "n/a",
			grad:     "",
			expected: 0,
		},
		{
			name:     "whitespace is tolerated",
			bac:      " 16 ",
			grad:     " 12 ",
			expected: 16*0.4 + 12*0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(applicantWithAverages(tt.bac, tt.grad), cfg)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestScore_MonotoneInAverages(t *testing.T) {
	cfg := models.ScoreConfig{BacWeight: 40, GradWeight: 60}

	base := Score(applicantWithAverages("10", "10"), cfg)
	higherBac := Score(applicantWithAverages("11", "10"), cfg)
	higherGrad := Score(applicantWithAverages("10", "11"), cfg)

	assert.Greater(t, higherBac, base)
	assert.Greater(t, higherGrad, base)
}

func TestScore_IgnoresStoredNothing(t *testing.T) {
	// Changing weights between calls must change the result: nothing is
	// cached on the applicant record.
	a := applicantWithAverages("15", "13")

	first := Score(a, models.ScoreConfig{BacWeight: 40, GradWeight: 60})
	second := Score(a, models.ScoreConfig{BacWeight: 60, GradWeight: 40})

	assert.InDelta(t, 13.8, first, 1e-9)
	assert.InDelta(t, 14.2, second, 1e-9)
}
