package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yoockh/roastcv/internal/models"
)

func validFile() *models.FileInput {
	return &models.FileInput{OriginalName: "test.txt", Size: 12, MimeType: "text/plain"}
}

func validAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{Score: ptr(75.0), RoastFeedback: ptr("Test feedback")}
}

func validPrefs() *models.Preferences {
	return &models.Preferences{RoastLevel: "professional", Language: "english"}
}

const validText = "John Doe\nSoftware Developer"

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name     string
		file     *models.FileInput
		text     string
		analysis *models.AnalysisResult
		prefs    *models.Preferences
		want     []string
	}{
		{
			name: "valid", file: validFile(), text: validText, analysis: validAnalysis(), prefs: validPrefs(),
			want: []string{},
		},
		{
			name: "wrapped payload", file: validFile(), text: validText,
			analysis: &models.AnalysisResult{Data: validAnalysis()}, prefs: validPrefs(),
			want: []string{},
		},
		{
			name: "nil file", text: validText, analysis: validAnalysis(), prefs: validPrefs(),
			want: []string{"Invalid file object"},
		},
		{
			name: "bad file fields", file: &models.FileInput{}, text: validText, analysis: validAnalysis(), prefs: validPrefs(),
			want: []string{"Missing or invalid file name", "Missing or invalid file size", "Missing or invalid file mime type"},
		},
		{
			name: "short text", file: validFile(), text: "  too short ", analysis: validAnalysis(), prefs: validPrefs(),
			want: []string{"Invalid or insufficient extracted text"},
		},
		{
			name: "missing analysis fields", file: validFile(), text: validText,
			analysis: &models.AnalysisResult{Strengths: []string{"x"}}, prefs: validPrefs(),
			want: []string{"Missing analysis field: score", "Missing analysis field: roastFeedback"},
		},
		{
			name: "nil analysis", file: validFile(), text: validText, prefs: validPrefs(),
			want: []string{"Missing analysis result"},
		},
		{
			name: "missing roast level and language", file: validFile(), text: validText, analysis: validAnalysis(),
			prefs: &models.Preferences{},
			want:  []string{"Missing roast level preference", "Missing language preference"},
		},
		{
			name: "nil prefs", file: validFile(), text: validText, analysis: validAnalysis(),
			want: []string{"Missing preferences"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateInputs(tt.file, tt.text, tt.analysis, tt.prefs)
			assert.Equal(t, tt.want, got.Errors)
			assert.Equal(t, len(tt.want) == 0, got.Valid)
		})
	}
}

func TestValidateInputsCollectsAllViolations(t *testing.T) {
	got := ValidateInputs(nil, "", nil, nil)
	assert.False(t, got.Valid)
	assert.Len(t, got.Errors, 4)
}
