package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/roastcv/internal/heuristics"
	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/utils"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedAssembler() *Assembler {
	a := NewAssembler()
	a.Now = func() time.Time { return fixedNow }
	return a
}

func TestAssembleDefaults(t *testing.T) {
	a := fixedAssembler()

	rec := a.Assemble("resume-1", validFile(), validText,
		&models.AnalysisResult{}, validPrefs(), nil, "req-1")

	require.NotNil(t, rec)
	assert.Equal(t, "resume-1", rec.ResumeID)
	assert.Equal(t, 0.0, rec.Analysis.OverallScore)
	assert.Equal(t, "No feedback available", rec.Analysis.Feedback)
	assert.Equal(t, "constructive", rec.Preferences.RoastType)
	assert.Equal(t, "not-specified", rec.Preferences.Gender)
	assert.Equal(t, "unknown", rec.Metadata.ClientIP)
	assert.Equal(t, "unknown", rec.Metadata.UserAgent)
	assert.Equal(t, "unknown", rec.Metadata.CountryCode)
	assert.True(t, rec.Metadata.GDPRConsent)
	assert.Equal(t, "req-1", rec.Metadata.RequestID)
	assert.Equal(t, fixedNow, rec.Timestamps.UploadedAt)
	assert.Equal(t, fixedNow, rec.Timestamps.AnalyzedAt)
	assert.Equal(t, fixedNow, rec.Timestamps.UpdatedAt)

	assert.NotNil(t, rec.Analysis.Strengths)
	assert.NotNil(t, rec.Analysis.Weaknesses)
	assert.NotNil(t, rec.Analysis.Improvements)
	assert.NotNil(t, rec.ExtractedInfo.Skills.Technical)
	assert.NotNil(t, rec.ExtractedInfo.Experience)
	assert.NotNil(t, rec.ExtractedInfo.Awards)
	assert.Empty(t, rec.Validate())
}

func TestAssembleUsesHeuristicsForGaps(t *testing.T) {
	a := fixedAssembler()
	text := validText + "\njohn.doe@example.com"

	rec := a.Assemble("resume-1", validFile(), text, validAnalysis(), validPrefs(), nil, "")

	require.NotNil(t, rec.ExtractedInfo.PersonalInfo.Name)
	assert.Equal(t, "John Doe", *rec.ExtractedInfo.PersonalInfo.Name)
	require.NotNil(t, rec.ExtractedInfo.PersonalInfo.Email)
	assert.Equal(t, "john.doe@example.com", *rec.ExtractedInfo.PersonalInfo.Email)

	assert.Equal(t, heuristics.Regex{}.GenerateBasicAnalytics(text), rec.Analysis.ResumeAnalytics)
	assert.True(t, rec.Analysis.ContactValidation.HasEmail)
	assert.False(t, rec.Analysis.ContactValidation.HasPhone)
}

func TestAssemblePrefersAIPayload(t *testing.T) {
	a := fixedAssembler()
	ai := &models.AnalysisResult{Data: &models.AnalysisResult{
		Score:         ptr(88.0),
		RoastFeedback: ptr("Solid"),
		Improvements: []models.ImprovementPayload{
			{Priority: "HIGH", Title: "Metrics"},
			{Priority: "urgent", Title: "Summary"},
		},
		ExtractedInfo: &models.ExtractedInfoPayload{
			PersonalInfo: &models.PersonalInfo{Name: ptr("Jane Roe")},
			Skills:       &models.Skills{Technical: []string{"go", "sql", "go"}},
		},
		ResumeAnalytics:   &models.ResumeAnalytics{WordCount: 999},
		ContactValidation: &models.ContactValidation{HasLinkedIn: true, LinkedInValid: true},
	}}

	rec := a.Assemble("resume-2", validFile(), validText, ai, validPrefs(), nil, "")

	assert.Equal(t, 88.0, rec.Analysis.OverallScore)
	assert.Equal(t, "Solid", rec.Analysis.Feedback)
	assert.Equal(t, models.PriorityHigh, rec.Analysis.Improvements[0].Priority)
	assert.Equal(t, models.PriorityMedium, rec.Analysis.Improvements[1].Priority)
	assert.Equal(t, "Jane Roe", *rec.ExtractedInfo.PersonalInfo.Name)
	assert.Equal(t, []string{"go", "sql"}, rec.ExtractedInfo.Skills.Technical)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Skills.Soft)
	assert.Equal(t, 999, rec.Analysis.ResumeAnalytics.WordCount)
	assert.NotNil(t, rec.Analysis.ResumeAnalytics.IndustryKeywords)
	assert.True(t, rec.Analysis.ContactValidation.HasLinkedIn)
}

func TestAssembleFileInfoAndMetadata(t *testing.T) {
	a := fixedAssembler()
	file := &models.FileInput{OriginalName: "1712345678_cv.pdf", Size: 2048, MimeType: "application/pdf", Buffer: []byte("%PDF-1.4")}
	meta := &models.RequestMetadata{
		ClientIP:    "10.0.0.1",
		UserAgent:   strings.Repeat("é", 250),
		CountryCode: "ID",
		GDPRConsent: ptr(false),
	}

	rec := a.Assemble("resume-3", file, validText, validAnalysis(), validPrefs(), meta, "")

	assert.Equal(t, "cv.pdf", rec.FileInfo.FileName)
	assert.Equal(t, "cv.pdf", rec.FileInfo.OriginalFileName)
	assert.Equal(t, int64(2048), rec.FileInfo.FileSize)
	assert.Equal(t, utils.ContentDigest(file.Buffer), rec.FileInfo.FileHash)
	assert.Equal(t, "10.0.0.1", rec.Metadata.ClientIP)
	assert.Equal(t, "ID", rec.Metadata.CountryCode)
	assert.False(t, rec.Metadata.GDPRConsent)
	assert.Equal(t, models.MaxUserAgentLen, len([]rune(rec.Metadata.UserAgent)))
	assert.Empty(t, rec.Validate())
}

func TestAssembleHashesTextWithoutBuffer(t *testing.T) {
	rec := fixedAssembler().Assemble("resume-4", validFile(), validText, validAnalysis(), validPrefs(), nil, "")
	assert.Equal(t, utils.ContentDigest([]byte(validText)), rec.FileInfo.FileHash)
}
