package migration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/roastcv/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var migrateNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func fixedID(time.Time) string { return "resume-fixed" }

func TestRebuildJSON_FlatLegacyShape(t *testing.T) {
	doc := `{
		"fileName": "cv.pdf",
		"fileSize": 2048,
		"mimeType": "application/pdf",
		"name": "Jane Doe",
		"email": "jane@example.com",
		"linkedIn": "linkedin.com/in/jane",
		"technicalSkills": ["Go", "SQL", "Go", ""],
		"score": 72,
		"roastFeedback": "Decent.",
		"strengths": ["clear"],
		"improvements": ["add metrics"],
		"roastLevel": "savage",
		"uploadedAt": {"$date": "2024-01-02T03:04:05Z"}
	}`

	rec, err := RebuildJSON(doc, migrateNow, fixedID)
	require.NoError(t, err)

	assert.Equal(t, "resume-fixed", rec.ResumeID)
	assert.Equal(t, "cv.pdf", rec.FileInfo.FileName)
	assert.Equal(t, "cv.pdf", rec.FileInfo.OriginalFileName)
	assert.EqualValues(t, 2048, rec.FileInfo.FileSize)
	assert.Equal(t, "Jane Doe", *rec.ExtractedInfo.PersonalInfo.Name)
	assert.Equal(t, "jane@example.com", *rec.ExtractedInfo.PersonalInfo.Email)
	assert.Equal(t, []string{"Go", "SQL"}, rec.ExtractedInfo.Skills.Technical)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Skills.Soft)
	assert.Equal(t, 72.0, rec.Analysis.OverallScore)
	assert.Equal(t, "Decent.", rec.Analysis.Feedback)
	require.Len(t, rec.Analysis.Improvements, 1)
	assert.Equal(t, models.PriorityMedium, rec.Analysis.Improvements[0].Priority)
	assert.Equal(t, "add metrics", rec.Analysis.Improvements[0].Title)
	assert.Equal(t, "savage", rec.Preferences.RoastLevel)
	assert.Equal(t, "english", rec.Preferences.Language)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), rec.Timestamps.UploadedAt)
	assert.Equal(t, rec.Timestamps.UploadedAt, rec.Timestamps.AnalyzedAt)
	assert.Equal(t, migrateNow, rec.Timestamps.UpdatedAt)
	assert.True(t, rec.Analysis.ContactValidation.HasEmail)
	assert.True(t, rec.Analysis.ContactValidation.HasLinkedIn)
	assert.False(t, rec.Analysis.ContactValidation.HasPhone)
	assert.Equal(t, "migration", rec.Metadata.RequestID)
	assert.False(t, rec.Metadata.GDPRConsent)
	assert.Empty(t, rec.Validate())
}

func TestRebuildJSON_MetadataShape(t *testing.T) {
	doc := `{
		"resumeId": "resume-keep",
		"metadata": {
			"originalFileName": "1700000000_cv.docx",
			"fileSize": 10,
			"fileType": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"uploadDate": "2023-11-14T22:13:20Z",
			"clientIP": "10.0.0.1",
			"gdprConsent": true
		},
		"extractedInfo": {"name": "Ann", "skills": {"technical": ["Rust"], "tools": ["git"]}},
		"analysis": {"overallScore": 140, "feedback": {"roastFeedback": "Nested."}},
		"preferences": {"roastSettings": {"level": "gentle"}}
	}`

	rec, err := RebuildJSON(doc, migrateNow, fixedID)
	require.NoError(t, err)

	assert.Equal(t, "resume-keep", rec.ResumeID)
	assert.Equal(t, "1700000000_cv.docx", rec.FileInfo.FileName)
	assert.Contains(t, rec.FileInfo.MimeType, "wordprocessingml")
	assert.Equal(t, "Ann", *rec.ExtractedInfo.PersonalInfo.Name)
	assert.Equal(t, []string{"Rust"}, rec.ExtractedInfo.Skills.Technical)
	assert.Equal(t, []string{"git"}, rec.ExtractedInfo.Skills.Tools)
	assert.Equal(t, 100.0, rec.Analysis.OverallScore, "score is clamped")
	assert.Equal(t, "Nested.", rec.Analysis.Feedback)
	assert.Equal(t, "gentle", rec.Preferences.RoastLevel)
	assert.Equal(t, "10.0.0.1", rec.Metadata.ClientIP)
	assert.True(t, rec.Metadata.GDPRConsent)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), rec.Timestamps.UploadedAt)
	assert.Empty(t, rec.Validate())
}

func TestRebuildJSON_EmptyDocumentGetsDefaults(t *testing.T) {
	rec, err := RebuildJSON(`{}`, migrateNow, fixedID)
	require.NoError(t, err)

	assert.Equal(t, "unknown.pdf", rec.FileInfo.FileName)
	assert.Equal(t, "application/pdf", rec.FileInfo.MimeType)
	assert.Equal(t, "No feedback available", rec.Analysis.Feedback)
	assert.Equal(t, "professional", rec.Preferences.RoastLevel)
	assert.Equal(t, migrateNow, rec.Timestamps.UploadedAt)
	assert.NotNil(t, rec.ExtractedInfo.Experience)
	assert.NotNil(t, rec.Analysis.Strengths)
	assert.Empty(t, rec.Validate())
}

func TestRebuildJSON_StructuredArrays(t *testing.T) {
	doc := `{
		"experience": [{"title": "Engineer", "company": "Acme", "achievements": ["shipped"]}],
		"analysis": {"overallScore": 50, "feedback": "ok",
			"improvements": [{"priority": "HIGH", "title": "t"}, {"priority": "urgent", "title": "u"}],
			"resumeAnalytics": {"wordCount": 321, "atsCompatibility": "High"}}
	}`
	rec, err := RebuildJSON(doc, migrateNow, fixedID)
	require.NoError(t, err)

	require.Len(t, rec.ExtractedInfo.Experience, 1)
	assert.Equal(t, "Acme", rec.ExtractedInfo.Experience[0].Company)
	assert.Equal(t, models.PriorityHigh, rec.Analysis.Improvements[0].Priority)
	assert.Equal(t, models.PriorityMedium, rec.Analysis.Improvements[1].Priority)
	assert.Equal(t, 321, rec.Analysis.ResumeAnalytics.WordCount)
	assert.Equal(t, []string{}, rec.Analysis.ResumeAnalytics.MissingElements)
}

func TestRebuildJSON_NestedListsNeverNull(t *testing.T) {
	doc := `{
		"experience": [{"title": "Dev", "company": "X"}],
		"education": [{"degree": "BS", "graduationYear": 2019, "gpa": 3.5}],
		"projects": [{"name": "cli"}]
	}`
	rec, err := RebuildJSON(doc, migrateNow, fixedID)
	require.NoError(t, err)

	require.Len(t, rec.ExtractedInfo.Experience, 1)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Experience[0].Achievements)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Experience[0].Technologies)

	require.Len(t, rec.ExtractedInfo.Education, 1, "numeric scalars must not drop the array")
	assert.Equal(t, "2019", rec.ExtractedInfo.Education[0].GraduationYear)
	assert.Equal(t, "3.5", rec.ExtractedInfo.Education[0].GPA)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Education[0].Honors)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Education[0].Coursework)

	require.Len(t, rec.ExtractedInfo.Projects, 1)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Projects[0].Technologies)
	assert.Equal(t, []string{}, rec.ExtractedInfo.Projects[0].Achievements)
	assert.Equal(t, []models.Certification{}, rec.ExtractedInfo.Certifications)

	// The stored document carries empty arrays, not nulls.
	raw, err := bson.Marshal(rec)
	require.NoError(t, err)
	ach, err := bson.Raw(raw).LookupErr("extractedInfo", "experience", "0", "achievements")
	require.NoError(t, err)
	assert.Equal(t, bson.TypeArray, ach.Type)
}

func TestRebuildJSON_Invalid(t *testing.T) {
	_, err := RebuildJSON(`{"broken":`, migrateNow, fixedID)
	assert.Error(t, err)
}

func TestRebuild_FromBSON(t *testing.T) {
	uploaded := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(bson.M{
		"_id":        primitive.NewObjectID(),
		"fileName":   "a.pdf",
		"score":      int32(64),
		"uploadedAt": primitive.NewDateTimeFromTime(uploaded),
	})
	require.NoError(t, err)

	rec, err := Rebuild(bson.Raw(raw), migrateNow, fixedID)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", rec.FileInfo.FileName)
	assert.Equal(t, 64.0, rec.Analysis.OverallScore)
	assert.Equal(t, uploaded, rec.Timestamps.UploadedAt)
}
