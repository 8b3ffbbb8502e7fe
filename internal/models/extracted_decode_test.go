package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDecodeExtractedInfo(t *testing.T) {
	doc := gjson.Parse(`{
		"personalInfo": {"name": " Ann ", "address": {"city": "Jakarta"}, "socialProfiles": {"github": "gh/ann"}},
		"professionalSummary": null,
		"skills": {"technical": ["Go", "", 42], "soft": "not a list"},
		"certifications": [{"name": "CKA", "dateObtained": 2023}, "junk"],
		"projects": [{"name": "roastcv", "technologies": ["Go"]}],
		"awards": ["Best paper"]
	}`)

	ei := DecodeExtractedInfo(doc)
	require.NotNil(t, ei)
	require.NotNil(t, ei.PersonalInfo)
	assert.Equal(t, "Ann", *ei.PersonalInfo.Name)
	assert.Equal(t, "Jakarta", *ei.PersonalInfo.Address.City)
	assert.Nil(t, ei.PersonalInfo.Address.Full)
	assert.Equal(t, "gh/ann", *ei.PersonalInfo.SocialProfiles.GitHub)
	assert.Nil(t, ei.ProfessionalSummary)

	assert.Equal(t, []string{"Go", "42"}, ei.Skills.Technical)
	assert.Equal(t, []string{}, ei.Skills.Soft)

	require.Len(t, ei.Certifications, 1)
	assert.Equal(t, "2023", ei.Certifications[0].DateObtained)
	require.Len(t, ei.Projects, 1)
	assert.Equal(t, []string{"Go"}, ei.Projects[0].Technologies)
	assert.Equal(t, []string{}, ei.Projects[0].Achievements)
	assert.Equal(t, []Experience{}, ei.Experience)
	assert.Equal(t, []string{"Best paper"}, ei.Awards)
}

func TestDecodeExtractedInfoNotObject(t *testing.T) {
	assert.Nil(t, DecodeExtractedInfo(gjson.Parse(`[1]`)))
	assert.Nil(t, DecodeExtractedInfo(gjson.Result{}))
}

func TestNormalizeNestedLists(t *testing.T) {
	exp := NormalizeExperience([]Experience{{Title: "Dev"}})
	assert.NotNil(t, exp[0].Achievements)
	assert.NotNil(t, exp[0].Technologies)

	edu := NormalizeEducation(nil)
	assert.NotNil(t, edu)
	assert.Empty(t, edu)

	prj := NormalizeProjects([]Project{{Name: "x", Technologies: []string{"Go"}}})
	assert.Equal(t, []string{"Go"}, prj[0].Technologies)
	assert.NotNil(t, prj[0].Achievements)

	assert.NotNil(t, NormalizeCertifications(nil))
}
