package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/yoockh/roastcv/internal/heuristics"
	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/utils"
)

const (
	defaultFeedback  = "No feedback available"
	defaultRoastType = "constructive"
	defaultGender    = "not-specified"
	unknownValue     = "unknown"
)

// uploadPrefixRe matches the "<digits>_" prefix added when uploads are renamed.
var uploadPrefixRe = regexp.MustCompile(`^\d+_`)

// Assembler turns heterogeneous save inputs into one canonical ResumeRecord.
// Gaps in the AI payload are filled from the heuristics.
type Assembler struct {
	PersonalInfo heuristics.PersonalInfoExtractor
	Analytics    heuristics.AnalyticsEstimator
	Contacts     heuristics.ContactValidator
	Now          func() time.Time
}

func NewAssembler() *Assembler {
	r := heuristics.Regex{}
	return &Assembler{
		PersonalInfo: r,
		Analytics:    r,
		Contacts:     r,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// Assemble never fails: every branch has a deterministic default.
func (a *Assembler) Assemble(
	resumeID string,
	file *models.FileInput,
	extractedText string,
	analysis *models.AnalysisResult,
	prefs *models.Preferences,
	meta *models.RequestMetadata,
	requestID string,
) *models.ResumeRecord {
	payload := analysis.Payload()
	if payload == nil {
		payload = &models.AnalysisResult{}
	}
	if file == nil {
		file = &models.FileInput{}
	}
	if prefs == nil {
		prefs = &models.Preferences{}
	}
	if meta == nil {
		meta = &models.RequestMetadata{}
	}

	now := a.Now()
	name := uploadPrefixRe.ReplaceAllString(file.OriginalName, "")

	return &models.ResumeRecord{
		ResumeID: resumeID,
		FileInfo: models.FileInfo{
			FileName:         name,
			OriginalFileName: name,
			FileSize:         file.Size,
			MimeType:         file.MimeType,
			FileHash:         fileHash(file.Buffer, extractedText),
		},
		ExtractedInfo: a.extractedInfo(payload.ExtractedInfo, extractedText),
		Analysis:      a.analysis(payload, extractedText),
		Preferences: models.Preferences{
			RoastLevel: prefs.RoastLevel,
			Language:   prefs.Language,
			RoastType:  orDefault(prefs.RoastType, defaultRoastType),
			Gender:     orDefault(prefs.Gender, defaultGender),
		},
		Timestamps: models.Timestamps{
			UploadedAt: now,
			AnalyzedAt: now,
			UpdatedAt:  now,
		},
		Metadata: models.RecordMetadata{
			ClientIP:    orDefault(meta.ClientIP, unknownValue),
			UserAgent:   truncateRunes(orDefault(meta.UserAgent, unknownValue), models.MaxUserAgentLen),
			CountryCode: orDefault(meta.CountryCode, unknownValue),
			GDPRConsent: meta.GDPRConsent == nil || *meta.GDPRConsent,
			RequestID:   requestID,
		},
	}
}

func (a *Assembler) extractedInfo(src *models.ExtractedInfoPayload, text string) models.ExtractedInfo {
	if src == nil {
		src = &models.ExtractedInfoPayload{}
	}

	out := models.ExtractedInfo{
		ProfessionalSummary: src.ProfessionalSummary,
		Experience:          models.NormalizeExperience(src.Experience),
		Education:           models.NormalizeEducation(src.Education),
		Certifications:      models.NormalizeCertifications(src.Certifications),
		Projects:            models.NormalizeProjects(src.Projects),
		Awards:              nonNil(src.Awards),
		VolunteerWork:       nonNil(src.VolunteerWork),
		Interests:           nonNil(src.Interests),
		References:          src.References,
	}

	if src.PersonalInfo != nil {
		out.PersonalInfo = *src.PersonalInfo
	} else {
		out.PersonalInfo = a.PersonalInfo.ExtractBasicPersonalInfo(text)
	}

	var skills models.Skills
	if src.Skills != nil {
		skills = *src.Skills
	}
	out.Skills = models.Skills{
		Technical:  dedupe(skills.Technical),
		Soft:       dedupe(skills.Soft),
		Languages:  dedupe(skills.Languages),
		Tools:      dedupe(skills.Tools),
		Frameworks: dedupe(skills.Frameworks),
	}
	return out
}

func (a *Assembler) analysis(p *models.AnalysisResult, text string) models.Analysis {
	out := models.Analysis{
		Feedback:     defaultFeedback,
		Strengths:    nonNil(p.Strengths),
		Weaknesses:   nonNil(p.Weaknesses),
		Improvements: make([]models.Improvement, 0, len(p.Improvements)),
	}
	if p.Score != nil {
		out.OverallScore = *p.Score
	}
	if p.RoastFeedback != nil && strings.TrimSpace(*p.RoastFeedback) != "" {
		out.Feedback = *p.RoastFeedback
	}
	for _, imp := range p.Improvements {
		out.Improvements = append(out.Improvements, models.Improvement{
			Priority:    normalizePriority(imp.Priority),
			Title:       imp.Title,
			Description: imp.Description,
			Example:     imp.Example,
		})
	}

	if p.ResumeAnalytics != nil {
		ra := *p.ResumeAnalytics
		ra.IndustryKeywords = nonNil(ra.IndustryKeywords)
		ra.MissingElements = nonNil(ra.MissingElements)
		ra.StrongElements = nonNil(ra.StrongElements)
		out.ResumeAnalytics = ra
	} else {
		out.ResumeAnalytics = a.Analytics.GenerateBasicAnalytics(text)
	}

	if p.ContactValidation != nil {
		out.ContactValidation = *p.ContactValidation
	} else {
		out.ContactValidation = a.Contacts.ValidateContactInfo(text)
	}
	return out
}

func normalizePriority(v string) models.Priority {
	p := models.Priority(strings.ToLower(strings.TrimSpace(v)))
	if p.Valid() {
		return p
	}
	return models.PriorityMedium
}

func fileHash(raw []byte, text string) string {
	if len(raw) > 0 {
		return utils.ContentDigest(raw)
	}
	return utils.ContentDigest([]byte(text))
}

func nonNil(in []string) []string { return models.NonNil(in) }

// dedupe keeps the first occurrence of every entry.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
