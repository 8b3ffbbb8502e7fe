// Package migration rewrites resume documents stored before the canonical
// record shape existed.
package migration

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yoockh/roastcv/internal/heuristics"
	"github.com/yoockh/roastcv/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	fallbackFileName = "unknown.pdf"
	fallbackMimeType = "application/pdf"
	fallbackFeedback = "No feedback available"
	migrationRequest = "migration"
)

// Rebuild maps one legacy document onto a ResumeRecord. Paths are tried in
// order and the first non-null value wins.
func Rebuild(raw bson.Raw, now time.Time, newID func(time.Time) string) (*models.ResumeRecord, error) {
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode legacy document: %w", err)
	}
	return RebuildJSON(string(ext), now, newID)
}

// RebuildJSON is Rebuild over relaxed extended JSON.
func RebuildJSON(doc string, now time.Time, newID func(time.Time) string) (*models.ResumeRecord, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("legacy document is not valid json")
	}
	d := gjson.Parse(doc)
	now = now.UTC()

	uploadedAt := timeAt(d, "timestamps.uploadedAt", "metadata.uploadDate", "uploadedAt", "createdAt")
	if uploadedAt.IsZero() {
		uploadedAt = now
	}
	analyzedAt := timeAt(d, "timestamps.analyzedAt", "analyzedAt")
	if analyzedAt.IsZero() {
		analyzedAt = uploadedAt
	}

	rec := &models.ResumeRecord{
		ResumeID:      str(d, "resumeId"),
		FileInfo:      fileInfo(d),
		ExtractedInfo: extractedInfo(d),
		Preferences: models.Preferences{
			RoastLevel: strOr(d, "professional", "preferences.roastLevel", "roastLevel", "preferences.roastSettings.level"),
			Language:   strOr(d, "english", "preferences.language", "language"),
			RoastType:  strOr(d, "constructive", "preferences.roastType", "roastType"),
			Gender:     strOr(d, "not-specified", "preferences.gender", "gender"),
		},
		Timestamps: models.Timestamps{
			UploadedAt: uploadedAt,
			AnalyzedAt: analyzedAt,
			UpdatedAt:  now,
		},
		Metadata: models.RecordMetadata{
			ClientIP:       strOr(d, "unknown", "metadata.clientIP", "clientIP"),
			UserAgent:      truncate(strOr(d, "unknown", "metadata.userAgent", "userAgent"), models.MaxUserAgentLen),
			CountryCode:    strOr(d, "unknown", "metadata.countryCode", "countryCode"),
			GDPRConsent:    first(d, "metadata.gdprConsent", "dataGovernance.gdprConsent").Bool(),
			RequestID:      strOr(d, migrationRequest, "metadata.requestId", "requestId"),
			ProcessingTime: first(d, "metadata.processingTime", "processingStatus.processingTime").Int(),
		},
	}
	if rec.ResumeID == "" {
		rec.ResumeID = newID(uploadedAt)
	}
	rec.Analysis = analysis(d, &rec.ExtractedInfo.PersonalInfo)
	return rec, nil
}

func fileInfo(d gjson.Result) models.FileInfo {
	name := strOr(d, fallbackFileName, "fileInfo.fileName", "metadata.originalFileName", "fileName", "originalFileName")
	size := first(d, "fileInfo.fileSize", "metadata.fileSize", "fileSize").Int()
	if size < 0 {
		size = 0
	}
	return models.FileInfo{
		FileName:         name,
		OriginalFileName: strOr(d, name, "fileInfo.originalFileName", "metadata.originalFileName", "originalFileName"),
		FileSize:         size,
		MimeType:         strOr(d, fallbackMimeType, "fileInfo.mimeType", "metadata.fileType", "mimeType"),
		FileHash:         str(d, "fileInfo.fileHash", "fileHash"),
	}
}

func extractedInfo(d gjson.Result) models.ExtractedInfo {
	pi := models.PersonalInfo{
		Name:  strPtr(d, "extractedInfo.personalInfo.name", "extractedInfo.name", "name"),
		Email: strPtr(d, "extractedInfo.personalInfo.email", "extractedInfo.email", "email"),
		Phone: strPtr(d, "extractedInfo.personalInfo.phone", "extractedInfo.phone", "phone"),
		Address: models.Address{
			Full:    strPtr(d, "extractedInfo.personalInfo.address.full", "extractedInfo.address", "address"),
			City:    strPtr(d, "extractedInfo.personalInfo.address.city"),
			State:   strPtr(d, "extractedInfo.personalInfo.address.state"),
			Country: strPtr(d, "extractedInfo.personalInfo.address.country"),
			ZipCode: strPtr(d, "extractedInfo.personalInfo.address.zipCode"),
		},
		SocialProfiles: models.SocialProfiles{
			LinkedIn:  strPtr(d, "extractedInfo.personalInfo.socialProfiles.linkedin", "extractedInfo.linkedIn", "linkedIn"),
			GitHub:    strPtr(d, "extractedInfo.personalInfo.socialProfiles.github", "extractedInfo.github", "github"),
			Portfolio: strPtr(d, "extractedInfo.personalInfo.socialProfiles.portfolio", "extractedInfo.portfolio", "portfolio"),
			Website:   strPtr(d, "extractedInfo.personalInfo.socialProfiles.website"),
			Twitter:   strPtr(d, "extractedInfo.personalInfo.socialProfiles.twitter"),
		},
	}

	// Object-valued legacy addresses are flattened into the parts.
	if a := first(d, "extractedInfo.address", "address"); a.IsObject() {
		pi.Address = models.Address{
			Full:    strPtr(a, "full"),
			City:    strPtr(a, "city"),
			State:   strPtr(a, "state"),
			Country: strPtr(a, "country"),
			ZipCode: strPtr(a, "zipCode"),
		}
	}

	out := models.ExtractedInfo{
		PersonalInfo:        pi,
		ProfessionalSummary: strPtr(d, "extractedInfo.professionalSummary", "professionalSummary", "summary"),
		Skills: models.Skills{
			Technical:  stringList(d, "extractedInfo.skills.technical", "skills.technical", "technicalSkills"),
			Soft:       stringList(d, "extractedInfo.skills.soft", "skills.soft", "softSkills"),
			Languages:  stringList(d, "extractedInfo.skills.languages", "skills.languages"),
			Tools:      stringList(d, "extractedInfo.skills.tools", "skills.tools"),
			Frameworks: stringList(d, "extractedInfo.skills.frameworks", "skills.frameworks"),
		},
		Experience:     models.DecodeExperience(first(d, "extractedInfo.experience", "experience")),
		Education:      models.DecodeEducation(first(d, "extractedInfo.education", "education")),
		Certifications: models.DecodeCertifications(first(d, "extractedInfo.certifications", "certifications")),
		Projects:       models.DecodeProjects(first(d, "extractedInfo.projects", "projects")),
		Awards:         stringList(d, "extractedInfo.awards", "awards"),
		VolunteerWork:  stringList(d, "extractedInfo.volunteerWork", "volunteerWork"),
		Interests:      stringList(d, "extractedInfo.interests", "interests"),
		References:     strPtr(d, "extractedInfo.references", "references"),
	}
	return out
}

func analysis(d gjson.Result, pi *models.PersonalInfo) models.Analysis {
	score := first(d, "analysis.overallScore", "score", "overallScore").Float()
	score = math.Max(models.MinScore, math.Min(models.MaxScore, score))

	feedback := fallbackFeedback
	if fb := d.Get("analysis.feedback"); fb.Type == gjson.String && strings.TrimSpace(fb.Str) != "" {
		feedback = fb.Str
	} else if v := str(d, "analysis.feedback.roastFeedback", "roastFeedback", "feedback"); v != "" {
		feedback = v
	}

	out := models.Analysis{
		OverallScore: score,
		Feedback:     feedback,
		Strengths:    stringList(d, "analysis.strengths", "analysis.feedback.strengths", "strengths"),
		Weaknesses:   stringList(d, "analysis.weaknesses", "analysis.feedback.weaknesses", "weaknesses"),
		Improvements: improvements(first(d, "analysis.improvements", "analysis.feedback.improvements", "improvements")),
	}

	text := str(d, "extractedText", "originalText")
	if ra := first(d, "analysis.resumeAnalytics", "resumeAnalytics"); ra.IsObject() && json.Unmarshal([]byte(ra.Raw), &out.ResumeAnalytics) == nil {
		out.ResumeAnalytics.IndustryKeywords = models.NonNil(out.ResumeAnalytics.IndustryKeywords)
		out.ResumeAnalytics.MissingElements = models.NonNil(out.ResumeAnalytics.MissingElements)
		out.ResumeAnalytics.StrongElements = models.NonNil(out.ResumeAnalytics.StrongElements)
	} else {
		out.ResumeAnalytics = heuristics.GenerateBasicAnalytics(text)
	}

	if cv := first(d, "analysis.contactValidation", "contactValidation"); cv.IsObject() && json.Unmarshal([]byte(cv.Raw), &out.ContactValidation) == nil {
		return out
	}
	out.ContactValidation = contactsFrom(pi)
	return out
}

// improvements accepts both the structured form and the old plain strings.
func improvements(r gjson.Result) []models.Improvement {
	out := []models.Improvement{}
	for _, it := range r.Array() {
		if it.Type == gjson.String {
			if s := strings.TrimSpace(it.Str); s != "" {
				out = append(out, models.Improvement{Priority: models.PriorityMedium, Title: s})
			}
			continue
		}
		p := models.Priority(strings.ToLower(it.Get("priority").String()))
		if !p.Valid() {
			p = models.PriorityMedium
		}
		out = append(out, models.Improvement{
			Priority:    p,
			Title:       it.Get("title").String(),
			Description: it.Get("description").String(),
			Example:     it.Get("example").String(),
		})
	}
	return out
}

func contactsFrom(pi *models.PersonalInfo) models.ContactValidation {
	has := func(p *string) bool { return p != nil && strings.TrimSpace(*p) != "" }
	email := has(pi.Email)
	phone := has(pi.Phone)
	linkedIn := has(pi.SocialProfiles.LinkedIn)
	address := has(pi.Address.Full) || has(pi.Address.City)
	return models.ContactValidation{
		HasEmail:      email,
		HasPhone:      phone,
		HasLinkedIn:   linkedIn,
		HasAddress:    address,
		EmailValid:    email,
		PhoneValid:    phone,
		LinkedInValid: linkedIn,
		AddressValid:  address,
	}
}

func first(d gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := d.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func str(d gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := d.Get(p); v.Type == gjson.String || v.Type == gjson.Number {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func strOr(d gjson.Result, def string, paths ...string) string {
	if s := str(d, paths...); s != "" {
		return s
	}
	return def
}

func strPtr(d gjson.Result, paths ...string) *string {
	if s := str(d, paths...); s != "" {
		return &s
	}
	return nil
}

// stringList reads the first array found, skipping blanks and repeats.
func stringList(d gjson.Result, paths ...string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, p := range paths {
		v := d.Get(p)
		if !v.IsArray() {
			continue
		}
		for _, it := range v.Array() {
			s := strings.TrimSpace(it.String())
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
		break
	}
	return out
}

// timeAt reads relaxed extended JSON dates ({"$date": ...}) and plain
// RFC 3339 strings.
func timeAt(d gjson.Result, paths ...string) time.Time {
	for _, p := range paths {
		v := d.Get(p)
		if !v.Exists() {
			continue
		}
		if dt := v.Get("$date"); dt.Exists() {
			v = dt
		}
		if ms := v.Get("$numberLong"); ms.Exists() {
			return time.UnixMilli(ms.Int()).UTC()
		}
		switch v.Type {
		case gjson.String:
			if t, err := time.Parse(time.RFC3339Nano, v.Str); err == nil {
				return t.UTC()
			}
		case gjson.Number:
			return time.UnixMilli(v.Int()).UTC()
		}
	}
	return time.Time{}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
