package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/providers/llm"
	"github.com/yoockh/roastcv/internal/utils"
)

// maxPromptChars bounds the resume text sent to the model.
const maxPromptChars = 20000

type AnalysisService interface {
	AnalyzeResume(ctx context.Context, text string, prefs *models.Preferences, fileName string) (*models.AnalysisResult, error)
}

type analysisService struct {
	llm llm.Provider
}

func NewAnalysisService(p llm.Provider) AnalysisService {
	return &analysisService{llm: p}
}

func (s *analysisService) AnalyzeResume(ctx context.Context, text string, prefs *models.Preferences, fileName string) (*models.AnalysisResult, error) {
	const op = "AnalysisService.AnalyzeResume"

	if strings.TrimSpace(text) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume text is required", nil)
	}
	if s.llm == nil {
		return nil, utils.E(utils.CodeInternal, op, "llm provider is not configured", nil)
	}
	if prefs == nil {
		prefs = &models.Preferences{}
	}

	raw, err := s.llm.Generate(ctx, buildRoastPrompt(text, prefs, fileName))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "analysis provider failed", err)
	}

	res, err := ParseAnalysis(raw)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "analysis response unreadable", err)
	}
	return res, nil
}

func roastTone(level string) string {
	switch strings.ToLower(level) {
	case "gentle", "light", "mild":
		return "Be kind and encouraging. Point out problems softly."
	case "savage", "brutal", "harsh":
		return "Be brutally honest and witty. Do not sugarcoat anything, but stay useful."
	default:
		return "Be direct and professional, like a senior recruiter giving frank feedback."
	}
}

func buildRoastPrompt(text string, p *models.Preferences, fileName string) string {
	if r := []rune(text); len(r) > maxPromptChars {
		text = string(r[:maxPromptChars])
	}
	language := orDefault(p.Language, "english")

	var b strings.Builder
	fmt.Fprintf(&b, "You are a resume reviewer who roasts resumes. %s\n", roastTone(p.RoastLevel))
	fmt.Fprintf(&b, "Roast style: %s. Write all feedback in %s.\n", orDefault(p.RoastType, defaultRoastType), language)
	if g := orDefault(p.Gender, defaultGender); g != defaultGender {
		fmt.Fprintf(&b, "Address the candidate with %s pronouns where natural.\n", g)
	}
	if fileName != "" {
		fmt.Fprintf(&b, "File name: %s\n", fileName)
	}
	b.WriteString(`
Return ONLY a JSON object with this shape:
{
  "score": <number 0-100>,
  "roastFeedback": "<multi-paragraph roast>",
  "strengths": ["..."],
  "weaknesses": ["..."],
  "improvements": [{"priority": "low|medium|high", "title": "...", "description": "...", "example": "..."}],
  "extractedInfo": {
    "personalInfo": {"name": null, "email": null, "phone": null,
      "address": {"full": null, "city": null, "state": null, "country": null, "zipCode": null},
      "socialProfiles": {"linkedin": null, "github": null, "portfolio": null, "website": null, "twitter": null}},
    "professionalSummary": null,
    "skills": {"technical": [], "soft": [], "languages": [], "tools": [], "frameworks": []},
    "experience": [], "education": [], "certifications": [], "projects": [],
    "awards": [], "volunteerWork": [], "interests": [], "references": null
  }
}
Use null for anything the resume does not state.

Resume:
`)
	b.WriteString(text)
	return b.String()
}

// ParseAnalysis decodes a model response. It tolerates markdown fences,
// surrounding prose, a "data" wrapper and numbers sent as strings.
func ParseAnalysis(raw string) (*models.AnalysisResult, error) {
	body := jsonBody(raw)
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("response is not valid json")
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("response is not a json object")
	}
	if st := doc.Get("success"); st.Exists() && !st.Bool() {
		return nil, fmt.Errorf("provider reported failure: %s", doc.Get("error").String())
	}

	var res models.AnalysisResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		res = models.AnalysisResult{}
		lenient(doc, &res)
	}

	p := res.Payload()
	root := doc
	if doc.Get("data").IsObject() {
		root = doc.Get("data")
	}
	if p.Score == nil {
		if v := firstOf(root, "score", "overallScore"); v.Exists() {
			f := v.Float()
			p.Score = &f
		}
	}
	if p.RoastFeedback == nil {
		if v := firstOf(root, "roastFeedback", "feedback"); v.Exists() {
			s := v.String()
			p.RoastFeedback = &s
		}
	}
	// Field by field, so a number where text was expected loses only itself.
	if ei := root.Get("extractedInfo"); ei.IsObject() {
		p.ExtractedInfo = models.DecodeExtractedInfo(ei)
	}
	return &res, nil
}

// lenient fills the fields that survive a failed strict decode.
func lenient(doc gjson.Result, res *models.AnalysisResult) {
	root := doc
	if doc.Get("data").IsObject() {
		root = doc.Get("data")
	}
	for _, r := range root.Get("strengths").Array() {
		res.Strengths = append(res.Strengths, r.String())
	}
	for _, r := range root.Get("weaknesses").Array() {
		res.Weaknesses = append(res.Weaknesses, r.String())
	}
	for _, r := range root.Get("improvements").Array() {
		res.Improvements = append(res.Improvements, models.ImprovementPayload{
			Priority:    r.Get("priority").String(),
			Title:       r.Get("title").String(),
			Description: r.Get("description").String(),
			Example:     r.Get("example").String(),
		})
	}
	if ra := root.Get("resumeAnalytics"); ra.IsObject() {
		var v models.ResumeAnalytics
		if json.Unmarshal([]byte(ra.Raw), &v) == nil {
			res.ResumeAnalytics = &v
		}
	}
	if cv := root.Get("contactValidation"); cv.IsObject() {
		var v models.ContactValidation
		if json.Unmarshal([]byte(cv.Raw), &v) == nil {
			res.ContactValidation = &v
		}
	}
}

func firstOf(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// jsonBody strips code fences and any prose around the outermost object.
func jsonBody(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
