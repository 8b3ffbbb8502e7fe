package models

// FileInput describes an uploaded file as received by the HTTP layer.
type FileInput struct {
	OriginalName string
	Size         int64
	MimeType     string
	Buffer       []byte // raw bytes, may be nil
}

// AnalysisResult is the loosely-typed payload returned by the AI. Upstream
// sometimes wraps the real payload under "data"; Payload resolves that.
type AnalysisResult struct {
	Score             *float64              `json:"score,omitempty"`
	RoastFeedback     *string               `json:"roastFeedback,omitempty"`
	Strengths         []string              `json:"strengths,omitempty"`
	Weaknesses        []string              `json:"weaknesses,omitempty"`
	Improvements      []ImprovementPayload  `json:"improvements,omitempty"`
	ExtractedInfo     *ExtractedInfoPayload `json:"extractedInfo,omitempty"`
	ResumeAnalytics   *ResumeAnalytics      `json:"resumeAnalytics,omitempty"`
	ContactValidation *ContactValidation    `json:"contactValidation,omitempty"`
	Data              *AnalysisResult       `json:"data,omitempty"`
}

// Payload returns the authoritative analysis: Data when present, else the receiver.
func (a *AnalysisResult) Payload() *AnalysisResult {
	if a == nil {
		return nil
	}
	if a.Data != nil {
		return a.Data
	}
	return a
}

type ImprovementPayload struct {
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// ExtractedInfoPayload mirrors ExtractedInfo with every field optional.
type ExtractedInfoPayload struct {
	PersonalInfo        *PersonalInfo   `json:"personalInfo,omitempty"`
	ProfessionalSummary *string         `json:"professionalSummary,omitempty"`
	Skills              *Skills         `json:"skills,omitempty"`
	Experience          []Experience    `json:"experience,omitempty"`
	Education           []Education     `json:"education,omitempty"`
	Certifications      []Certification `json:"certifications,omitempty"`
	Projects            []Project       `json:"projects,omitempty"`
	Awards              []string        `json:"awards,omitempty"`
	VolunteerWork       []string        `json:"volunteerWork,omitempty"`
	Interests           []string        `json:"interests,omitempty"`
	References          *string         `json:"references,omitempty"`
}

// RequestMetadata carries per-request facts copied into RecordMetadata.
type RequestMetadata struct {
	ClientIP    string
	UserAgent   string
	CountryCode string
	GDPRConsent *bool
	RequestID   string
}
