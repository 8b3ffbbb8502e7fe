package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResumeRecord is the canonical document stored in the "resumes" collection.
// Field names are camelCase because dashboards and migrations query them by path.
type ResumeRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ResumeID string             `bson:"resumeId" json:"resumeId"`

	FileInfo      FileInfo       `bson:"fileInfo" json:"fileInfo"`
	ExtractedInfo ExtractedInfo  `bson:"extractedInfo" json:"extractedInfo"`
	Analysis      Analysis       `bson:"analysis" json:"analysis"`
	Preferences   Preferences    `bson:"preferences" json:"preferences"`
	Timestamps    Timestamps     `bson:"timestamps" json:"timestamps"`
	Metadata      RecordMetadata `bson:"metadata" json:"metadata"`
}

type FileInfo struct {
	FileName         string `bson:"fileName" json:"fileName"`
	OriginalFileName string `bson:"originalFileName" json:"originalFileName"`
	FileSize         int64  `bson:"fileSize" json:"fileSize"`
	MimeType         string `bson:"mimeType" json:"mimeType"`
	FileHash         string `bson:"fileHash" json:"fileHash"` // traceability only
}

type ExtractedInfo struct {
	PersonalInfo        PersonalInfo    `bson:"personalInfo" json:"personalInfo"`
	ProfessionalSummary *string         `bson:"professionalSummary" json:"professionalSummary"`
	Skills              Skills          `bson:"skills" json:"skills"`
	Experience          []Experience    `bson:"experience" json:"experience"`
	Education           []Education     `bson:"education" json:"education"`
	Certifications      []Certification `bson:"certifications" json:"certifications"`
	Projects            []Project       `bson:"projects" json:"projects"`
	Awards              []string        `bson:"awards" json:"awards"`
	VolunteerWork       []string        `bson:"volunteerWork" json:"volunteerWork"`
	Interests           []string        `bson:"interests" json:"interests"`
	References          *string         `bson:"references" json:"references"`
}

type PersonalInfo struct {
	Name           *string        `bson:"name" json:"name"`
	Email          *string        `bson:"email" json:"email"`
	Phone          *string        `bson:"phone" json:"phone"`
	Address        Address        `bson:"address" json:"address"`
	SocialProfiles SocialProfiles `bson:"socialProfiles" json:"socialProfiles"`
}

type Address struct {
	Full    *string `bson:"full" json:"full"`
	City    *string `bson:"city" json:"city"`
	State   *string `bson:"state" json:"state"`
	Country *string `bson:"country" json:"country"`
	ZipCode *string `bson:"zipCode" json:"zipCode"`
}

type SocialProfiles struct {
	LinkedIn  *string `bson:"linkedin" json:"linkedin"`
	GitHub    *string `bson:"github" json:"github"`
	Portfolio *string `bson:"portfolio" json:"portfolio"`
	Website   *string `bson:"website" json:"website"`
	Twitter   *string `bson:"twitter" json:"twitter"`
}

// Skills lists are ordered and duplicate-free.
type Skills struct {
	Technical  []string `bson:"technical" json:"technical"`
	Soft       []string `bson:"soft" json:"soft"`
	Languages  []string `bson:"languages" json:"languages"`
	Tools      []string `bson:"tools" json:"tools"`
	Frameworks []string `bson:"frameworks" json:"frameworks"`
}

type Experience struct {
	Title        string   `bson:"title" json:"title"`
	Company      string   `bson:"company" json:"company"`
	Location     string   `bson:"location" json:"location"`
	StartDate    string   `bson:"startDate" json:"startDate"`
	EndDate      string   `bson:"endDate" json:"endDate"`
	Duration     string   `bson:"duration" json:"duration"`
	Description  string   `bson:"description" json:"description"`
	Achievements []string `bson:"achievements" json:"achievements"`
	Technologies []string `bson:"technologies" json:"technologies"`
}

type Education struct {
	Degree         string   `bson:"degree" json:"degree"`
	Field          string   `bson:"field" json:"field"`
	Institution    string   `bson:"institution" json:"institution"`
	Location       string   `bson:"location" json:"location"`
	GraduationYear string   `bson:"graduationYear" json:"graduationYear"`
	GPA            string   `bson:"gpa" json:"gpa"`
	Honors         []string `bson:"honors" json:"honors"`
	Coursework     []string `bson:"coursework" json:"coursework"`
}

type Certification struct {
	Name           string `bson:"name" json:"name"`
	Issuer         string `bson:"issuer" json:"issuer"`
	DateObtained   string `bson:"dateObtained" json:"dateObtained"`
	ExpirationDate string `bson:"expirationDate" json:"expirationDate"`
	CredentialID   string `bson:"credentialId" json:"credentialId"`
	URL            string `bson:"url" json:"url"`
}

type Project struct {
	Name         string   `bson:"name" json:"name"`
	Description  string   `bson:"description" json:"description"`
	Role         string   `bson:"role" json:"role"`
	Duration     string   `bson:"duration" json:"duration"`
	Technologies []string `bson:"technologies" json:"technologies"`
	Achievements []string `bson:"achievements" json:"achievements"`
	URL          string   `bson:"url" json:"url"`
	GitHub       string   `bson:"github" json:"github"`
}

type Analysis struct {
	OverallScore      float64           `bson:"overallScore" json:"overallScore"` // 0..100
	Feedback          string            `bson:"feedback" json:"feedback"`
	Strengths         []string          `bson:"strengths" json:"strengths"`
	Weaknesses        []string          `bson:"weaknesses" json:"weaknesses"`
	Improvements      []Improvement     `bson:"improvements" json:"improvements"`
	ResumeAnalytics   ResumeAnalytics   `bson:"resumeAnalytics" json:"resumeAnalytics"`
	ContactValidation ContactValidation `bson:"contactValidation" json:"contactValidation"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Improvement struct {
	Priority    Priority `bson:"priority" json:"priority"`
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	Example     string   `bson:"example" json:"example"`
}

type ResumeAnalytics struct {
	WordCount                int      `bson:"wordCount" json:"wordCount"`
	PageCount                int      `bson:"pageCount" json:"pageCount"`
	SectionCount             int      `bson:"sectionCount" json:"sectionCount"`
	BulletPointCount         int      `bson:"bulletPointCount" json:"bulletPointCount"`
	QuantifiableAchievements int      `bson:"quantifiableAchievements" json:"quantifiableAchievements"`
	ActionVerbsUsed          int      `bson:"actionVerbsUsed" json:"actionVerbsUsed"`
	IndustryKeywords         []string `bson:"industryKeywords" json:"industryKeywords"`
	ReadabilityScore         int      `bson:"readabilityScore" json:"readabilityScore"`
	ATSCompatibility         string   `bson:"atsCompatibility" json:"atsCompatibility"` // High|Medium|Low
	MissingElements          []string `bson:"missingElements" json:"missingElements"`
	StrongElements           []string `bson:"strongElements" json:"strongElements"`
}

type ContactValidation struct {
	HasEmail      bool `bson:"hasEmail" json:"hasEmail"`
	HasPhone      bool `bson:"hasPhone" json:"hasPhone"`
	HasLinkedIn   bool `bson:"hasLinkedIn" json:"hasLinkedIn"`
	HasAddress    bool `bson:"hasAddress" json:"hasAddress"`
	EmailValid    bool `bson:"emailValid" json:"emailValid"`
	PhoneValid    bool `bson:"phoneValid" json:"phoneValid"`
	LinkedInValid bool `bson:"linkedInValid" json:"linkedInValid"`
	AddressValid  bool `bson:"addressValid" json:"addressValid"`
}

// Preferences echoes the caller's analysis configuration.
type Preferences struct {
	RoastLevel string `bson:"roastLevel" json:"roastLevel"`
	Language   string `bson:"language" json:"language"`
	RoastType  string `bson:"roastType" json:"roastType"`
	Gender     string `bson:"gender" json:"gender"`
}

type Timestamps struct {
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
	AnalyzedAt time.Time `bson:"analyzedAt" json:"analyzedAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

type RecordMetadata struct {
	ClientIP       string `bson:"clientIP" json:"clientIP"`
	UserAgent      string `bson:"userAgent" json:"userAgent"`
	CountryCode    string `bson:"countryCode" json:"countryCode"`
	GDPRConsent    bool   `bson:"gdprConsent" json:"gdprConsent"`
	RequestID      string `bson:"requestId" json:"requestId"`
	ProcessingTime int64  `bson:"processingTime" json:"processingTime"` // ms
}

// ResumeSummary is the dashboard projection of a record.
type ResumeSummary struct {
	ResumeID      string    `json:"resumeId"`
	FileName      string    `json:"fileName"`
	OverallScore  float64   `json:"overallScore"`
	CandidateName *string   `json:"candidateName"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

type ScoreSummary struct {
	Count        int64   `bson:"count" json:"count"`
	AverageScore float64 `bson:"avgScore" json:"averageScore"`
	MinScore     float64 `bson:"minScore" json:"minScore"`
	MaxScore     float64 `bson:"maxScore" json:"maxScore"`
}
