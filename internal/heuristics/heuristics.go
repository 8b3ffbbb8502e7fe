// Package heuristics derives best-effort resume facts from raw extracted text
// with regular expressions. It is the fallback used when the AI analysis omits
// personal info, analytics, or contact validation.
package heuristics

import (
	"regexp"
	"strings"

	"github.com/yoockh/roastcv/internal/models"
)

type PersonalInfoExtractor interface {
	ExtractBasicPersonalInfo(text string) models.PersonalInfo
}

type AnalyticsEstimator interface {
	GenerateBasicAnalytics(text string) models.ResumeAnalytics
}

type ContactValidator interface {
	ValidateContactInfo(text string) models.ContactValidation
}

// Regex implements all three interfaces with the package-level functions.
type Regex struct{}

func (Regex) ExtractBasicPersonalInfo(text string) models.PersonalInfo {
	return ExtractBasicPersonalInfo(text)
}

func (Regex) GenerateBasicAnalytics(text string) models.ResumeAnalytics {
	return GenerateBasicAnalytics(text)
}

func (Regex) ValidateContactInfo(text string) models.ContactValidation {
	return ValidateContactInfo(text)
}

const maxNameLen = 50

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
	phoneLocal = regexp.MustCompile(`(?:\+?[0-9]{1,3}[-.\s]?)?[0-9]{3}[-.\s][0-9]{4}\b`)
	linkedInRe = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9-]+`)
	addressRe  = regexp.MustCompile(`(?i)\b(?:street|st|avenue|ave|road|rd|drive|dr|city|state|zip)\b`)
)

// ExtractBasicPersonalInfo returns name, email, phone and LinkedIn guesses.
// Fields without a match are nil; address and the other social profiles are
// always nil on this path.
func ExtractBasicPersonalInfo(text string) models.PersonalInfo {
	info := models.PersonalInfo{
		Name:  guessName(text),
		Email: firstMatch(emailRe, text),
		Phone: findPhone(text),
	}
	info.SocialProfiles.LinkedIn = firstMatch(linkedInRe, text)
	return info
}

func guessName(text string) *string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// only the first non-empty line is a candidate
		if len([]rune(line)) < maxNameLen && !strings.Contains(line, "@") {
			return &line
		}
		return nil
	}
	return nil
}

func findPhone(text string) *string {
	if p := firstMatch(phoneRe, text); p != nil {
		return p
	}
	return firstMatch(phoneLocal, text)
}

func hasPhone(text string) bool {
	return phoneRe.MatchString(text) || phoneLocal.MatchString(text)
}

func firstMatch(re *regexp.Regexp, text string) *string {
	m := re.FindString(text)
	if m == "" {
		return nil
	}
	return &m
}

// ValidateContactInfo reports which contact facts are present. Without a
// deeper check the valid flags mirror the presence flags.
func ValidateContactInfo(text string) models.ContactValidation {
	email := emailRe.MatchString(text)
	phone := hasPhone(text)
	linkedIn := linkedInRe.MatchString(text)
	address := addressRe.MatchString(text)

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
