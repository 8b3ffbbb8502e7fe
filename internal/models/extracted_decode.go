package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DecodeExtractedInfo reads an extractedInfo object field by field, so one
// badly typed value only loses itself. Numbers are kept as their text.
func DecodeExtractedInfo(r gjson.Result) *ExtractedInfoPayload {
	if !r.IsObject() {
		return nil
	}
	out := &ExtractedInfoPayload{
		ProfessionalSummary: TextPtr(r.Get("professionalSummary")),
		Experience:          DecodeExperience(r.Get("experience")),
		Education:           DecodeEducation(r.Get("education")),
		Certifications:      DecodeCertifications(r.Get("certifications")),
		Projects:            DecodeProjects(r.Get("projects")),
		Awards:              TextList(r.Get("awards")),
		VolunteerWork:       TextList(r.Get("volunteerWork")),
		Interests:           TextList(r.Get("interests")),
		References:          TextPtr(r.Get("references")),
	}
	if pi := r.Get("personalInfo"); pi.IsObject() {
		p := DecodePersonalInfo(pi)
		out.PersonalInfo = &p
	}
	if sk := r.Get("skills"); sk.IsObject() {
		out.Skills = &Skills{
			Technical:  TextList(sk.Get("technical")),
			Soft:       TextList(sk.Get("soft")),
			Languages:  TextList(sk.Get("languages")),
			Tools:      TextList(sk.Get("tools")),
			Frameworks: TextList(sk.Get("frameworks")),
		}
	}
	return out
}

func DecodePersonalInfo(r gjson.Result) PersonalInfo {
	return PersonalInfo{
		Name:  TextPtr(r.Get("name")),
		Email: TextPtr(r.Get("email")),
		Phone: TextPtr(r.Get("phone")),
		Address: Address{
			Full:    TextPtr(r.Get("address.full")),
			City:    TextPtr(r.Get("address.city")),
			State:   TextPtr(r.Get("address.state")),
			Country: TextPtr(r.Get("address.country")),
			ZipCode: TextPtr(r.Get("address.zipCode")),
		},
		SocialProfiles: SocialProfiles{
			LinkedIn:  TextPtr(r.Get("socialProfiles.linkedin")),
			GitHub:    TextPtr(r.Get("socialProfiles.github")),
			Portfolio: TextPtr(r.Get("socialProfiles.portfolio")),
			Website:   TextPtr(r.Get("socialProfiles.website")),
			Twitter:   TextPtr(r.Get("socialProfiles.twitter")),
		},
	}
}

func DecodeExperience(r gjson.Result) []Experience {
	out := []Experience{}
	for _, e := range objects(r) {
		out = append(out, Experience{
			Title:        Text(e.Get("title")),
			Company:      Text(e.Get("company")),
			Location:     Text(e.Get("location")),
			StartDate:    Text(e.Get("startDate")),
			EndDate:      Text(e.Get("endDate")),
			Duration:     Text(e.Get("duration")),
			Description:  Text(e.Get("description")),
			Achievements: TextList(e.Get("achievements")),
			Technologies: TextList(e.Get("technologies")),
		})
	}
	return out
}

func DecodeEducation(r gjson.Result) []Education {
	out := []Education{}
	for _, e := range objects(r) {
		out = append(out, Education{
			Degree:         Text(e.Get("degree")),
			Field:          Text(e.Get("field")),
			Institution:    Text(e.Get("institution")),
			Location:       Text(e.Get("location")),
			GraduationYear: Text(e.Get("graduationYear")),
			GPA:            Text(e.Get("gpa")),
			Honors:         TextList(e.Get("honors")),
			Coursework:     TextList(e.Get("coursework")),
		})
	}
	return out
}

func DecodeCertifications(r gjson.Result) []Certification {
	out := []Certification{}
	for _, e := range objects(r) {
		out = append(out, Certification{
			Name:           Text(e.Get("name")),
			Issuer:         Text(e.Get("issuer")),
			DateObtained:   Text(e.Get("dateObtained")),
			ExpirationDate: Text(e.Get("expirationDate")),
			CredentialID:   Text(e.Get("credentialId")),
			URL:            Text(e.Get("url")),
		})
	}
	return out
}

func DecodeProjects(r gjson.Result) []Project {
	out := []Project{}
	for _, e := range objects(r) {
		out = append(out, Project{
			Name:         Text(e.Get("name")),
			Description:  Text(e.Get("description")),
			Role:         Text(e.Get("role")),
			Duration:     Text(e.Get("duration")),
			Technologies: TextList(e.Get("technologies")),
			Achievements: TextList(e.Get("achievements")),
			URL:          Text(e.Get("url")),
			GitHub:       Text(e.Get("github")),
		})
	}
	return out
}

// Text returns a scalar as trimmed text. Objects, arrays and null give "".
func Text(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return strings.TrimSpace(r.String())
	}
	return ""
}

func TextPtr(r gjson.Result) *string {
	if s := Text(r); s != "" {
		return &s
	}
	return nil
}

// TextList returns the non-blank scalars of an array, never nil.
func TextList(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	for _, it := range r.Array() {
		if s := Text(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func objects(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	var out []gjson.Result
	for _, it := range r.Array() {
		if it.IsObject() {
			out = append(out, it)
		}
	}
	return out
}

// NormalizeExperience returns a non-nil copy whose nested lists are non-nil.
func NormalizeExperience(in []Experience) []Experience {
	out := make([]Experience, 0, len(in))
	for _, e := range in {
		e.Achievements = NonNil(e.Achievements)
		e.Technologies = NonNil(e.Technologies)
		out = append(out, e)
	}
	return out
}

func NormalizeEducation(in []Education) []Education {
	out := make([]Education, 0, len(in))
	for _, e := range in {
		e.Honors = NonNil(e.Honors)
		e.Coursework = NonNil(e.Coursework)
		out = append(out, e)
	}
	return out
}

func NormalizeCertifications(in []Certification) []Certification {
	return append(make([]Certification, 0, len(in)), in...)
}

func NormalizeProjects(in []Project) []Project {
	out := make([]Project, 0, len(in))
	for _, p := range in {
		p.Technologies = NonNil(p.Technologies)
		p.Achievements = NonNil(p.Achievements)
		out = append(out, p)
	}
	return out
}

func NonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
