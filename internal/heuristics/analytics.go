package heuristics

import (
	"regexp"
	"strings"

	"github.com/yoockh/roastcv/internal/models"
)

const (
	wordsPerPage       = 250
	minReadability     = 30
	maxReadability     = 100
	atsHighWordCount   = 300
	atsMediumWordCount = 150
	bulletGlyphs       = "•·-*"
)

const (
	ATSHigh   = "High"
	ATSMedium = "Medium"
	ATSLow    = "Low"
)

var (
	blankLineRe    = regexp.MustCompile(`\n\s*\n`)
	quantifiableRe = regexp.MustCompile(`(?i)\d+%|\d+\+|\d+ [a-z]`)
	actionVerbRe   = regexp.MustCompile(`(?i)\b(?:led|managed|developed|created|implemented|improved|increased|decreased|achieved|delivered)\b`)

	industryKeywords = []string{"javascript", "python", "react", "node"}
)

// GenerateBasicAnalytics computes document statistics from the raw text.
// Blank text has zero words and zero sections.
func GenerateBasicAnalytics(text string) models.ResumeAnalytics {
	words := len(strings.Fields(text))

	return models.ResumeAnalytics{
		WordCount:                words,
		PageCount:                pageCount(words),
		SectionCount:             sectionCount(text),
		BulletPointCount:         bulletCount(text),
		QuantifiableAchievements: len(quantifiableRe.FindAllString(text, -1)),
		ActionVerbsUsed:          len(actionVerbRe.FindAllString(text, -1)),
		IndustryKeywords:         keywordsIn(text),
		ReadabilityScore:         readability(words),
		ATSCompatibility:         atsLabel(words),
		MissingElements:          []string{},
		StrongElements:           []string{},
	}
}

func pageCount(words int) int {
	pages := (words + wordsPerPage - 1) / wordsPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

func sectionCount(text string) int {
	n := 0
	for _, block := range blankLineRe.Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}

func bulletCount(text string) int {
	n := 0
	for _, r := range text {
		if strings.ContainsRune(bulletGlyphs, r) {
			n++
		}
	}
	return n
}

func keywordsIn(text string) []string {
	lower := strings.ToLower(text)
	out := []string{}
	for _, k := range industryKeywords {
		if strings.Contains(lower, k) {
			out = append(out, k)
		}
	}
	return out
}

func readability(words int) int {
	score := maxReadability - words/10
	switch {
	case score < minReadability:
		return minReadability
	case score > maxReadability:
		return maxReadability
	}
	return score
}

func atsLabel(words int) string {
	switch {
	case words > atsHighWordCount:
		return ATSHigh
	case words > atsMediumWordCount:
		return ATSMedium
	}
	return ATSLow
}
