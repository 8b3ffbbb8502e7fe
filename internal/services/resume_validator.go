package services

import (
	"strings"
	"unicode/utf8"

	"github.com/yoockh/roastcv/internal/models"
)

const minExtractedTextLen = 10

type InputValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateInputs checks the raw save inputs and collects every violation.
func ValidateInputs(file *models.FileInput, extractedText string, analysis *models.AnalysisResult, prefs *models.Preferences) InputValidation {
	errs := []string{}

	if file == nil {
		errs = append(errs, "Invalid file object")
	} else {
		if strings.TrimSpace(file.OriginalName) == "" {
			errs = append(errs, "Missing or invalid file name")
		}
		if file.Size <= 0 {
			errs = append(errs, "Missing or invalid file size")
		}
		if strings.TrimSpace(file.MimeType) == "" {
			errs = append(errs, "Missing or invalid file mime type")
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(extractedText)) < minExtractedTextLen {
		errs = append(errs, "Invalid or insufficient extracted text")
	}

	if analysis == nil {
		errs = append(errs, "Missing analysis result")
	} else {
		if analysis.Score == nil && (analysis.Data == nil || analysis.Data.Score == nil) {
			errs = append(errs, "Missing analysis field: score")
		}
		if analysis.RoastFeedback == nil && (analysis.Data == nil || analysis.Data.RoastFeedback == nil) {
			errs = append(errs, "Missing analysis field: roastFeedback")
		}
	}

	if prefs == nil {
		errs = append(errs, "Missing preferences")
	} else {
		if strings.TrimSpace(prefs.RoastLevel) == "" {
			errs = append(errs, "Missing roast level preference")
		}
		if strings.TrimSpace(prefs.Language) == "" {
			errs = append(errs, "Missing language preference")
		}
	}

	return InputValidation{Valid: len(errs) == 0, Errors: errs}
}
