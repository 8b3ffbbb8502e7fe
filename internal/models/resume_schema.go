package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Validate checks the record against the fixed resume schema and returns the
// offending field paths. An empty result means the record may be written.
func (r *ResumeRecord) Validate() []string {
	if r == nil {
		return []string{"record"}
	}

	var bad []string
	required := func(path, v string) {
		if strings.TrimSpace(v) == "" {
			bad = append(bad, path)
		}
	}

	required("resumeId", r.ResumeID)
	required("fileInfo.fileName", r.FileInfo.FileName)
	required("fileInfo.originalFileName", r.FileInfo.OriginalFileName)
	required("fileInfo.mimeType", r.FileInfo.MimeType)
	if r.FileInfo.FileSize < 0 {
		bad = append(bad, "fileInfo.fileSize")
	}

	if r.Analysis.OverallScore < MinScore || r.Analysis.OverallScore > MaxScore {
		bad = append(bad, "analysis.overallScore")
	}
	required("analysis.feedback", r.Analysis.Feedback)
	for i, imp := range r.Analysis.Improvements {
		if !imp.Priority.Valid() {
			bad = append(bad, fmt.Sprintf("analysis.improvements.%d.priority", i))
		}
	}

	required("preferences.roastLevel", r.Preferences.RoastLevel)
	required("preferences.language", r.Preferences.Language)

	if r.Timestamps.UploadedAt.IsZero() {
		bad = append(bad, "timestamps.uploadedAt")
	}
	if utf8.RuneCountInString(r.Metadata.UserAgent) > MaxUserAgentLen {
		bad = append(bad, "metadata.userAgent")
	}
	return bad
}

const MaxUserAgentLen = 200
