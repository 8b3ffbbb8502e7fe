package storage

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

// Archiver keeps a private copy of every uploaded resume file.
type Archiver interface {
	Archive(ctx context.Context, objectName, contentType string, r io.Reader) (storedPath string, err error)
}

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName builds "resumes/<yyyy>/<mm>/<dd>/<resumeID>/<file>" so uploads
// of one day list together and never collide.
func ObjectName(uploadedAt time.Time, resumeID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.Trim(unsafeNameRe.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "upload"
	}
	return path.Join("resumes", uploadedAt.UTC().Format("2006/01/02"), resumeID, base)
}
