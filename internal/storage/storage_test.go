package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	at := time.Date(2024, 2, 9, 23, 30, 0, 0, time.FixedZone("WIB", 7*3600))

	tests := []struct {
		file string
		want string
	}{
		{"cv.pdf", "resumes/2024/02/09/resume-1/cv.pdf"},
		{"My Resume (final).docx", "resumes/2024/02/09/resume-1/My_Resume_final_.docx"},
		{`C:\Users\me\cv.txt`, "resumes/2024/02/09/resume-1/cv.txt"},
		{"../../etc/passwd", "resumes/2024/02/09/resume-1/passwd"},
		{"", "resumes/2024/02/09/resume-1/upload"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectName(at, "resume-1", tt.file), tt.file)
	}
}
