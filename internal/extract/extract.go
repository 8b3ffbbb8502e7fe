// Package extract turns uploaded resume files into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yoockh/roastcv/internal/utils"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"

	// MinTextLen is the fewest readable runes accepted from a file.
	MinTextLen = 10
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoReadableText  = errors.New("no readable text found in the file")
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRunRe        = regexp.MustCompile(`\n{3,}`)
)

// Supported reports whether mimeType (after normalization) can be extracted.
func Supported(mimeType, fileName string) bool {
	switch normalizeMimeType(mimeType, fileName, nil) {
	case MimePDF, MimeDOCX, MimeText:
		return true
	}
	return false
}

// ExtractText returns cleaned text from an in-memory upload. Failures are
// AppErrors with CodeInvalidArgument.
func ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	const op = "Extract.ExtractText"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalized := normalizeMimeType(mimeType, fileName, data)
	var (
		text string
		err  error
	)
	switch normalized {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimeText:
		text, err = extractPlain(data)
	default:
		return "", utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unsupported file type: %s", normalized), ErrUnsupportedType)
	}
	if err != nil {
		return "", utils.E(utils.CodeInvalidArgument, op, "failed to read "+normalized, err)
	}

	text = CleanText(text)
	if utf8.RuneCountInString(text) < MinTextLen {
		return "", utils.E(utils.CodeInvalidArgument, op, ErrNoReadableText.Error(), ErrNoReadableText)
	}
	return text, nil
}

// CleanText normalizes line endings, collapses horizontal whitespace and
// limits blank runs to a single empty line.
func CleanText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x00", "")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(horizontalSpaceRe.ReplaceAllString(l, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func extractPlain(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty text file")
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var doc *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return docxText(rc)
}

// docxText keeps character data and breaks lines at paragraph and tab ends.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString(" ")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				buf.WriteString("\n")
			}
		}
	}
	return buf.String(), nil
}

func normalizeMimeType(mimeType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "application/zip", "application/octet-stream", "":
	default:
		return clean
	}

	if len(data) > 0 && isDocxArchive(data) {
		return MimeDOCX
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	}
	return clean
}

func isDocxArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
