package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/roastcv/internal/api/middleware"
	"github.com/yoockh/roastcv/internal/extract"
	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/services"
	"github.com/yoockh/roastcv/internal/utils"
	"github.com/yoockh/roastcv/internal/workers"
)

const defaultMaxUpload = 10 << 20

// ArchiveQueue accepts stored uploads for background archiving.
type ArchiveQueue interface {
	Submit(job workers.ArchiveJob) bool
}

type ResumeHandler struct {
	storage   services.ResumeStorageService
	analysis  services.AnalysisService
	archive   ArchiveQueue // optional
	log       logrus.FieldLogger
	maxUpload int64
}

func NewResumeHandler(st services.ResumeStorageService, an services.AnalysisService, aq ArchiveQueue, log logrus.FieldLogger, maxUpload int64) *ResumeHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ResumeHandler{storage: st, analysis: an, archive: aq, log: log, maxUpload: maxUpload}
}

type AnalyzeResponse struct {
	Success  bool                   `json:"success"`
	ResumeID string                 `json:"resumeId,omitempty"`
	Analysis *models.AnalysisResult `json:"analysis"`
	Storage  services.SaveResult    `json:"storage"`
}

func (h *ResumeHandler) Analyze(c *gin.Context) {
	const op = "ResumeHandler.Analyze"

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > h.maxUpload {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is empty or too large (max "+strconv.FormatInt(h.maxUpload>>20, 10)+"MB)", nil))
		return
	}

	prefs := &models.Preferences{
		RoastLevel: strings.TrimSpace(c.PostForm("roastLevel")),
		Language:   strings.TrimSpace(c.PostForm("language")),
		RoastType:  strings.TrimSpace(c.PostForm("roastType")),
		Gender:     strings.TrimSpace(c.PostForm("gender")),
	}
	var missing []string
	if prefs.RoastLevel == "" {
		missing = append(missing, "roastLevel")
	}
	if prefs.Language == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		writeError(c, &utils.AppError{Code: utils.CodeInvalidArgument, Op: op, Message: "missing preferences", Fields: missing})
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !extract.Supported(mimeType, fh.Filename) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "unsupported file type (pdf, docx or txt)", nil))
		return
	}

	ctx := c.Request.Context()
	text, err := extract.ExtractText(ctx, data, mimeType, fh.Filename)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.analysis.AnalyzeResume(ctx, text, prefs, fh.Filename)
	if err != nil {
		writeError(c, err)
		return
	}

	file := &models.FileInput{
		OriginalName: fh.Filename,
		Size:         fh.Size,
		MimeType:     strings.Split(mimeType, ";")[0],
		Buffer:       data,
	}
	saved := h.storage.SaveResumeData(ctx, file, text, result, prefs, requestMetadata(c))

	if saved.Success {
		c.Set("resume_id", saved.ResumeID)
		h.enqueueArchive(c, saved.ResumeID, file)
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Success:  true,
		ResumeID: saved.ResumeID,
		Analysis: result.Payload(),
		Storage:  saved,
	})
}

// enqueueArchive hands the raw upload to the archive workers.
func (h *ResumeHandler) enqueueArchive(c *gin.Context, resumeID string, file *models.FileInput) {
	if h.archive == nil {
		return
	}
	h.archive.Submit(workers.ArchiveJob{
		ResumeID:   resumeID,
		RequestID:  middleware.RequestID(c),
		FileName:   file.OriginalName,
		MimeType:   file.MimeType,
		Data:       file.Buffer,
		UploadedAt: time.Now(),
	})
}

func requestMetadata(c *gin.Context) *models.RequestMetadata {
	meta := &models.RequestMetadata{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: middleware.RequestID(c),
	}
	for _, h := range []string{"CF-IPCountry", "X-Country-Code"} {
		if v := strings.TrimSpace(c.GetHeader(h)); v != "" {
			meta.CountryCode = strings.ToUpper(v)
			break
		}
	}
	if v := c.PostForm("gdprConsent"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			meta.GDPRConsent = &b
		}
	}
	return meta
}
