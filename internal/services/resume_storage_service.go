package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/roastcv/internal/cache"
	"github.com/yoockh/roastcv/internal/models"
	mongorepo "github.com/yoockh/roastcv/internal/repositories/mongo"
	pgrepo "github.com/yoockh/roastcv/internal/repositories/postgres"
	"github.com/yoockh/roastcv/internal/utils"
	"gorm.io/datatypes"
)

const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeStorageError    = "STORAGE_ERROR"

	StatusHealthy = "healthy"
	StatusError   = "error"

	msgSaved        = "Resume data saved successfully"
	msgSaveFailed   = "Failed to save resume data"
	msgInvalidInput = "Invalid input data"

	recentWindow = 24 * time.Hour
)

// SaveResult is the uniform envelope returned by SaveResumeData.
type SaveResult struct {
	Success        bool   `json:"success"`
	ResumeID       string `json:"resumeId,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Code           string `json:"code,omitempty"`
	Details        any    `json:"details,omitempty"`
	ProcessingTime int64  `json:"processingTime"`
	RequestID      string `json:"requestId"`
}

type StorageStats struct {
	TotalResumes  int64  `json:"totalResumes"`
	RecentResumes int64  `json:"recentResumes"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
}

type ResumeStorageService interface {
	SaveResumeData(ctx context.Context, file *models.FileInput, extractedText string, analysis *models.AnalysisResult, prefs *models.Preferences, meta *models.RequestMetadata) SaveResult
	GetStorageStats(ctx context.Context) StorageStats
	GetResume(ctx context.Context, resumeID string) (*models.ResumeRecord, error)
	ListResumes(ctx context.Context, limit int64) ([]models.ResumeSummary, error)
	ScoreSummary(ctx context.Context) (*models.ScoreSummary, error)
	DeleteResume(ctx context.Context, resumeID string) error
	AuditTrail(ctx context.Context, resumeID string, limit int) ([]models.StorageAudit, error)
}

type Option func(*resumeStorageService)

// WithProduction hides internal error text from SaveResult.Details.
func WithProduction(on bool) Option {
	return func(s *resumeStorageService) { s.production = on }
}

func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *resumeStorageService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithAudit(a pgrepo.AuditRepository) Option {
	return func(s *resumeStorageService) { s.audit = a }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *resumeStorageService) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *resumeStorageService) { s.now = now }
}

type resumeStorageService struct {
	repo      mongorepo.ResumeRepository
	gateway   *Gateway
	assembler *Assembler

	production bool
	cache      cache.Cache
	cacheTTL   time.Duration
	audit      pgrepo.AuditRepository
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewResumeStorageService(repo mongorepo.ResumeRepository, gateway *Gateway, assembler *Assembler, opts ...Option) ResumeStorageService {
	s := &resumeStorageService{
		repo:      repo,
		gateway:   gateway,
		assembler: assembler,
		cacheTTL:  time.Minute,
		log:       logrus.StandardLogger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	if s.assembler == nil {
		s.assembler = NewAssembler()
	}
	return s
}

// NewResumeID returns "resume-<base36 unix ms>-<16 hex chars>".
func NewResumeID(now time.Time) string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		u := uuid.New()
		copy(b[:], u[:8])
	}
	return "resume-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + hex.EncodeToString(b[:])
}

func (s *resumeStorageService) SaveResumeData(
	ctx context.Context,
	file *models.FileInput,
	extractedText string,
	analysis *models.AnalysisResult,
	prefs *models.Preferences,
	meta *models.RequestMetadata,
) SaveResult {
	start := s.now()

	requestID := ""
	if meta != nil {
		requestID = meta.RequestID
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := s.log.WithField("request_id", requestID)
	elapsed := func() int64 { return s.now().Sub(start).Milliseconds() }

	if v := ValidateInputs(file, extractedText, analysis, prefs); !v.Valid {
		log.WithField("errors", v.Errors).Warn("resume input rejected")
		res := SaveResult{
			Error:          msgInvalidInput,
			Code:           CodeValidationError,
			Details:        v.Errors,
			ProcessingTime: elapsed(),
			RequestID:      requestID,
		}
		s.record(ctx, "", requestID, models.AuditValidationError, res.Code, v.Errors, nil, res.ProcessingTime)
		return res
	}

	resumeID := NewResumeID(start)
	log = log.WithField("resume_id", resumeID)

	rec := s.assembler.Assemble(resumeID, file, extractedText, analysis, prefs, meta, requestID)

	if _, err := s.gateway.Save(ctx, rec); err != nil {
		return s.saveFailure(ctx, log, resumeID, requestID, err, elapsed())
	}

	ms := elapsed()
	rec.Metadata.ProcessingTime = ms
	if err := s.repo.SetProcessingTime(ctx, resumeID, ms, s.now()); err != nil {
		log.WithError(err).Warn("failed to record processing time")
	}
	s.invalidateStats(ctx)
	s.record(ctx, resumeID, requestID, models.AuditSaved, "", nil, map[string]any{
		"score":    rec.Analysis.OverallScore,
		"mimeType": rec.FileInfo.MimeType,
	}, ms)

	log.WithField("processing_ms", ms).Info("resume data saved")
	return SaveResult{
		Success:        true,
		ResumeID:       resumeID,
		Message:        msgSaved,
		ProcessingTime: ms,
		RequestID:      requestID,
	}
}

// saveFailure maps any assembler or gateway failure to STORAGE_ERROR. Schema
// rejections keep their field paths in the details and the audit row.
func (s *resumeStorageService) saveFailure(ctx context.Context, log logrus.FieldLogger, resumeID, requestID string, err error, ms int64) SaveResult {
	res := SaveResult{
		Error:          msgSaveFailed,
		Code:           CodeStorageError,
		ProcessingTime: ms,
		RequestID:      requestID,
	}

	var ae *utils.AppError
	if errors.As(err, &ae) && ae.Code == utils.CodeInvalidArgument {
		log.WithError(err).WithField("fields", ae.Fields).Warn("assembled resume rejected by schema")
		if !s.production {
			res.Details = nonNil(ae.Fields)
		}
		s.record(ctx, resumeID, requestID, models.AuditValidationError, res.Code, ae.Fields, nil, ms)
		return res
	}

	log.WithError(err).Error("resume data save failed")
	if !s.production {
		res.Details = err.Error()
	}
	s.record(ctx, resumeID, requestID, models.AuditStorageError, res.Code, nil, map[string]any{"error": err.Error()}, ms)
	return res
}

// record writes an audit row when an audit trail is configured. Failures are
// logged only.
func (s *resumeStorageService) record(ctx context.Context, resumeID, requestID, outcome, code string, fields []string, detail map[string]any, ms int64) {
	if s.audit == nil {
		return
	}
	row := &models.StorageAudit{
		ID:           uuid.NewString(),
		ResumeID:     resumeID,
		RequestID:    requestID,
		Outcome:      outcome,
		Code:         code,
		Fields:       nonNil(fields),
		ProcessingMS: ms,
		CreatedAt:    s.now(),
	}
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			row.Detail = datatypes.JSON(b)
		}
	}
	if err := s.audit.Insert(ctx, row); err != nil {
		s.log.WithError(err).WithField("request_id", requestID).Warn("failed to write storage audit")
	}
}

func (s *resumeStorageService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cache.KeyStorageStats, cache.KeyScoreSummary); err != nil {
		s.log.WithError(err).Warn("failed to invalidate stats cache")
	}
}

func (s *resumeStorageService) GetStorageStats(ctx context.Context) StorageStats {
	if s.cache != nil {
		var cached StorageStats
		if hit, err := s.cache.GetJSON(ctx, cache.KeyStorageStats, &cached); err == nil && hit {
			return cached
		}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to count resumes")
		return StorageStats{Status: StatusError, Error: err.Error()}
	}
	recent, err := s.repo.CountUploadedSince(ctx, s.now().Add(-recentWindow))
	if err != nil {
		s.log.WithError(err).Error("failed to count recent resumes")
		return StorageStats{Status: StatusError, Error: err.Error()}
	}

	stats := StorageStats{TotalResumes: total, RecentResumes: recent, Status: StatusHealthy}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.KeyStorageStats, stats, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache storage stats")
		}
	}
	return stats
}

func (s *resumeStorageService) GetResume(ctx context.Context, resumeID string) (*models.ResumeRecord, error) {
	const op = "ResumeStorageService.GetResume"

	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}
	rec, err := s.repo.GetByResumeID(ctx, resumeID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get resume", err)
	}
	return rec, nil
}

func (s *resumeStorageService) ListResumes(ctx context.Context, limit int64) ([]models.ResumeSummary, error) {
	const op = "ResumeStorageService.ListResumes"

	rows, err := s.repo.ListSummaries(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list resumes", err)
	}
	return rows, nil
}

func (s *resumeStorageService) ScoreSummary(ctx context.Context) (*models.ScoreSummary, error) {
	const op = "ResumeStorageService.ScoreSummary"

	if s.cache != nil {
		var cached models.ScoreSummary
		if hit, err := s.cache.GetJSON(ctx, cache.KeyScoreSummary, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	sum, err := s.repo.ScoreSummary(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to summarize scores", err)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cache.KeyScoreSummary, sum, s.cacheTTL)
	}
	return sum, nil
}

func (s *resumeStorageService) DeleteResume(ctx context.Context, resumeID string) error {
	const op = "ResumeStorageService.DeleteResume"

	if resumeID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}
	err := s.repo.Delete(ctx, resumeID)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "resume not found", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete resume", err)
	}

	s.invalidateStats(ctx)
	s.record(ctx, resumeID, "", models.AuditDeleted, "", nil, nil, 0)
	return nil
}

func (s *resumeStorageService) AuditTrail(ctx context.Context, resumeID string, limit int) ([]models.StorageAudit, error) {
	const op = "ResumeStorageService.AuditTrail"

	if s.audit == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "audit trail is not configured", nil)
	}
	rows, err := s.audit.ListByResume(ctx, resumeID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read audit trail", err)
	}
	if rows == nil {
		rows = []models.StorageAudit{}
	}
	return rows, nil
}
