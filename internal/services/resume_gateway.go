package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/roastcv/internal/models"
	mongorepo "github.com/yoockh/roastcv/internal/repositories/mongo"
	"github.com/yoockh/roastcv/internal/utils"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoffBase = time.Second
)

// Gateway writes assembled records with schema validation and bounded
// retries. Validation failures are never retried.
type Gateway struct {
	Repo        mongorepo.ResumeRepository
	MaxAttempts int
	Backoff     utils.BackoffFunc
	Log         logrus.FieldLogger
	Now         func() time.Time
}

func NewGateway(repo mongorepo.ResumeRepository, maxAttempts int, backoffBase time.Duration, log logrus.FieldLogger) *Gateway {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoffBase <= 0 {
		backoffBase = DefaultBackoffBase
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		Repo:        repo,
		MaxAttempts: maxAttempts,
		Backoff:     utils.LinearBackoff(backoffBase),
		Log:         log,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

// Save persists rec and returns it as stored. On failure nothing is written.
func (g *Gateway) Save(ctx context.Context, rec *models.ResumeRecord) (*models.ResumeRecord, error) {
	const op = "ResumeGateway.Save"

	entry := g.Log.WithField("resume_id", resumeIDOf(rec))

	err := utils.WithRetry(ctx, g.MaxAttempts, g.Backoff,
		func(attempt int, wait time.Duration, err error) {
			entry.WithError(err).WithFields(logrus.Fields{
				"attempt":  attempt,
				"max":      g.MaxAttempts,
				"retry_in": wait.String(),
			}).Warn("resume save attempt failed")
		},
		func(attempt int) error {
			if bad := rec.Validate(); len(bad) > 0 {
				return utils.Permanent(utils.Validation(op, bad, nil))
			}
			rec.Timestamps.UpdatedAt = g.Now()

			err := g.Repo.Insert(ctx, rec)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, utils.ErrSchemaRejected):
				return utils.Permanent(utils.Validation(op, nil, err))
			case errors.Is(err, utils.ErrDuplicate):
				return utils.Permanent(utils.E(utils.CodeConflict, op, "resume already stored", err))
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return utils.Permanent(err)
			}
			return err
		},
	)
	if err == nil {
		entry.WithField("score", rec.Analysis.OverallScore).Info("resume saved")
		return rec, nil
	}

	var ae *utils.AppError
	if errors.As(err, &ae) {
		entry.WithError(err).Warn("resume rejected")
		return nil, err
	}
	entry.WithError(err).Error("resume save failed")
	return nil, utils.Storage(op, err)
}

func resumeIDOf(rec *models.ResumeRecord) string {
	if rec == nil {
		return ""
	}
	return rec.ResumeID
}
