package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/utils"
)

// memResumeRepo is an in-memory ResumeRepository. insertErrs are returned
// by successive Insert calls before inserts start succeeding.
type memResumeRepo struct {
	mu         sync.Mutex
	docs       map[string]models.ResumeRecord
	insertErrs []error
	inserts    int
	countErr   error
}

func newMemResumeRepo(insertErrs ...error) *memResumeRepo {
	return &memResumeRepo{docs: map[string]models.ResumeRecord{}, insertErrs: insertErrs}
}

func (r *memResumeRepo) Insert(_ context.Context, rec *models.ResumeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inserts++
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		return err
	}
	if _, ok := r.docs[rec.ResumeID]; ok {
		return utils.ErrDuplicate
	}
	r.docs[rec.ResumeID] = *rec
	return nil
}

func (r *memResumeRepo) GetByResumeID(_ context.Context, id string) (*models.ResumeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.docs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &rec, nil
}

func (r *memResumeRepo) ListSummaries(_ context.Context, limit int64) ([]models.ResumeSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ResumeSummary, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, models.ResumeSummary{
			ResumeID:      d.ResumeID,
			FileName:      d.FileInfo.OriginalFileName,
			OverallScore:  d.Analysis.OverallScore,
			CandidateName: d.ExtractedInfo.PersonalInfo.Name,
			UploadedAt:    d.Timestamps.UploadedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memResumeRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.docs)), nil
}

func (r *memResumeRepo) CountUploadedSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, d := range r.docs {
		if !d.Timestamps.UploadedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *memResumeRepo) ScoreSummary(context.Context) (*models.ScoreSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := &models.ScoreSummary{}
	var total float64
	for _, d := range r.docs {
		s := d.Analysis.OverallScore
		if out.Count == 0 || s < out.MinScore {
			out.MinScore = s
		}
		if out.Count == 0 || s > out.MaxScore {
			out.MaxScore = s
		}
		total += s
		out.Count++
	}
	if out.Count > 0 {
		out.AverageScore = total / float64(out.Count)
	}
	return out, nil
}

func (r *memResumeRepo) SetProcessingTime(_ context.Context, id string, ms int64, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok {
		return utils.ErrNotFound
	}
	d.Metadata.ProcessingTime = ms
	d.Timestamps.UpdatedAt = updatedAt
	r.docs[id] = d
	return nil
}

func (r *memResumeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type memAudit struct {
	mu   sync.Mutex
	rows []models.StorageAudit
}

func (a *memAudit) Insert(_ context.Context, row *models.StorageAudit) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, *row)
	return nil
}

func (a *memAudit) ListByResume(_ context.Context, id string, _ int) ([]models.StorageAudit, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []models.StorageAudit
	for _, r := range a.rows {
		if r.ResumeID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

var errTransient = errors.New("connection reset by peer")

func ptr[T any](v T) *T { return &v }

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func instantGateway(repo *memResumeRepo) *Gateway {
	return &Gateway{
		Repo:        repo,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     func(int) time.Duration { return 0 },
		Log:         quietLog(),
		Now:         func() time.Time { return time.Now().UTC() },
	}
}
