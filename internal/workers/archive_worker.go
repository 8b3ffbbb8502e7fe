package workers

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/roastcv/internal/storage"
)

// ArchiveJob is one stored upload waiting to be copied to object storage.
type ArchiveJob struct {
	ResumeID   string
	RequestID  string
	FileName   string
	MimeType   string
	Data       []byte
	UploadedAt time.Time
}

// ArchiveWorkerPool copies uploads to the archiver off the request path.
// Jobs are dropped, not blocked on, when the queue is full.
type ArchiveWorkerPool struct {
	Archiver   storage.Archiver
	NumWorkers int
	QueueSize  int
	Timeout    time.Duration
	Logger     logrus.FieldLogger

	jobs chan ArchiveJob
	wg   sync.WaitGroup
	once sync.Once
}

func (p *ArchiveWorkerPool) Start(ctx context.Context) error {
	if p.Archiver == nil {
		return errors.New("ArchiveWorkerPool missing dependency: Archiver must be set")
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.QueueSize <= 0 {
		p.QueueSize = 64
	}
	if p.Timeout <= 0 {
		p.Timeout = time.Minute
	}
	if p.Logger == nil {
		p.Logger = logrus.StandardLogger()
	}

	p.jobs = make(chan ArchiveJob, p.QueueSize)
	for i := 0; i < p.NumWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	return nil
}

// Submit queues job and reports whether it was accepted.
func (p *ArchiveWorkerPool) Submit(job ArchiveJob) bool {
	if p.jobs == nil {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		p.Logger.WithField("resume_id", job.ResumeID).Warn("archive queue full, upload not archived")
		return false
	}
}

// Stop stops accepting jobs and waits for queued ones to finish.
func (p *ArchiveWorkerPool) Stop() {
	p.once.Do(func() {
		if p.jobs != nil {
			close(p.jobs)
		}
	})
	p.wg.Wait()
}

func (p *ArchiveWorkerPool) run(ctx context.Context) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.handle(ctx, job)
	}
}

func (p *ArchiveWorkerPool) handle(ctx context.Context, job ArchiveJob) {
	log := p.Logger.WithFields(logrus.Fields{
		"resume_id":  job.ResumeID,
		"request_id": job.RequestID,
	})

	// Detached from ctx so a shutdown still drains what was accepted.
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.Timeout)
	defer cancel()

	name := storage.ObjectName(job.UploadedAt, job.ResumeID, job.FileName)
	path, err := p.Archiver.Archive(jobCtx, name, job.MimeType, bytes.NewReader(job.Data))
	if err != nil {
		log.WithError(err).Warn("failed to archive upload")
		return
	}
	log.WithField("path", path).Debug("upload archived")
}
