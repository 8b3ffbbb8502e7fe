package workers

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingArchiver struct {
	mu    sync.Mutex
	names []string
	data  [][]byte
	err   error
	block chan struct{}
}

func (a *recordingArchiver) Archive(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if a.block != nil {
		<-a.block
	}
	b, _ := io.ReadAll(r)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names = append(a.names, name)
	a.data = append(a.data, b)
	if a.err != nil {
		return "", a.err
	}
	return "gs://bucket/" + name, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestArchiveWorkerPoolDrainsOnStop(t *testing.T) {
	ar := &recordingArchiver{}
	p := &ArchiveWorkerPool{Archiver: ar, NumWorkers: 3, Logger: quietLogger()}
	require.NoError(t, p.Start(context.Background()))

	day := time.Date(2024, 7, 9, 10, 0, 0, 0, time.UTC)
	for _, id := range []string{"resume-a", "resume-b", "resume-c"} {
		assert.True(t, p.Submit(ArchiveJob{ResumeID: id, FileName: "cv.pdf", Data: []byte(id), UploadedAt: day}))
	}
	p.Stop()

	assert.ElementsMatch(t, []string{
		"resumes/2024/07/09/resume-a/cv.pdf",
		"resumes/2024/07/09/resume-b/cv.pdf",
		"resumes/2024/07/09/resume-c/cv.pdf",
	}, ar.names)
}

func TestArchiveWorkerPoolDropsWhenFull(t *testing.T) {
	ar := &recordingArchiver{block: make(chan struct{})}
	p := &ArchiveWorkerPool{Archiver: ar, NumWorkers: 1, QueueSize: 1, Logger: quietLogger()}
	require.NoError(t, p.Start(context.Background()))

	accepted := 0
	for i := 0; i < 5; i++ {
		if p.Submit(ArchiveJob{ResumeID: "resume-x", FileName: "cv.pdf"}) {
			accepted++
		}
	}
	// One job in flight plus one queued at most.
	assert.LessOrEqual(t, accepted, 2)
	assert.GreaterOrEqual(t, accepted, 1)

	close(ar.block)
	p.Stop()
	assert.Len(t, ar.names, accepted)
}

func TestArchiveWorkerPoolFailuresAreLoggedOnly(t *testing.T) {
	ar := &recordingArchiver{err: errors.New("bucket gone")}
	p := &ArchiveWorkerPool{Archiver: ar, Logger: quietLogger()}
	require.NoError(t, p.Start(context.Background()))

	assert.True(t, p.Submit(ArchiveJob{ResumeID: "resume-y", FileName: "cv.pdf"}))
	p.Stop()
	assert.Len(t, ar.names, 1)
}

func TestArchiveWorkerPoolRequiresArchiver(t *testing.T) {
	p := &ArchiveWorkerPool{}
	assert.Error(t, p.Start(context.Background()))
	assert.False(t, p.Submit(ArchiveJob{}))
}
