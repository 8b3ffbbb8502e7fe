package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

type GCSArchiver struct {
	client *gcs.Client
	bucket string
}

func NewGCSArchiver(ctx context.Context, bucket string) (*GCSArchiver, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSArchiver{client: c, bucket: bucket}, nil
}

func (a *GCSArchiver) Close() error { return a.client.Close() }

// Archive writes the object once. Objects stay private: resumes carry
// personal data.
func (a *GCSArchiver) Archive(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := a.client.Bucket(a.bucket).Object(objectName).If(gcs.Conditions{DoesNotExist: true})

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}
