package async

import (
	"context"
	"time"
)

// Job is one spreadsheet waiting to be imported.
type Job struct {
	ID          string
	Path        string
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
