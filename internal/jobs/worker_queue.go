package jobs

import (
	"github.com/vytor/studybook/internal/ingest"
	"github.com/vytor/studybook/internal/repository"
	"github.com/vytor/studybook/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	ingestPool *worker.Pool
	sourceRepo repository.SourceRepository
	fetcher    ingest.Fetcher
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(ingestPool *worker.Pool, sourceRepo repository.SourceRepository, fetcher ingest.Fetcher) JobQueue {
	return &WorkerQueue{
		ingestPool: ingestPool,
		sourceRepo: sourceRepo,
		fetcher:    fetcher,
	}
}

func (q *WorkerQueue) EnqueueIngest(sourceID string, sourceType string, data []byte) error {
	return q.ingestPool.Submit(&worker.IngestSourceJob{
		SourceRepo: q.sourceRepo,
		Fetcher:    q.fetcher,
		SourceID:   sourceID,
		SourceType: sourceType,
		Data:       data,
	})
}
