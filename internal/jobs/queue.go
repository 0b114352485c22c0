package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueIngest(sourceID string, sourceType string, data []byte) error
}
