package scheduler

import "github.com/google/uuid"

const (
	// JobTypeContentPublish identifies deferred publish jobs.
	JobTypeContentPublish = "publisher.content.publish"
	// JobTypeContentArchive identifies deferred archive jobs.
	JobTypeContentArchive = "publisher.content.archive"
)

// ContentPublishJobKey builds the idempotency key for a content publish job.
func ContentPublishJobKey(id uuid.UUID) string {
	return JobTypeContentPublish + ":" + id.String()
}

// ContentArchiveJobKey builds the idempotency key for a content archive job.
func ContentArchiveJobKey(id uuid.UUID) string {
	return JobTypeContentArchive + ":" + id.String()
}
