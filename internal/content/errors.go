package content

import (
	"errors"
	"fmt"
)

var (
	ErrContentIDRequired        = errors.New("content: content id required")
	ErrSchedulingDisabled       = errors.New("content: scheduling feature disabled")
	ErrScheduleWindowInvalid    = errors.New("content: publish_at must be before archive_at")
	ErrScheduleTimestampInvalid = errors.New("content: schedule timestamp is invalid")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether the error stems from a missing record.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
