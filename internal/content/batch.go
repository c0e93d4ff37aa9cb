package content

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PublishMany runs independent publish pipelines over the supplied ids with
// bounded concurrency. Items share no mutable state, so one failing pipeline
// never aborts its siblings; each outcome is reported in order.
func (s *service) PublishMany(ctx context.Context, req BatchRequest) []BatchResult {
	return s.runBatch(ctx, req, func(ctx context.Context, id uuid.UUID) (*Content, error) {
		return s.Publish(ctx, PublishContentRequest{ContentID: id, PublishedBy: req.TriggeredBy})
	})
}

// ArchiveMany mirrors PublishMany for the archive pipeline.
func (s *service) ArchiveMany(ctx context.Context, req BatchRequest) []BatchResult {
	return s.runBatch(ctx, req, func(ctx context.Context, id uuid.UUID) (*Content, error) {
		return s.Archive(ctx, ArchiveContentRequest{ContentID: id, ArchivedBy: req.TriggeredBy})
	})
}

func (s *service) runBatch(ctx context.Context, req BatchRequest, run func(context.Context, uuid.UUID) (*Content, error)) []BatchResult {
	results := make([]BatchResult, len(req.ContentIDs))

	limit := req.Concurrency
	if limit <= 0 {
		limit = s.batchConcurrency
	}

	var group errgroup.Group
	group.SetLimit(limit)

	for i, id := range req.ContentIDs {
		group.Go(func() error {
			record, err := run(ctx, id)
			results[i] = BatchResult{ContentID: id, Content: record, Err: err}
			return nil
		})
	}

	// Worker funcs never return errors; outcomes live in the results slice.
	_ = group.Wait()
	return results
}
