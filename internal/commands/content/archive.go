package contentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-publisher/internal/commands"
	"github.com/goliatone/go-publisher/internal/content"
	"github.com/goliatone/go-publisher/pkg/interfaces"
	"github.com/google/uuid"
)

const archiveContentMessageType = "publisher.content.archive"

// ArchiveContentCommand requests archival of a specific content entity.
type ArchiveContentCommand struct {
	ContentID  uuid.UUID  `json:"content_id"`
	ArchivedBy *uuid.UUID `json:"archived_by,omitempty"`
}

// Type implements command.Message.
func (ArchiveContentCommand) Type() string { return archiveContentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ArchiveContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.ContentID == uuid.Nil {
		errs["content_id"] = validation.NewError("publisher.content.archive.content_id_required", "content_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ArchiveContentHandler archives content via the workflow service using the shared command handler foundation.
type ArchiveContentHandler struct {
	inner *commands.Handler[ArchiveContentCommand]
}

// NewArchiveContentHandler constructs a handler wired to the provided workflow service.
func NewArchiveContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ArchiveContentCommand]) *ArchiveContentHandler {
	exec := func(ctx context.Context, msg ArchiveContentCommand) error {
		req := content.ArchiveContentRequest{
			ContentID: msg.ContentID,
		}
		if msg.ArchivedBy != nil {
			req.ArchivedBy = *msg.ArchivedBy
		}
		_, err := service.Archive(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[ArchiveContentCommand]{
		commands.WithLogger[ArchiveContentCommand](logger),
		commands.WithOperation[ArchiveContentCommand]("content.archive"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ArchiveContentHandler{
		inner: commands.NewHandler[ArchiveContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ArchiveContentCommand].Execute.
func (h *ArchiveContentHandler) Execute(ctx context.Context, msg ArchiveContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
