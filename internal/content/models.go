package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Content is the canonical record for publishable media entries. The ID is
// assigned by the external authoring process and never changes.
type Content struct {
	bun.BaseModel `bun:"table:contents,alias:c"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	FileRef     string     `bun:"file_ref,notnull" json:"file_ref"`
	MediaType   *string    `bun:"media_type" json:"media_type,omitempty"`
	Published   bool       `bun:"published,notnull,default:false" json:"published"`
	Status      string     `bun:"status,notnull,default:'draft'" json:"status"`
	PublishAt   *time.Time `bun:"publish_at,nullzero" json:"publish_at,omitempty"`
	ArchiveAt   *time.Time `bun:"archive_at,nullzero" json:"archive_at,omitempty"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ArchivedAt  *time.Time `bun:"archived_at,nullzero" json:"archived_at,omitempty"`
	PublishedBy *uuid.UUID `bun:"published_by,type:uuid,nullzero" json:"published_by,omitempty"`
	UpdatedBy   uuid.UUID  `bun:"updated_by,type:uuid,nullzero" json:"updated_by"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
