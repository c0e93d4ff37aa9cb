package content

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryContentRepository is an in-memory implementation for scaffolding and tests.
type MemoryContentRepository struct {
	mu       sync.RWMutex
	contents map[uuid.UUID]*Content
	saveErr  error
}

// NewMemoryContentRepository creates an empty in-memory content repository.
func NewMemoryContentRepository() *MemoryContentRepository {
	return &MemoryContentRepository{
		contents: make(map[uuid.UUID]*Content),
	}
}

// FailSaves makes every subsequent Update return the supplied error.
func (m *MemoryContentRepository) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Create inserts the supplied content.
func (m *MemoryContentRepository) Create(_ context.Context, record *Content) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneContent(record)
	m.contents[copied.ID] = copied
	return cloneContent(copied), nil
}

// GetByID retrieves content by identifier, returning NotFoundError when absent.
func (m *MemoryContentRepository) GetByID(_ context.Context, id uuid.UUID) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.contents[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: id.String()}
	}
	return cloneContent(rec), nil
}

// List returns all content entries.
func (m *MemoryContentRepository) List(_ context.Context) ([]*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Content, 0, len(m.contents))
	for _, rec := range m.contents {
		out = append(out, cloneContent(rec))
	}
	return out, nil
}

// Update persists the supplied record, replacing the stored copy.
func (m *MemoryContentRepository) Update(_ context.Context, record *Content) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return nil, m.saveErr
	}
	if _, ok := m.contents[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "content", Key: record.ID.String()}
	}
	copied := cloneContent(record)
	m.contents[copied.ID] = copied
	return cloneContent(copied), nil
}

func cloneContent(src *Content) *Content {
	if src == nil {
		return nil
	}

	copied := *src
	copied.MediaType = cloneStringPtr(src.MediaType)
	copied.PublishAt = cloneTimePtr(src.PublishAt)
	copied.ArchiveAt = cloneTimePtr(src.ArchiveAt)
	copied.PublishedAt = cloneTimePtr(src.PublishedAt)
	copied.ArchivedAt = cloneTimePtr(src.ArchivedAt)
	if src.PublishedBy != nil {
		id := *src.PublishedBy
		copied.PublishedBy = &id
	}
	return &copied
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
