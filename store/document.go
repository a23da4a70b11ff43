package store

import "context"

// Document represents an ingested knowledge document.
type Document struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Title   string
	Content string
	URL     string
	Source  string // origin tag, e.g. "upload", "crawler"
}

// FindDocument is the find condition for documents.
type FindDocument struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Source    *string
	Limit     *int
}

func (s *Store) CreateDocument(ctx context.Context, create *Document) (*Document, error) {
	return s.driver.CreateDocument(ctx, create)
}

func (s *Store) ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error) {
	return s.driver.ListDocuments(ctx, find)
}

// GetDocument gets a single document matching the find condition.
func (s *Store) GetDocument(ctx context.Context, find *FindDocument) (*Document, error) {
	list, err := s.driver.ListDocuments(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteDocument(ctx context.Context, delete *DeleteDocument) error {
	return s.driver.DeleteDocument(ctx, delete)
}

// DeleteDocument is the delete condition for documents.
type DeleteDocument struct {
	ID int32
}
