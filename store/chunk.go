package store

import "context"

// RecordKind identifies which source table a chunk was cut from.
type RecordKind string

const (
	RecordKindDocument RecordKind = "document"
	RecordKindProfile  RecordKind = "profile"
	RecordKindSalary   RecordKind = "salary"
)

// Chunk is a bounded slice of a source record's text, the unit that gets
// embedded and indexed. Positions are dense starting at 0 within a record.
type Chunk struct {
	ID         string // uuid
	RecordKind RecordKind
	RecordID   int32
	Position   int32
	CharCount  int32
	WordCount  int32
	Content    string
	Embedding  []float32 // nil until embedded
	CreatedTs  int64
}

// FindChunk is the find condition for chunks.
type FindChunk struct {
	ID         *string
	RecordKind *RecordKind
	RecordID   *int32
	// Embedded filters on embedding presence: true for embedded chunks only,
	// false for chunks still waiting for a vector.
	Embedded *bool
	Limit    *int
}

func (s *Store) CreateChunk(ctx context.Context, create *Chunk) (*Chunk, error) {
	return s.driver.CreateChunk(ctx, create)
}

func (s *Store) ListChunks(ctx context.Context, find *FindChunk) ([]*Chunk, error) {
	return s.driver.ListChunks(ctx, find)
}

// GetChunk gets a single chunk matching the find condition.
func (s *Store) GetChunk(ctx context.Context, find *FindChunk) (*Chunk, error) {
	list, err := s.driver.ListChunks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// CountChunks counts chunks matching the find condition.
func (s *Store) CountChunks(ctx context.Context, find *FindChunk) (int, error) {
	return s.driver.CountChunks(ctx, find)
}

// UpdateChunkEmbedding attaches an embedding vector to an existing chunk.
func (s *Store) UpdateChunkEmbedding(ctx context.Context, id string, embedding []float32) error {
	return s.driver.UpdateChunkEmbedding(ctx, id, embedding)
}

func (s *Store) DeleteChunks(ctx context.Context, delete *DeleteChunk) error {
	return s.driver.DeleteChunks(ctx, delete)
}

// DeleteChunk is the delete condition for chunks.
type DeleteChunk struct {
	RecordKind RecordKind
	RecordID   int32
}
