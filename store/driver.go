package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates missing tables and indexes. Idempotent.
	Migrate(ctx context.Context) error

	// Document model related methods.
	CreateDocument(ctx context.Context, create *Document) (*Document, error)
	ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error)
	DeleteDocument(ctx context.Context, delete *DeleteDocument) error

	// Chunk model related methods.
	CreateChunk(ctx context.Context, create *Chunk) (*Chunk, error)
	ListChunks(ctx context.Context, find *FindChunk) ([]*Chunk, error)
	CountChunks(ctx context.Context, find *FindChunk) (int, error)
	UpdateChunkEmbedding(ctx context.Context, id string, embedding []float32) error
	DeleteChunks(ctx context.Context, delete *DeleteChunk) error

	// CandidateProfile model related methods.
	CreateCandidateProfile(ctx context.Context, create *CandidateProfile) (*CandidateProfile, error)
	ListCandidateProfiles(ctx context.Context, find *FindCandidateProfile) ([]*CandidateProfile, error)

	// SalaryObservation model related methods.
	CreateSalaryObservation(ctx context.Context, create *SalaryObservation) (*SalaryObservation, error)
	ListSalaryObservations(ctx context.Context, find *FindSalaryObservation) ([]*SalaryObservation, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
}
