package refdocs

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist or is deleted.
var ErrNotFound = errors.New("reference document not found")

// ErrDuplicateIdentifier is returned when an identifier is already taken.
var ErrDuplicateIdentifier = errors.New("reference document identifier already exists")

// Repo persists reference documents.
type Repo interface {
	Insert(ctx context.Context, doc Document) error
	GetByIdentifier(ctx context.Context, identifier string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	SoftDelete(ctx context.Context, id string) error
}
