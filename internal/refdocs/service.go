package refdocs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"revisor-backend/internal/extract"
	"revisor-backend/internal/shared/storage/object"
	"revisor-backend/internal/shared/telemetry"
)

// Service manages the reference-document library and serves bounded
// excerpts to prompt builders.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store, now: time.Now}
}

// Upload stores a new reference document: the original file, a derived
// plain-text copy, and the catalog row. Scanned PDFs without a text layer
// are rejected since an unreadable reference document is useless.
func (s *Service) Upload(ctx context.Context, identifier, title, description, fileName string, data []byte) (Document, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Document{}, errors.New("identifier is required")
	}
	if title == "" {
		title = identifier
	}

	key, size, mimeType, err := s.Store.Save(ctx, "refdocs", fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store reference document: %w", err)
	}

	text, err := extract.ExtractText(ctx, s.Store, key, mimeType, fileName)
	if err != nil {
		return Document{}, fmt.Errorf("extract reference document text: %w", err)
	}

	doc := Document{
		ID:               uuid.NewString(),
		Identifier:       identifier,
		Title:            title,
		Description:      description,
		FileName:         fileName,
		MimeType:         mimeType,
		SizeBytes:        size,
		StorageKey:       key,
		ExtractedTextKey: key + ".extracted.txt",
		CreatedAt:        s.now(),
	}
	if err := s.Repo.Insert(ctx, doc); err != nil {
		return Document{}, err
	}

	telemetry.Info("refdocs.uploaded", map[string]any{
		"identifier": identifier,
		"size_bytes": size,
		"text_chars": len(text),
	})
	return doc, nil
}

// List returns all active documents.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// Delete removes a document from the catalog. The stored objects are kept;
// identifiers can be re-uploaded.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.SoftDelete(ctx, id)
}

// ExcerptFor returns up to limit bytes of a document's extracted text. An
// unknown identifier is logged and yields an empty excerpt; prompts handle
// a missing reference document gracefully.
func (s *Service) ExcerptFor(ctx context.Context, identifier string, limit int) string {
	doc, err := s.Repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		telemetry.Warn("refdocs.not_found", map[string]any{"identifier": identifier})
		return ""
	}
	return s.readExcerpt(ctx, doc, limit)
}

// CombinedExcerpt concatenates every document's title, description and a
// bounded excerpt, for the consolidated single-request prompt.
func (s *Service) CombinedExcerpt(ctx context.Context, perDocLimit int) string {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		telemetry.Warn("refdocs.list_failed", map[string]any{"error": err.Error()})
		return ""
	}

	var b strings.Builder
	for _, doc := range docs {
		text := s.readExcerpt(ctx, doc, perDocLimit)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n\n%s\n\n", doc.Title, doc.Description, text)
	}
	return b.String()
}

func (s *Service) readExcerpt(ctx context.Context, doc Document, limit int) string {
	if doc.ExtractedTextKey == "" {
		return ""
	}
	body, err := s.Store.Open(ctx, doc.ExtractedTextKey)
	if err != nil {
		telemetry.Warn("refdocs.read_failed", map[string]any{
			"identifier": doc.Identifier,
			"error":      err.Error(),
		})
		return ""
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, int64(limit)))
	if err != nil {
		telemetry.Warn("refdocs.read_failed", map[string]any{
			"identifier": doc.Identifier,
			"error":      err.Error(),
		})
		return ""
	}
	return string(data)
}
