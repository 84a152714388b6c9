package refdocs

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Insert(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO reference_documents (
	id, identifier, title, description, file_name, mime_type, size_bytes,
	storage_key, extracted_text_key, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.Identifier,
		doc.Title,
		doc.Description,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		nullable(doc.StorageKey),
		nullable(doc.ExtractedTextKey),
		doc.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateIdentifier
	}
	return err
}

func (r *PGRepo) GetByIdentifier(ctx context.Context, identifier string) (Document, error) {
	const query = `
SELECT id, identifier, title, description, file_name, mime_type, size_bytes,
       storage_key, extracted_text_key, created_at
FROM reference_documents
WHERE identifier = $1 AND deleted_at IS NULL
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, identifier)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	const query = `
SELECT id, identifier, title, description, file_name, mime_type, size_bytes,
       storage_key, extracted_text_key, created_at
FROM reference_documents
WHERE deleted_at IS NULL
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *PGRepo) SoftDelete(ctx context.Context, id string) error {
	const query = `
UPDATE reference_documents SET deleted_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var storageKey, extractedKey sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.Identifier,
		&doc.Title,
		&doc.Description,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&storageKey,
		&extractedKey,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.StorageKey = storageKey.String
	doc.ExtractedTextKey = extractedKey.String
	return doc, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
