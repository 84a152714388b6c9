package refdocs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := Document{
		ID:               "doc-1",
		Identifier:       "guia_pratica_educacional",
		Title:            "Guia Prática",
		Description:      "Guia oficial",
		FileName:         "guia.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        2048,
		StorageKey:       "refdocs/guia.pdf",
		ExtractedTextKey: "refdocs/guia.pdf.extracted.txt",
		CreatedAt:        time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO reference_documents").
		WithArgs(
			doc.ID,
			doc.Identifier,
			doc.Title,
			doc.Description,
			doc.FileName,
			doc.MimeType,
			doc.SizeBytes,
			doc.StorageKey,
			doc.ExtractedTextKey,
			doc.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Insert(context.Background(), doc); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoInsertDuplicateIdentifier(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("INSERT INTO reference_documents").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Insert(context.Background(), Document{ID: "doc-1", Identifier: "guia"})
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("err = %v", err)
	}
}

func TestPGRepoGetByIdentifierNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM reference_documents").
		WithArgs("inexistente").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "identifier", "title", "description", "file_name", "mime_type",
			"size_bytes", "storage_key", "extracted_text_key", "created_at",
		}))

	_, err = repo.GetByIdentifier(context.Background(), "inexistente")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestPGRepoGetByIdentifier(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM reference_documents").
		WithArgs("guia").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "identifier", "title", "description", "file_name", "mime_type",
			"size_bytes", "storage_key", "extracted_text_key", "created_at",
		}).AddRow("doc-1", "guia", "Guia", "", "guia.pdf", "application/pdf",
			int64(2048), "refdocs/guia.pdf", nil, now))

	doc, err := repo.GetByIdentifier(context.Background(), "guia")
	if err != nil {
		t.Fatalf("GetByIdentifier: %v", err)
	}
	if doc.ID != "doc-1" || doc.StorageKey != "refdocs/guia.pdf" || doc.ExtractedTextKey != "" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestPGRepoSoftDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE reference_documents SET deleted_at").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SoftDelete(context.Background(), "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
