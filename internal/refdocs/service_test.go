package refdocs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"testing"
)

// fakeStore keeps objects in memory and supports the derived-key writes
// the extraction pipeline needs.
type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Save(_ context.Context, ownerID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := ownerID + "/" + fileName
	f.objects[key] = data

	mime := "application/octet-stream"
	if strings.HasSuffix(fileName, ".txt") {
		mime = "text/plain"
	}
	return key, int64(len(data)), mime, nil
}

func (f *fakeStore) SaveWithKey(_ context.Context, storageKey, _ string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.objects[storageKey] = data
	return int64(len(data)), nil
}

func (f *fakeStore) Open(_ context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := f.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found: " + storageKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestUploadStoresOriginalAndExtractedText(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store)

	content := "Guia de práticas educacionais para o planejamento docente."
	doc, err := svc.Upload(context.Background(), "guia_pratica_educacional", "Guia Prática", "Guia oficial", "guia.txt", []byte(content))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if doc.Identifier != "guia_pratica_educacional" || doc.Title != "Guia Prática" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.SizeBytes != int64(len(content)) {
		t.Errorf("size = %d", doc.SizeBytes)
	}
	if !strings.HasSuffix(doc.ExtractedTextKey, ".extracted.txt") {
		t.Errorf("extracted key = %q", doc.ExtractedTextKey)
	}
	if path.Dir(doc.StorageKey) != "refdocs" {
		t.Errorf("storage key = %q", doc.StorageKey)
	}
	if got := string(store.objects[doc.ExtractedTextKey]); got != content {
		t.Errorf("extracted text = %q", got)
	}
}

func TestUploadDefaultsTitleAndRejectsEmptyIdentifier(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store)

	if _, err := svc.Upload(context.Background(), "   ", "", "", "doc.txt", []byte("x")); err == nil {
		t.Fatal("expected error for blank identifier")
	}

	doc, err := svc.Upload(context.Background(), "marcas_formativas", "", "", "marcas.txt", []byte("texto"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.Title != "marcas_formativas" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestUploadDuplicateIdentifier(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store)

	if _, err := svc.Upload(context.Background(), "guia", "", "", "a.txt", []byte("a")); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	_, err := svc.Upload(context.Background(), "guia", "", "", "b.txt", []byte("b"))
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("err = %v", err)
	}
}

func TestExcerptForBoundsAndMissing(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store)

	long := strings.Repeat("a", 500)
	if _, err := svc.Upload(context.Background(), "guia", "Guia", "", "guia.txt", []byte(long)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	got := svc.ExcerptFor(context.Background(), "guia", 100)
	if len(got) != 100 {
		t.Errorf("excerpt length = %d", len(got))
	}

	// Unknown identifiers produce an empty excerpt, not an error.
	if got := svc.ExcerptFor(context.Background(), "inexistente", 100); got != "" {
		t.Errorf("excerpt = %q", got)
	}
}

func TestCombinedExcerpt(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store)

	docs := []struct{ identifier, title, desc, body string }{
		{"guia", "Guia Prática", "Guia oficial", "conteúdo do guia"},
		{"marcas", "Marcas Formativas", "", "conteúdo das marcas"},
	}
	for _, d := range docs {
		if _, err := svc.Upload(context.Background(), d.identifier, d.title, d.desc, d.identifier+".txt", []byte(d.body)); err != nil {
			t.Fatalf("upload %s: %v", d.identifier, err)
		}
	}

	combined := svc.CombinedExcerpt(context.Background(), 3000)
	for _, want := range []string{
		"--- Guia Prática ---\nGuia oficial\n\nconteúdo do guia",
		"--- Marcas Formativas ---",
		"conteúdo das marcas",
	} {
		if !strings.Contains(combined, want) {
			t.Errorf("combined missing %q:\n%s", want, combined)
		}
	}
}

func TestDeleteRemovesFromCatalog(t *testing.T) {
	store := newFakeStore()
	svc := NewService(NewMemoryRepo(), store)

	doc, err := svc.Upload(context.Background(), "guia", "", "", "guia.txt", []byte("texto"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
	if got := svc.ExcerptFor(context.Background(), "guia", 100); got != "" {
		t.Errorf("excerpt after delete = %q", got)
	}
}
