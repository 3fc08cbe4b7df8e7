package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractTextPlainFiles(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "job.txt", body: "\n  Python developer, 3 yrs\n", want: "Python developer, 3 yrs"},
		{name: "cv.MD", body: "# Иван\n\n5 years Python\n", want: "# Иван\n\n5 years Python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			got, err := ExtractText(path)
			if err != nil {
				t.Fatalf("ExtractText returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.rtf")
	if err := os.WriteFile(path, []byte("{\\rtf1}"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := ExtractText(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	if _, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestExtractDocx(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+
		`<w:p><w:r><w:t>Senior Go Engineer</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Go &amp; PostgreSQL</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	got, err := Extract(".docx", data)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if want := "Senior Go Engineer\nGo & PostgreSQL"; got != want {
		t.Fatalf("Extract() = %q, want %q", got, want)
	}
}

func TestExtractBrokenPDF(t *testing.T) {
	if _, err := Extract(".pdf", []byte("not a pdf")); err == nil {
		t.Fatalf("expected error for broken pdf")
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": documentXML,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}
