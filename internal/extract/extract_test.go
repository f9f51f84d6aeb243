package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Go engineer with five years of backend experience.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestResumeTextFromDocx(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	text, err := ResumeText(context.Background(), data,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "resume.docx")
	if err != nil {
		t.Fatalf("ResumeText: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "backend experience") {
		t.Fatalf("extracted text missing content: %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("paragraph breaks lost: %q", text)
	}
}

func TestResumeTextNormalizesZipMime(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	// Browsers sometimes report docx uploads as plain zip.
	text, err := ResumeText(context.Background(), data, "application/zip; charset=binary", "resume.docx")
	if err != nil {
		t.Fatalf("ResumeText: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Fatalf("extracted text missing content: %q", text)
	}
}

func TestResumeTextRejectsUnsupportedType(t *testing.T) {
	if _, err := ResumeText(context.Background(), []byte("hello"), "text/plain", "resume.txt"); err == nil {
		t.Fatal("expected error for unsupported mime type")
	}
}

func TestResumeTextRejectsZipWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("random.txt")
	_, _ = w.Write([]byte("nope"))
	_ = zw.Close()

	if _, err := ResumeText(context.Background(), buf.Bytes(), "application/zip", "archive.zip"); err == nil {
		t.Fatal("expected error for zip without word/document.xml")
	}
}

func TestStripDocxXMLCollapsesRuns(t *testing.T) {
	got := stripDocxXML(`<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t> world</w:t></w:r></w:p><w:p><w:r><w:t>Next</w:t></w:r></w:p>`)
	want := "Hello world\nNext"
	if got != want {
		t.Fatalf("stripDocxXML = %q, want %q", got, want)
	}
}
