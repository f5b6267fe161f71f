package loader

import (
	"archive/zip"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docportal/docportal/pkg/domain"
)

func testService() *Service {
	return New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_Text(t *testing.T) {
	svc := testService()
	path := writeFile(t, "notes.txt", []byte("hello from a text file"))

	pages, err := svc.Load(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "notes.txt", pages[0].Source)
	assert.Equal(t, 1, pages[0].Page)
	assert.Equal(t, "hello from a text file", pages[0].Text)
}

func TestLoad_Markdown(t *testing.T) {
	svc := testService()
	path := writeFile(t, "readme.md", []byte("# Title\n\nbody"))

	pages, err := svc.Load(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Text, "# Title")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	svc := testService()
	path := writeFile(t, "data.csv", []byte("a,b,c"))

	_, err := svc.Load(path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestLoad_WhitespaceOnlyDropped(t *testing.T) {
	svc := testService()
	path := writeFile(t, "blank.txt", []byte("   \n\t\n  "))

	pages, err := svc.Load(path)
	require.NoError(t, err)
	assert.Empty(t, pages, "whitespace-only content must not produce pages")
}

func TestLoad_PDF(t *testing.T) {
	svc := testService()

	pages, err := svc.Load(filepath.Join("testdata", "report.pdf"))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "report.pdf", pages[0].Source)
	assert.Equal(t, 1, pages[0].Page)
	assert.Contains(t, pages[0].Text, "Revenue grew by ten percent")

	assert.Equal(t, 2, pages[1].Page)
	assert.Contains(t, pages[1].Text, "Costs were flat")
}

func TestLoad_EncryptedPDF(t *testing.T) {
	svc := testService()

	_, err := svc.Load(filepath.Join("testdata", "encrypted.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEncryptedDocument)
}

func TestLoad_Docx(t *testing.T) {
	svc := testService()
	path := writeFile(t, "report.docx", buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`))

	pages, err := svc.Load(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", pages[0].Text)
}

func TestLoad_DocxNotAnArchive(t *testing.T) {
	svc := testService()
	path := writeFile(t, "fake.docx", []byte("this is not a zip"))

	_, err := svc.Load(path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestLoad_DocxMissingDocumentXML(t *testing.T) {
	svc := testService()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeFile(t, "empty.docx", buf.Bytes())
	_, err = svc.Load(path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("a.pdf"))
	assert.True(t, SupportedExtension("a.txt"))
	assert.True(t, SupportedExtension("a.md"))
	assert.True(t, SupportedExtension("a.markdown"))
	assert.True(t, SupportedExtension("a.docx"))
	assert.True(t, SupportedExtension("A.PDF"))
	assert.False(t, SupportedExtension("a.csv"))
	assert.False(t, SupportedExtension("a"))
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
