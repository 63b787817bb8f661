package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// buildDocx assembles a minimal DOCX archive with the given document XML.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().Extensions())
}

func TestExtract_Paragraphs(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	out, err := New().Extract(context.Background(), "report.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", out)
}

func TestExtract_NotAZip(t *testing.T) {
	_, err := New().Extract(context.Background(), "report.docx", []byte("not a zip"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := New().Extract(context.Background(), "report.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExtract_MalformedXML(t *testing.T) {
	data := buildDocx(t, "<w:document><unclosed")

	out, err := New().Extract(context.Background(), "report.docx", data)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}
