package services

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go, SQL</w:t></w:r></w:p>
    <w:p><w:r><w:t>Experience</w:t><w:br/><w:t>Acme Corp</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildDOCX(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestDOCXParser_ExtractText(t *testing.T) {
	data := buildDOCX(t, map[string]string{docxBodyPath: testDocumentXML})

	text, err := NewDOCXParserService().ExtractText(data)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills:\tGo, SQL\nExperience\nAcme Corp\n", text)
}

func TestDOCXParser_InvalidArchive(t *testing.T) {
	_, err := NewDOCXParserService().ExtractText([]byte("not a zip"))

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDOCXParser_MissingBody(t *testing.T) {
	data := buildDOCX(t, map[string]string{"word/styles.xml": "<styles/>"})

	_, err := NewDOCXParserService().ExtractText(data)

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Contains(t, docErr.Reason, "missing document body")
}

func TestDOCXParser_MalformedBody(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		docxBodyPath: `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>Jane`,
	})

	_, err := NewDOCXParserService().ExtractText(data)

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDOCXParser_Table(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		docxBodyPath: `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			`<w:p><w:r><w:t>Skills</w:t></w:r></w:p>` +
			`<w:tbl><w:tr>` +
			`<w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc>` +
			`<w:tc><w:p><w:r><w:t>5 years</w:t></w:r></w:p></w:tc>` +
			`</w:tr></w:tbl>` +
			`</w:body></w:document>`,
	})

	text, err := NewDOCXParserService().ExtractText(data)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Skills\n"))
	assert.Contains(t, text, "| Go | 5 years |")
}

func TestResumeExtractor_DOCX(t *testing.T) {
	extractor := NewResumeExtractor(NewPDFParserService(), NewDOCXParserService())
	data := buildDOCX(t, map[string]string{docxBodyPath: testDocumentXML})

	text, err := extractor.Extract(context.Background(), data, "Resume.DOCX")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills:\tGo, SQL\nExperience\nAcme Corp", text)
}

func TestResumeExtractor_Rejections(t *testing.T) {
	extractor := NewResumeExtractor(NewPDFParserService(), NewDOCXParserService())
	blank := buildDOCX(t, map[string]string{
		docxBodyPath: `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>   </w:t></w:r></w:p></w:body></w:document>`,
	})

	tests := []struct {
		name     string
		data     []byte
		filename string
		reason   string
	}{
		{name: "empty upload", data: nil, filename: "resume.pdf", reason: "The uploaded file is empty."},
		{name: "unsupported extension", data: []byte("hello"), filename: "resume.txt", reason: "Unsupported file format. Please upload a PDF or DOCX file."},
		{name: "no extension", data: []byte("hello"), filename: "resume", reason: "Unsupported file format. Please upload a PDF or DOCX file."},
		{name: "docx without text", data: blank, filename: "resume.docx", reason: "Could not extract any text from the uploaded file."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract(context.Background(), tt.data, tt.filename)

			var docErr *DocumentError
			require.ErrorAs(t, err, &docErr)
			assert.Equal(t, tt.reason, docErr.Reason)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestPDFParser_InvalidData(t *testing.T) {
	_, err := NewPDFParserService().ExtractText([]byte("definitely not a pdf"))

	var docErr *DocumentError
	assert.ErrorAs(t, err, &docErr)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "line one\nline two", CleanText("  line one  \n\n\n   line two\n  "))
}
