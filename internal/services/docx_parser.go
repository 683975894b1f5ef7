package services

import (
	"bytes"
	"strings"

	"github.com/fumiama/go-docx"
)

const docxBodyPath = "word/document.xml"

type DOCXParserService interface {
	ExtractText(data []byte) (string, error)
}

type docxParserService struct{}

func NewDOCXParserService() DOCXParserService {
	return &docxParserService{}
}

// ExtractText renders the paragraphs and tables of the main document part, one
// line per body item. Headers, footers and text boxes stored in other parts
// are ignored.
func (d *docxParserService) ExtractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &DocumentError{Reason: "Invalid or corrupted DOCX file."}
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DocumentError{Reason: "Invalid or corrupted DOCX file."}
	}

	items := doc.Document.Body.Items
	if len(items) == 0 {
		return "", &DocumentError{Reason: "Invalid DOCX file: missing document body."}
	}

	var textBuilder strings.Builder
	for _, item := range items {
		switch it := item.(type) {
		case *docx.Paragraph:
			textBuilder.WriteString(it.String())
			textBuilder.WriteString("\n")
		case *docx.Table:
			textBuilder.WriteString(it.String())
			textBuilder.WriteString("\n")
		}
	}

	return textBuilder.String(), nil
}
