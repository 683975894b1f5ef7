package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DocumentError classifies a document the extractor refuses to read. It matches
// ErrUnsupportedFormat under errors.Is and carries the message shown to the client.
type DocumentError struct {
	Reason string
}

func (e *DocumentError) Error() string {
	return e.Reason
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

type ResumeExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

type resumeExtractor struct {
	pdfParser  PDFParserService
	docxParser DOCXParserService
}

func NewResumeExtractor(pdfParser PDFParserService, docxParser DOCXParserService) ResumeExtractor {
	return &resumeExtractor{
		pdfParser:  pdfParser,
		docxParser: docxParser,
	}
}

// Extract implements ResumeExtractor.
func (r *resumeExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", &DocumentError{Reason: "The uploaded file is empty."}
	}

	var (
		text string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = r.pdfParser.ExtractText(data)
	case ".docx":
		text, err = r.docxParser.ExtractText(data)
	default:
		return "", &DocumentError{Reason: "Unsupported file format. Please upload a PDF or DOCX file."}
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", &DocumentError{Reason: "Could not extract any text from the uploaded file."}
	}

	if ctx.Err() != nil {
		return "", fmt.Errorf("extraction cancelled: %w", ctx.Err())
	}

	return text, nil
}
