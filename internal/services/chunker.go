package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes. Paragraphs
// longer than that are split at sentence boundaries, and sentences longer than
// that are hard-cut. Each chunk after the first starts with the last overlap
// runes of its predecessor, trimmed forward to a word boundary.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var pieces []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= maxChunkSize {
			pieces = append(pieces, para)
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			pieces = append(pieces, hardSplit(sentence, maxChunkSize-overlap)...)
		}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
		hasNew  bool
	)

	// flush emits the buffer and seeds the next one with the overlap tail.
	flush := func() {
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		size = 0
		hasNew = false
		if tail := overlapTail(chunk, overlap); tail != "" {
			current.WriteString(tail)
			size = utf8.RuneCountInString(tail)
		}
	}

	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if size > 0 && size+1+n > maxChunkSize {
			if hasNew {
				flush()
			}
			if size > 0 && size+1+n > maxChunkSize {
				current.Reset()
				size = 0
			}
		}
		if size > 0 {
			current.WriteString(" ")
			size++
		}
		current.WriteString(piece)
		size += n
		hasNew = true
	}

	if hasNew {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitIntoSentences splits after '.', '!' or '?' followed by whitespace,
// keeping the punctuation with its sentence.
func splitIntoSentences(text string) []string {
	var (
		result []string
		start  int
	)

	runes := []rune(text)
	for i, r := range runes {
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				result = append(result, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		result = append(result, s)
	}

	return result
}

func hardSplit(text string, size int) []string {
	if size <= 0 {
		size = 1
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		end := size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, strings.TrimSpace(string(runes[:end])))
		runes = runes[end:]
	}
	return parts
}

func overlapTail(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	tail := runes[len(runes)-n:]
	if i := strings.IndexFunc(string(tail), unicode.IsSpace); i >= 0 {
		return strings.TrimSpace(string(tail)[i:])
	}
	return string(tail)
}
