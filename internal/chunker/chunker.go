// Package chunker splits guideline text into bounded-size,
// paragraph-aligned segments for embedding.
package chunker

import "strings"

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 500

// separator is the blank-line paragraph delimiter. It is reinserted
// between paragraphs packed into the same chunk, so concatenating all
// chunks with it reconstructs the normalised input.
const separator = "\n\n"

// Chunk splits text into paragraph-aligned chunks of at most maxSize
// characters. Paragraphs are delimited by blank lines. Packing is greedy:
// a chunk accumulates paragraphs until appending the next one would
// exceed maxSize, then the chunk is emitted and the overflowing paragraph
// starts a new one. A single paragraph longer than maxSize becomes its
// own chunk; paragraphs are never split. Empty or whitespace-only input
// yields nil. The result is deterministic for a given input and maxSize.
func Chunk(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	var chunks []string
	var current strings.Builder

	for _, para := range strings.Split(text, separator) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(para) > maxSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(separator)
		}
		current.WriteString(para)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
