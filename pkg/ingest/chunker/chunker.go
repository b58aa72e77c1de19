package chunker

import "strings"

// DefaultChunkSize is the soft character ceiling per chunk. Chunks break
// on sentence boundaries, so individual chunks may run slightly over
// when a sentence straddles the limit.
const DefaultChunkSize = 800

// Split breaks a document summary into sentence-aligned chunks no larger
// than maxChars (except for a single sentence that alone exceeds it).
// Empty input yields no chunks.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	sentences := splitSentences(text)
	chunks := make([]string, 0, len(text)/maxChars+1)
	var current strings.Builder
	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+1+len(sentence) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitSentences cuts on terminal punctuation followed by whitespace.
// It is deliberately simple; medical summaries are plain prose and do
// not need abbreviation handling.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' && text[i+1] != '\t' {
			continue
		}
		sentence := strings.TrimSpace(text[start : i+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
