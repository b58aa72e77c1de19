package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitEmptyInput(t *testing.T) {
	assert.Nil(t, Split("", DefaultChunkSize))
	assert.Nil(t, Split("   \n  ", DefaultChunkSize))
}

func TestSplitShortTextIsOneChunk(t *testing.T) {
	text := "A fever is a body temperature above normal. It often signals infection."

	chunks := Split(text, DefaultChunkSize)

	assert.Equal(t, []string{text}, chunks)
}

func TestSplitBreaksOnSentenceBoundaries(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."

	chunks := Split(text, 45)

	assert.Equal(t, []string{
		"First sentence here. Second sentence here.",
		"Third sentence here.",
	}, chunks)
}

func TestSplitKeepsOversizedSentenceWhole(t *testing.T) {
	long := strings.Repeat("word ", 30) + "end."

	chunks := Split(long, 50)

	assert.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(long), chunks[0])
}

func TestSplitRespectsSizeLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("This sentence describes a symptom in plain words. ")
	}

	chunks := Split(sb.String(), DefaultChunkSize)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), DefaultChunkSize)
	}
}

func TestSplitDoesNotCutOnDecimalPoints(t *testing.T) {
	text := "Take 2.5 mg daily with food. Increase only under supervision."

	chunks := Split(text, 40)

	assert.Equal(t, []string{
		"Take 2.5 mg daily with food.",
		"Increase only under supervision.",
	}, chunks)
}

func TestSplitZeroMaxUsesDefault(t *testing.T) {
	text := "Short text."

	assert.Equal(t, []string{text}, Split(text, 0))
}
