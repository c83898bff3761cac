package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketsense/jobbrief/internal/common"
	"github.com/marketsense/jobbrief/internal/token"
)

func prose(sentences int) string {
	return strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", sentences))
}

func TestSplitSingleChunk(t *testing.T) {
	text := prose(5)
	chunks, err := Split(text, len(text)+10, 20)
	require.NoError(t, err)
	require.Equal(t, []string{text}, chunks)
}

func TestSplitEmptyAndWhitespaceInput(t *testing.T) {
	chunks, err := Split("", 2000, 200)
	require.NoError(t, err)
	require.Equal(t, []string{""}, chunks)

	chunks, err = Split("   \n  ", 2000, 200)
	require.NoError(t, err)
	require.Equal(t, []string{"   \n  "}, chunks)
}

func TestSplitInvalidArgs(t *testing.T) {
	_, err := Split("text", 0, 0)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = Split("text", -5, 0)
	require.Error(t, err)

	_, err = Split("text", 100, 100)
	require.Error(t, err)

	_, err = Split("text", 100, -1)
	require.Error(t, err)
}

func TestSplitFiveThousandCharsYieldsThreeChunks(t *testing.T) {
	text := prose(112)[:5000]
	chunks, err := Split(text, 2000, 200)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 2000)
	}
}

// Concatenating each chunk's non-overlapping new portion must reproduce the
// original text exactly.
func TestSplitCoverage(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
	}{
		{"sentences", prose(120), 2000, 200},
		{"small windows", prose(40), 300, 50},
		{"no sentence breaks", strings.Repeat("word ", 800), 500, 100},
		{"tight overlap", prose(60), 400, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.size, tt.overlap)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			rebuilt := chunks[0]
			for _, c := range chunks[1:] {
				require.Greater(t, len(c), tt.overlap, "chunk shorter than its overlap prefix")
				rebuilt += c[tt.overlap:]
			}
			require.Equal(t, tt.text, rebuilt)
		})
	}
}

func TestSplitChunksMatchSourcePositions(t *testing.T) {
	text := prose(120)
	overlap := 200
	chunks, err := Split(text, 2000, overlap)
	require.NoError(t, err)

	start := 0
	for i, c := range chunks {
		require.Equal(t, text[start:start+len(c)], c, "chunk %d does not match source span", i)
		start += len(c) - overlap
	}
}

func TestSplitByTokensSingleChunkWhenUnderBudget(t *testing.T) {
	text := prose(10)
	chunks, err := SplitByTokens(text, 10_000, 100, token.Estimate)
	require.NoError(t, err)
	require.Equal(t, []string{text}, chunks)
}

func TestSplitByTokensInvalidArgs(t *testing.T) {
	_, err := SplitByTokens("text", 0, 0, token.Estimate)
	require.Error(t, err)

	_, err = SplitByTokens("text", 100, 100, token.Estimate)
	require.Error(t, err)
}

func TestSplitByTokensParagraphBoundaries(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("alpha beta gamma delta epsilon ", 10)) // 50 words
	text := strings.Repeat(para+"\n\n", 10)

	chunks, err := SplitByTokens(text, 100, 10, token.Estimate)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, token.Estimate(c), 100, "chunk %d over budget", i)
		assert.Contains(t, c, "alpha")
		if i > 0 {
			// overlap tail carried forward from the previous chunk
			prevWords := strings.Fields(chunks[i-1])
			assert.True(t, strings.HasPrefix(c, prevWords[len(prevWords)-1]) || strings.Contains(c, prevWords[len(prevWords)-1]),
				"chunk %d lost its overlap prefix", i)
		}
	}
}

func TestSplitByTokensForceSplitsGiantSentence(t *testing.T) {
	// one paragraph, one "sentence", no periods: must fall through to words
	text := strings.TrimSpace(strings.Repeat("token ", 300))

	chunks, err := SplitByTokens(text, 50, 5, token.Estimate)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	// every source word survives somewhere
	joined := strings.Join(chunks, " ")
	assert.Equal(t, 0, len(strings.Fields(strings.ReplaceAll(joined, "token", ""))))
}
