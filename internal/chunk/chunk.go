// Package chunk splits documents into bounded, overlapping spans for
// concurrent extraction. Splitting is pure computation; the only errors are
// invalid sizes, which indicate a caller bug.
package chunk

import (
	"fmt"
	"strings"

	"github.com/marketsense/jobbrief/constants"
	"github.com/marketsense/jobbrief/internal/common"
)

// Split walks the text in windows of size characters, breaking at the
// nearest sentence terminator inside the window, then the nearest space,
// then the raw boundary. Each chunk after the first starts overlap
// characters before its predecessor's end so nothing spanning a boundary is
// lost. Input no longer than size comes back as a single unmodified chunk.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", common.ErrInvalidInput, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must satisfy 0 <= overlap < size, got %d", common.ErrInvalidInput, overlap)
	}
	if len(text) <= size {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		bp := strings.LastIndexByte(text[start:end], '.')
		if bp < 0 {
			bp = strings.LastIndexByte(text[start:end], ' ')
		}
		if bp <= 0 {
			bp = end - start
		}
		bp += start

		chunks = append(chunks, text[start:bp])

		// Rewind by overlap, but always move forward so degenerate inputs
		// cannot loop.
		if next := bp - overlap; next > start {
			start = next
		} else {
			start = bp
		}
	}
	return chunks, nil
}

// SplitByTokens splits on paragraph boundaries, accumulating paragraphs into
// a chunk until the next one would exceed maxTokens. A paragraph that alone
// exceeds the budget is split on sentence boundaries, and a sentence that
// still exceeds it is force-split on words. Closed chunks carry an
// overlapTokens-sized word tail forward as the prefix of the next chunk.
// count measures tokens for a candidate string; text within budget comes
// back as a single unmodified chunk.
func SplitByTokens(text string, maxTokens, overlapTokens int, count func(string) int) ([]string, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: maxTokens must be positive, got %d", common.ErrInvalidInput, maxTokens)
	}
	if overlapTokens < 0 || overlapTokens >= maxTokens {
		return nil, fmt.Errorf("%w: overlapTokens must satisfy 0 <= overlap < maxTokens, got %d", common.ErrInvalidInput, overlapTokens)
	}
	if count(text) <= maxTokens {
		return []string{text}, nil
	}

	var chunks []string
	cur := ""
	curTokens := 0

	closeChunk := func(sep, unit string) {
		if cur == "" {
			cur = unit
		} else {
			chunks = append(chunks, cur)
			if tail := overlapTail(cur, overlapTokens); tail != "" {
				cur = tail + sep + unit
			} else {
				cur = unit
			}
		}
		curTokens = count(cur)
	}

	for _, para := range strings.Split(text, "\n\n") {
		paraTokens := count(para)

		switch {
		case paraTokens > maxTokens:
			for _, sent := range strings.Split(para, ". ") {
				sentTokens := count(sent)
				switch {
				case sentTokens > maxTokens:
					words := strings.Fields(sent)
					perChunk := int(float64(maxTokens) / constants.WordsToTokensRatio)
					if perChunk < 1 {
						perChunk = 1
					}
					for i := 0; i < len(words); i += perChunk {
						end := i + perChunk
						if end > len(words) {
							end = len(words)
						}
						closeChunk(" ", strings.Join(words[i:end], " "))
					}
				case curTokens+sentTokens > maxTokens:
					closeChunk(". ", sent)
				default:
					if cur == "" {
						cur = sent
					} else {
						cur += ". " + sent
					}
					curTokens += sentTokens
				}
			}
		case curTokens+paraTokens > maxTokens:
			closeChunk("\n\n", para)
		default:
			if cur == "" {
				cur = para
			} else {
				cur += "\n\n" + para
			}
			curTokens += paraTokens
		}
	}

	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks, nil
}

// overlapTail returns roughly overlapTokens worth of trailing words.
func overlapTail(s string, overlapTokens int) string {
	if overlapTokens <= 0 {
		return ""
	}
	words := strings.Fields(s)
	n := int(float64(overlapTokens) / constants.WordsToTokensRatio)
	if n <= 0 || len(words) == 0 {
		return ""
	}
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}
