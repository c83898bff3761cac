// Package token counts model tokens for chunk budgeting.
package token

import (
	"math"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/marketsense/jobbrief/constants"
)

// Counter counts tokens under a named model via tiktoken, falling back to a
// word-count heuristic when the tokenizer is unavailable. Count never fails;
// encoders are cached per model because chunk-boundary search calls it
// repeatedly on the same document.
type Counter struct {
	mu       sync.Mutex
	encoders map[string]*tiktoken.Tiktoken
	broken   map[string]bool
}

func NewCounter() *Counter {
	return &Counter{
		encoders: make(map[string]*tiktoken.Tiktoken),
		broken:   make(map[string]bool),
	}
}

// Count returns the token count of text under model, or the heuristic
// estimate when no encoder can be built for that model.
func (c *Counter) Count(text, model string) int {
	if text == "" {
		return 0
	}
	enc := c.encoderFor(model)
	if enc == nil {
		return Estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *Counter) encoderFor(model string) *tiktoken.Tiktoken {
	if model == "" {
		model = constants.DefaultModel
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encoders[model]; ok {
		return enc
	}
	if c.broken[model] {
		return nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// remember the failure so we don't pay for it on every call
		c.broken[model] = true
		return nil
	}
	c.encoders[model] = enc
	return enc
}

// Estimate is the tokenizer-free fallback: word count scaled by a fixed
// sub-word overhead ratio.
func Estimate(text string) int {
	words := len(strings.Fields(text))
	return int(math.Round(float64(words) * constants.WordsToTokensRatio))
}
