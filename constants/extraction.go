package constants

import "time"

// Defaults for the character-bounded entity-extraction chunker.
const (
	ChunkSizeDefault    = 2000
	ChunkOverlapDefault = 200
)

// Token budgets for the condensation flow. The threshold leaves headroom
// under a 128k context window; condensation chunks stay smaller so the
// summary prompt and reply fit too.
const (
	CondenseThresholdTokens = 120_000
	CondenseChunkTokens     = 100_000
	CondenseOverlapTokens   = 1_000
)

// WordsToTokensRatio approximates sub-word tokenization overhead when the
// real tokenizer is unavailable.
const WordsToTokensRatio = 1.3

// Oracle call shape per call type.
const (
	MaxTokensEntity    = 400
	MaxTokensBrief     = 800
	MaxTokensSummarize = 1000

	EntityCallTimeout    = 4 * time.Second
	BriefCallTimeout     = 30 * time.Second
	SummarizeCallTimeout = 60 * time.Second
)

// EntityPromptMaxChars caps the user content of a single-call entity
// extraction; chunked extraction sends whole chunks instead.
const EntityPromptMaxChars = 2000

// BriefListMaxItems bounds the list-valued brief fields.
const BriefListMaxItems = 6

// DefaultModel is the extraction model unless overridden by config.
const DefaultModel = "gpt-4o-mini"
