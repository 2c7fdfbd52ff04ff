// Package engine provides agent orchestration functionality.
// This file contains token counting interfaces and implementations.

package engine

import (
	"log"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer provides token counting for text.
type Tokenizer interface {
	// CountTokens returns the number of tokens in the given text for the specified model.
	CountTokens(text string, model string) (int, error)
}

// EstimateTokens provides a rough token count estimation.
// Uses a simple heuristic: ~4 characters per token for English text.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	charCount := len([]rune(text))
	whitespaceCount := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")

	estimated := (charCount / 4) + (whitespaceCount / 6)
	if estimated < 1 {
		return 1
	}
	return estimated
}

// DefaultTokenizer uses estimation as a fallback when no BPE encoding is available.
type DefaultTokenizer struct{}

// CountTokens implements Tokenizer using estimation.
func (t DefaultTokenizer) CountTokens(text string, model string) (int, error) {
	return EstimateTokens(text), nil
}

// cl100k_base covers GPT-3.5, GPT-4 and is a reasonable proxy for the rest.
var (
	bpe     *tiktoken.Tiktoken
	bpeOnce sync.Once
)

func loadBPE() *tiktoken.Tiktoken {
	bpeOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Printf("⚠️  token counting will use estimation: %v", err)
			return
		}
		bpe = enc
	})
	return bpe
}

// TikTokenTokenizer counts tokens with the cl100k_base encoding.
type TikTokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// CountTokens implements Tokenizer.
func (t TikTokenTokenizer) CountTokens(text string, model string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

// GetTokenizerForModel returns an exact tokenizer when the BPE tables can be
// loaded, otherwise the estimator.
func GetTokenizerForModel(model string) Tokenizer {
	if enc := loadBPE(); enc != nil {
		return TikTokenTokenizer{enc: enc}
	}
	return DefaultTokenizer{}
}
