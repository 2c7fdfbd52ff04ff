// Package engine provides agent orchestration functionality.
// This file contains the token budget applied to retrieved text.

package engine

import (
	"math"
	"sync"
)

// BudgetConfig defines the token ceiling shared by history and retrieved text.
type BudgetConfig struct {
	TokenLimit    int // tokens available to one request
	ResponseLimit int // tokens reserved for the completion
}

// DefaultBudgetConfig mirrors TOKEN_LIMIT=4096 halved, with a 512 token response.
func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{
		TokenLimit:    2048,
		ResponseLimit: 512,
	}
}

// Ceiling is the number of tokens history plus text may occupy.
func (c BudgetConfig) Ceiling() int {
	return c.TokenLimit - c.ResponseLimit
}

// Budgeter shrinks text until it fits next to the running history.
type Budgeter struct {
	Config BudgetConfig
	// Tokenizer defaults to GetTokenizerForModel(Model) on first use.
	Tokenizer Tokenizer
	Model     string
	// History returns the transcript the text must fit beside.
	History func() string
	// OnTruncate is called once per Truncate call that had to cut.
	OnTruncate func(beforeRunes, afterRunes, passes int)

	tokOnce sync.Once
}

// NewBudgeter returns a Budgeter for model.
func NewBudgeter(cfg BudgetConfig, model string, history func() string) *Budgeter {
	return &Budgeter{
		Config:  cfg,
		Model:   model,
		History: history,
	}
}

func (b *Budgeter) tokenizer() Tokenizer {
	b.tokOnce.Do(func() {
		if b.Tokenizer == nil {
			b.Tokenizer = GetTokenizerForModel(b.Model)
		}
	})
	return b.Tokenizer
}

func (b *Budgeter) within(history, text string) bool {
	n, err := b.tokenizer().CountTokens(history+"\n"+text, b.Model)
	if err != nil {
		n = EstimateTokens(history + "\n" + text)
	}
	return n <= b.Config.Ceiling()
}

// Truncate bounds text so that history + "\n" + text fits the ceiling.
// The text is first cut to TokenLimit*2 runes, then its tail is cut away:
// 10%, 20%, ... of the remainder while the cut is coarse, then by a
// multiplicatively shrinking fraction. An empty result stops the loop even if
// the history alone exceeds the ceiling. Truncate(Truncate(x)) == Truncate(x).
func (b *Budgeter) Truncate(text string) string {
	runes := []rune(text)
	if max := b.Config.TokenLimit * 2; max >= 0 && len(runes) > max {
		runes = runes[:max]
	}
	before := len(runes)

	history := ""
	if b.History != nil {
		history = b.History()
	}

	scythe := 0.9
	passes := 0
	for len(runes) > 0 && !b.within(history, string(runes)) {
		passes++
		runes = runes[:int(math.Round(float64(len(runes))*scythe))]
		if scythe > 0.1 {
			scythe -= 0.1
		} else {
			scythe *= 0.66
		}
	}

	if passes > 0 && b.OnTruncate != nil {
		b.OnTruncate(before, len(runes), passes)
	}
	return string(runes)
}
