package control

import (
	"context"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/history"
)

// RecallResults is how many past exchanges the recall tool returns.
const RecallResults = 3

// NewRecallTool returns the recall tool over idx.
func NewRecallTool(idx *history.RecallIndex) engine.Tool {
	return engine.FuncTool{
		ToolName: "recall",
		Desc:     "A tool used to search the questions and answers of previous conversations. Input should be a few keywords. The result is a list of matching Q: and A: pairs.",
		InitFn: func(ctx context.Context) bool {
			return idx != nil
		},
		Fn: func(ctx context.Context, input string) (string, error) {
			matches, err := idx.Search(input, RecallResults)
			if err != nil {
				return "", err
			}
			if len(matches) == 0 {
				return "Nothing relevant was found in previous conversations.", nil
			}
			return history.FormatMatches(matches), nil
		},
	}
}
