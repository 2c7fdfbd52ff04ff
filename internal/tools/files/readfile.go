package files

import (
	"context"
	"log"
	"strings"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// NewReadFileTool returns the readfile tool. It starts disabled; read errors
// become the observation so the model can correct the path.
func NewReadFileTool(sess *engine.Session, guard *Guard) engine.Tool {
	return engine.FuncTool{
		ToolName: "readfile",
		Desc:     "A tool used to read text files from the local filesystem we share. Input should be a relative or absolute file path. The result is the contents of the given file.",
		Fn: func(ctx context.Context, input string) (string, error) {
			path := strings.Trim(strings.TrimSpace(input), `"'`)
			data, err := guard.ReadFile(path)
			if err != nil {
				log.Printf("⚠️  readfile: %v", err)
				return err.Error(), nil
			}
			return sess.Truncate(string(data)), nil
		},
	}
}
