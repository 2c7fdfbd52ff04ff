// Package api holds the tools that talk to installed plugin APIs and
// GraphQL endpoints.
package api

import (
	"context"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/plugin"
)

// NewInstallTool returns the install tool backed by in.
func NewInstallTool(in *plugin.Installer) engine.Tool {
	return engine.FuncTool{
		ToolName: "install",
		Desc:     "A tool used to install API plugins. Input should be a bare domain name without a scheme/protocol or path.",
		Fn: func(ctx context.Context, input string) (string, error) {
			return in.Install(ctx, input), nil
		},
	}
}
