// Package control holds the tools that inspect and change the session: the
// tool switches, session variables, history reset and recall.
package control

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// NewListTool returns the list tool.
func NewListTool(sess *engine.Session) engine.Tool {
	return engine.FuncTool{
		ToolName: "list",
		Desc:     "A tool used to list all the available enabled tools.",
		Fn: func(ctx context.Context, _ string) (string, error) {
			names := strings.Join(sess.Tools().List(), ", ")
			return fmt.Sprintf("Can you confirm that you have access to the following available tools: %s", names), nil
		},
	}
}

// NewEnableTool returns the enable tool.
func NewEnableTool(sess *engine.Session) engine.Tool {
	return engine.FuncTool{
		ToolName: "enable",
		Desc:     "A tool used to enable another tool.",
		Fn: func(ctx context.Context, input string) (string, error) {
			name := strings.ToLower(strings.TrimSpace(input))
			if !sess.Tools().Has(name) {
				return "", fmt.Errorf("%w: %s", engine.ErrToolNotFound, name)
			}
			sess.Tools().Enable(name)
			return fmt.Sprintf("The %s tool has been enabled.", name), nil
		},
	}
}

// NewDisableTool returns the disable tool.
func NewDisableTool(sess *engine.Session) engine.Tool {
	return engine.FuncTool{
		ToolName: "disable",
		Desc:     "A tool used to disable another tool. Use if a tool seems to be permanently broken.",
		Fn: func(ctx context.Context, input string) (string, error) {
			name := strings.ToLower(strings.TrimSpace(input))
			sess.Tools().Disable(name)
			return fmt.Sprintf("The %s tool has been disabled.", name), nil
		},
	}
}

// NewSetTool returns the set tool. The key is upper-cased.
func NewSetTool(sess *engine.Session) engine.Tool {
	return engine.FuncTool{
		ToolName: "set",
		Desc:     "A tool used to set environment variables. Input should be a string containing the key in uppercase, then an equals sign (=), then a value, with no quoting.",
		Fn: func(ctx context.Context, input string) (string, error) {
			key, value, ok := strings.Cut(input, "=")
			key = strings.ToUpper(strings.TrimSpace(key))
			if !ok || key == "" {
				return "", fmt.Errorf("input should be KEY=value")
			}
			value = strings.TrimSpace(value)
			sess.SetVar(key, value)
			return fmt.Sprintf("The environment variable %s has been set to %q.", key, value), nil
		},
	}
}

// Readable reports whether the get tool may reveal key.
func Readable(key string) bool {
	return strings.HasPrefix(key, "CHAT_") || strings.HasSuffix(key, "_TOOLS")
}

// Lookup resolves a key for the get tool. ENABLED_TOOLS and DISABLED_TOOLS
// are computed from the registry unless set explicitly, and a tool name
// reports "enabled" or "disabled".
func Lookup(sess *engine.Session, key string) (string, bool) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if Readable(key) {
		if v, ok := sess.Var(key); ok {
			return v, true
		}
		switch key {
		case "ENABLED_TOOLS":
			return strings.Join(sess.Tools().List(), ", "), true
		case "DISABLED_TOOLS":
			var disabled []string
			for _, name := range sess.Tools().Names() {
				if !sess.Tools().IsEnabled(name) {
					disabled = append(disabled, name)
				}
			}
			return strings.Join(disabled, ", "), true
		}
		return "", true
	}
	if name := strings.ToLower(key); sess.Tools().Has(name) {
		if sess.Tools().IsEnabled(name) {
			return "enabled", true
		}
		return "disabled", true
	}
	return "", false
}

// NewGetTool returns the get tool. It is disabled by default.
func NewGetTool(sess *engine.Session) engine.Tool {
	return engine.FuncTool{
		ToolName: "get",
		Desc:     "A tool used to get environment variables. Input should be a string containing the key in uppercase. The result is the value of the given environment variable.",
		Fn: func(ctx context.Context, input string) (string, error) {
			key, _, _ := strings.Cut(input, "=")
			key = strings.ToUpper(strings.TrimSpace(key))
			value, ok := Lookup(sess, key)
			if !ok {
				return fmt.Sprintf("The environment variable %s is not available to the get tool.", key), nil
			}
			return fmt.Sprintf("The environment variable %s currently has the value %q.", key, value), nil
		},
	}
}

// NewResetTool returns the reset tool.
func NewResetTool(sess *engine.Session) engine.Tool {
	return engine.FuncTool{
		ToolName: "reset",
		Desc:     "A tool which simply resets the chat history to be blank. You must only call this when the chat history length exceeds half of your token limit.",
		Fn: func(ctx context.Context, _ string) (string, error) {
			log.Println("🧹 Resetting chat history.")
			sess.ResetHistory()
			return "The chat history has been reset.", nil
		},
	}
}
