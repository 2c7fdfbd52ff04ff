package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/plugin"
)

func TestRegister(t *testing.T) {
	b := engine.NewBudgeter(engine.DefaultBudgetConfig(), "", nil)
	b.Tokenizer = engine.DefaultTokenizer{}
	sess := engine.NewSession(nil, b)
	Register(Options{
		Session:    sess,
		Installer:  plugin.NewInstaller(sess, nil),
		SnippetDir: t.TempDir(),
	})
	reg := sess.Tools()

	want := []string{
		"apicall", "calculator", "disable", "enable", "findgraphql", "get", "graphql",
		"image", "install", "list", "metadata", "metadatapdf", "pagesource", "readdoc",
		"readfile", "readpdf", "recall", "reset", "retrieve", "retrievedoc", "retrievepdf",
		"savecode", "savecss", "savehtml", "savetext", "script", "search", "set", "video",
	}
	assert.Equal(t, want, reg.Names())

	for _, name := range engine.DisabledByDefault {
		assert.False(t, reg.IsEnabled(name), name)
	}

	declined := map[string]bool{}
	reg.InitAll(context.Background(), func(name string, ok bool) {
		if !ok {
			declined[name] = true
		}
	})
	// no Bing key, no sandbox runner, no recall index
	assert.Equal(t, map[string]bool{"search": true, "script": true, "recall": true}, declined)
	assert.False(t, reg.IsEnabled("search"))

	out := reg.Dispatch(context.Background(), "calculator", "6 * 7")
	require.Equal(t, "42", out)
}
