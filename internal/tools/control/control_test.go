package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/history"
)

func newSession() *engine.Session {
	reg := engine.NewToolRegistry()
	b := engine.NewBudgeter(engine.DefaultBudgetConfig(), "", nil)
	b.Tokenizer = engine.DefaultTokenizer{}
	sess := engine.NewSession(reg, b)
	for _, t := range []engine.Tool{
		NewListTool(sess), NewEnableTool(sess), NewDisableTool(sess),
		NewSetTool(sess), NewGetTool(sess), NewResetTool(sess),
	} {
		reg.Register(t)
	}
	return sess
}

func dispatch(sess *engine.Session, name, input string) string {
	return sess.Tools().Dispatch(context.Background(), name, input)
}

func TestList(t *testing.T) {
	sess := newSession()
	assert.Equal(t,
		"Can you confirm that you have access to the following available tools: disable, enable, list, reset, set",
		dispatch(sess, "list", ""))
}

func TestEnableDisable(t *testing.T) {
	sess := newSession()
	assert.False(t, sess.Tools().IsEnabled("get"))

	assert.Equal(t, "The get tool has been enabled.", dispatch(sess, "enable", " GET "))
	assert.True(t, sess.Tools().IsEnabled("get"))

	assert.Equal(t, "The set tool has been disabled.", dispatch(sess, "disable", "set"))
	assert.Equal(t, "The set tool has been disabled.", dispatch(sess, "disable", "set"))
	assert.Equal(t, engine.DisabledMessage("set"), dispatch(sess, "set", "A=b"))

	assert.Contains(t, dispatch(sess, "enable", "nope"), "ERROR: enable failed")
}

func TestSet(t *testing.T) {
	sess := newSession()
	assert.Equal(t, `The environment variable CHAT_MOOD has been set to "calm = cool".`, dispatch(sess, "set", "chat_mood = calm = cool"))
	v, ok := sess.Var("CHAT_MOOD")
	require.True(t, ok)
	assert.Equal(t, "calm = cool", v)

	assert.Contains(t, dispatch(sess, "set", "novalue"), "ERROR: set failed")
}

func TestGet(t *testing.T) {
	sess := newSession()
	assert.Equal(t, engine.DisabledMessage("get"), dispatch(sess, "get", "CHAT_MOOD"))
	sess.Tools().Enable("get")

	sess.SetVar("CHAT_MOOD", "calm")
	sess.SetVar("SECRET_KEY", "s3cr3t")
	sess.SetQueries([]string{"q1", "q2"})

	tests := []struct {
		key  string
		want string
	}{
		{"chat_mood", `The environment variable CHAT_MOOD currently has the value "calm".`},
		{"CHAT_QUERIES", `The environment variable CHAT_QUERIES currently has the value "q1, q2".`},
		{"CHAT_UNSET", `The environment variable CHAT_UNSET currently has the value "".`},
		{"ENABLED_TOOLS", `The environment variable ENABLED_TOOLS currently has the value "disable, enable, get, list, reset, set".`},
		{"SECRET_KEY", `The environment variable SECRET_KEY is not available to the get tool.`},
		{"SET", `The environment variable SET currently has the value "enabled".`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, dispatch(sess, "get", tt.key))
		})
	}

	sess.Tools().Disable("list")
	assert.Equal(t, `The environment variable DISABLED_TOOLS currently has the value "list".`, dispatch(sess, "get", "DISABLED_TOOLS"))
}

func TestReset(t *testing.T) {
	sess := newSession()
	sess.AddExchange("q", "a")
	require.Equal(t, 1, sess.History().Len())

	assert.Equal(t, "The chat history has been reset.", dispatch(sess, "reset", ""))
	assert.Equal(t, 0, sess.History().Len())
	v, _ := sess.Var(engine.VarHistory)
	assert.Empty(t, v)
}

func TestRecall(t *testing.T) {
	idx, err := history.OpenRecall("")
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Index("s", "best pizza in Naples", "Da Michele"))

	tool := NewRecallTool(idx)
	assert.True(t, tool.Init(context.Background()))

	out, err := tool.Execute(context.Background(), "pizza")
	require.NoError(t, err)
	assert.Equal(t, "Q:best pizza in Naples\nA:Da Michele\n", out)

	out, err = tool.Execute(context.Background(), "quantum")
	require.NoError(t, err)
	assert.Equal(t, "Nothing relevant was found in previous conversations.", out)

	assert.False(t, NewRecallTool(nil).Init(context.Background()))
}
