package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLStore(t *testing.T) {
	dir := t.TempDir()
	s := NewYAMLStore(dir)
	assert.Equal(t, filepath.Join(dir, DefaultYAMLFile), s.Path())

	qs, err := s.LoadQuestions()
	require.NoError(t, err)
	assert.Empty(t, qs)

	ctx := context.Background()
	require.NoError(t, s.AppendExchange(ctx, "what is go", "a language"))
	require.NoError(t, s.AppendExchange(ctx, "weather in paris", "sunny"))
	require.NoError(t, s.AppendExchange(ctx, "what is go", "still a language"))
	require.NoError(t, s.AppendExchange(ctx, "   ", "ignored"))

	qs, err = NewYAMLStore(dir).LoadQuestions()
	require.NoError(t, err)
	assert.Equal(t, []string{"what is go", "weather in paris"}, qs)
}

func TestYAMLStore_DedupesOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n- a\n- c\n"), 0644))

	qs, err := NewYAMLStore(path).LoadQuestions()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, qs)
}

func TestYAMLStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: [unclosed"), 0644))

	_, err := NewYAMLStore(path).LoadQuestions()
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s1, err := OpenSQLite(ctx, path, "one")
	require.NoError(t, err)
	require.NoError(t, s1.AppendExchange(ctx, "q1", "a1"))
	require.NoError(t, s1.AppendExchange(ctx, "q2", "a2"))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(ctx, path, "two")
	require.NoError(t, err)
	defer s2.Close()
	require.NoError(t, s2.AppendExchange(ctx, "q1", "again"))

	qs, err := s2.LoadQuestions()
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, qs)

	all, err := s2.Exchanges(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "again", all[2].Answer)

	two, err := s2.Exchanges(ctx, "two")
	require.NoError(t, err)
	require.Len(t, two, 1)
	assert.Equal(t, "two", two[0].SessionID)
}

func TestRecallIndex(t *testing.T) {
	r, err := OpenRecall("")
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Index("s", "What is the weather in Paris?", "Sunny and warm"))
	require.NoError(t, r.Index("s", "Who wrote Hamlet?", "William Shakespeare"))

	n, err := r.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	matches, err := r.Search("paris weather", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "What is the weather in Paris?", matches[0].Question)
	assert.Equal(t, "Sunny and warm", matches[0].Answer)

	matches, err = r.Search("shakespeare", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Q:Who wrote Hamlet?\nA:William Shakespeare\n", FormatMatches(matches))

	matches, err = r.Search("  ", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRecallIndex_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.bleve")
	r, err := OpenRecall(path)
	require.NoError(t, err)
	require.NoError(t, r.Index("s", "capital of france", "Paris"))
	require.NoError(t, r.Close())

	r, err = OpenRecall(path)
	require.NoError(t, err)
	defer r.Close()
	matches, err := r.Search("france", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Paris", matches[0].Answer)
}

func TestIndexed(t *testing.T) {
	r, err := OpenRecall("")
	require.NoError(t, err)
	s := &Indexed{Store: NewYAMLStore(t.TempDir()), Recall: r, SessionID: "x"}
	defer s.Close()

	require.NoError(t, s.AppendExchange(context.Background(), "favourite colour", "blue"))
	qs, err := s.LoadQuestions()
	require.NoError(t, err)
	assert.Equal(t, []string{"favourite colour"}, qs)

	matches, err := r.Search("colour", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "blue", matches[0].Answer)
}
