package engine

import (
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "empty",
			text: "",
			want: 0,
		},
		{
			name: "short word",
			text: "hello",
			want: 1, // 5 chars / 4 = 1
		},
		{
			name: "sentence",
			text: "hello world this is a test",
			want: 6, // 26 chars / 4 = 6 + whitespace/6 ~ 0 = 6
		},
		{
			name: "code snippet",
			text: "func main() { fmt.Println(\"hello\") }",
			want: 9, // 36 chars / 4 = 9 + whitespace/6 ~ 0 = 9
		},
		{
			name: "single rune",
			text: "a",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Formula: (len(runes) / 4) + (whitespace / 6), minimum 1 for non-empty text.
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultTokenizer(t *testing.T) {
	tok := DefaultTokenizer{}
	got, err := tok.CountTokens("hello world this is a test", "any-model")
	if err != nil {
		t.Fatalf("CountTokens() error = %v", err)
	}
	if got != 6 {
		t.Errorf("CountTokens() = %d, want 6", got)
	}
}
