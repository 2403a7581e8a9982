package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(tokens []Token) []string {
	var out []string
	for _, tok := range tokens {
		out = append(out, tok.Text)
	}
	return out
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   \t ", nil},
		{"simple", "ls -la /tmp", []string{"ls", "-la", "/tmp"}},
		{"extra whitespace", "  echo \t hi  ", []string{"echo", "hi"}},
		{"pipe", "ls | wc", []string{"ls", "|", "wc"}},
		{"pipe no spaces", "ls|wc", []string{"ls", "|", "wc"}},
		{"redirects", "sort < in > out", []string{"sort", "<", "in", ">", "out"}},
		{"append is one token", "echo hi >> log", []string{"echo", "hi", ">>", "log"}},
		{"append no spaces", "echo hi>>log", []string{"echo", "hi", ">>", "log"}},
		{"background", "sleep 10 &", []string{"sleep", "10", "&"}},
		{"quoted operators stay literal", `a "b c" 'd|e' | f > g`, []string{"a", "b c", "d|e", "|", "f", ">", "g"}},
		{"double quotes keep single quotes", `echo "don't"`, []string{"echo", "don't"}},
		{"single quotes keep double quotes", `echo 'say "hi"'`, []string{"echo", `say "hi"`}},
		{"quoted empty word", `echo ""`, []string{"echo", ""}},
		{"adjacent quotes join", `echo a"b"'c'`, []string{"echo", "abc"}},
		{"unterminated quote closes at eol", `echo "a b`, []string{"echo", "a b"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, words(Tokenize(tc.line)))
		})
	}
}

func TestTokenizeKinds(t *testing.T) {
	tokens := Tokenize("cat < in | tee out >> log &")

	wantKinds := []TokenKind{
		TokenWord, TokenRedirectIn, TokenWord,
		TokenPipe,
		TokenWord, TokenWord, TokenRedirectAppend, TokenWord,
		TokenBackground,
	}

	var kinds []TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, wantKinds, kinds)
}

func TestTokenizeQuotedWordsAreWords(t *testing.T) {
	for _, tok := range Tokenize(`'|' "<" '>>' "&"`) {
		assert.Equal(t, TokenWord, tok.Kind, "token %q", tok.Text)
	}
}
