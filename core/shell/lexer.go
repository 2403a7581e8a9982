// Package shell turns raw input lines into pipelines of commands.
//
// Token recognition loosely follows
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// restricted to the operators this shell understands: | < > >> &.
package shell

// TokenKind distinguishes words from the fixed operator tokens.
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenPipe
	TokenRedirectIn
	TokenRedirectOut
	TokenRedirectAppend
	TokenBackground
)

// Token is one lexed unit of an input line. Order is significant.
type Token struct {
	Kind TokenKind
	Text string
}

func operatorKind(c byte) TokenKind {
	switch c {
	case '|':
		return TokenPipe
	case '<':
		return TokenRedirectIn
	case '&':
		return TokenBackground
	default:
		return TokenRedirectOut
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// Tokenize splits line into word and operator tokens.
//
// Single quotes suppress all special meaning, double quotes suppress
// whitespace splitting and operators but not single quotes. An operator
// character outside quotes flushes the current word and becomes its own
// token; ">>" lexes as a single append token.
//
// Tokenize never fails: an unterminated quote is treated as implicitly
// closed at end of line.
func Tokenize(line string) []Token {
	var tokens []Token
	var cur []byte
	// A quoted empty string still produces a word token.
	haveWord := false

	flush := func() {
		if haveWord {
			tokens = append(tokens, Token{Kind: TokenWord, Text: string(cur)})
			cur = cur[:0]
			haveWord = false
		}
	}

	inSingle, inDouble := false, false
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case isSpace(c) && !inSingle && !inDouble:
			flush()
			i++
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			haveWord = true
			i++
		case c == '"' && !inSingle:
			inDouble = !inDouble
			haveWord = true
			i++
		case (c == '|' || c == '<' || c == '>' || c == '&') && !inSingle && !inDouble:
			flush()
			if c == '>' && i+1 < len(line) && line[i+1] == '>' {
				tokens = append(tokens, Token{Kind: TokenRedirectAppend, Text: ">>"})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: operatorKind(c), Text: string(c)})
				i++
			}
		default:
			cur = append(cur, c)
			haveWord = true
			i++
		}
	}
	flush()

	return tokens
}
