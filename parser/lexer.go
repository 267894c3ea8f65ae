package parser

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenSymbol // ( ) , * and comparison operators
)

type token struct {
	kind tokenKind
	text string
}

// keyword reports whether an identifier token equals kw, case-insensitively.
func (t token) keyword(kw string) bool {
	return t.kind == tokenIdent && strings.EqualFold(t.text, kw)
}

// lex splits the input into tokens. Strings are single-quoted with no escape
// sequences, numbers are optionally signed integers, identifiers are
// [A-Za-z_][A-Za-z0-9_]*.
func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string at offset %d", i)
			}
			tokens = append(tokens, token{tokenString, string(runes[i+1 : j])})
			i = j + 1
		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			j := i + 1
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			tokens = append(tokens, token{tokenNumber, string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i + 1
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			tokens = append(tokens, token{tokenIdent, string(runes[i:j])})
			i = j
		case r == '<' || r == '>' || r == '!':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, token{tokenSymbol, string(runes[i : i+2])})
				i += 2
			} else if r == '!' {
				return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
			} else if i+1 < len(runes) && r == '<' && runes[i+1] == '>' {
				tokens = append(tokens, token{tokenSymbol, "<>"})
				i += 2
			} else {
				tokens = append(tokens, token{tokenSymbol, string(r)})
				i++
			}
		case r == '=' || r == '(' || r == ')' || r == ',' || r == '*' || r == ';':
			tokens = append(tokens, token{tokenSymbol, string(r)})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
		}
	}
	return append(tokens, token{kind: tokenEOF}), nil
}
