// Package formula rewrites A1-style references inside formula text when a
// formula is copied to a new position. It never evaluates formulas; literal
// text, sheet qualifiers and absolute markers are preserved verbatim.
package formula

import (
	"fmt"
)

// Kind discriminates token variants.
type Kind int

const (
	// Literal is formula text copied through unchanged.
	Literal Kind = iota
	// Reference is a cell, full-column or full-row reference.
	Reference
)

// Token is one segment of a tokenized formula. For Reference tokens, Sheet
// holds the verbatim sheet qualifier including the trailing '!' (possibly
// empty) and Ref the reference body; Text is always the verbatim source.
type Token struct {
	Kind  Kind
	Text  string
	Sheet string
	Ref   string
}

// ParseError reports formula text that cannot be tokenized. The only
// tokenization failure is unbalanced quoting; anything else passes through
// as literal text.
type ParseError struct {
	Formula string
	Pos     int
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse formula %q at offset %d: %s", e.Formula, e.Pos, e.Reason)
}

// Tokenize splits formula text into literal segments and reference tokens.
// Double-quoted strings are always literal. A reference is an optional
// sheet qualifier (Name! or 'Quoted Name'!) followed by a cell reference
// ($?letters$?digits), a full-column reference ($?letters:$?letters) or a
// full-row reference ($?digits:$?digits). Candidates embedded in larger
// identifiers, or followed by '(', are treated as literal text.
func Tokenize(formula string) ([]Token, error) {
	var tokens []Token
	litStart := 0
	i := 0

	flush := func(end int) {
		if end > litStart {
			tokens = append(tokens, Token{Kind: Literal, Text: formula[litStart:end]})
		}
	}

	for i < len(formula) {
		c := formula[i]
		switch {
		case c == '"':
			end, ok := scanString(formula, i)
			if !ok {
				return nil, &ParseError{Formula: formula, Pos: i, Reason: "unbalanced '\"'"}
			}
			i = end

		case c == '\'':
			end, ok := scanQuoted(formula, i)
			if !ok {
				return nil, &ParseError{Formula: formula, Pos: i, Reason: "unbalanced \"'\""}
			}
			if end < len(formula) && formula[end] == '!' {
				if refLen := matchRefBody(formula, end+1); refLen > 0 {
					flush(i)
					tok := Token{
						Kind:  Reference,
						Text:  formula[i : end+1+refLen],
						Sheet: formula[i : end+1],
						Ref:   formula[end+1 : end+1+refLen],
					}
					tokens = append(tokens, tok)
					i = end + 1 + refLen
					litStart = i
					continue
				}
			}
			// quoted text without a reference stays literal
			i = end

		case c == '$' || isLetter(c) || isDigit(c):
			if i > 0 && isIdentChar(formula[i-1]) {
				i = skipIdent(formula, i)
				continue
			}
			sheetLen, refLen := matchRef(formula, i)
			if refLen > 0 {
				flush(i)
				tok := Token{
					Kind:  Reference,
					Text:  formula[i : i+sheetLen+refLen],
					Sheet: formula[i : i+sheetLen],
					Ref:   formula[i+sheetLen : i+sheetLen+refLen],
				}
				tokens = append(tokens, tok)
				i += sheetLen + refLen
				litStart = i
				continue
			}
			if c == '$' {
				i++
				continue
			}
			i = skipIdent(formula, i)

		default:
			i++
		}
	}

	flush(len(formula))
	return tokens, nil
}

// scanString consumes a double-quoted string starting at i, with doubled
// quotes as escapes, and returns the offset just past the closing quote.
func scanString(s string, i int) (int, bool) {
	i++ // opening quote
	for i < len(s) {
		if s[i] != '"' {
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			i += 2
			continue
		}
		return i + 1, true
	}
	return 0, false
}

// scanQuoted consumes a single-quoted name starting at i, with doubled
// quotes as escapes.
func scanQuoted(s string, i int) (int, bool) {
	i++ // opening quote
	for i < len(s) {
		if s[i] != '\'' {
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i += 2
			continue
		}
		return i + 1, true
	}
	return 0, false
}

// matchRef matches an optional bare sheet qualifier plus a reference body
// at position i. It returns the qualifier length (0 when absent) and the
// body length (0 when no reference matches).
func matchRef(s string, i int) (sheetLen, refLen int) {
	j := i
	for j < len(s) && isIdentChar(s[j]) {
		j++
	}
	if j > i && j < len(s) && s[j] == '!' {
		if n := matchRefBody(s, j+1); n > 0 {
			return j + 1 - i, n
		}
	}
	return 0, matchRefBody(s, i)
}

// matchRefBody matches a cell, full-column or full-row reference at
// position i and returns its length, or 0.
func matchRefBody(s string, i int) int {
	if n := matchCell(s, i); n > 0 {
		return n
	}
	if n := matchFullColumn(s, i); n > 0 {
		return n
	}
	return matchFullRow(s, i)
}

func matchCell(s string, i int) int {
	j := i
	if j < len(s) && s[j] == '$' {
		j++
	}
	letters := countLetters(s, j)
	if letters == 0 {
		return 0
	}
	j += letters
	if j < len(s) && s[j] == '$' {
		j++
	}
	digits := countDigits(s, j)
	if digits == 0 {
		return 0
	}
	j += digits
	if j < len(s) && (isIdentChar(s[j]) || s[j] == '(') {
		return 0
	}
	return j - i
}

func matchFullColumn(s string, i int) int {
	j := i
	if j < len(s) && s[j] == '$' {
		j++
	}
	letters := countLetters(s, j)
	if letters == 0 {
		return 0
	}
	j += letters
	if j >= len(s) || s[j] != ':' {
		return 0
	}
	j++
	if j < len(s) && s[j] == '$' {
		j++
	}
	letters = countLetters(s, j)
	if letters == 0 {
		return 0
	}
	j += letters
	if j < len(s) && (isIdentChar(s[j]) || s[j] == '(') {
		return 0
	}
	return j - i
}

func matchFullRow(s string, i int) int {
	j := i
	if j < len(s) && s[j] == '$' {
		j++
	}
	digits := countDigits(s, j)
	if digits == 0 {
		return 0
	}
	j += digits
	if j >= len(s) || s[j] != ':' {
		return 0
	}
	j++
	if j < len(s) && s[j] == '$' {
		j++
	}
	digits = countDigits(s, j)
	if digits == 0 {
		return 0
	}
	j += digits
	if j < len(s) && (isIdentChar(s[j]) || s[j] == '(') {
		return 0
	}
	return j - i
}

func countLetters(s string, i int) int {
	j := i
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	return j - i
}

func countDigits(s string, i int) int {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return j - i
}

func skipIdent(s string, i int) int {
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return i
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentChar(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '_' || b == '.'
}
