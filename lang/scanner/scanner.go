// Package scanner turns source text into a flat stream of token.Token
// values: numbers, string literals, and words. There is no keyword table
// and no punctuation tokens — the scanner only ever has to decide number vs.
// string vs. word, leaving everything else (including what a word means) to
// the compiler and dictionary.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sorthlang/gosorth/lang/token"
)

const eof = -1

// Scanner is a single-pass, rune-cursor tokenizer over an in-memory source
// buffer. Scanner tracks its own line/column rather than byte offsets into
// a shared file table, since tokens here travel as first-class values and
// need a self-contained Location.
type Scanner struct {
	path string
	src  []byte

	cur    rune
	off    int
	roff   int
	line   int
	column int
}

// New returns a Scanner positioned at the first rune of src.
func New(path string, src []byte) *Scanner {
	s := &Scanner{path: path, src: src, line: 1, column: 1}
	if len(src) == 0 {
		s.cur = eof
		return s
	}
	r, w := decodeRune(src, 0)
	s.cur = r
	s.roff = w
	return s
}

func decodeRune(src []byte, at int) (rune, int) {
	if src[at] < utf8.RuneSelf {
		return rune(src[at]), 1
	}
	return utf8.DecodeRune(src[at:])
}

// advance consumes the current rune and loads the next one into s.cur,
// updating line/column as it crosses a newline.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	if s.roff >= len(s.src) {
		s.cur = eof
		s.off = len(s.src)
		return
	}
	s.off = s.roff
	r, w := decodeRune(s.src, s.roff)
	s.roff += w
	s.cur = r
}

func (s *Scanner) location() token.Location {
	return token.Location{Path: s.path, Line: s.line, Column: s.column}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.cur) {
		s.advance()
	}
}

// Tokenize scans the whole of src and returns its tokens, or the first
// error encountered (an unterminated string literal).
func Tokenize(path string, src []byte) ([]token.Token, error) {
	s := New(path, src)
	var tokens []token.Token

	for {
		s.skipWhitespace()
		if s.cur == eof {
			break
		}

		loc := s.location()

		if s.cur == '"' {
			tok, err := s.scanString(loc)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}

		text := s.scanWord()
		if isNumericCandidate(text) {
			if n, ok := toNumeric(text); ok {
				tokens = append(tokens, token.NewNumber(loc, n))
				continue
			}
		}
		tokens = append(tokens, token.NewWord(loc, text))
	}

	return tokens, nil
}

// scanWord pulls text out of the buffer up to the next whitespace rune (or
// EOF). Words may contain any non-whitespace character, so number-vs-word
// disambiguation happens entirely after the fact, in Tokenize.
func (s *Scanner) scanWord() string {
	var sb strings.Builder
	for s.cur != eof && !isWhitespace(s.cur) {
		sb.WriteRune(s.cur)
		s.advance()
	}
	return sb.String()
}

// scanString scans a string literal starting at the opening quote.
// "* ... *" opens a multi-line literal; anything else is single-line.
func (s *Scanner) scanString(loc token.Location) (token.Token, error) {
	s.advance() // consume opening '"'

	if s.cur == '*' {
		text, err := s.scanMultiLineString(loc)
		if err != nil {
			return token.Token{}, err
		}
		return token.NewString(loc, text), nil
	}

	var sb strings.Builder
	for {
		switch s.cur {
		case '"':
			s.advance()
			return token.NewString(loc, sb.String()), nil
		case '\n':
			return token.Token{}, fmt.Errorf("%s: unexpected new line in string literal", loc)
		case eof:
			return token.Token{}, fmt.Errorf("%s: unexpected end of file in string literal", loc)
		case '\\':
			r, err := s.scanEscape(loc)
			if err != nil {
				return token.Token{}, err
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(s.cur)
			s.advance()
		}
	}
}

// scanMultiLineString scans the body of a "* ... *" literal. The column of
// the first non-whitespace character after the opening "* becomes the
// baseline: every following line has whitespace up to that column stripped,
// so the literal can be indented to match the surrounding source without
// that indentation leaking into the string, and lines skipped entirely
// (because they had nothing but whitespace before the baseline) still
// contribute a blank line to the result.
func (s *Scanner) scanMultiLineString(loc token.Location) (string, error) {
	s.advance() // consume '*'
	s.skipWhitespace()
	targetColumn := s.column

	var sb strings.Builder
	for {
		switch s.cur {
		case eof:
			return "", fmt.Errorf("%s: unexpected end of file in string literal", loc)

		case '*':
			s.advance()
			if s.cur == '"' {
				s.advance()
				return sb.String(), nil
			}
			// A stray '*' not followed by '"' is just text.
			sb.WriteByte('*')

		case '\n':
			sb.WriteByte('\n')
			s.advance()

			startLine := s.line
			if err := s.skipToColumn(loc, targetColumn); err != nil {
				return "", err
			}
			for i := 0; i < s.line-startLine; i++ {
				sb.WriteByte('\n')
			}

		case '\\':
			r, err := s.scanEscape(loc)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)

		default:
			sb.WriteRune(s.cur)
			s.advance()
		}
	}
}

// skipToColumn skips leading whitespace on a new line up to (not past)
// targetColumn, so text already at or past the baseline is left alone.
func (s *Scanner) skipToColumn(loc token.Location, targetColumn int) error {
	for isWhitespace(s.cur) && s.column < targetColumn {
		s.advance()
	}
	if s.cur == eof {
		return fmt.Errorf("%s: unexpected end of file in string literal", loc)
	}
	return nil
}

// scanEscape decodes a backslash escape. s.cur must be '\\' on entry: \n \r
// \t translate to their control character, \0 followed by one or more
// decimal digits is the byte value of the digits (e.g. \065 is 'A'), and
// any other character passes through unescaped.
func (s *Scanner) scanEscape(loc token.Location) (rune, error) {
	s.advance() // consume '\\'

	switch s.cur {
	case 'n':
		s.advance()
		return '\n', nil
	case 'r':
		s.advance()
		return '\r', nil
	case 't':
		s.advance()
		return '\t', nil
	case '0':
		s.advance()
		var digits strings.Builder
		for s.cur >= '0' && s.cur <= '9' {
			digits.WriteRune(s.cur)
			s.advance()
		}
		n, err := strconv.ParseUint(digits.String(), 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%s: failed to parse numeric literal from '%s'", loc, digits.String())
		}
		return rune(n), nil
	case eof:
		return 0, fmt.Errorf("%s: unexpected end of file in string literal", loc)
	default:
		r := s.cur
		s.advance()
		return r, nil
	}
}

// isNumericCandidate is a cheap, permissive pre-filter: anything that could
// plausibly be a number (so toNumeric is worth trying) before falling back
// to treating the text as a word.
func isNumericCandidate(text string) bool {
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0b") {
		return true
	}
	for _, c := range text {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		case c == '.' || c == '-' || c == 'e' || c == 'E' || c == '_':
		default:
			return false
		}
	}
	return true
}

// ParseNumber exposes the tokenizer's numeric grammar to the compiler,
// which re-attempts it (per §4.F) on a Word token's text that the
// dictionary failed to resolve, before giving up and compiling it as a
// forward-referenced Execute.
func ParseNumber(text string) (token.NumberValue, bool) {
	if !isNumericCandidate(text) {
		return token.NumberValue{}, false
	}
	return toNumeric(text)
}

// toNumeric attempts the real parse: 0x/0b integer literals, '_' as a
// readability separator, a '.' anywhere selecting float over int. Returns
// ok == false on any parse failure, letting the caller fall back to Word.
func toNumeric(text string) (token.NumberValue, bool) {
	switch {
	case strings.HasPrefix(text, "0x"):
		n, err := strconv.ParseInt(strings.ReplaceAll(text[2:], "_", ""), 16, 64)
		if err != nil {
			return token.NumberValue{}, false
		}
		return token.NumberValue{Kind: token.IntNumber, Int: n}, true

	case strings.HasPrefix(text, "0b"):
		n, err := strconv.ParseInt(strings.ReplaceAll(text[2:], "_", ""), 2, 64)
		if err != nil {
			return token.NumberValue{}, false
		}
		return token.NumberValue{Kind: token.IntNumber, Int: n}, true

	case strings.Contains(text, "."):
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			return token.NumberValue{}, false
		}
		return token.NumberValue{Kind: token.FloatNumber, Float: f}, true

	default:
		n, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 10, 64)
		if err != nil {
			return token.NumberValue{}, false
		}
		return token.NumberValue{Kind: token.IntNumber, Int: n}, true
	}
}
