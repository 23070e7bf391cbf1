package rfc2047

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenEncodedWord
)

// token is either a run of literal text or an encoded-word candidate.
// raw always holds the exact input bytes covered by the token, the other
// fields are sub-slices of raw and are only set for encoded-words.
type token struct {
	kind tokenKind
	raw  []byte

	charset  []byte
	encoding []byte
	text     []byte
}

// lex splits input into text and encoded-word tokens. Nothing is decoded here,
// a =? that cannot be closed as an encoded-word stays part of the text.
func lex(input []byte, cfg Config) ([]token, error) {
	if cfg.MaxInputSize > 0 && len(input) > cfg.MaxInputSize {
		return nil, &Error{
			Kind: ErrParseBytes,
			Err:  fmt.Errorf("input of %d bytes exceeds limit of %d bytes", len(input), cfg.MaxInputSize),
		}
	}

	var tokens []token
	textStart := 0
	for i := 0; i < len(input); {
		if input[i] != prefix[0] || i+1 >= len(input) || input[i+1] != prefix[1] {
			i++
			continue
		}
		word, n := scanEncodedWord(input[i:])
		if n == 0 {
			i++
			continue
		}
		if textStart < i {
			tokens = append(tokens, token{kind: tokenText, raw: input[textStart:i]})
		}
		tokens = append(tokens, word)
		i += n
		textStart = i
	}
	if textStart < len(input) {
		tokens = append(tokens, token{kind: tokenText, raw: input[textStart:]})
	}
	return tokens, nil
}

// scanEncodedWord matches =?charset?encoding?encoded-text?= at the start of b
// and returns the token and its length, or a zero length if b does not start
// with an encoded-word. Empty fields are accepted here and rejected by the
// parser.
func scanEncodedWord(b []byte) (token, int) {
	charsetStart := len(prefix)
	charsetEnd := scanWhile(b, charsetStart, isTokenChar)
	if charsetEnd >= len(b) || b[charsetEnd] != questionMark {
		return token{}, 0
	}

	encodingStart := charsetEnd + 1
	encodingEnd := scanWhile(b, encodingStart, isTokenChar)
	if encodingEnd >= len(b) || b[encodingEnd] != questionMark {
		return token{}, 0
	}

	textStart := encodingEnd + 1
	textEnd := scanWhile(b, textStart, isEncodedTextChar)
	if textEnd+1 >= len(b) || b[textEnd] != suffix[0] || b[textEnd+1] != suffix[1] {
		return token{}, 0
	}

	n := textEnd + len(suffix)
	return token{
		kind:     tokenEncodedWord,
		raw:      b[:n:n],
		charset:  b[charsetStart:charsetEnd:charsetEnd],
		encoding: b[encodingStart:encodingEnd:encodingEnd],
		text:     b[textStart:textEnd:textEnd],
	}, n
}

func scanWhile(b []byte, i int, accept func(byte) bool) int {
	for i < len(b) && accept(b[i]) {
		i++
	}
	return i
}

// isTokenChar any CHAR except SPACE, CTLs and especials
func isTokenChar(c byte) bool {
	return c > space && c < 0x7f && strings.IndexByte(especials, c) < 0
}

// isEncodedTextChar printable ASCII except "?"
func isEncodedTextChar(c byte) bool {
	return c > space && c < 0x7f && c != questionMark
}

func isWhitespace(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return false
		}
	}
	return len(b) > 0
}
