package rfc2047

import (
	"errors"
	"fmt"
	"slices"
)

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentEncodedWord
)

const (
	encodingBase64          = 'B'
	encodingQuotedPrintable = 'Q'
)

// segment is a node of the parsed document
type segment struct {
	kind segmentKind

	// raw is the input covered by the segment, for literals it is also the text
	raw []byte

	charset  string
	encoding byte
	text     []byte

	// fold marks whitespace that only separates two encoded-words,
	// RFC 2047 section 6.2 says it is not displayed
	fold bool
}

type document []segment

// appendLiteral adds raw as literal text, merging it into a preceding literal.
func (d document) appendLiteral(raw []byte) document {
	if n := len(d); n > 0 && d[n-1].kind == segmentLiteral {
		d[n-1].raw = slices.Concat(d[n-1].raw, raw)
		return d
	}
	return append(d, segment{kind: segmentLiteral, raw: raw})
}

// parse validates the encoded-word tokens and builds the document. Invalid
// words are handled according to the recover strategy: kept as encoded-words,
// demoted to literal text or reported.
func parse(tokens []token, cfg Config) (document, error) {
	var (
		doc     document
		tooLong []string
	)
	for _, t := range tokens {
		if t.kind == tokenText {
			doc = doc.appendLiteral(t.raw)
			continue
		}

		seg, perr := parseEncodedWord(t, cfg)
		if perr == nil {
			doc = append(doc, seg)
			continue
		}

		switch cfg.RecoverStrategy {
		case RecoverSkip:
			doc = doc.appendLiteral(t.raw)
		case RecoverDecode:
			switch {
			case perr.Kind == ErrEncodingTooBig:
				return nil, perr
			case perr.Kind == ErrEncodedWordTooLong:
				if serr := checkEncodedTextSize(t, cfg); serr != nil {
					return nil, serr
				}
				doc = append(doc, seg)
			case perr.Kind == ErrEncodingEmpty && seg.charset != "":
				doc = append(doc, seg)
			default:
				doc = doc.appendLiteral(t.raw)
			}
		default:
			if perr.Kind == ErrEncodedWordTooLong {
				tooLong = append(tooLong, string(t.raw))
				continue
			}
			return nil, perr
		}
		logRecovered(cfg, "recovered invalid encoded word", perr.Kind, t.raw)
	}

	if len(tooLong) > 0 {
		return nil, &Error{Kind: ErrEncodedWordTooLong, Words: tooLong}
	}

	for i := 1; i+1 < len(doc); i++ {
		if doc[i].kind == segmentLiteral &&
			doc[i-1].kind == segmentEncodedWord &&
			doc[i+1].kind == segmentEncodedWord &&
			isWhitespace(doc[i].raw) {
			doc[i].fold = true
		}
	}
	return doc, nil
}

// parseEncodedWord returns the segment for t and the first rule it breaks.
// The segment is filled in as far as validation got.
func parseEncodedWord(t token, cfg Config) (segment, *Error) {
	seg := segment{
		kind:    segmentEncodedWord,
		raw:     t.raw,
		charset: string(t.charset),
		text:    t.text,
	}

	if len(t.charset) == 0 {
		return seg, newError(ErrEncodingEmpty, t.raw, errors.New("empty charset"))
	}
	if len(t.encoding) != 1 {
		return seg, newError(ErrEncoding, t.raw, fmt.Errorf("encoding %q", t.encoding))
	}
	switch t.encoding[0] {
	case 'B', 'b':
		seg.encoding = encodingBase64
	case 'Q', 'q':
		seg.encoding = encodingQuotedPrintable
	default:
		return seg, newError(ErrEncoding, t.raw, fmt.Errorf("encoding %q", t.encoding))
	}

	if len(t.text) == 0 {
		return seg, newError(ErrEncodingEmpty, t.raw, errors.New("empty encoded text"))
	}
	if len(t.raw) > MaxEncodedWordLength {
		return seg, newError(ErrEncodedWordTooLong, t.raw, nil)
	}
	return seg, checkEncodedTextSize(t, cfg)
}

// checkEncodedTextSize bounds the encoded text of a word that is decoded
// regardless of its length
func checkEncodedTextSize(t token, cfg Config) *Error {
	if cfg.MaxEncodedTextSize > 0 && len(t.text) > cfg.MaxEncodedTextSize {
		return newError(ErrEncodingTooBig, t.raw,
			fmt.Errorf("%d bytes exceeds limit of %d bytes", len(t.text), cfg.MaxEncodedTextSize))
	}
	return nil
}
