package rfc2047

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/modfin/rfc2047/charset"
)

const replacementChar = "\uFFFD"

// evaluate decodes every segment and joins them in document order. Folded
// whitespace is left out unless one of the encoded-words around it was kept
// in its raw form, then it is whitespace next to text and stays.
func evaluate(doc document, cfg Config) (string, error) {
	var (
		sb      strings.Builder
		pending []byte
		prevRaw bool
	)
	for _, seg := range doc {
		if seg.fold {
			if prevRaw {
				sb.Write(seg.raw)
			} else {
				pending = seg.raw
			}
			continue
		}

		if seg.kind == segmentLiteral {
			if err := evaluateLiteral(seg); err != nil {
				return "", err
			}
			sb.Write(seg.raw)
			pending, prevRaw = nil, false
			continue
		}

		s, raw, err := evaluateEncodedWord(seg, cfg)
		if err != nil {
			return "", err
		}
		if raw {
			sb.Write(pending)
		}
		sb.WriteString(s)
		pending, prevRaw = nil, raw
	}
	return sb.String(), nil
}

// evaluateLiteral checks that text outside of encoded-words is utf-8, there is
// no charset to interpret it with so no strategy recovers it.
func evaluateLiteral(seg segment) error {
	if utf8.Valid(seg.raw) {
		return nil
	}
	return &Error{Kind: ErrDecodeUTF8, Err: errors.New("text outside of encoded words is not utf-8")}
}

// evaluateEncodedWord decodes seg. raw reports that the word was kept as it
// appeared in the input instead.
func evaluateEncodedWord(seg segment, cfg Config) (s string, raw bool, err error) {
	var b []byte
	switch seg.encoding {
	case encodingBase64:
		b, err = decodeBase64(seg.text)
		if err != nil {
			return "", false, newError(ErrDecodeBase64, seg.raw, err)
		}
	default:
		b, err = decodeQ(seg.text)
		if err != nil {
			return "", false, newError(ErrDecodeQuotedPrintable, seg.raw, err)
		}
	}

	s, err = cfg.Charsets.Decode(seg.charset, b)
	if err == nil {
		return s, false, nil
	}

	kind := ErrDecodeCharset
	if errors.Is(err, charset.ErrInvalidUTF8) {
		kind = ErrDecodeUTF8
	}
	switch cfg.RecoverStrategy {
	case RecoverSkip:
		logRecovered(cfg, "kept undecodable encoded word", kind, seg.raw)
		return string(seg.raw), true, nil
	case RecoverDecode:
		if kind == ErrDecodeUTF8 {
			return strings.ToValidUTF8(string(b), replacementChar), false, nil
		}
	}
	return "", false, newError(kind, seg.raw, err)
}

// decodeBase64 uses the standard alphabet with padding, non-zero trailing
// bits are tolerated
func decodeBase64(text []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// decodeQ decodes the RFC 2047 "Q" encoding: =XX escapes and "_" for space.
func decodeQ(text []byte) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case underscore:
			out = append(out, space)
		case '=':
			if i+2 >= len(text) {
				return nil, fmt.Errorf("truncated escape %q at byte %d", text[i:], i)
			}
			var b [1]byte
			if _, err := hex.Decode(b[:], text[i+1:i+3]); err != nil {
				return nil, fmt.Errorf("escape %q at byte %d: %w", text[i:i+3], i, err)
			}
			out = append(out, b[0])
			i += 2
		default:
			out = append(out, c)
		}
	}
	return out, nil
}
