package rfc2047

import (
	"strings"
)

// Kind identifies the class of a decoding failure. A Kind is itself an error so
// that errors.Is(err, ErrDecodeBase64) matches any *Error of that kind.
type Kind int

const (
	// ErrParseBytes the input could not be segmented at all
	ErrParseBytes Kind = iota + 1
	// ErrEncodedWordTooLong an encoded-word is longer than MaxEncodedWordLength
	ErrEncodedWordTooLong
	// ErrEncoding the encoding is neither B nor Q
	ErrEncoding
	// ErrEncodingEmpty the charset or the encoded text is empty
	ErrEncodingEmpty
	// ErrEncodingTooBig the encoded text exceeds the configured safety bound
	ErrEncodingTooBig
	// ErrDecodeBase64 the encoded text is not valid base64
	ErrDecodeBase64
	// ErrDecodeQuotedPrintable the encoded text has a malformed =XX escape
	ErrDecodeQuotedPrintable
	// ErrDecodeUTF8 text that should be UTF-8 is not
	ErrDecodeUTF8
	// ErrDecodeCharset the charset is unknown or could not convert the text
	ErrDecodeCharset
)

var kindText = map[Kind]string{
	ErrParseBytes:            "cannot parse bytes into tokens",
	ErrEncodedWordTooLong:    "encoded word too long",
	ErrEncoding:              "unsupported encoding",
	ErrEncodingEmpty:         "empty charset or encoded text",
	ErrEncodingTooBig:        "encoded text too big",
	ErrDecodeBase64:          "invalid base64",
	ErrDecodeQuotedPrintable: "invalid quoted-printable",
	ErrDecodeUTF8:            "invalid utf-8",
	ErrDecodeCharset:         "cannot decode charset",
}

func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return "unknown error"
}

func (k Kind) String() string {
	return k.Error()
}

// Error is the single error type returned by the decoder.
type Error struct {
	Kind Kind

	// Words holds the offending encoded-words as they appeared in the input,
	// when the failure can be attributed to them.
	Words []string

	// Err is the underlying cause, if any
	Err error
}

func newError(kind Kind, word []byte, err error) *Error {
	e := &Error{Kind: kind, Err: err}
	if word != nil {
		e.Words = []string{string(word)}
	}
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(Name)
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if len(e.Words) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Words, ", "))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
