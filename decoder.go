// Package rfc2047 decodes MIME encoded-words (RFC 2047) found in message
// header values.
//
//	s, err := rfc2047.DecodeString("=?UTF-8?Q?encoded_str_with_symbol_=E2=82=AC?=")
//	// s == "encoded str with symbol €"
//
// Decoding runs in three stages: the input is split into text and
// encoded-word tokens, the tokens are validated into a document, and the
// document is evaluated to a string. A Decoder carries the configuration,
// most importantly the RecoverStrategy applied to invalid encoded-words.
package rfc2047

import (
	"io"
	"log/slog"

	"github.com/modfin/rfc2047/charset"
)

// Decoder decodes header values. The zero value is ready to use and behaves
// like NewDecoder(). A Decoder is never mutated by decoding and may be shared
// between goroutines; the With methods return modified copies.
type Decoder struct {
	cfg Config
}

// NewDecoder returns a decoder with the default configuration, which fails
// on any invalid encoded-word.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.cfg.setDefaults()
	return d
}

// NewDecoderWithConfig returns a decoder for cfg, unset values are defaulted.
func NewDecoderWithConfig(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &Decoder{cfg: cfg}, nil
}

// Config returns the configuration in effect.
func (d *Decoder) Config() Config {
	cfg := d.cfg
	cfg.setDefaults()
	return cfg
}

func (d *Decoder) with(fn func(cfg *Config)) *Decoder {
	c := &Decoder{cfg: d.cfg}
	fn(&c.cfg)
	return c
}

// WithRecoverStrategy returns a copy of d that applies s.
func (d *Decoder) WithRecoverStrategy(s RecoverStrategy) *Decoder {
	return d.with(func(cfg *Config) { cfg.RecoverStrategy = s })
}

// WithLogger returns a copy of d logging to l.
func (d *Decoder) WithLogger(l *slog.Logger) *Decoder {
	return d.with(func(cfg *Config) { cfg.Log = l })
}

// WithCharsets returns a copy of d resolving charsets with r.
func (d *Decoder) WithCharsets(r *charset.Registry) *Decoder {
	return d.with(func(cfg *Config) { cfg.Charsets = r })
}

// WithMaxInputSize returns a copy of d with the input limit set to n bytes.
func (d *Decoder) WithMaxInputSize(n int) *Decoder {
	return d.with(func(cfg *Config) { cfg.MaxInputSize = n })
}

// WithMaxEncodedTextSize returns a copy of d with the per word limit set to n bytes.
func (d *Decoder) WithMaxEncodedTextSize(n int) *Decoder {
	return d.with(func(cfg *Config) { cfg.MaxEncodedTextSize = n })
}

// Decode decodes all encoded-words in input. Whitespace between adjacent
// encoded-words is removed, all other text is kept as is. The returned error,
// if any, is an *Error.
func (d *Decoder) Decode(input []byte) (string, error) {
	cfg := d.Config()

	tokens, err := lex(input, cfg)
	if err != nil {
		return "", err
	}
	doc, err := parse(tokens, cfg)
	if err != nil {
		return "", err
	}
	return evaluate(doc, cfg)
}

// DecodeString is like Decode for string input.
func (d *Decoder) DecodeString(s string) (string, error) {
	return d.Decode([]byte(s))
}

// DecodeReader reads r to the end and decodes it. Input larger than the
// configured MaxInputSize fails with ErrParseBytes without reading further.
func (d *Decoder) DecodeReader(r io.Reader) (string, error) {
	b, err := readInput(r, d.Config().MaxInputSize)
	if err != nil {
		return "", err
	}
	return d.Decode(b)
}

var std = NewDecoder()

// Decode decodes input with the default configuration.
func Decode(input []byte) (string, error) {
	return std.Decode(input)
}

// DecodeString decodes s with the default configuration.
func DecodeString(s string) (string, error) {
	return std.DecodeString(s)
}
