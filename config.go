package rfc2047

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modfin/rfc2047/charset"
)

// RecoverStrategy selects what happens to encoded-words that break the rules.
type RecoverStrategy int

const (
	// RecoverFail aborts the decode with an error
	RecoverFail RecoverStrategy = iota
	// RecoverSkip keeps the offending encoded-word as literal text
	RecoverSkip
	// RecoverDecode decodes the encoded-word anyway, where that is possible
	RecoverDecode
)

var strategyNames = map[RecoverStrategy]string{
	RecoverFail:   "fail",
	RecoverSkip:   "skip",
	RecoverDecode: "decode",
}

func (s RecoverStrategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RecoverStrategy(%d)", int(s))
}

// ParseRecoverStrategy parses the names "fail", "skip" and "decode".
func ParseRecoverStrategy(name string) (RecoverStrategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return RecoverFail, fmt.Errorf("unknown recover strategy %q", name)
}

func (s RecoverStrategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("unknown recover strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *RecoverStrategy) UnmarshalText(b []byte) error {
	v, err := ParseRecoverStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Config is the holder of the decoder configuration
type Config struct {
	// Log receives debug records about recovered encoded-words.
	// Defaults to a logger that discards everything
	Log *slog.Logger `json:"-" yaml:"-"`

	// RecoverStrategy defaults to RecoverFail
	RecoverStrategy RecoverStrategy `json:"recover_strategy" yaml:"recover_strategy"`

	// MaxInputSize is the largest input that is scanned at all.
	// Defaults to 1 Mebibyte, a negative value disables the limit
	MaxInputSize int `json:"max_input_size" yaml:"max_input_size"`

	// MaxEncodedTextSize bounds the encoded text of a single encoded-word, it
	// matters when oversized words are decoded anyway.
	// Defaults to 64 Kibibytes, a negative value disables the limit
	MaxEncodedTextSize int `json:"max_encoded_text_size" yaml:"max_encoded_text_size"`

	// Charsets resolves charset names. Defaults to charset.Default()
	Charsets *charset.Registry `json:"-" yaml:"-"`
}

// setDefaults fills in the values that were not configured
func (c *Config) setDefaults() {
	if c.Log == nil {
		c.Log = noopLogger()
	}
	if c.MaxInputSize == 0 {
		c.MaxInputSize = defaultMaxInputSize
	}
	if c.MaxEncodedTextSize == 0 {
		c.MaxEncodedTextSize = defaultMaxEncodedTextSize
	}
	if c.Charsets == nil {
		c.Charsets = charset.Default()
	}
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	var err error
	if _, ok := strategyNames[c.RecoverStrategy]; !ok {
		err = errors.Join(err, fmt.Errorf("unknown recover strategy %d", int(c.RecoverStrategy)))
	}
	if c.MaxInputSize > 0 && c.MaxEncodedTextSize > c.MaxInputSize {
		err = errors.Join(err, fmt.Errorf("max encoded text size %d is larger than max input size %d",
			c.MaxEncodedTextSize, c.MaxInputSize))
	}
	return err
}
