package main

import (
	"fmt"
	"log/slog"
	"os"

	"go.yaml.in/yaml/v4"
	"golang.org/x/text/encoding"

	"github.com/modfin/rfc2047"
	"github.com/modfin/rfc2047/charset"
	"github.com/modfin/rfc2047/charset/htmlcharset"
)

// fileConfig is the YAML config file
type fileConfig struct {
	RecoverStrategy    rfc2047.RecoverStrategy `yaml:"recover_strategy"`
	MaxInputSize       int                     `yaml:"max_input_size"`
	MaxEncodedTextSize int                     `yaml:"max_encoded_text_size"`
	// CharsetAliases maps an alias to a charset label, e.g. "x-latin": "iso-8859-1"
	CharsetAliases map[string]string `yaml:"charset_aliases"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &fileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// newDecoder builds the decoder from the config file, the flags take precedence.
func newDecoder(opts options, logger *slog.Logger) (*rfc2047.Decoder, error) {
	cfg := rfc2047.Config{Log: logger}

	if opts.configPath != "" {
		fc, err := loadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg.RecoverStrategy = fc.RecoverStrategy
		cfg.MaxInputSize = fc.MaxInputSize
		cfg.MaxEncodedTextSize = fc.MaxEncodedTextSize
		if len(fc.CharsetAliases) > 0 {
			cfg.Charsets = newRegistry(fc.CharsetAliases)
		}
	}

	if opts.strategy != "" {
		s, err := rfc2047.ParseRecoverStrategy(opts.strategy)
		if err != nil {
			return nil, err
		}
		cfg.RecoverStrategy = s
	}

	if cfg.Charsets == nil {
		cfg.Charsets = newRegistry(nil)
	}

	d, err := rfc2047.NewDecoderWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return d, nil
}

// newRegistry resolves unknown labels through IANA first and the WHATWG labels second
func newRegistry(aliases map[string]string) *charset.Registry {
	r := charset.NewRegistry()
	r.SetFallback(func(label string) (encoding.Encoding, error) {
		if enc, err := charset.IANA(label); err == nil {
			return enc, nil
		}
		return htmlcharset.Lookup(label)
	})
	for alias, name := range aliases {
		r.Alias(alias, name)
	}
	return r
}
