package rfc2047

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(s RecoverStrategy) Config {
	cfg := Config{RecoverStrategy: s}
	cfg.setDefaults()
	return cfg
}

type simpleToken struct {
	kind tokenKind
	raw  string
}

func simplify(tokens []token) []simpleToken {
	var out []simpleToken
	for _, t := range tokens {
		out = append(out, simpleToken{kind: t.kind, raw: string(t.raw)})
	}
	return out
}

func TestLexEncodedWord(t *testing.T) {
	tokens, err := lex([]byte("=?ISO-8859-1?Q?Yeet?="), testConfig(RecoverFail))
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	assert.Equal(t, tokenEncodedWord, tokens[0].kind)
	assert.Equal(t, "ISO-8859-1", string(tokens[0].charset))
	assert.Equal(t, "Q", string(tokens[0].encoding))
	assert.Equal(t, "Yeet", string(tokens[0].text))
	assert.Equal(t, "=?ISO-8859-1?Q?Yeet?=", string(tokens[0].raw))
}

func TestLex(t *testing.T) {
	word := func(s string) simpleToken { return simpleToken{kind: tokenEncodedWord, raw: s} }
	text := func(s string) simpleToken { return simpleToken{kind: tokenText, raw: s} }

	tests := []struct {
		name  string
		input string
		want  []simpleToken
	}{
		{
			name:  "Empty",
			input: "",
			want:  nil,
		},
		{
			name:  "Clear text",
			input: "I use Arch by the way",
			want:  []simpleToken{text("I use Arch by the way")},
		},
		{
			name:  "Word followed by text",
			input: "=?ISO-8859-1?Q?a?= b",
			want:  []simpleToken{word("=?ISO-8859-1?Q?a?="), text(" b")},
		},
		{
			name:  "Text around word",
			input: "Subject: =?UTF-8?B?c3Ry?= here",
			want:  []simpleToken{text("Subject: "), word("=?UTF-8?B?c3Ry?="), text(" here")},
		},
		{
			name:  "Words separated by whitespace",
			input: "=?ISO-8859-1?Q?a?=\r\n =?ISO-8859-1?Q?b?=",
			want:  []simpleToken{word("=?ISO-8859-1?Q?a?="), text("\r\n "), word("=?ISO-8859-1?Q?b?=")},
		},
		{
			name:  "Words without separator",
			input: "=?UTF-8?Q?a?==?UTF-8?Q?b?=",
			want:  []simpleToken{word("=?UTF-8?Q?a?="), word("=?UTF-8?Q?b?=")},
		},
		{
			name:  "Especial in charset",
			input: "=?ISO-8859-1(?Q?a?=",
			want:  []simpleToken{text("=?ISO-8859-1(?Q?a?=")},
		},
		{
			name:  "Space in encoded text",
			input: "=?UTF-8?Q?a b?=",
			want:  []simpleToken{text("=?UTF-8?Q?a b?=")},
		},
		{
			name:  "Unterminated word before a word",
			input: "=?a?b =?UTF-8?Q?x?=",
			want:  []simpleToken{text("=?a?b "), word("=?UTF-8?Q?x?=")},
		},
		{
			name:  "Unterminated word at end",
			input: "x =?UTF-8?Q?abc",
			want:  []simpleToken{text("x =?UTF-8?Q?abc")},
		},
		{
			name:  "Lone prefix",
			input: "=?",
			want:  []simpleToken{text("=?")},
		},
		{
			name:  "Equal sign before word",
			input: "==?UTF-8?Q?a?=",
			want:  []simpleToken{text("="), word("=?UTF-8?Q?a?=")},
		},
		{
			name:  "Empty encoded text",
			input: "=?UTF-8?B??=",
			want:  []simpleToken{word("=?UTF-8?B??=")},
		},
		{
			name:  "Empty charset",
			input: "=??Q?abc?=",
			want:  []simpleToken{word("=??Q?abc?=")},
		},
		{
			name:  "Multi letter encoding",
			input: "=?UTF-8?base64?abc?=",
			want:  []simpleToken{word("=?UTF-8?base64?abc?=")},
		},
		{
			name:  "Non ASCII text",
			input: "Grüße =?UTF-8?Q?a?=",
			want:  []simpleToken{text("Grüße "), word("=?UTF-8?Q?a?=")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lex([]byte(tt.input), testConfig(RecoverFail))
			require.NoError(t, err)
			assert.Equal(t, tt.want, simplify(tokens))
		})
	}
}

func TestLexFieldsAreIsolated(t *testing.T) {
	input := []byte("=?UTF-8?Q?ab?=")
	tokens, err := lex(input, testConfig(RecoverFail))
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	_ = append(tokens[0].charset, 'X')
	_ = append(tokens[0].text, 'X')
	assert.Equal(t, "=?UTF-8?Q?ab?=", string(input))
}

func TestLexInputLimit(t *testing.T) {
	cfg := testConfig(RecoverFail)
	cfg.MaxInputSize = 8

	_, err := lex([]byte("12345678"), cfg)
	require.NoError(t, err)

	_, err = lex([]byte("123456789"), cfg)
	assert.ErrorIs(t, err, ErrParseBytes)

	cfg.MaxInputSize = -1
	tokens, err := lex([]byte(strings.Repeat("a", defaultMaxInputSize+1)), cfg)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}
