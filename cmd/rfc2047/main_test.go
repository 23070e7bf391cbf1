package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modfin/rfc2047"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rfc2047.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeArgs(t *testing.T) {
	out, _, err := execute(t, "", "=?UTF-8?Q?encoded_str_with_symbol_=E2=82=AC?=", "=?ISO-8859-1?Q?a?= =?ISO-8859-1?Q?b?=")
	require.NoError(t, err)
	assert.Equal(t, "encoded str with symbol €\nab\n", out)
}

func TestDecodeStdinLines(t *testing.T) {
	out, _, err := execute(t, "=?UTF-8?B?c3Ry?=\nplain\n")
	require.NoError(t, err)
	assert.Equal(t, "str\nplain\n", out)
}

func TestStrategyFlag(t *testing.T) {
	input := "=?UTF-8?X?abc?="

	_, _, err := execute(t, "", input)
	assert.ErrorIs(t, err, rfc2047.ErrEncoding)

	out, _, err := execute(t, "", "--strategy", "skip", input)
	require.NoError(t, err)
	assert.Equal(t, input+"\n", out)

	_, _, err = execute(t, "", "--strategy", "ignore", input)
	assert.Error(t, err)
}

func TestVerboseLogsRecovery(t *testing.T) {
	_, stderr, err := execute(t, "", "-v", "-s", "skip", "=?UTF-8?X?abc?=")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "strategy=skip")

	_, stderr, err = execute(t, "", "-s", "skip", "=?UTF-8?X?abc?=")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, `
recover_strategy: decode
max_input_size: 4096
charset_aliases:
  x-company-latin: iso-8859-2
`)

	out, _, err := execute(t, "", "--config", path, "=?x-company-latin?Q?=B1?=", "=?UTF-8?Q??=")
	require.NoError(t, err)
	assert.Equal(t, "ą\n\n", out)

	// the flag wins over the file
	_, _, err = execute(t, "", "--config", path, "--strategy", "fail", "=?UTF-8?Q??=")
	assert.ErrorIs(t, err, rfc2047.ErrEncodingEmpty)
}

func TestConfigFileErrors(t *testing.T) {
	_, _, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "x")
	assert.ErrorContains(t, err, "read config file")

	path := writeConfig(t, "recover_strategy: sometimes\n")
	_, _, err = execute(t, "", "--config", path, "x")
	assert.ErrorContains(t, err, "parse config")

	path = writeConfig(t, "max_input_size: 10\nmax_encoded_text_size: 100\n")
	_, _, err = execute(t, "", "--config", path, "x")
	assert.ErrorContains(t, err, "validate config")
}

func TestDecodeHeaders(t *testing.T) {
	message := "Subject: =?ISO-8859-1?Q?Keld_J=F8rn?=\r\n" +
		"X-Bad: =?UTF-8?X?abc?=\r\n" +
		"\r\n" +
		"=?UTF-8?Q?body_is_not_decoded?=\r\n"

	out, _, err := execute(t, message, "--headers")
	assert.ErrorIs(t, err, rfc2047.ErrEncoding)
	assert.Contains(t, out, "Subject: Keld Jørn\n")
	assert.Contains(t, out, "X-Bad: =?UTF-8?X?abc?=\n")
	assert.NotContains(t, out, "body")

	out, _, err = execute(t, message, "--headers", "--strategy", "skip")
	require.NoError(t, err)
	assert.Contains(t, out, "Subject: Keld Jørn\n")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, rfc2047.Version)
}
