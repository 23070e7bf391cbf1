package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/modfin/rfc2047"
	"github.com/modfin/rfc2047/header"
)

type options struct {
	strategy   string
	configPath string
	headers    bool
	smtputf8   bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rfc2047 [flags] [text...]",
		Short: "Decode RFC 2047 encoded-words",
		Long: "Decodes every argument and prints one line per argument.\n" +
			"Without arguments each line read from stdin is decoded.\n" +
			"With --headers stdin is read as a message and every field of its header is decoded.",
		Version:       rfc2047.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(cmd.ErrOrStderr(), opts.verbose)

			d, err := newDecoder(opts, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case opts.headers:
				return decodeHeaders(d, cmd.InOrStdin(), out, opts.smtputf8)
			case len(args) > 0:
				return decodeArgs(d, args, out)
			default:
				return decodeLines(d, cmd.InOrStdin(), out)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.strategy, "strategy", "s", "", "Recover strategy for invalid encoded-words: fail, skip or decode (overrides the config file)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	flags.BoolVar(&opts.headers, "headers", false, "Read a message from stdin and decode its header fields")
	flags.BoolVar(&opts.smtputf8, "smtputf8", false, "The message was received with SMTPUTF8, used with --headers")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log recovered encoded-words to stderr")

	return cmd
}

func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if verbose {
		level.Set(slog.LevelDebug)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func decodeArgs(d *rfc2047.Decoder, args []string, out io.Writer) error {
	for _, arg := range args {
		s, err := d.DecodeString(arg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
	}
	return nil
}

func decodeLines(d *rfc2047.Decoder, in io.Reader, out io.Writer) error {
	limit := d.Config().MaxInputSize
	if limit <= 0 {
		limit = bufio.MaxScanTokenSize
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), limit+1)
	line := 0
	for scanner.Scan() {
		line++
		s, err := d.Decode(scanner.Bytes())
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func decodeHeaders(d *rfc2047.Decoder, in io.Reader, out io.Writer, smtputf8 bool) error {
	message, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	fields, decodeErr := header.NewBlock(message, smtputf8).Fields(d)
	for _, f := range fields {
		if _, err := fmt.Fprintf(out, "%s: %s\n", f.Key, f.Value); err != nil {
			return err
		}
	}
	return decodeErr
}
