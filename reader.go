package rfc2047

import (
	"errors"
	"fmt"
	"io"
)

type ReaderError string

func (e ReaderError) Error() string {
	return string(e)
}

const LimitError ReaderError = "read limit reached"

// limitedReader works like io.LimitReader but ends with LimitError instead of
// a plain io.EOF once N bytes were read. readInput gives it one byte more than
// the limit, so input of exactly the limit still ends with io.EOF.
type limitedReader struct {
	R io.Reader // underlying reader
	N int64     // max bytes remaining
}

func (l *limitedReader) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, errors.Join(io.EOF, LimitError)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.R.Read(p)
	l.N -= int64(n)
	return
}

// readInput reads all of r, failing with ErrParseBytes once more than limit
// bytes were seen. A non-positive limit reads without limit.
func readInput(r io.Reader, limit int) ([]byte, error) {
	if limit > 0 {
		r = &limitedReader{R: r, N: int64(limit) + 1}
	}
	b, err := io.ReadAll(r)
	if errors.Is(err, LimitError) {
		return nil, &Error{Kind: ErrParseBytes, Err: fmt.Errorf("input exceeds limit of %d bytes: %w", limit, err)}
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}
