// Package header decodes the encoded-words in every field of a raw message
// header block.
package header

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/textproto"

	"github.com/modfin/rfc2047"

	msgtextproto "github.com/emersion/go-message/textproto"
)

// Block is a raw header block, everything before the empty line that
// separates the header from the body.
type Block struct {
	// UTF8 is true when the message was received with SMTPUTF8
	UTF8 bool

	Raw []byte
}

// Field is a single header field with its value decoded.
type Field struct {
	Key   string
	Value string
}

// NewBlock returns the header block of message, the body is ignored.
func NewBlock(message []byte, utf8 bool) *Block {
	return &Block{UTF8: utf8, Raw: Split(message)}
}

// Split returns the header part of message including the terminating empty
// line. If there is no empty line the whole message is a header.
func Split(message []byte) []byte {
	end := len(message)
	if i := bytes.Index(message, []byte("\r\n\r\n")); i >= 0 {
		end = i + 4
	}
	if i := bytes.Index(message, []byte("\n\n")); i >= 0 && i+2 < end {
		end = i + 2
	}
	return message[:end]
}

// Fields decodes all header fields in the order they appear. A field that
// cannot be decoded keeps its raw value; the failures are joined into the
// returned error, each prefixed with the field name.
func (b *Block) Fields(d *rfc2047.Decoder) ([]Field, error) {
	if d == nil {
		d = rfc2047.NewDecoder()
	}

	h, err := msgtextproto.ReadHeader(bufio.NewReader(bytes.NewReader(b.terminated())))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", err)
	}

	// If UTF8 is true, there should not be any need for decoding...
	// And there are no charset encoding blocks =?charset?[b/q]?<data>?=
	decode := !b.UTF8 || bytes.Contains(b.Raw, []byte("=?"))

	var (
		fields []Field
		errs   error
	)
	fs := h.Fields()
	for fs.Next() {
		key := textproto.CanonicalMIMEHeaderKey(fs.Key())
		value := fs.Value()
		if decode {
			decoded, err := d.DecodeString(value)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("%s: %w", key, err))
			} else {
				value = decoded
			}
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields, errs
}

// MIMEHeader decodes the header block into a textproto.MIMEHeader, see Fields.
func (b *Block) MIMEHeader(d *rfc2047.Decoder) (textproto.MIMEHeader, error) {
	fields, err := b.Fields(d)
	if fields == nil && err != nil {
		return nil, err
	}
	h := make(textproto.MIMEHeader, len(fields))
	for _, f := range fields {
		h.Add(f.Key, f.Value)
	}
	return h, err
}

// terminated returns Raw ending with an empty line
func (b *Block) terminated() []byte {
	raw := b.Raw
	if bytes.HasSuffix(raw, []byte("\n\n")) || bytes.HasSuffix(raw, []byte("\r\n\r\n")) {
		return raw
	}
	out := make([]byte, 0, len(raw)+4)
	out = append(out, raw...)
	if len(out) > 0 && !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\r', '\n')
	}
	return append(out, '\r', '\n')
}
