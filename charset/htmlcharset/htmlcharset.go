// Package htmlcharset enables golang.org/x/net/html/charset for resolving
// charset labels that the built-in table does not know.
// golang.org/x/net/html/charset follows the WHATWG label list, which covers a
// larger range of legacy aliases than the IANA registry.
// When importing, place an underscore _ in front to import for side-effects.
package htmlcharset

import (
	"fmt"

	"github.com/modfin/rfc2047/charset"
	"golang.org/x/text/encoding"

	cs "golang.org/x/net/html/charset"
)

func init() {
	charset.Default().SetFallback(Lookup)
}

// Lookup resolves label using the WHATWG encoding labels.
func Lookup(label string) (encoding.Encoding, error) {
	enc, _ := cs.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("%w: %q", charset.ErrUnknown, label)
	}
	return enc, nil
}
