package rfc2047

const (
	Name    = "rfc2047"
	Version = "0.1.0"
)

// MaxEncodedWordLength is the longest encoded-word, delimiters included,
// allowed by RFC 2047 section 2.
const MaxEncodedWordLength = 75

const (
	prefix = "=?"
	suffix = "?="

	questionMark = '?'
	underscore   = '_'
	space        = ' '
)

const (
	defaultMaxInputSize       = 1 << 20 // 1 Mebibyte
	defaultMaxEncodedTextSize = 1 << 16 // 64 Kibibytes
)

// especials as defined in RFC 2047 section 2, may not appear in a charset or
// encoding token
const especials = `()<>@,;:"/[]?.=`
