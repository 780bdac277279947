// Package charset resolves text-encoding labels for configuration files
// written by recorders that predate UTF-8.
package charset

import (
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultName is the canonical name of the fallback encoding
const DefaultName = "utf-8"

// Charset is a resolved encoding
type Charset struct {
	Name     string
	Fallback bool // label was given but not recognized
	enc      encoding.Encoding
}

// UTF8 returns the default charset
func UTF8() Charset {
	return Charset{Name: DefaultName, enc: unicode.UTF8}
}

// Lookup resolves a WHATWG encoding label such as "latin1", "windows-1251"
// or "shift_jis". An empty label yields UTF-8; an unknown label also yields
// UTF-8 with Fallback set, and is not an error.
func Lookup(label string) Charset {
	label = strings.TrimSpace(label)
	if label == "" {
		return UTF8()
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		log.Debug().Str("label", label).Msg("Unknown encoding label, using utf-8")
		cs := UTF8()
		cs.Fallback = true
		return cs
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return Charset{Name: name, enc: enc}
}

// Decode converts b to UTF-8. A leading byte order mark overrides the
// charset, and malformed sequences become U+FFFD.
func (c Charset) Decode(b []byte) ([]byte, error) {
	enc := c.enc
	if enc == nil {
		enc = unicode.UTF8
	}
	decoder := unicode.BOMOverride(enc.NewDecoder())
	out, _, err := transform.Bytes(decoder, b)
	if err != nil {
		return nil, err
	}
	return out, nil
}
