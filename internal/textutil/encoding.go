package textutil

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LookupEncoding resolves a WHATWG charset label such as "utf-8", "latin1" or
// "windows-1252". An empty name means UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// NewReader wraps r so it yields NFC-normalized UTF-8 decoded from the named
// charset. A leading UTF-8 byte order mark is removed.
func NewReader(r io.Reader, charset string) (io.Reader, error) {
	enc, err := LookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	decoder := enc.NewDecoder()
	if enc == unicode.UTF8 || enc == encoding.Nop {
		decoder = unicode.UTF8BOM.NewDecoder()
	}
	return transform.NewReader(r, transform.Chain(decoder, norm.NFC)), nil
}
