package download

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding of the child output
const DefaultEncoding = "utf-8"

// lookupEncoding resolves a WHATWG encoding label such as "windows-1252".
// UTF-8 returns nil, no transformation is needed.
func lookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported output encoding %q: %w", label, err)
	}
	return enc, nil
}

func decodingReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}
