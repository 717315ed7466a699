// Package legacy converts between UTF-8 and the multi-byte encoding the
// hosting site speaks (GBK unless configured otherwise).
package legacy

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// DefaultLabel is the encoding label used when none is configured.
const DefaultLabel = "gbk"

const hexDigits = "0123456789ABCDEF"

// UnknownEncodingError reports a label that charset.Lookup does not know.
type UnknownEncodingError struct {
	Label string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding label %q", e.Label)
}

// Codec encodes search queries and decodes document bytes for one encoding.
type Codec struct {
	name string
	enc  encoding.Encoding
}

var defaultCodec = &Codec{name: DefaultLabel, enc: simplifiedchinese.GBK}

// Default returns the GBK codec.
func Default() *Codec { return defaultCodec }

// Lookup resolves a WHATWG encoding label such as "gbk" or "gb18030".
// An empty label yields the default codec.
func Lookup(label string) (*Codec, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return defaultCodec, nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, &UnknownEncodingError{Label: label}
	}
	return &Codec{name: name, enc: enc}, nil
}

// Name is the canonical name of the encoding.
func (c *Codec) Name() string { return c.name }

// EncodeQuery converts text to the legacy encoding and renders every byte as
// an uppercase %XX escape. Code points the encoding cannot represent are
// written as HTML numeric character references, so this never fails.
func (c *Codec) EncodeQuery(text string) string {
	raw := c.encodeBytes(text)
	var b strings.Builder
	b.Grow(len(raw) * 3)
	for _, v := range raw {
		b.WriteByte('%')
		b.WriteByte(hexDigits[v>>4])
		b.WriteByte(hexDigits[v&0x0f])
	}
	return b.String()
}

func (c *Codec) encodeBytes(text string) []byte {
	text = strings.ToValidUTF8(text, "\uFFFD")
	// Unsupported runes are escaped rather than reported, so err is only set
	// for transformer faults; keep whatever was produced.
	out, _ := encoding.HTMLEscapeUnsupported(c.enc.NewEncoder()).Bytes([]byte(text))
	return out
}

// DecodeDocument interprets b in the legacy encoding. Invalid sequences
// decode to U+FFFD.
func (c *Codec) DecodeDocument(b []byte) string {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}

// DecodePage decodes a page in the charset its Content-Type declares and
// falls back to UTF-8 when none (or an unknown one) is declared. The result
// is always valid UTF-8.
func DecodePage(b []byte, contentType string) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if label := params["charset"]; label != "" {
			if c, err := Lookup(label); err == nil {
				return strings.ToValidUTF8(c.DecodeDocument(b), "\uFFFD")
			}
		}
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// EncodeQuery uses the default GBK codec.
func EncodeQuery(text string) string { return defaultCodec.EncodeQuery(text) }

// DecodeDocument uses the default GBK codec.
func DecodeDocument(b []byte) string { return defaultCodec.DecodeDocument(b) }
