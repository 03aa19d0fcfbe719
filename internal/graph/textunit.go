package graph

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// TextUnit is one extracted text value. Raw records whether the field held a
// byte buffer in the source graph; a raw unit must be written back as bytes.
type TextUnit struct {
	Text string
	Raw  bool
}

// TextCodec converts between native strings and the legacy byte-buffer
// representation some documents use for text fields.
type TextCodec struct {
	enc encoding.Encoding // nil means UTF-8 passthrough
}

// NewTextCodec creates a codec for the named source encoding.
// Supported names: "utf8" (or empty) and "sjis".
func NewTextCodec(name string) (*TextCodec, error) {
	switch name {
	case "", "utf8", "utf-8":
		return &TextCodec{}, nil
	case "sjis", "shift-jis", "shift_jis":
		return &TextCodec{enc: japanese.ShiftJIS}, nil
	}
	return nil, fmt.Errorf("unknown source encoding %q", name)
}

// DecodeBytes converts a raw text buffer to a native string.
func (c *TextCodec) DecodeBytes(b []byte) (string, error) {
	if c.enc == nil {
		return string(b), nil
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode text buffer: %w", err)
	}
	return string(out), nil
}

// EncodeBytes converts a native string back to a raw text buffer.
func (c *TextCodec) EncodeBytes(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode text buffer: %w", err)
	}
	return out, nil
}

// Unit interprets a graph value as text. Non-text values report false.
func (c *TextCodec) Unit(v any) (TextUnit, bool) {
	switch t := v.(type) {
	case string:
		return TextUnit{Text: t}, true
	case []byte:
		s, err := c.DecodeBytes(t)
		if err != nil {
			return TextUnit{}, false
		}
		return TextUnit{Text: s, Raw: true}, true
	}
	return TextUnit{}, false
}
