// Package script transcodes the script bundle: a flat ordered list of
// (magic, title, compressed code) triples. The whole decompressed blob is the
// text; no opcode classification applies. The script corpus is index-aligned
// with the bundle, so it keeps duplicates and empty entries.
package script

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"rpgscribe/internal/corpus"
	"rpgscribe/internal/graph"
)

const (
	tripleMagic = 0
	tripleTitle = 1
	tripleCode  = 2
	tripleLen   = 3
)

// Extract appends one escaped line per script triple to the corpus. Triples
// with a missing or empty code blob still contribute a line to keep the
// corpus index-aligned with the bundle.
func Extract(bundle []any, text *graph.TextCodec, c *corpus.Corpus) error {
	for i, item := range bundle {
		code, err := decompressTriple(item, text)
		if err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		c.Add(corpus.Escape(code))
	}
	return nil
}

// Inject rebuilds each triple with the translation at the same index,
// recompressing the code and preserving magic and title. Empty translations
// leave the original triple untouched. The translation line count must match
// the bundle length.
func Inject(bundle []any, text *graph.TextCodec, trans []string) error {
	if len(trans) != len(bundle) {
		return fmt.Errorf("scripts: %d translated lines for %d scripts: %w",
			len(trans), len(bundle), corpus.ErrMismatch)
	}
	for i, item := range bundle {
		if trans[i] == "" {
			continue
		}
		triple, ok := graph.List(item)
		if !ok || len(triple) < tripleLen {
			continue
		}
		raw, err := text.EncodeBytes(corpus.Unescape(trans[i]))
		if err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		packed, err := compress(raw)
		if err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		triple[tripleCode] = packed
	}
	return nil
}

func decompressTriple(item any, text *graph.TextCodec) (string, error) {
	triple, ok := graph.List(item)
	if !ok || len(triple) < tripleLen {
		return "", nil
	}
	blob, ok := triple[tripleCode].([]byte)
	if !ok || len(blob) == 0 {
		return "", nil
	}
	raw, err := decompress(blob)
	if err != nil {
		return "", err
	}
	return text.DecodeBytes(raw)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("compress script: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compress script: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress script: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress script: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress script: %w", err)
	}
	return raw, nil
}
