package session

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Codec turns a Record into a compact transport string and back: canonical
// JSON, zlib-compressed, hex-encoded. It performs no authentication; the
// Envelope layers the signature on top.
type Codec struct{}

// Encode serializes, compresses and hex-encodes the record.
func (Codec) Encode(rec *Record) (string, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("compress session: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress session: %w", err)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode. Corrupt hex, zlib or JSON payloads all error so
// the caller can treat the token as lost.
func (Codec) Decode(payload string) (*Record, error) {
	compressed, err := hex.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open compressed payload: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &rec, nil
}
