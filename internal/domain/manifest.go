package domain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/xxh3"
)

// DecodeManifest parses raw as a JSON object. Numbers are kept as
// json.Number so that passthrough values keep their original spelling.
func DecodeManifest(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ValidationError{Message: "manifest is required"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var manifest map[string]any
	if err := dec.Decode(&manifest); err != nil {
		return nil, ValidationError{Message: "manifest must be a JSON object"}
	}
	if manifest == nil {
		return nil, ValidationError{Message: "manifest must be a JSON object"}
	}
	return manifest, nil
}

// HashManifest returns the hex xxh3-128 digest of the canonical JSON
// encoding of manifest (object keys sorted).
func HashManifest(manifest map[string]any) string {
	canonical, err := json.Marshal(manifest)
	if err != nil {
		return ""
	}
	sum := xxh3.Hash128(canonical).Bytes()
	return hex.EncodeToString(sum[:])
}
