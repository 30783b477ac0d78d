package currency

import (
	"encoding/json"
	"fmt"
	"os"
)

// UnknownCountry is reported for codes missing from the metadata document.
const UnknownCountry = "Unknown"

// Meta describes the country and flag glyph shown next to a currency.
type Meta struct {
	Country string `json:"country"`
	Flag    string `json:"flag"`
}

// Metadata maps a currency code to its display metadata.
type Metadata map[string]Meta

// LoadMetadata reads the metadata document at path. Entries that are not objects are skipped.
func LoadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read currency metadata %s: %w", path, err)
	}
	return ParseMetadata(data)
}

// ParseMetadata decodes a metadata document.
func ParseMetadata(data []byte) (Metadata, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode currency metadata: %w", err)
	}
	meta := make(Metadata, len(raw))
	for code, msg := range raw {
		var m Meta
		if err := json.Unmarshal(msg, &m); err != nil {
			continue
		}
		meta[code] = m
	}
	return meta, nil
}

// Lookup returns the metadata for code, defaulting to UnknownCountry and no flag.
func (m Metadata) Lookup(code string) Meta {
	if v, ok := m[code]; ok {
		if v.Country == "" {
			v.Country = UnknownCountry
		}
		return v
	}
	return Meta{Country: UnknownCountry}
}

// MetadataSource provides the current metadata document.
type MetadataSource interface {
	Load() (Metadata, error)
}

// MetadataFile is a MetadataSource re-read on every call, so edits apply without a restart.
type MetadataFile string

// Load reads and decodes the file.
func (f MetadataFile) Load() (Metadata, error) {
	return LoadMetadata(string(f))
}

// StaticMetadata is a MetadataSource backed by an in-memory document.
type StaticMetadata Metadata

// Load returns the document.
func (s StaticMetadata) Load() (Metadata, error) {
	return Metadata(s), nil
}
