// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Document is one decoded configuration file, tagged with its logical name
// and the source it came from. Data is never mutated after loading; the
// merger always copies into fresh maps.
type Document struct {
	Name   LogicalName
	Path   string
	Origin string
	Data   map[string]any
}

// LoadDocument reads and decodes a single TOML source.
func LoadDocument(name LogicalName, src Source) (*Document, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, &ParseError{Name: name, Path: src.Path, Err: err}
	}

	var data map[string]any
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, &ParseError{Name: name, Path: src.Path, Err: err}
	}
	if data == nil {
		data = map[string]any{}
	}

	return &Document{Name: name, Path: src.Path, Origin: src.Origin, Data: data}, nil
}

// LoadDocuments loads every source in order, preserving the input ordering
// (precedence-ascending, as produced by Locator.Locate). The first decode
// failure aborts the load.
func LoadDocuments(name LogicalName, srcs []Source) ([]*Document, error) {
	docs := make([]*Document, 0, len(srcs))
	for _, src := range srcs {
		doc, err := LoadDocument(name, src)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
