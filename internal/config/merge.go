// SPDX-License-Identifier: MPL-2.0

package config

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind classifies a decoded TOML value for merging purposes.
type Kind int

const (
	// KindScalar is any leaf value (string, integer, float, bool, datetime).
	KindScalar Kind = iota
	// KindMapping is a TOML table.
	KindMapping
	// KindSequence is a TOML array.
	KindSequence
)

// String returns the kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// KindOf classifies a decoded value.
func KindOf(v any) Kind {
	switch v.(type) {
	case map[string]any:
		return KindMapping
	case []any:
		return KindSequence
	default:
		return KindScalar
	}
}

// Merged is the combination of all documents for one logical name.
type Merged struct {
	Name LogicalName
	Data map[string]any
	// Paths lists the contributing files in precedence-ascending order.
	Paths []string
}

// Table returns the named top-level table, or an empty map when absent.
// A non-table value under the key also yields an empty map; schema
// validation reports that case separately.
func (m *Merged) Table(key string) map[string]any {
	if t, ok := m.Data[key].(map[string]any); ok {
		return t
	}
	return map[string]any{}
}

// Merge combines documents of one logical name, precedence ascending: the
// first document is the lowest-precedence source, the last the highest.
//
// Mappings merge recursively. Scalars and sequences replace wholesale:
// sequences are deliberately not merged element-wise, a higher-precedence
// sequence fully replaces a lower one at the same key path. A mapping on one
// side and a leaf on the other is a ConflictError rather than a silent
// precedence win.
//
// In single-source mode exactly one document must be present; zero documents
// is a NotFoundError. In merged mode zero documents yields an empty Merged.
func Merge(name LogicalName, docs []*Document, singleSource bool) (*Merged, error) {
	if singleSource {
		if len(docs) == 0 {
			return nil, &NotFoundError{Name: name}
		}
		// Locate already reduced the list; be defensive about extras.
		docs = docs[len(docs)-1:]
	}

	merged := &Merged{Name: name, Data: map[string]any{}}
	for _, doc := range docs {
		if err := mergeMaps(merged, merged.Data, doc, doc.Data, nil); err != nil {
			return nil, err
		}
		merged.Paths = append(merged.Paths, doc.Path)
	}
	return merged, nil
}

// mergeMaps merges src (higher precedence) into dst (accumulated lower
// precedence) in place. keyPath tracks the position for conflict reporting.
func mergeMaps(m *Merged, dst map[string]any, doc *Document, src map[string]any, keyPath []string) error {
	keys := maps.Keys(src)
	slices.Sort(keys)

	for _, key := range keys {
		newVal := src[key]
		oldVal, exists := dst[key]
		if !exists {
			dst[key] = deepCopy(newVal)
			continue
		}

		oldKind, newKind := KindOf(oldVal), KindOf(newVal)
		switch {
		case oldKind == KindMapping && newKind == KindMapping:
			if err := mergeMaps(m, oldVal.(map[string]any), doc, newVal.(map[string]any), append(keyPath, key)); err != nil {
				return err
			}
		case oldKind == KindMapping || newKind == KindMapping:
			lowPath := ""
			if len(m.Paths) > 0 {
				lowPath = m.Paths[len(m.Paths)-1]
			}
			return &ConflictError{
				Name:     m.Name,
				KeyPath:  strings.Join(append(keyPath, key), "."),
				HighPath: doc.Path,
				LowPath:  lowPath,
				HighKind: newKind,
				LowKind:  oldKind,
			}
		default:
			// Scalar or sequence: higher precedence replaces wholesale.
			dst[key] = deepCopy(newVal)
		}
	}
	return nil
}

// deepCopy clones a decoded value so merged data never aliases a Document.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
