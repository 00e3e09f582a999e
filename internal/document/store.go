// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/researchmap-site/pkg/types"
)

const (
	// DataFile is the persisted researcher document.
	DataFile = "research_data.json"
	// MetadataFile is the sidecar written next to the generated pages.
	MetadataFile = "metadata.yml"

	lastUpdatedKey = "last_updated"
)

// Stamp formats now as a last_updated value.
func Stamp(now time.Time, format types.TimestampFormat) string {
	if format == types.TimestampUTC {
		return now.UTC().Format("2006-01-02 15:04") + " (UTC)"
	}
	return now.Local().Format("2006-01-02 15:04:05")
}

// Save sets last_updated on raw, indents it by two spaces, and overwrites
// path. Key order is kept as received and strings are written unescaped, so
// non-ASCII text appears literally even when the API sent \uXXXX escapes.
// The parent directory is created if needed.
func Save(path string, raw []byte, stamp string) error {
	stamped, err := sjson.SetBytes(raw, lastUpdatedKey, stamp)
	if err != nil {
		return fmt.Errorf("stamping %s: %w", lastUpdatedKey, err)
	}
	if !gjson.ValidBytes(stamped) {
		return fmt.Errorf("document is not valid JSON")
	}

	var out bytes.Buffer
	if err := writeIndented(&out, gjson.ParseBytes(stamped), 0); err != nil {
		return fmt.Errorf("indenting document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

const indent = "  "

// writeIndented re-emits v in document order, one member per line.
func writeIndented(buf *bytes.Buffer, v gjson.Result, depth int) error {
	switch {
	case v.IsObject(), v.IsArray():
		opening, closing := byte('{'), byte('}')
		if v.IsArray() {
			opening, closing = '[', ']'
		}
		buf.WriteByte(opening)
		n := 0
		var err error
		v.ForEach(func(key, value gjson.Result) bool {
			if n > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(indent, depth+1))
			if v.IsObject() {
				if err = writeString(buf, key.String()); err != nil {
					return false
				}
				buf.WriteString(": ")
			}
			if err = writeIndented(buf, value, depth+1); err != nil {
				return false
			}
			n++
			return true
		})
		if err != nil {
			return err
		}
		if n > 0 {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(indent, depth))
		}
		buf.WriteByte(closing)
		return nil
	case v.Type == gjson.String:
		return writeString(buf, v.String())
	default:
		buf.WriteString(strings.TrimSpace(v.Raw))
		return nil
	}
}

// writeString quotes s without HTML or \uXXXX escaping of printable text.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// Load reads a document previously written by Save.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Metadata is the sidecar consumed by the site to show freshness.
type Metadata struct {
	LastUpdated string
	// SourceKey is the YAML key for Source ("permalink" or "source").
	SourceKey string
	Source    string
}

// WriteMetadata writes m as YAML with last_updated first.
func WriteMetadata(path string, m Metadata) error {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(node, lastUpdatedKey, m.LastUpdated)
	if m.SourceKey != "" {
		appendPair(node, m.SourceKey, m.Source)
	}

	data, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

func appendPair(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}
