package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is the data file as written on disk. Top-level keys and record
// fields keep their order across a load/save round trip, and top-level keys
// that are not collections are carried through untouched.
type Document struct {
	root    *orderedmap.OrderedMap[string, json.RawMessage]
	records map[Category][]*Record
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		root:    orderedmap.New[string, json.RawMessage](),
		records: make(map[Category][]*Record),
	}
}

// ParseDocument reads a JSON data document.
func ParseDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("parsing document: empty input")
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc.root); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	for _, c := range Categories() {
		raw, ok := doc.root.Get(string(c))
		if !ok || isNull(raw) {
			continue
		}
		var recs []*Record
		if err := json.Unmarshal(raw, &recs); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", c, err)
		}
		doc.records[c] = recs
	}
	return doc, nil
}

// ReadDocumentFile reads a JSON data document from path.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	doc, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Records returns the raw records of a collection. The returned records are
// shared with the document; setting fields on them changes what Save writes.
func (d *Document) Records(c Category) []*Record {
	return d.records[c]
}

// SetRecords replaces a collection.
func (d *Document) SetRecords(c Category, recs []*Record) {
	d.records[c] = recs
	if _, ok := d.root.Get(string(c)); !ok {
		d.root.Set(string(c), json.RawMessage("[]"))
	}
}

// MarshalJSON writes the document with collections re-encoded from their
// current records.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, json.RawMessage](d.root.Len())
	for pair := d.root.Oldest(); pair != nil; pair = pair.Next() {
		recs, ok := d.records[Category(pair.Key)]
		if !ok {
			out.Set(pair.Key, pair.Value)
			continue
		}
		if recs == nil {
			recs = []*Record{}
		}
		data, err := json.Marshal(recs)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", pair.Key, err)
		}
		out.Set(pair.Key, data)
	}
	return json.Marshal(out)
}

// Write encodes the document as indented JSON.
func (d *Document) Write(w io.Writer) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indenting document: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

// Save writes the document to path, creating parent directories.
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
