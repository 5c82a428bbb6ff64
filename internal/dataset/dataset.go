// Package dataset loads the e-bike ratings data file into typed records and
// provides id lookups across its collections.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrNotFound is returned when a lookup names an id that is not in the
// collection.
var ErrNotFound = errors.New("not found")

// Dataset is an immutable, fully decoded snapshot of a data document.
type Dataset struct {
	ebikes     []*EBike
	components map[Category][]*Component
	ebikeIdx   map[string]*EBike
	compIdx    map[Category]map[string]*Component
}

// New builds a dataset from already decoded records. Ids must be unique per
// collection.
func New(ebikes []*EBike, components map[Category][]*Component) (*Dataset, error) {
	ds := &Dataset{
		ebikes:     slices.Clone(ebikes),
		components: make(map[Category][]*Component, 4),
		ebikeIdx:   make(map[string]*EBike, len(ebikes)),
		compIdx:    make(map[Category]map[string]*Component, 4),
	}

	for i, b := range ds.ebikes {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return nil, fmt.Errorf("%s[%d]: missing id", EBikes, i)
		}
		if _, dup := ds.ebikeIdx[id]; dup {
			return nil, fmt.Errorf("%s[%d]: duplicate id %q", EBikes, i, id)
		}
		ds.ebikeIdx[id] = b
	}

	for _, c := range ComponentCategories() {
		items := slices.Clone(components[c])
		idx := make(map[string]*Component, len(items))
		for i, item := range items {
			id := strings.TrimSpace(item.ID)
			if id == "" {
				return nil, fmt.Errorf("%s[%d]: missing id", c, i)
			}
			if _, dup := idx[id]; dup {
				return nil, fmt.Errorf("%s[%d]: duplicate id %q", c, i, id)
			}
			item.Category = c
			idx[id] = item
		}
		ds.components[c] = items
		ds.compIdx[c] = idx
	}

	for c := range components {
		if !c.IsComponent() {
			return nil, fmt.Errorf("%w: %q is not a component collection", ErrUnknownCategory, c)
		}
	}
	return ds, nil
}

// Empty returns a dataset with no records.
func Empty() *Dataset {
	ds, _ := New(nil, nil)
	return ds
}

// FromDocument decodes every collection of doc. Missing collections are
// empty.
func FromDocument(doc *Document) (*Dataset, error) {
	ebikes := make([]*EBike, 0, len(doc.Records(EBikes)))
	for i, rec := range doc.Records(EBikes) {
		if rec == nil {
			return nil, fmt.Errorf("%s[%d]: null record", EBikes, i)
		}
		b := &EBike{}
		if err := decode(rec, b); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", EBikes, i, err)
		}
		b.Fields = rec
		ebikes = append(ebikes, b)
	}

	components := make(map[Category][]*Component, 4)
	for _, c := range ComponentCategories() {
		recs := doc.Records(c)
		items := make([]*Component, 0, len(recs))
		for i, rec := range recs {
			if rec == nil {
				return nil, fmt.Errorf("%s[%d]: null record", c, i)
			}
			item := &Component{}
			if err := decode(rec, item); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", c, i, err)
			}
			item.Fields = rec
			items = append(items, item)
		}
		components[c] = items
	}

	return New(ebikes, components)
}

func decode(rec *Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(plain(rec))
}

// Load parses and decodes a data document.
func Load(r io.Reader) (*Dataset, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// LoadFile parses and decodes the data file at path.
func LoadFile(path string) (*Dataset, error) {
	doc, err := ReadDocumentFile(path)
	if err != nil {
		return nil, err
	}
	ds, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// EBikes returns the e-bikes in document order.
func (d *Dataset) EBikes() []*EBike {
	return slices.Clone(d.ebikes)
}

// Components returns a component collection in document order. Non-component
// categories return nil.
func (d *Dataset) Components(c Category) []*Component {
	return slices.Clone(d.components[c])
}

// Count returns the number of records in a collection.
func (d *Dataset) Count(c Category) int {
	if c == EBikes {
		return len(d.ebikes)
	}
	return len(d.components[c])
}

// EBike looks up an e-bike by id.
func (d *Dataset) EBike(id string) (*EBike, error) {
	b, ok := d.ebikeIdx[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("e-bike %q: %w", id, ErrNotFound)
	}
	return b, nil
}

// Component looks up a component by collection and id.
func (d *Dataset) Component(c Category, id string) (*Component, error) {
	if !c.IsComponent() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	item, ok := d.compIdx[c][strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", c, id, ErrNotFound)
	}
	return item, nil
}

// Resolve follows the e-bike's reference for role. A missing or dangling
// reference returns false.
func (d *Dataset) Resolve(b *EBike, role Role) (*Component, bool) {
	if d == nil || b == nil {
		return nil, false
	}
	id := strings.TrimSpace(b.ComponentID(role))
	if id == "" {
		return nil, false
	}
	item, ok := d.compIdx[role.Category()][id]
	return item, ok
}
