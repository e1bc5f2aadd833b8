// Package darkest reads and writes the game's hierarchical key/value text
// format:
//
//	hall: .types cultist_brawler cultist_acolyte .chance 3
//
// A token ending in ':' opens an entry of that type, a token starting with
// '.' opens a property and every other token is a value of the open
// property. Lines starting with "//" are comments.
//
// Documents are immutable. Every transformation returns a new Document and
// leaves the receiver untouched so earlier snapshots stay readable.
package darkest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ddrand/internal/fault"
)

var (
	ErrMissingEntryType = errors.New("missing entry type")
	ErrMissingProperty  = errors.New("missing property")
)

type Document struct {
	entries map[string][]Entry
	order   Order
}

// ReplaceFunc computes the new value of one token, addressed by the index of
// its entry within the type and its index within the property.
type ReplaceFunc func(value string, entry, token int) (string, error)

func New() *Document {
	return &Document{entries: map[string][]Entry{}, order: Order{}}
}

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse never fails: tokens that appear before any entry, or values that
// appear before any property, are dropped.
func Parse(text string) *Document {
	doc := New()

	var (
		current  *Entry
		propName string
		propVals []string
		propOpen bool
	)
	flushProp := func() {
		if current != nil && propOpen {
			*current = current.With(propName, propVals...)
		}
		propOpen = false
		propVals = nil
	}
	flushEntry := func() {
		flushProp()
		if current != nil {
			doc.entries[current.typ] = append(doc.entries[current.typ], *current)
			doc.order.add(current.typ)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t\ufeff"), "//") {
			continue
		}
		for _, token := range strings.Fields(line) {
			switch {
			case strings.HasSuffix(token, ":"):
				flushEntry()
				e := NewEntry(strings.TrimSuffix(token, ":"))
				current = &e
			case current == nil:
			case strings.HasPrefix(token, "."):
				flushProp()
				propName = token[1:]
				propOpen = true
			case propOpen:
				propVals = append(propVals, token)
			}
		}
	}
	flushEntry()

	return doc
}

// Serialize writes entry types in rank order and each entry on its own line.
func (d *Document) Serialize() string {
	var b strings.Builder
	for _, typ := range d.Types() {
		for _, e := range d.entries[typ] {
			e.writeTo(&b)
		}
	}
	return b.String()
}

func (d *Document) Bytes() []byte {
	return []byte(d.Serialize())
}

// Types returns the entry types in rank order.
func (d *Document) Types() []string {
	types := make([]string, 0, len(d.entries))
	for typ := range d.entries {
		types = append(types, typ)
	}
	d.order.sort(types)
	return types
}

func (d *Document) Has(typ string) bool {
	_, ok := d.entries[typ]
	return ok
}

// Entries returns the entries of typ. A missing type is an error.
func (d *Document) Entries(typ string) ([]Entry, error) {
	entries, ok := d.entries[typ]
	if !ok {
		return nil, fault.CorruptWrap(ErrMissingEntryType, "entry type %q", typ)
	}
	return append([]Entry{}, entries...), nil
}

// First returns the first entry of typ.
func (d *Document) First(typ string) (Entry, error) {
	entries, err := d.Entries(typ)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fault.CorruptWrap(ErrMissingEntryType, "entry type %q", typ)
	}
	return entries[0], nil
}

// Order returns a copy of the entry type rank table.
func (d *Document) Order() Order {
	return d.order.clone()
}

// WithOrder returns the document ranked by order instead of its own table.
func (d *Document) WithOrder(order Order) *Document {
	out := d.copy()
	out.order = order.clone()
	return out
}

// WithEntries replaces every entry of typ. A new type keeps whatever rank
// the order table gives it.
func (d *Document) WithEntries(typ string, entries []Entry) *Document {
	out := d.copy()
	out.entries[typ] = append([]Entry{}, entries...)
	return out
}

// AddEntries appends entries under their own types. The order table is left
// alone; callers merging from a donor pass its order with WithOrder.
func (d *Document) AddEntries(entries ...Entry) *Document {
	out := d.copy()
	for _, e := range entries {
		out.entries[e.typ] = append(append([]Entry{}, out.entries[e.typ]...), e)
	}
	return out
}

// Replace rewrites every token of prop across every entry of typ.
func (d *Document) Replace(typ, prop string, fn ReplaceFunc) (*Document, error) {
	entries, err := d.Entries(typ)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		tokens, ok := e.Property(prop)
		if !ok {
			return nil, fault.CorruptWrap(ErrMissingProperty, "%s.%s in entry %d", typ, prop, i)
		}
		for j, token := range tokens {
			value, err := fn(token, i, j)
			if err != nil {
				return nil, fmt.Errorf("replacing %s.%s: %w", typ, prop, err)
			}
			tokens[j] = value
		}
		entries[i] = e.With(prop, tokens...)
	}
	return d.WithEntries(typ, entries), nil
}

// Set replaces every token of prop with value.
func (d *Document) Set(typ, prop, value string) (*Document, error) {
	return d.Replace(typ, prop, func(string, int, int) (string, error) {
		return value, nil
	})
}

// WithoutProperty removes prop from every entry of typ that has it.
func (d *Document) WithoutProperty(typ, prop string) (*Document, error) {
	entries, err := d.Entries(typ)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		entries[i] = e.Without(prop)
	}
	return d.WithEntries(typ, entries), nil
}

// WithProperty sets prop on every entry of typ to fn(entryIndex).
func (d *Document) WithProperty(typ, prop string, fn func(entry int) []string) (*Document, error) {
	entries, err := d.Entries(typ)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		entries[i] = e.With(prop, fn(i)...)
	}
	return d.WithEntries(typ, entries), nil
}

// IsMissing reports whether err came from indexing an absent type or property.
func IsMissing(err error) bool {
	return errors.Is(err, ErrMissingEntryType) || errors.Is(err, ErrMissingProperty)
}

func (d *Document) copy() *Document {
	entries := make(map[string][]Entry, len(d.entries)+1)
	for k, v := range d.entries {
		entries[k] = v
	}
	return &Document{entries: entries, order: d.order.clone()}
}
