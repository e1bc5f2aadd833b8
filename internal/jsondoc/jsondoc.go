// Package jsondoc wraps a JSON document with get and set by path. Paths use
// gjson syntax ("goals.3.data.monster_class_ids"). Documents are immutable;
// setters return a new Document and keep key order intact.
package jsondoc

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"ddrand/internal/fault"
)

type Document struct {
	raw string
}

func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fault.Corrupt("invalid json document")
	}
	return &Document{raw: string(data)}, nil
}

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func (d *Document) Get(path string) gjson.Result {
	return gjson.Get(d.raw, path)
}

func (d *Document) Exists(path string) bool {
	return d.Get(path).Exists()
}

// Len returns the length of the array at path, or 0 if it is not an array.
func (d *Document) Len(path string) int {
	value := d.Get(path)
	if !value.IsArray() {
		return 0
	}
	return len(value.Array())
}

// Strings returns the elements of the array at path as strings.
func (d *Document) Strings(path string) []string {
	var out []string
	for _, item := range d.Get(path).Array() {
		out = append(out, item.String())
	}
	return out
}

func (d *Document) Set(path string, value any) (*Document, error) {
	raw, err := sjson.Set(d.raw, path, value)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", path, err)
	}
	return &Document{raw: raw}, nil
}

// Append adds value to the end of the array at path, creating it if needed.
func (d *Document) Append(path string, value any) (*Document, error) {
	return d.Set(path+".-1", value)
}

func (d *Document) String() string {
	return d.raw
}

// Bytes renders the document indented with two spaces.
func (d *Document) Bytes() []byte {
	return pretty.Pretty([]byte(d.raw))
}
