// Package strtable reads and writes the game's localization string tables:
//
//	<root>
//	  <language id="english">
//	    <entry id="combat_skill_name_crusader_smite"><![CDATA[Smite]]></entry>
//	  </language>
//	</root>
//
// Entry bodies are kept as raw inner XML so untouched entries survive a
// round trip byte for byte.
package strtable

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"ddrand/internal/fault"
)

type entry struct {
	ID    string `xml:"id,attr"`
	Inner string `xml:",innerxml"`
}

type language struct {
	ID      string  `xml:"id,attr"`
	Entries []entry `xml:"entry"`
}

type document struct {
	XMLName   xml.Name   `xml:"root"`
	Languages []language `xml:"language"`
}

// Table is an immutable string table.
type Table struct {
	languages []language
}

func Parse(data []byte) (*Table, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fault.CorruptWrap(err, "string table")
	}
	return &Table{languages: doc.Languages}, nil
}

func ParseFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *Table) find(lang, id string) (int, int) {
	for li, l := range t.languages {
		if l.ID != lang {
			continue
		}
		for ei, e := range l.Entries {
			if e.ID == id {
				return li, ei
			}
		}
		return li, -1
	}
	return -1, -1
}

// Text returns the decoded text of an entry.
func (t *Table) Text(lang, id string) (string, bool) {
	li, ei := t.find(lang, id)
	if ei < 0 {
		return "", false
	}
	return decodeInner(t.languages[li].Entries[ei].Inner), true
}

// Edit sets the text of one entry.
type Edit struct {
	Lang string
	ID   string
	Text string
}

// With returns a copy of the table with the entry set to text. Missing
// languages and entries are appended.
func (t *Table) With(lang, id, text string) *Table {
	return t.Apply([]Edit{{Lang: lang, ID: id, Text: text}})
}

// Apply returns a copy of the table with every edit made in order. The table
// is copied once however many edits there are.
func (t *Table) Apply(edits []Edit) *Table {
	out := t.copy()
	for _, ed := range edits {
		out.set(ed.Lang, ed.ID, encodeInner(ed.Text))
	}
	return out
}

func (t *Table) set(lang, id, inner string) {
	li, ei := t.find(lang, id)
	switch {
	case li < 0:
		t.languages = append(t.languages, language{ID: lang, Entries: []entry{{ID: id, Inner: inner}}})
	case ei < 0:
		t.languages[li].Entries = append(t.languages[li].Entries, entry{ID: id, Inner: inner})
	default:
		t.languages[li].Entries[ei].Inner = inner
	}
}

func (t *Table) Languages() []string {
	out := make([]string, 0, len(t.languages))
	for _, l := range t.languages {
		out = append(out, l.ID)
	}
	return out
}

func (t *Table) Bytes() ([]byte, error) {
	body, err := xml.MarshalIndent(document{Languages: t.languages}, "", "\t")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func (t *Table) copy() *Table {
	out := &Table{languages: make([]language, len(t.languages))}
	for i, l := range t.languages {
		out.languages[i] = language{ID: l.ID, Entries: append([]entry(nil), l.Entries...)}
	}
	return out
}

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

func encodeInner(text string) string {
	if strings.Contains(text, cdataClose) {
		var b strings.Builder
		_ = xml.EscapeText(&b, []byte(text))
		return b.String()
	}
	return cdataOpen + text + cdataClose
}

func decodeInner(inner string) string {
	var b strings.Builder
	dec := xml.NewDecoder(strings.NewReader("<e>" + inner + "</e>"))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return b.String()
}
