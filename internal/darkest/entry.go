package darkest

import "strings"

// Entry is one typed block: an ordered set of properties, each holding a list
// of tokens. Entries are values; every edit returns a copy.
type Entry struct {
	typ   string
	props map[string][]string
	order Order
}

func NewEntry(typ string) Entry {
	return Entry{typ: typ, props: map[string][]string{}, order: Order{}}
}

func (e Entry) Type() string { return e.typ }

// Names returns the property names in first-seen order.
func (e Entry) Names() []string {
	names := make([]string, 0, len(e.props))
	for name := range e.props {
		names = append(names, name)
	}
	e.order.sort(names)
	return names
}

func (e Entry) Has(name string) bool {
	_, ok := e.props[name]
	return ok
}

// Property returns a copy of the tokens stored under name.
func (e Entry) Property(name string) ([]string, bool) {
	tokens, ok := e.props[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, tokens...), true
}

// Value returns the first token of name, or "" when it is absent or empty.
func (e Entry) Value(name string) string {
	tokens := e.props[name]
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// With sets name to tokens. A new property is ranked after the existing ones.
func (e Entry) With(name string, tokens ...string) Entry {
	out := e.copy()
	out.props[name] = append([]string{}, tokens...)
	out.order.add(name)
	return out
}

func (e Entry) Without(name string) Entry {
	if !e.Has(name) {
		return e
	}
	out := e.copy()
	delete(out.props, name)
	delete(out.order, name)
	return out
}

// WithType returns the entry relabelled as typ.
func (e Entry) WithType(typ string) Entry {
	out := e.copy()
	out.typ = typ
	return out
}

func (e Entry) copy() Entry {
	props := make(map[string][]string, len(e.props)+1)
	for k, v := range e.props {
		props[k] = v
	}
	order := e.order.clone()
	if order == nil {
		order = Order{}
	}
	return Entry{typ: e.typ, props: props, order: order}
}

func (e Entry) writeTo(b *strings.Builder) {
	b.WriteString(e.typ)
	b.WriteByte(':')
	for _, name := range e.Names() {
		b.WriteString(" .")
		b.WriteString(name)
		for _, token := range e.props[name] {
			b.WriteByte(' ')
			b.WriteString(token)
		}
	}
	b.WriteByte('\n')
}

// Unquote strips one pair of surrounding double quotes.
func Unquote(token string) string {
	if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
		return token[1 : len(token)-1]
	}
	return token
}

func Quote(value string) string {
	return `"` + value + `"`
}
