package sql

import "strconv"

// ParamPrefix is the prefix of the placeholders generated by Params.Add.
const ParamPrefix = ":qp"

// Params is an ordered bag of named statement parameters. A top-level
// build call owns its bag; nested builders append to it in place.
// The zero value is ready to use.
type Params struct {
	names  []string
	values map[string]any
}

// NewParams returns an empty parameter bag.
func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Add binds v under the next free placeholder name and returns that name.
// Names are numbered from the current size of the bag and never reused.
func (p *Params) Add(v any) string {
	n := len(p.names)
	name := ParamPrefix + strconv.Itoa(n)
	for p.has(name) {
		n++
		name = ParamPrefix + strconv.Itoa(n)
	}
	p.Set(name, v)
	return name
}

// Set binds v under name, keeping the position of an existing entry.
// A missing leading colon is added.
func (p *Params) Set(name string, v any) {
	if name == "" {
		return
	}
	if name[0] != ':' {
		name = ":" + name
	}
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if !p.has(name) {
		p.names = append(p.names, name)
	}
	p.values[name] = v
}

// Merge copies the given named parameters into the bag in their given order.
func (p *Params) Merge(params ...NamedParam) {
	for _, np := range params {
		p.Set(np.Name, np.Value)
	}
}

// Len returns the number of bound parameters.
func (p *Params) Len() int { return len(p.names) }

// Names returns the parameter names in binding order.
func (p *Params) Names() []string {
	return append([]string(nil), p.names...)
}

// Value returns the value bound under name.
func (p *Params) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Map returns a copy of the bag as a map.
func (p *Params) Map() map[string]any {
	m := make(map[string]any, len(p.names))
	for _, name := range p.names {
		m[name] = p.values[name]
	}
	return m
}

func (p *Params) has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// NamedParam is a parameter carried by a raw expression.
type NamedParam struct {
	Name  string
	Value any
}

// Named returns a NamedParam.
func Named(name string, v any) NamedParam {
	return NamedParam{Name: name, Value: v}
}
