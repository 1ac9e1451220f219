package typedesc

import (
	"reflect"
	"strings"
	"unicode"
)

// Field of a struct, as seen by the codec.
type Field struct {
	// Name of the field in documents.
	Name string
	// Index sequence for reflect.Value.FieldByIndex.
	Index []int
	Type  Type
	// OmitEmpty is set by the omitempty option of the json tag.
	OmitEmpty bool
}

// Plan lists the fields of a struct type in declaration order.
// Fields of embedded structs are promoted.
type Plan struct {
	Fields []Field

	byName map[string]int
	byFold map[string]int
}

// Lookup returns the field named name. The exact name is tried first,
// then a case insensitive match.
func (p *Plan) Lookup(name string) (*Field, bool) {
	if i, ok := p.byName[name]; ok {
		return &p.Fields[i], true
	}
	if i, ok := p.byFold[strings.ToLower(name)]; ok {
		return &p.Fields[i], true
	}
	return nil, false
}

// Fields returns the plan of the struct type t.
func (r *Resolver) Fields(t reflect.Type) *Plan {
	if r.plans == nil {
		return buildPlan(t)
	}

	key := uint64(reflect.ValueOf(t).Pointer())
	if p, ok := r.plans.Get(key); ok {
		if plan, ok := p.(*Plan); ok {
			return plan
		}
	}

	plan := buildPlan(t)
	r.plans.Set(key, plan, 1)
	return plan
}

func buildPlan(t reflect.Type) *Plan {
	type candidate struct {
		Field
		depth int
	}

	var candidates []candidate
	var walk func(t reflect.Type, index []int, depth int, visited map[reflect.Type]bool)
	walk = func(t reflect.Type, index []int, depth int, visited map[reflect.Type]bool) {
		if visited[t] {
			return
		}
		visited[t] = true
		defer delete(visited, t)

		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)

			tag := sf.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")

			idx := make([]int, len(index)+1)
			copy(idx, index)
			idx[len(index)] = i

			if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
				walk(sf.Type, idx, depth+1, visited)
				continue
			}
			if !sf.IsExported() {
				continue
			}

			if name == "" {
				name = lowerName(sf.Name)
			}

			candidates = append(candidates, candidate{
				Field: Field{
					Name:      name,
					Index:     idx,
					Type:      Cached(sf.Type),
					OmitEmpty: strings.Contains(","+opts+",", ",omitempty,"),
				},
				depth: depth,
			})
		}
	}
	walk(t, nil, 0, make(map[reflect.Type]bool))

	p := Plan{
		byName: make(map[string]int),
		byFold: make(map[string]int),
	}

	// the shallowest field wins, ties are kept in declaration order
	best := make(map[string]int)
	for _, c := range candidates {
		if d, ok := best[c.Name]; !ok || c.depth < d {
			best[c.Name] = c.depth
		}
	}
	for _, c := range candidates {
		if best[c.Name] != c.depth {
			continue
		}
		if _, ok := p.byName[c.Name]; ok {
			continue
		}
		p.byName[c.Name] = len(p.Fields)
		if _, ok := p.byFold[strings.ToLower(c.Name)]; !ok {
			p.byFold[strings.ToLower(c.Name)] = len(p.Fields)
		}
		p.Fields = append(p.Fields, c.Field)
	}

	return &p
}

// lowerName lowers the leading upper case letters of a Go identifier,
// keeping the start of the next word: ID -> id, URLPath -> urlPath.
func lowerName(s string) string {
	rs := []rune(s)
	n := 0
	for n < len(rs) && unicode.IsUpper(rs[n]) {
		n++
	}
	if n > 1 && n < len(rs) && unicode.IsLower(rs[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}
