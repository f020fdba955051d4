package result

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Coerce selects how a raw value becomes a canonical value.
type Coerce int

const (
	// CoerceAuto keeps JSON numbers as float64 and everything scalar as a string.
	CoerceAuto Coerce = iota
	// CoerceFloat parses numbers and numeric strings; anything else is nil.
	CoerceFloat
	// CoerceString renders the raw value as a string, objects included.
	CoerceString
)

// FieldSpec declares where one canonical field comes from.
type FieldSpec struct {
	Field Field
	// Paths are gjson paths relative to one candidate. The first non-empty
	// value wins unless Join is set.
	Paths []string
	// Join concatenates every non-empty path value with ", ".
	Join bool
	// Split cuts a combined value such as "45.4,-75.7" and keeps the part
	// at Index. A single space splits on any run of whitespace.
	Split string
	Index int
	// Func computes the value from the candidate instead of Paths.
	Func   func(item gjson.Result) any
	Coerce Coerce
}

// FieldMap is the declarative translation of one provider answer.
type FieldMap struct {
	// List is the gjson path to the candidate array. Empty means the
	// document root. An object is treated as a single candidate.
	List string
	// Fields are applied to every candidate in order.
	Fields []FieldSpec
	// Required fields must be non-nil on the first candidate for the
	// result to be OK.
	Required []Field
}

// With returns a copy of m with extra specs appended. Later specs for the
// same field replace earlier ones.
func (m FieldMap) With(specs ...FieldSpec) FieldMap {
	out := FieldMap{List: m.List, Required: append([]Field(nil), m.Required...)}
	out.Fields = make([]FieldSpec, 0, len(m.Fields)+len(specs))
	replaced := make(map[Field]bool, len(specs))
	for _, s := range specs {
		replaced[s.Field] = true
	}
	for _, s := range m.Fields {
		if !replaced[s.Field] {
			out.Fields = append(out.Fields, s)
		}
	}
	out.Fields = append(out.Fields, specs...)
	return out
}

// Declared lists the fields the map can fill, in canonical order.
func (m FieldMap) Declared() []Field {
	has := make(map[Field]bool, len(m.Fields))
	for _, s := range m.Fields {
		has[s.Field] = true
	}
	out := make([]Field, 0, len(has))
	for _, f := range CanonicalFields {
		if has[f] && f != Raw {
			out = append(out, f)
		}
	}
	return out
}

// items returns the candidate objects of doc.
func (m FieldMap) items(doc gjson.Result) []gjson.Result {
	node := doc
	if m.List != "" {
		node = doc.Get(m.List)
	}
	switch {
	case !node.Exists():
		return nil
	case node.IsArray():
		return node.Array()
	case node.IsObject():
		return []gjson.Result{node}
	default:
		return nil
	}
}

// value evaluates the spec against one candidate.
func (s FieldSpec) value(item gjson.Result) any {
	if s.Func != nil {
		return s.Func(item)
	}

	var raw gjson.Result
	if s.Join {
		parts := make([]string, 0, len(s.Paths))
		for _, p := range s.Paths {
			if v := strings.TrimSpace(item.Get(p).String()); v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		return s.coerceString(strings.Join(parts, ", "))
	}

	for _, p := range s.Paths {
		r := item.Get(p)
		if r.Exists() && r.Type != gjson.Null && !(r.Type == gjson.String && strings.TrimSpace(r.Str) == "") {
			raw = r
			break
		}
	}
	if !raw.Exists() {
		return nil
	}

	if s.Split != "" {
		return s.coerceString(s.split(raw.String()))
	}

	switch s.Coerce {
	case CoerceFloat:
		if raw.Type == gjson.Number {
			return raw.Float()
		}
		return s.coerceString(raw.String())
	case CoerceString:
		if raw.Type == gjson.String {
			return strings.TrimSpace(raw.Str)
		}
		return raw.Raw
	default:
		switch raw.Type {
		case gjson.Number:
			return raw.Float()
		case gjson.String:
			return strings.TrimSpace(raw.Str)
		case gjson.True, gjson.False:
			return raw.String()
		default:
			return nil
		}
	}
}

func (s FieldSpec) split(v string) string {
	var parts []string
	if s.Split == " " {
		parts = strings.Fields(v)
	} else {
		parts = strings.Split(v, s.Split)
	}
	if s.Index < 0 || s.Index >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[s.Index])
}

// coerceString applies the spec's coercion to a string value.
func (s FieldSpec) coerceString(v string) any {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if s.Coerce == CoerceFloat {
		if f, ok := parseFloat(v); ok {
			return f
		}
		return nil
	}
	return v
}

// parseFloat parses a finite number. NaN and infinities are not
// coordinates, so they count as absent.
func parseFloat(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
