package result

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	geoerrors "github.com/kbukum/geokit/errors"
)

// Status is the outcome of one dispatch.
type Status string

const (
	// StatusOK means the first candidate has every mandatory field.
	StatusOK Status = "ok"
	// StatusEmpty means the provider answered but nothing usable came back.
	StatusEmpty Status = "empty"
	// StatusError means the provider call failed; Err says why.
	StatusError Status = "error"
)

// Candidate is one normalized record. Every canonical field is present as
// a key; values are string, float64 or nil.
type Candidate map[Field]any

// Get returns the value of f.
func (c Candidate) Get(f Field) any {
	return c[f]
}

// Has reports whether f holds a value.
func (c Candidate) Has(f Field) bool {
	return c[f] != nil
}

// String returns f as a string, or "" when unset.
func (c Candidate) String(f Field) string {
	switch v := c[f].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatFloat(v)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns f as a float64. It reports false when f is unset or not
// numeric.
func (c Candidate) Float(f Field) (float64, bool) {
	switch v := c[f].(type) {
	case float64:
		return v, true
	case string:
		return parseFloat(v)
	default:
		return 0, false
	}
}

// Result is the normalized answer to one query. It is immutable once
// built.
type Result struct {
	Provider   string
	Method     string
	Location   string
	Status     Status
	Err        *geoerrors.AppError
	Candidates []Candidate
	// Raw is the decoded provider document.
	Raw json.RawMessage

	declared []Field
}

// Normalize applies fm to a JSON document. It is deterministic: the same
// document and map always give an equal result.
func Normalize(doc []byte, fm FieldMap) *Result {
	root := gjson.ParseBytes(doc)
	items := fm.items(root)

	r := &Result{
		Raw:        json.RawMessage(doc),
		Candidates: make([]Candidate, 0, len(items)),
		declared:   fm.Declared(),
	}
	for _, item := range items {
		c := newCandidate()
		for _, spec := range fm.Fields {
			if v := clean(spec.value(item)); v != nil {
				c[spec.Field] = v
			}
		}
		c[Raw] = item.Raw
		r.Candidates = append(r.Candidates, c)
	}

	r.Status = StatusEmpty
	if len(r.Candidates) > 0 && hasAll(r.Candidates[0], fm.Required) {
		r.Status = StatusOK
	}
	return r
}

// Failed builds the result of a provider call that did not produce a
// usable answer.
func Failed(err *geoerrors.AppError) *Result {
	return &Result{Status: StatusError, Err: err}
}

// WithQuery returns a copy of r labelled with the query that produced it.
func (r *Result) WithQuery(provider, method, location string) *Result {
	out := *r
	out.Provider = provider
	out.Method = method
	out.Location = location
	return &out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func newCandidate() Candidate {
	c := make(Candidate, len(CanonicalFields))
	for _, f := range CanonicalFields {
		c[f] = nil
	}
	return c
}

// clean maps computed values onto string, float64 or nil.
func clean(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t = strings.TrimSpace(t); t == "" {
			return nil
		}
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case float32:
		return clean(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case gjson.Result:
		if !t.Exists() || t.Type == gjson.Null {
			return nil
		}
		if t.Type == gjson.Number {
			return t.Float()
		}
		return clean(t.String())
	default:
		return clean(fmt.Sprint(t))
	}
}

func hasAll(c Candidate, fields []Field) bool {
	for _, f := range fields {
		if !c.Has(f) {
			return false
		}
	}
	return true
}

// OK reports whether the result has a usable default candidate.
func (r *Result) OK() bool {
	return r != nil && r.Status == StatusOK
}

// Outcome labels the result for metrics and logs.
func (r *Result) Outcome() string {
	if r == nil {
		return string(StatusError)
	}
	return string(r.Status)
}

// First returns the default candidate. A result without candidates
// returns a candidate with every field nil.
func (r *Result) First() Candidate {
	if r == nil || len(r.Candidates) == 0 {
		return newCandidate()
	}
	return r.Candidates[0]
}

// Len returns the number of candidates.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Candidates)
}

// Get returns f from the default candidate.
func (r *Result) Get(f Field) any { return r.First().Get(f) }

// String returns f from the default candidate as a string.
func (r *Result) String(f Field) string { return r.First().String(f) }

// Lat returns the default candidate's latitude, or 0.
func (r *Result) Lat() float64 {
	v, _ := r.First().Float(Latitude)
	return v
}

// Lng returns the default candidate's longitude, or 0.
func (r *Result) Lng() float64 {
	v, _ := r.First().Float(Longitude)
	return v
}

// Address returns the default candidate's address line.
func (r *Result) Address() string { return r.String(Address) }

// LatLng returns the default candidate's coordinates when both are set.
func (r *Result) LatLng() (lat, lng float64, ok bool) {
	c := r.First()
	lat, ok1 := c.Float(Latitude)
	lng, ok2 := c.Float(Longitude)
	return lat, lng, ok1 && ok2
}

// Declared lists the fields the provider's map can fill.
func (r *Result) Declared() []Field {
	if r == nil {
		return nil
	}
	return append([]Field(nil), r.declared...)
}

// Coverage reports how much of a provider's declared field set the default
// candidate actually populated.
type Coverage struct {
	Populated []Field `json:"populated"`
	Declared  []Field `json:"declared"`
	// OSMTags is the number of OSM tags the default candidate yields.
	OSMTags int `json:"osm_tags"`
}

// DescribeCoverage compares populated and declared fields of the default
// candidate, leaving out raw.
func (r *Result) DescribeCoverage() Coverage {
	c := r.First()
	cov := Coverage{Declared: r.Declared(), Populated: []Field{}}
	for _, f := range CanonicalFields {
		if f != Raw && c.Has(f) {
			cov.Populated = append(cov.Populated, f)
		}
	}
	cov.OSMTags = len(r.OSM())
	return cov
}

// Describe summarizes the result for logs.
func (r *Result) Describe() string {
	if r == nil {
		return "<nil>"
	}
	if r.Err != nil {
		return fmt.Sprintf("<[%s] %s - %s [%s]>", r.Status, r.Provider, r.Method, r.Err.Code)
	}
	return fmt.Sprintf("<[%s] %s - %s [%s]>", r.Status, r.Provider, r.Method, r.Address())
}
