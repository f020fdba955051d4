package location

import "reflect"

// Shape is the cardinality of a geocoding input.
type Shape int

const (
	// ShapeInvalid is nil or a type no method accepts.
	ShapeInvalid Shape = iota
	// ShapeScalar is one location: a string, coordinate pair or structured address.
	ShapeScalar
	// ShapeSequence is a list of locations, as taken by batch methods.
	ShapeSequence
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeSequence:
		return "sequence"
	default:
		return "invalid"
	}
}

// ShapeOf classifies input without parsing it. A two-element numeric
// slice is a coordinate pair, not a sequence.
func ShapeOf(input any) Shape {
	switch v := input.(type) {
	case nil:
		return ShapeInvalid
	case string, Location, Coordinates, *Coordinates, [2]float64, Structured, map[string]string, map[string]any:
		return ShapeScalar
	case []float64:
		if len(v) == 2 {
			return ShapeScalar
		}
		return ShapeInvalid
	case []any:
		if _, _, ok := numericPair(v); ok {
			return ShapeScalar
		}
		return ShapeSequence
	}

	rv := reflect.ValueOf(input)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return ShapeSequence
	}
	return ShapeInvalid
}

// Items returns the elements of a sequence input. It reports false for
// anything that is not a sequence.
func Items(input any) ([]any, bool) {
	if ShapeOf(input) != ShapeSequence {
		return nil, false
	}
	if v, ok := input.([]any); ok {
		return v, true
	}
	rv := reflect.ValueOf(input)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
