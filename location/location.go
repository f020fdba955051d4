package location

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Classification errors.
var (
	ErrEmpty       = errors.New("location is empty")
	ErrOutOfRange  = errors.New("coordinates out of range")
	ErrUnsupported = errors.New("unsupported location type")
)

// Kind is what a classified location represents.
type Kind int

const (
	// KindAddress is free text or a structured address.
	KindAddress Kind = iota
	// KindCoordinates is a latitude/longitude pair.
	KindCoordinates
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindCoordinates {
		return "coordinates"
	}
	return "address"
}

// Coordinates is a WGS84 latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both values are inside their ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LatLng formats the pair as "lat,lng".
func (c Coordinates) LatLng() string {
	return FormatFloat(c.Lat) + "," + FormatFloat(c.Lng)
}

// LngLat formats the pair as "lng,lat".
func (c Coordinates) LngLat() string {
	return FormatFloat(c.Lng) + "," + FormatFloat(c.Lat)
}

// String formats the pair as "lat, lng".
func (c Coordinates) String() string {
	return FormatFloat(c.Lat) + ", " + FormatFloat(c.Lng)
}

// FormatFloat renders v with the fewest digits that round-trip.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Structured is an address split into named parts such as "street",
// "city", "state", "postalcode" and "country".
type Structured map[string]string

// structuredOrder is the order parts are joined into free text.
var structuredOrder = []string{"street", "city", "county", "state", "postalcode", "country"}

// Text joins the parts into a single address line.
func (s Structured) Text() string {
	seen := make(map[string]bool, len(s))
	parts := make([]string, 0, len(s))
	for _, k := range structuredOrder {
		if v := strings.TrimSpace(s[k]); v != "" {
			parts = append(parts, v)
		}
		seen[k] = true
	}

	var rest []string
	for k, v := range s {
		if !seen[k] && strings.TrimSpace(v) != "" {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, strings.TrimSpace(s[k]))
	}
	return strings.Join(parts, ", ")
}

// Location is a classified input.
type Location struct {
	Kind Kind
	// Text is the address line, or "lat, lng" for coordinates.
	Text string
	Coordinates
	// Parts holds the named parts of a structured address.
	Parts map[string]string
}

// String returns the location text.
func (l Location) String() string {
	return l.Text
}

// IsCoordinates reports whether the location is a coordinate pair.
func (l Location) IsCoordinates() bool {
	return l.Kind == KindCoordinates
}

var pairPattern = regexp.MustCompile(`^([+-]?\d+(?:\.\d*)?|[+-]?\.\d+)\s*(?:[,;]\s*|\s+)([+-]?\d+(?:\.\d*)?|[+-]?\.\d+)$`)

// Classify decides whether input is an address or a coordinate pair.
// Strings are folded with NFKC first so full-width digits and separators
// are read as their ASCII forms.
func Classify(input any) (Location, error) {
	switch v := input.(type) {
	case nil:
		return Location{}, ErrEmpty
	case Location:
		return v, nil
	case string:
		return classifyString(v)
	case Coordinates:
		return coordinates(v.Lat, v.Lng)
	case *Coordinates:
		if v == nil {
			return Location{}, ErrEmpty
		}
		return coordinates(v.Lat, v.Lng)
	case [2]float64:
		return coordinates(v[0], v[1])
	case []float64:
		if len(v) != 2 {
			return Location{}, fmt.Errorf("%w: want 2 values, got %d", ErrUnsupported, len(v))
		}
		return coordinates(v[0], v[1])
	case []any:
		lat, lng, ok := numericPair(v)
		if !ok {
			return Location{}, fmt.Errorf("%w: %T is not a coordinate pair", ErrUnsupported, input)
		}
		return coordinates(lat, lng)
	case Structured:
		return structured(v)
	case map[string]string:
		return structured(Structured(v))
	case map[string]any:
		s := make(Structured, len(v))
		for k, val := range v {
			s[k] = fmt.Sprint(val)
		}
		return structured(s)
	default:
		return Location{}, fmt.Errorf("%w: %T", ErrUnsupported, input)
	}
}

func classifyString(s string) (Location, error) {
	folded := strings.TrimSpace(Fold(s))
	if folded == "" {
		return Location{}, ErrEmpty
	}

	m := pairPattern.FindStringSubmatch(folded)
	if m == nil {
		return Location{Kind: KindAddress, Text: folded}, nil
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Location{Kind: KindAddress, Text: folded}, nil
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Location{Kind: KindAddress, Text: folded}, nil
	}
	return coordinates(lat, lng)
}

// Fold applies NFKC normalization and maps ideographic punctuation to
// ASCII separators.
func Fold(s string) string {
	s = norm.NFKC.String(s)
	return strings.NewReplacer("、", ",", "。", ".").Replace(s)
}

func coordinates(lat, lng float64) (Location, error) {
	c := Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Location{}, fmt.Errorf("%w: %s", ErrOutOfRange, c)
	}
	return Location{Kind: KindCoordinates, Text: c.String(), Coordinates: c}, nil
}

func structured(s Structured) (Location, error) {
	parts := make(Structured, len(s))
	for k, v := range s {
		parts[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(Fold(v))
	}
	text := parts.Text()
	if text == "" {
		return Location{}, ErrEmpty
	}
	return Location{Kind: KindAddress, Text: text, Parts: parts}, nil
}

func numericPair(v []any) (float64, float64, bool) {
	if len(v) != 2 {
		return 0, 0, false
	}
	lat, ok1 := toFloat(v[0])
	lng, ok2 := toFloat(v[1])
	return lat, lng, ok1 && ok2
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
