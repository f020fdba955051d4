package result

import (
	"encoding/json"
	"fmt"
)

// osmTags maps canonical fields to OpenStreetMap tags.
var osmTags = []struct {
	tag   string
	field Field
}{
	{"x", Longitude},
	{"y", Latitude},
	{"addr:housenumber", HouseNumber},
	{"addr:street", Street},
	{"addr:city", City},
	{"addr:state", State},
	{"addr:country", Country},
	{"addr:postal", PostalCode},
	{"accuracy", Accuracy},
	{"quality", Quality},
	{"confidence", Confidence},
}

// JSON returns the default candidate's populated fields plus the query
// metadata. Raw is left out.
func (r *Result) JSON() map[string]any {
	out := map[string]any{
		"status": string(r.Status),
		"ok":     r.OK(),
	}
	if r.Provider != "" {
		out["provider"] = r.Provider
	}
	if r.Method != "" {
		out["method"] = r.Method
	}
	if r.Location != "" {
		out["location"] = r.Location
	}
	if r.Err != nil {
		out["error"] = r.Err.Body()
	}

	c := r.First()
	for _, f := range CanonicalFields {
		if f != Raw && c.Has(f) {
			out[string(f)] = c[f]
		}
	}
	if n := r.Len(); n > 1 {
		out["candidates"] = n
	}
	return out
}

// MarshalJSON renders r as JSON().
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.JSON())
}

// OSM returns the default candidate as OpenStreetMap tags.
func (r *Result) OSM() map[string]any {
	c := r.First()
	out := make(map[string]any)
	for _, t := range osmTags {
		if c.Has(t.field) {
			out[t.tag] = c[t.field]
		}
	}
	return out
}

// GeoJSON returns the default candidate as a GeoJSON Feature. Geometry is
// null when the candidate has no coordinates.
func (r *Result) GeoJSON() map[string]any {
	props := r.JSON()
	delete(props, "latitude")
	delete(props, "longitude")

	feature := map[string]any{
		"type":       "Feature",
		"properties": props,
		"geometry":   nil,
	}
	if lat, lng, ok := r.LatLng(); ok {
		feature["geometry"] = map[string]any{
			"type":        "Point",
			"coordinates": []float64{lng, lat},
		}
	}
	return feature
}

// WKT returns the default candidate as a well-known-text point, or "" when
// it has no coordinates.
func (r *Result) WKT() string {
	lat, lng, ok := r.LatLng()
	if !ok {
		return ""
	}
	return fmt.Sprintf("POINT(%s %s)", formatFloat(lng), formatFloat(lat))
}
