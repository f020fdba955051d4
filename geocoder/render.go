package geocoder

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/result"
)

// Output formats accepted by Render.
const (
	FormatJSON    = "json"
	FormatOSM     = "osm"
	FormatGeoJSON = "geojson"
	FormatWKT     = "wkt"
)

// Formats lists the output formats in display order.
var Formats = []string{FormatJSON, FormatOSM, FormatGeoJSON, FormatWKT}

// Render serializes r in the named format. WKT of a result without
// coordinates is "POINT EMPTY".
func Render(r *result.Result, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return json.Marshal(r.JSON())
	case FormatOSM:
		return json.Marshal(r.OSM())
	case FormatGeoJSON:
		return json.Marshal(r.GeoJSON())
	case FormatWKT:
		if wkt := r.WKT(); wkt != "" {
			return []byte(wkt), nil
		}
		return []byte("POINT EMPTY"), nil
	default:
		return nil, geoerrors.InvalidInput("output",
			fmt.Sprintf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", ")))
	}
}

// Elevation units accepted by ConvertUnits.
const (
	UnitMeters     = "meters"
	UnitKilometers = "kilometers"
	UnitMiles      = "miles"
	UnitFeet       = "feet"
)

// metersPer is how many of each unit make one meter.
var metersPer = map[string]float64{
	UnitMeters:     1,
	UnitKilometers: 0.001,
	UnitMiles:      1 / 1609.344,
	UnitFeet:       1 / 0.3048,
}

// Units lists the units ConvertUnits accepts.
func Units() []string {
	return slices.Sorted(maps.Keys(metersPer))
}

// ConvertUnits returns a copy of r with every candidate's elevation, which
// providers report in meters, expressed in units. r is not modified.
func ConvertUnits(r *result.Result, units string) (*result.Result, error) {
	units = strings.ToLower(strings.TrimSpace(units))
	if units == "" {
		units = UnitMeters
	}
	factor, ok := metersPer[units]
	if !ok {
		return nil, geoerrors.InvalidInput("units",
			fmt.Sprintf("unknown unit %q (want one of %s)", units, strings.Join(Units(), ", ")))
	}

	out := *r
	out.Candidates = make([]result.Candidate, len(r.Candidates))
	for i, c := range r.Candidates {
		cp := maps.Clone(c)
		if v, ok := c.Float(result.Elevation); ok {
			cp[result.Elevation] = v * factor
		}
		out.Candidates[i] = cp
	}
	return &out, nil
}
