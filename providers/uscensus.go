package providers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const (
	uscensusURL       = "https://geocoding.geo.census.gov"
	uscensusBenchmark = "Public_AR_Current"
)

var uscensusFields = result.FieldMap{
	List: "result.addressMatches",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"coordinates.y"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"coordinates.x"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"matchedAddress"}},
		{Field: result.HouseNumber, Paths: []string{"addressComponents.fromAddress"}},
		{Field: result.Street, Paths: []string{"addressComponents.streetName"}},
		{Field: result.City, Paths: []string{"addressComponents.city"}},
		{Field: result.StateCode, Paths: []string{"addressComponents.state"}},
		{Field: result.PostalCode, Paths: []string{"addressComponents.zip"}},
		{Field: result.PlaceID, Paths: []string{"tigerLine.tigerLineId"}},
		{Field: result.Accuracy, Paths: []string{"tigerLine.side"}},
	},
	Required: result.CoordinateFields,
}

// Reverse lookups answer with the census geographies containing the point.
var uscensusReverseFields = result.FieldMap{
	List: "result",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"input.location.y"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"input.location.x"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{
			"geographies.Incorporated Places.0.NAME",
			"geographies.Counties.0.NAME",
			"geographies.States.0.NAME",
		}, Join: true},
		{Field: result.City, Paths: []string{"geographies.Incorporated Places.0.BASENAME"}},
		{Field: result.County, Paths: []string{"geographies.Counties.0.NAME"}},
		{Field: result.State, Paths: []string{"geographies.States.0.NAME"}},
		{Field: result.StateCode, Paths: []string{"geographies.States.0.STUSAB"}},
		{Field: result.PlaceID, Paths: []string{"geographies.Census Tracts.0.GEOID"}},
	},
	Required: result.AddressFields,
}

// The batch answer is CSV: id, input, match, match type, matched address,
// "lng,lat", TIGER line id, side.
var uscensusBatchFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.PlaceID, Paths: []string{"0"}},
		{Field: result.Quality, Paths: []string{"2"}},
		{Field: result.Accuracy, Paths: []string{"3"}},
		{Field: result.Address, Paths: []string{"4"}},
		{Field: result.Latitude, Paths: []string{"5"}, Split: ",", Index: 1, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"5"}, Split: ",", Index: 0, Coerce: result.CoerceFloat},
	},
	Required: result.CoordinateFields,
}

// uscensusBatch uploads the inputs as an address file. Each row is an id
// and a one-line address; the service splits it.
func uscensusBatch(q *provider.Query) (provider.Params, error) {
	locs, err := items(q)
	if err != nil {
		return provider.Params{}, err
	}
	rows := make([][]string, len(locs))
	for i, loc := range locs {
		rows[i] = []string{strconv.Itoa(i), loc.Text, "", "", ""}
	}
	body := &httpclient.CSVUpload{
		Fields:   map[string]string{"benchmark": uscensusBenchmark},
		Field:    "addressFile",
		FileName: "addresses.csv",
		Rows:     rows,
	}
	return provider.Params{Values: url.Values{}, Body: body}, nil
}

func uscensus() provider.Descriptor {
	return provider.Descriptor{
		Name: USCensus,
		Adapters: []provider.Adapter{
			{
				Method:    provider.MethodGeocode,
				BaseURL:   uscensusURL,
				Path:      "geocoder/locations/onelineaddress",
				Defaults:  url.Values{"benchmark": {uscensusBenchmark}, "format": {"json"}},
				Build:     forward("address", ""),
				Fields:    uscensusFields,
				RateLimit: 10,
				Burst:     10,
			},
			{
				Method:  provider.MethodReverse,
				BaseURL: uscensusURL,
				Path:    "geocoder/geographies/coordinates",
				Defaults: url.Values{
					"benchmark": {uscensusBenchmark},
					"vintage":   {"Current_Current"},
					"format":    {"json"},
				},
				Build:     reverse("y", "x"),
				Fields:    uscensusReverseFields,
				RateLimit: 10,
				Burst:     10,
			},
			{
				Method:     provider.MethodBatch,
				BaseURL:    uscensusURL,
				Path:       "geocoder/locations/addressbatch",
				HTTPMethod: http.MethodPost,
				Format:     httpclient.FormatCSV,
				Build:      uscensusBatch,
				Fields:     uscensusBatchFields,
				RateLimit:  1,
				Burst:      1,
			},
		},
	}
}
