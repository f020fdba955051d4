package providers

import (
	"net/url"

	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const osmURL = "https://nominatim.openstreetmap.org"

// nominatimFields reads a Nominatim answer with addressdetails=1. LocationIQ
// serves the same schema.
var nominatimFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"lon"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"display_name"}},
		{Field: result.HouseNumber, Paths: []string{"address.house_number"}},
		{Field: result.Street, Paths: []string{"address.road", "address.pedestrian", "address.footway"}},
		{Field: result.Neighborhood, Paths: []string{"address.neighbourhood", "address.suburb", "address.quarter"}},
		{Field: result.City, Paths: []string{"address.city", "address.town", "address.village", "address.hamlet"}},
		{Field: result.County, Paths: []string{"address.county"}},
		{Field: result.State, Paths: []string{"address.state", "address.region"}},
		{Field: result.Country, Paths: []string{"address.country"}},
		{Field: result.CountryCode, Paths: []string{"address.country_code"}},
		{Field: result.PostalCode, Paths: []string{"address.postcode"}},
		{Field: result.Confidence, Paths: []string{"importance"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"type"}},
		{Field: result.Accuracy, Paths: []string{"place_rank"}, Coerce: result.CoerceFloat},
		{Field: result.PlaceID, Paths: []string{"place_id"}, Coerce: result.CoerceString},
		{Field: result.Name, Paths: []string{"name", "namedetails.name"}},
		{Field: result.Population, Paths: []string{"extratags.population"}, Coerce: result.CoerceFloat},
	},
	Required: result.CoordinateFields,
}

var nominatimReverseFields = result.FieldMap{
	Fields:   nominatimFields.Fields,
	Required: result.AddressFields,
}

// nominatimSearch adds the biasing options Nominatim understands.
var nominatimSearch = []extender{
	language("accept-language"),
	extra(map[string]string{"country": "countrycodes", "countrycodes": "countrycodes"}),
	func(q *provider.Query, p *provider.Params) error {
		if len(q.Options.BBox) == 4 {
			p.Values.Set("viewbox", joinFloats(q.Options.BBox, ","))
			p.Values.Set("bounded", "1")
		}
		return nil
	},
}

// osmStructured maps structured address parts to Nominatim's structured
// search parameters. Plain text falls back to a free-form query.
func osmStructured(q *provider.Query) (provider.Params, error) {
	parts, err := structured(q, "street", "city", "county", "state", "country", "postalcode")
	if err != nil {
		return provider.Params{}, err
	}
	v := url.Values{}
	for k, val := range parts {
		v.Set(k, val)
	}
	if len(v) == 0 {
		text, _ := q.Text()
		v.Set("q", text)
	}
	p := provider.Params{Values: v}
	return apply(q, p, append([]extender{rows("limit")}, nominatimSearch...))
}

func osm() provider.Descriptor {
	defaults := url.Values{"format": {"jsonv2"}, "addressdetails": {"1"}}
	return provider.Descriptor{
		Name: OSM,
		Adapters: []provider.Adapter{
			{
				Method:    provider.MethodGeocode,
				BaseURL:   osmURL,
				Path:      "search",
				Defaults:  defaults,
				Build:     forward("q", "limit", nominatimSearch...),
				Fields:    nominatimFields,
				RateLimit: 1,
				Burst:     1,
			},
			{
				Method:    provider.MethodDetails,
				BaseURL:   osmURL,
				Path:      "search",
				Defaults:  url.Values{"format": {"jsonv2"}, "addressdetails": {"1"}, "extratags": {"1"}, "namedetails": {"1"}},
				Build:     osmStructured,
				Fields:    nominatimFields,
				RateLimit: 1,
				Burst:     1,
			},
			{
				Method:    provider.MethodReverse,
				BaseURL:   osmURL,
				Path:      "reverse",
				Defaults:  url.Values{"format": {"jsonv2"}, "addressdetails": {"1"}, "zoom": {"18"}},
				Build:     reverse("lat", "lon", language("accept-language")),
				Fields:    nominatimReverseFields,
				RateLimit: 1,
				Burst:     1,
			},
		},
	}
}
