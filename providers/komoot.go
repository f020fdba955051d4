package providers

import (
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const komootURL = "https://photon.komoot.io"

// Photon answers with a GeoJSON FeatureCollection.
var komootFields = result.FieldMap{
	List: "features",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"geometry.coordinates.1"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"geometry.coordinates.0"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Join: true, Paths: []string{
			"properties.name", "properties.street", "properties.city", "properties.state", "properties.country",
		}},
		{Field: result.HouseNumber, Paths: []string{"properties.housenumber"}},
		{Field: result.Street, Paths: []string{"properties.street"}},
		{Field: result.Neighborhood, Paths: []string{"properties.district", "properties.locality"}},
		{Field: result.City, Paths: []string{"properties.city"}},
		{Field: result.County, Paths: []string{"properties.county"}},
		{Field: result.State, Paths: []string{"properties.state"}},
		{Field: result.Country, Paths: []string{"properties.country"}},
		{Field: result.CountryCode, Paths: []string{"properties.countrycode"}},
		{Field: result.PostalCode, Paths: []string{"properties.postcode"}},
		{Field: result.Quality, Paths: []string{"properties.osm_value"}},
		{Field: result.Accuracy, Paths: []string{"properties.type"}},
		{Field: result.PlaceID, Paths: []string{"properties.osm_id"}, Coerce: result.CoerceString},
		{Field: result.Name, Paths: []string{"properties.name"}},
	},
	Required: result.CoordinateFields,
}

func komoot() provider.Descriptor {
	reverseFields := komootFields
	reverseFields.Required = result.AddressFields
	return provider.Descriptor{
		Name: Komoot,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: komootURL,
				Path:    "api",
				Build: forward("q", "limit",
					language("lang"),
					func(q *provider.Query, p *provider.Params) error {
						if c := q.Options.Proximity; c != nil {
							p.Values.Set("lat", location.FormatFloat(c.Lat))
							p.Values.Set("lon", location.FormatFloat(c.Lng))
						}
						return nil
					},
					bbox("bbox"),
				),
				Fields: komootFields,
			},
			{
				Method:  provider.MethodReverse,
				BaseURL: komootURL,
				Path:    "reverse",
				Build:   reverse("lat", "lon", rows("limit"), language("lang")),
				Fields:  reverseFields,
			},
		},
	}
}
