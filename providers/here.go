package providers

import (
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

var hereFields = result.FieldMap{
	List: "items",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"position.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"position.lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"address.label", "title"}},
		{Field: result.HouseNumber, Paths: []string{"address.houseNumber"}},
		{Field: result.Street, Paths: []string{"address.street"}},
		{Field: result.Neighborhood, Paths: []string{"address.district"}},
		{Field: result.City, Paths: []string{"address.city"}},
		{Field: result.County, Paths: []string{"address.county"}},
		{Field: result.State, Paths: []string{"address.state"}},
		{Field: result.StateCode, Paths: []string{"address.stateCode"}},
		{Field: result.Country, Paths: []string{"address.countryName"}},
		{Field: result.CountryCode, Paths: []string{"address.countryCode"}},
		{Field: result.PostalCode, Paths: []string{"address.postalCode"}},
		{Field: result.Confidence, Paths: []string{"scoring.queryScore"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"resultType"}},
		{Field: result.Accuracy, Paths: []string{"houseNumberType", "localityType"}},
		{Field: result.PlaceID, Paths: []string{"id"}},
		{Field: result.Name, Paths: []string{"title"}},
	},
	Required: result.CoordinateFields,
}

func here() provider.Descriptor {
	reverseFields := hereFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"HERE_API_KEY"}}
	return provider.Descriptor{
		Name: HERE,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: "https://geocode.search.hereapi.com",
				Path:    "v1/geocode",
				Build: forward("q", "limit", keyQuery("apiKey"), language("lang"), proximity("at", false),
					extra(map[string]string{"in": "in"})),
				Fields:     hereFields,
				Credential: credential,
				RateLimit:  5,
				Burst:      5,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    "https://revgeocode.search.hereapi.com",
				Path:       "v1/revgeocode",
				Build:      reversePair("at", false, keyQuery("apiKey"), language("lang"), rows("limit")),
				Fields:     reverseFields,
				Credential: credential,
				RateLimit:  5,
				Burst:      5,
			},
		},
	}
}
