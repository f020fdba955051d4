package providers

import (
	"net/url"

	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const gisgraphyURL = "https://services.gisgraphy.com"

var gisgraphyFields = result.FieldMap{
	List: "result",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"formatedFull", "formatedPostal"}},
		{Field: result.HouseNumber, Paths: []string{"houseNumber"}},
		{Field: result.Street, Paths: []string{"streetName"}},
		{Field: result.City, Paths: []string{"city"}},
		{Field: result.County, Paths: []string{"adm2Name"}},
		{Field: result.State, Paths: []string{"state", "adm1Name"}},
		{Field: result.CountryCode, Paths: []string{"countryCode"}},
		{Field: result.PostalCode, Paths: []string{"zipCode"}},
		{Field: result.Quality, Paths: []string{"geocodingLevel"}},
		{Field: result.Accuracy, Paths: []string{"distance"}, Coerce: result.CoerceFloat},
		{Field: result.PlaceID, Paths: []string{"id"}, Coerce: result.CoerceString},
		{Field: result.Name, Paths: []string{"name"}},
	},
	Required: result.CoordinateFields,
}

func gisgraphy() provider.Descriptor {
	reverseFields := gisgraphyFields
	reverseFields.Required = result.AddressFields
	defaults := url.Values{"format": {"json"}}
	return provider.Descriptor{
		Name: Gisgraphy,
		Adapters: []provider.Adapter{
			{
				Method:   provider.MethodGeocode,
				BaseURL:  gisgraphyURL,
				Path:     "geocoding/",
				Defaults: defaults,
				Build:    forward("address", "limitnbresult", keyQuery("apikey"), extra(map[string]string{"country": "country"})),
				Fields:   gisgraphyFields,
			},
			{
				Method:   provider.MethodReverse,
				BaseURL:  gisgraphyURL,
				Path:     "reversegeocoding/",
				Defaults: defaults,
				Build:    reverse("lat", "lng", keyQuery("apikey")),
				Fields:   reverseFields,
			},
		},
	}
}
