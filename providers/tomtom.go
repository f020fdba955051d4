package providers

import (
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const tomtomURL = "https://api.tomtom.com"

var tomtomFields = result.FieldMap{
	List: "results",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"position.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"position.lon"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"address.freeformAddress"}},
		{Field: result.HouseNumber, Paths: []string{"address.streetNumber"}},
		{Field: result.Street, Paths: []string{"address.streetName"}},
		{Field: result.Neighborhood, Paths: []string{"address.municipalitySubdivision"}},
		{Field: result.City, Paths: []string{"address.municipality"}},
		{Field: result.County, Paths: []string{"address.countrySecondarySubdivision"}},
		{Field: result.State, Paths: []string{"address.countrySubdivisionName", "address.countrySubdivision"}},
		{Field: result.StateCode, Paths: []string{"address.countrySubdivisionCode"}},
		{Field: result.Country, Paths: []string{"address.country"}},
		{Field: result.CountryCode, Paths: []string{"address.countryCode"}},
		{Field: result.PostalCode, Paths: []string{"address.postalCode"}},
		{Field: result.Confidence, Paths: []string{"score", "matchConfidence.score"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"type"}},
		{Field: result.Accuracy, Paths: []string{"entityType"}},
		{Field: result.PlaceID, Paths: []string{"id"}},
	},
	Required: result.CoordinateFields,
}

// The reverse endpoint lists "addresses" and writes the position as a
// "lat,lon" string.
var tomtomReverseFields = func() result.FieldMap {
	fm := tomtomFields.With(
		result.FieldSpec{Field: result.Latitude, Paths: []string{"position"}, Split: ",", Index: 0, Coerce: result.CoerceFloat},
		result.FieldSpec{Field: result.Longitude, Paths: []string{"position"}, Split: ",", Index: 1, Coerce: result.CoerceFloat},
	)
	fm.List = "addresses"
	fm.Required = result.AddressFields
	return fm
}()

func tomtom() provider.Descriptor {
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"TOMTOM_API_KEY"}}
	return provider.Descriptor{
		Name: TomTom,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: tomtomURL,
				Path:    "search/2/geocode/{query}.json",
				Build: pathText("query", keyQuery("key"), rows("limit"), language("language"),
					func(q *provider.Query, p *provider.Params) error {
						if c := q.Options.Proximity; c != nil {
							p.Values.Set("lat", location.FormatFloat(c.Lat))
							p.Values.Set("lon", location.FormatFloat(c.Lng))
						}
						return nil
					},
					extra(map[string]string{"country": "countrySet", "countryset": "countrySet"}),
				),
				Fields:     tomtomFields,
				Credential: credential,
				RateLimit:  5,
				Burst:      5,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    tomtomURL,
				Path:       "search/2/reverseGeocode/{query}.json",
				Build:      pathPair("query", false, keyQuery("key"), language("language")),
				Fields:     tomtomReverseFields,
				Credential: credential,
				RateLimit:  5,
				Burst:      5,
			},
		},
	}
}
