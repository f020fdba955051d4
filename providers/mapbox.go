package providers

import (
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

// mapboxContext selects the feature context entry whose id starts with kind.
func mapboxContext(kind, name string) string {
	return `context.#(id%"` + kind + `.*").` + name
}

var mapboxFields = result.FieldMap{
	List: "features",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"center.1", "geometry.coordinates.1"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"center.0", "geometry.coordinates.0"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"place_name"}},
		{Field: result.HouseNumber, Paths: []string{"address"}},
		{Field: result.Street, Paths: []string{"text"}},
		{Field: result.Neighborhood, Paths: []string{mapboxContext("neighborhood", "text"), mapboxContext("locality", "text")}},
		{Field: result.City, Paths: []string{mapboxContext("place", "text")}},
		{Field: result.County, Paths: []string{mapboxContext("district", "text")}},
		{Field: result.State, Paths: []string{mapboxContext("region", "text")}},
		{Field: result.StateCode, Paths: []string{mapboxContext("region", "short_code")}, Split: "-", Index: 1},
		{Field: result.Country, Paths: []string{mapboxContext("country", "text")}},
		{Field: result.CountryCode, Paths: []string{mapboxContext("country", "short_code")}},
		{Field: result.PostalCode, Paths: []string{mapboxContext("postcode", "text")}},
		{Field: result.Confidence, Paths: []string{"relevance"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"place_type.0"}},
		{Field: result.Accuracy, Paths: []string{"properties.accuracy"}},
		{Field: result.PlaceID, Paths: []string{"id"}},
	},
	Required: result.CoordinateFields,
}

func mapbox() provider.Descriptor {
	reverseFields := mapboxFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"MAPBOX_ACCESS_TOKEN"}}
	return provider.Descriptor{
		Name: Mapbox,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: "https://api.mapbox.com",
				Path:    "geocoding/v5/mapbox.places/{query}.json",
				Build: pathText("query",
					keyQuery("access_token"),
					rows("limit"),
					language("language"),
					proximity("proximity", true),
					bbox("bbox"),
					extra(map[string]string{"country": "country", "types": "types"}),
				),
				Fields:     mapboxFields,
				Credential: credential,
				RateLimit:  10,
				Burst:      10,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    "https://api.mapbox.com",
				Path:       "geocoding/v5/mapbox.places/{query}.json",
				Build:      pathPair("query", true, keyQuery("access_token"), language("language"), extra(map[string]string{"types": "types"})),
				Fields:     reverseFields,
				Credential: credential,
				RateLimit:  10,
				Burst:      10,
			},
		},
	}
}
