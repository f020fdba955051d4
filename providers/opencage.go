package providers

import (
	"github.com/tidwall/gjson"

	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

var opencageFields = result.FieldMap{
	List: "results",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"geometry.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"geometry.lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"formatted"}},
		{Field: result.HouseNumber, Paths: []string{"components.house_number"}},
		{Field: result.Street, Paths: []string{"components.road", "components.street"}},
		{Field: result.Neighborhood, Paths: []string{"components.neighbourhood", "components.suburb"}},
		{Field: result.City, Paths: []string{"components.city", "components.town", "components.village"}},
		{Field: result.County, Paths: []string{"components.county"}},
		{Field: result.State, Paths: []string{"components.state"}},
		{Field: result.StateCode, Paths: []string{"components.state_code"}},
		{Field: result.Country, Paths: []string{"components.country"}},
		{Field: result.CountryCode, Paths: []string{"components.country_code"}},
		{Field: result.PostalCode, Paths: []string{"components.postcode"}},
		{Field: result.Confidence, Paths: []string{"confidence"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"components._type"}},
		{Field: result.Timezone, Paths: []string{"annotations.timezone.name"}},
		{Field: result.UTCOffset, Func: func(item gjson.Result) any {
			return hoursFromSeconds(item.Get("annotations.timezone.offset_sec"))
		}},
		{Field: result.Name, Paths: []string{"components._normalized_city"}},
	},
	Required: result.CoordinateFields,
}

func opencage() provider.Descriptor {
	reverseFields := opencageFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"OPENCAGE_API_KEY"}}
	return provider.Descriptor{
		Name: OpenCage,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: "https://api.opencagedata.com",
				Path:    "geocode/v1/json",
				Build: forward("q", "limit",
					keyQuery("key"),
					language("language"),
					proximity("proximity", false),
					bbox("bounds"),
					extra(map[string]string{"country": "countrycode", "countrycode": "countrycode"}),
				),
				Fields:     opencageFields,
				Credential: credential,
				RateLimit:  1,
				Burst:      1,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    "https://api.opencagedata.com",
				Path:       "geocode/v1/json",
				Build:      reversePair("q", false, keyQuery("key"), language("language"), rows("limit")),
				Fields:     reverseFields,
				Credential: credential,
				RateLimit:  1,
				Burst:      1,
			},
		},
	}
}

// hoursFromSeconds turns an offset in seconds into hours.
func hoursFromSeconds(v gjson.Result) any {
	if v.Type != gjson.Number {
		return nil
	}
	return v.Float() / 3600
}
