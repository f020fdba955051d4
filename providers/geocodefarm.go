package providers

import (
	"net/http"
	"strings"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const geocodefarmURL = "https://www.geocode.farm"

var geocodefarmFields = result.FieldMap{
	List: "geocoding_results.RESULTS",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"COORDINATES.latitude"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"COORDINATES.longitude"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"formatted_address", "ADDRESS.address_returned"}},
		{Field: result.HouseNumber, Paths: []string{"ADDRESS.street_number"}},
		{Field: result.Street, Paths: []string{"ADDRESS.street_name"}},
		{Field: result.Neighborhood, Paths: []string{"ADDRESS.neighborhood"}},
		{Field: result.City, Paths: []string{"ADDRESS.locality"}},
		{Field: result.County, Paths: []string{"ADDRESS.admin_2"}},
		{Field: result.State, Paths: []string{"ADDRESS.admin_1"}},
		{Field: result.Country, Paths: []string{"ADDRESS.country"}},
		{Field: result.PostalCode, Paths: []string{"ADDRESS.postal_code"}},
		{Field: result.Accuracy, Paths: []string{"accuracy"}},
		{Field: result.Timezone, Paths: []string{"LOCATION_DETAILS.timezone_long"}},
	},
	Required: result.CoordinateFields,
}

// geocodefarmCheck reads STATUS.status, e.g. "FAILED, ACCESS_DENIED".
func geocodefarmCheck(doc httpclient.Document) error {
	status := doc.Get("geocoding_results.STATUS.status").String()
	switch {
	case status == "" || status == "SUCCESS" || strings.Contains(status, "NO_RESULTS"):
		return nil
	case strings.Contains(status, "ACCESS_DENIED") || strings.Contains(status, "INVALID_KEY"):
		return geoerrors.Auth(GeocodeFarm, http.StatusOK).WithDetail("reason", status)
	case strings.Contains(status, "OVER_QUERY_LIMIT"):
		return geoerrors.RateLimited(GeocodeFarm)
	default:
		return geoerrors.RequestFailed(GeocodeFarm, http.StatusOK, status)
	}
}

func geocodefarm() provider.Descriptor {
	reverseFields := geocodefarmFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{EnvVars: []string{"GEOCODEFARM_API_KEY"}}
	return provider.Descriptor{
		Name: GeocodeFarm,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    geocodefarmURL,
				Path:       "v3/json/forward/",
				Build:      forward("addr", "count", keyQuery("key"), language("lang"), extra(map[string]string{"country": "country"})),
				Fields:     geocodefarmFields,
				Check:      geocodefarmCheck,
				Credential: credential,
				RateLimit:  4,
				Burst:      4,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    geocodefarmURL,
				Path:       "v3/json/reverse/",
				Build:      reverse("lat", "lon", keyQuery("key"), language("lang"), rows("count")),
				Fields:     reverseFields,
				Check:      geocodefarmCheck,
				Credential: credential,
				RateLimit:  4,
				Burst:      4,
			},
		},
	}
}
