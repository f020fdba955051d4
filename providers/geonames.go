package providers

import (
	"net/http"
	"net/url"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const geonamesURL = "http://api.geonames.org"

var geonamesPlace = []result.FieldSpec{
	{Field: result.Latitude, Paths: []string{"lat"}, Coerce: result.CoerceFloat},
	{Field: result.Longitude, Paths: []string{"lng"}, Coerce: result.CoerceFloat},
	{Field: result.Address, Paths: []string{"name", "toponymName"}},
	{Field: result.State, Paths: []string{"adminName1"}},
	{Field: result.StateCode, Paths: []string{"adminCodes1.ISO3166_2", "adminCode1"}},
	{Field: result.County, Paths: []string{"adminName2"}},
	{Field: result.Country, Paths: []string{"countryName"}},
	{Field: result.CountryCode, Paths: []string{"countryCode"}},
	{Field: result.Quality, Paths: []string{"fcode"}},
	{Field: result.Accuracy, Paths: []string{"fcl"}},
	{Field: result.PlaceID, Paths: []string{"geonameId"}, Coerce: result.CoerceString},
	{Field: result.Name, Paths: []string{"name"}},
	{Field: result.Population, Paths: []string{"population"}, Coerce: result.CoerceFloat},
	{Field: result.Timezone, Paths: []string{"timezone.timeZoneId"}},
	{Field: result.UTCOffset, Paths: []string{"timezone.gmtOffset"}, Coerce: result.CoerceFloat},
	{Field: result.Elevation, Paths: []string{"elevation", "srtm3"}, Coerce: result.CoerceFloat},
}

var (
	geonamesFields = result.FieldMap{
		List:     "geonames",
		Fields:   geonamesPlace,
		Required: result.CoordinateFields,
	}
	geonamesDetailsFields = result.FieldMap{
		Fields:   geonamesPlace,
		Required: result.CoordinateFields,
	}
	geonamesTimezoneFields = result.FieldMap{
		Fields: []result.FieldSpec{
			{Field: result.Latitude, Paths: []string{"lat"}, Coerce: result.CoerceFloat},
			{Field: result.Longitude, Paths: []string{"lng"}, Coerce: result.CoerceFloat},
			{Field: result.Timezone, Paths: []string{"timezoneId"}},
			{Field: result.UTCOffset, Paths: []string{"rawOffset", "gmtOffset"}, Coerce: result.CoerceFloat},
			{Field: result.Country, Paths: []string{"countryName"}},
			{Field: result.CountryCode, Paths: []string{"countryCode"}},
		},
		Required: result.TimezoneFields,
	}
	geonamesReverseFields = result.FieldMap{
		List:     "geonames",
		Fields:   geonamesPlace,
		Required: result.AddressFields,
	}
)

// geonamesCheck maps the numeric status codes GeoNames returns with 200.
// Code 15 is "no result found".
func geonamesCheck(doc httpclient.Document) error {
	status := doc.Get("status")
	if !status.Exists() {
		return nil
	}
	reason := status.Get("message").String()
	switch status.Get("value").Int() {
	case 15:
		return nil
	case 10:
		return geoerrors.Auth(GeoNames, http.StatusOK).WithDetail("reason", reason)
	case 18, 19, 20:
		return geoerrors.RateLimited(GeoNames)
	case 13, 22:
		return geoerrors.ProviderUnavailable(GeoNames, http.StatusOK)
	default:
		return geoerrors.RequestFailed(GeoNames, http.StatusOK, reason)
	}
}

// username sends the GeoNames account name, which doubles as its key.
func username() extender {
	return func(q *provider.Query, p *provider.Params) error {
		if q.Options.Key != "" {
			p.Values.Set("username", q.Options.Key)
		}
		return nil
	}
}

// byGeonameID builds lookups keyed by a GeoNames id.
func byGeonameID(extend ...extender) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		id, err := geonameID(q)
		if err != nil {
			return provider.Params{}, err
		}
		return apply(q, provider.Params{Values: url.Values{"geonameId": {id}}}, extend)
	}
}

func geonames() provider.Descriptor {
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"GEONAMES_USERNAME"}}
	adapter := func(m provider.Method, path string, build provider.ParamBuilder, fields result.FieldMap) provider.Adapter {
		return provider.Adapter{
			Method:     m,
			BaseURL:    geonamesURL,
			Path:       path,
			Build:      build,
			Fields:     fields,
			Check:      geonamesCheck,
			Credential: credential,
			RateLimit:  4,
			Burst:      4,
		}
	}
	search := forward("q", "maxRows", username(), language("lang"),
		extra(map[string]string{"country": "country", "featureclass": "featureClass", "featurecode": "featureCode"}),
		func(q *provider.Query, p *provider.Params) error {
			if b := q.Options.BBox; len(b) == 4 {
				p.Values.Set("west", location.FormatFloat(b[0]))
				p.Values.Set("south", location.FormatFloat(b[1]))
				p.Values.Set("east", location.FormatFloat(b[2]))
				p.Values.Set("north", location.FormatFloat(b[3]))
			}
			return nil
		})
	return provider.Descriptor{
		Name: GeoNames,
		Adapters: []provider.Adapter{
			adapter(provider.MethodGeocode, "searchJSON", search, geonamesFields),
			adapter(provider.MethodReverse, "findNearbyPlaceNameJSON",
				reverse("lat", "lng", username(), language("lang"), rows("maxRows")),
				geonamesReverseFields),
			adapter(provider.MethodDetails, "getJSON", byGeonameID(username(), language("lang")), geonamesDetailsFields),
			adapter(provider.MethodTimezone, "timezoneJSON", reverse("lat", "lng", username()), geonamesTimezoneFields),
			adapter(provider.MethodChildren, "childrenJSON",
				byGeonameID(username(), language("lang"), rows("maxRows")), geonamesFields),
			adapter(provider.MethodHierarchy, "hierarchyJSON", byGeonameID(username(), language("lang")), geonamesFields),
		},
	}
}
