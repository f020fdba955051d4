package providers

import (
	"net/http"
	"net/url"
	"strings"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

// The answer carries the matched geocode next to the echoed input, so
// the whole document is read as one candidate.
var tamuFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"OutputGeocodes.0.OutputGeocode.Latitude"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"OutputGeocodes.0.OutputGeocode.Longitude"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{
			"InputAddress.StreetAddress", "InputAddress.City", "InputAddress.State", "InputAddress.Zip",
		}, Join: true},
		{Field: result.Street, Paths: []string{"InputAddress.StreetAddress"}},
		{Field: result.City, Paths: []string{"InputAddress.City"}},
		{Field: result.StateCode, Paths: []string{"InputAddress.State"}},
		{Field: result.PostalCode, Paths: []string{"InputAddress.Zip"}},
		{Field: result.Confidence, Paths: []string{"OutputGeocodes.0.OutputGeocode.MatchScore"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"OutputGeocodes.0.OutputGeocode.MatchType"}},
		{Field: result.Accuracy, Paths: []string{"OutputGeocodes.0.OutputGeocode.FeatureMatchingResultType"}},
		{Field: result.County, Paths: []string{"CensusValues.0.CensusValue1.CensusCountyFips"}},
		{Field: result.PlaceID, Paths: []string{"CensusValues.0.CensusValue1.CensusTract"}},
	},
	Required: result.CoordinateFields,
}

// tamuCheck reads QueryStatusCodeValue, which mirrors HTTP codes inside a
// 200 answer.
func tamuCheck(doc httpclient.Document) error {
	status := doc.Get("QueryStatusCodeValue")
	if !status.Exists() {
		return nil
	}
	code := int(status.Int())
	reason := doc.Get("QueryStatusCode").String()
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return geoerrors.Auth(TAMU, code).WithDetail("reason", reason)
	case code == http.StatusTooManyRequests:
		return geoerrors.RateLimited(TAMU)
	case code >= 500:
		return geoerrors.ProviderUnavailable(TAMU, code)
	default:
		return geoerrors.RequestFailed(TAMU, http.StatusOK, reason)
	}
}

// tamuAddress needs the street line plus city, state and zip code, from a
// structured address or the matching options.
func tamuAddress(q *provider.Query) (provider.Params, error) {
	loc, err := q.Classify()
	if err != nil {
		return provider.Params{}, err
	}
	parts, err := structured(q, "street", "city", "state", "zipcode")
	if err != nil {
		return provider.Params{}, err
	}
	var missing []string
	for _, k := range []string{"city", "state", "zipcode"} {
		if parts[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return provider.Params{}, geoerrors.InvalidLocationShape(string(q.Method),
			"missing "+strings.Join(missing, ", ")+" for the street address")
	}
	street := parts["street"]
	if street == "" {
		street = loc.Text
	}
	p := provider.Params{Values: url.Values{
		"streetAddress": {street},
		"city":          {parts["city"]},
		"state":         {parts["state"]},
		"zip":           {parts["zipcode"]},
	}}
	return apply(q, p, []extender{keyQuery("apikey")})
}

func tamu() provider.Descriptor {
	return provider.Descriptor{
		Name: TAMU,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: "https://geoservices.tamu.edu",
				Path:    "Services/Geocode/WebService/GeocoderWebServiceHttpNonParsed_V04_01.aspx",
				Defaults: url.Values{
					"format":   {"json"},
					"census":   {"true"},
					"notStore": {"false"},
					"version":  {"4.01"},
				},
				Build:      tamuAddress,
				Fields:     tamuFields,
				Check:      tamuCheck,
				Credential: provider.CredentialSpec{Required: true, EnvVars: []string{"TAMU_API_KEY"}},
				RateLimit:  5,
				Burst:      5,
			},
		},
	}
}
