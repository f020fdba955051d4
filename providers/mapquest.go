package providers

import (
	"net/http"
	"net/url"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const mapquestURL = "https://www.mapquestapi.com"

var mapquestLocation = []result.FieldSpec{
	{Field: result.Latitude, Paths: []string{"latLng.lat", "displayLatLng.lat"}, Coerce: result.CoerceFloat},
	{Field: result.Longitude, Paths: []string{"latLng.lng", "displayLatLng.lng"}, Coerce: result.CoerceFloat},
	{Field: result.Address, Paths: []string{"street", "adminArea5", "adminArea3", "adminArea1"}, Join: true},
	{Field: result.Street, Paths: []string{"street"}},
	{Field: result.Neighborhood, Paths: []string{"adminArea6"}},
	{Field: result.City, Paths: []string{"adminArea5"}},
	{Field: result.County, Paths: []string{"adminArea4"}},
	{Field: result.State, Paths: []string{"adminArea3"}},
	{Field: result.CountryCode, Paths: []string{"adminArea1"}},
	{Field: result.PostalCode, Paths: []string{"postalCode"}},
	{Field: result.Quality, Paths: []string{"geocodeQuality"}},
	{Field: result.Accuracy, Paths: []string{"geocodeQualityCode"}},
}

var (
	mapquestFields = result.FieldMap{
		List:     "results.0.locations",
		Fields:   mapquestLocation,
		Required: result.CoordinateFields,
	}
	mapquestReverseFields = result.FieldMap{
		List:     "results.0.locations",
		Fields:   mapquestLocation,
		Required: result.AddressFields,
	}
	// A batch answer has one results entry per input; the best location of
	// each becomes one candidate, in input order.
	mapquestBatchFields = result.FieldMap{
		List:     "results.#.locations.0",
		Fields:   mapquestLocation,
		Required: result.CoordinateFields,
	}
)

// mapquestCheck reads info.statuscode, which MapQuest sets on 200 answers.
func mapquestCheck(doc httpclient.Document) error {
	code := int(doc.Get("info.statuscode").Int())
	reason := doc.Get("info.messages.0").String()
	switch {
	case code == 0:
		return nil
	case code == 403:
		return geoerrors.Auth(MapQuest, code).WithDetail("reason", reason)
	case code >= 500:
		return geoerrors.ProviderUnavailable(MapQuest, code)
	default:
		return geoerrors.RequestFailed(MapQuest, http.StatusOK, reason)
	}
}

// mapquestBounds writes Options.BBox as upper-left then lower-right corner.
func mapquestBounds(q *provider.Query, p *provider.Params) error {
	if b := q.Options.BBox; len(b) == 4 {
		p.Values.Set("boundingBox", joinFloats([]float64{b[3], b[0], b[1], b[2]}, ","))
	}
	return nil
}

// mapquestBatch repeats "location" once per input.
func mapquestBatch(q *provider.Query) (provider.Params, error) {
	locs, err := items(q)
	if err != nil {
		return provider.Params{}, err
	}
	v := url.Values{"maxResults": {"1"}}
	for _, loc := range locs {
		v.Add("location", loc.Text)
	}
	return apply(q, provider.Params{Values: v}, []extender{keyQuery("key")})
}

func mapquest() provider.Descriptor {
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"MAPQUEST_API_KEY"}}
	adapter := func(m provider.Method, path string, build provider.ParamBuilder, fields result.FieldMap) provider.Adapter {
		return provider.Adapter{
			Method:     m,
			BaseURL:    mapquestURL,
			Path:       path,
			Build:      build,
			Fields:     fields,
			Check:      mapquestCheck,
			Credential: credential,
			RateLimit:  10,
			Burst:      10,
		}
	}
	return provider.Descriptor{
		Name: MapQuest,
		Adapters: []provider.Adapter{
			adapter(provider.MethodGeocode, "geocoding/v1/address",
				forward("location", "maxResults", keyQuery("key"), mapquestBounds),
				mapquestFields),
			adapter(provider.MethodReverse, "geocoding/v1/reverse",
				reversePair("location", false, keyQuery("key")),
				mapquestReverseFields),
			adapter(provider.MethodBatch, "geocoding/v1/batch", mapquestBatch, mapquestBatchFields),
		},
	}
}
