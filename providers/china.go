package providers

import (
	"net/http"
	"net/url"
	"strconv"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

var baiduFields = result.FieldMap{
	List: "result",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"location.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"location.lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"formatted_address"}},
		{Field: result.HouseNumber, Paths: []string{"addressComponent.street_number"}},
		{Field: result.Street, Paths: []string{"addressComponent.street"}},
		{Field: result.Neighborhood, Paths: []string{"addressComponent.district"}},
		{Field: result.City, Paths: []string{"addressComponent.city"}},
		{Field: result.State, Paths: []string{"addressComponent.province"}},
		{Field: result.Country, Paths: []string{"addressComponent.country"}},
		{Field: result.CountryCode, Paths: []string{"addressComponent.country_code_iso2"}},
		{Field: result.PostalCode, Paths: []string{"addressComponent.adcode"}},
		{Field: result.Confidence, Paths: []string{"confidence"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"level"}},
		{Field: result.Accuracy, Paths: []string{"precise"}, Coerce: result.CoerceFloat},
	},
	Required: result.CoordinateFields,
}

// baiduCheck classifies the numeric status Baidu returns with 200.
func baiduCheck(doc httpclient.Document) error {
	status := doc.Get("status")
	if !status.Exists() {
		return nil
	}
	code := int(status.Int())
	reason := doc.Get("message").String()
	if reason == "" {
		reason = doc.Get("msg").String()
	}
	switch {
	case code == 0:
		return nil
	case code == 1:
		return geoerrors.ProviderUnavailable(Baidu, http.StatusOK)
	case code == 4 || code == 302 || code == 401 || code == 402:
		return geoerrors.RateLimited(Baidu)
	case code == 101 || code == 102 || (code >= 200 && code < 300):
		return geoerrors.Auth(Baidu, http.StatusOK).WithDetail("reason", reason)
	default:
		return geoerrors.RequestFailed(Baidu, http.StatusOK, "status "+strconv.Itoa(code)+": "+reason)
	}
}

var gaodeFields = result.FieldMap{
	List: "geocodes",
	Fields: []result.FieldSpec{
		// location is "lng,lat".
		{Field: result.Latitude, Paths: []string{"location"}, Split: ",", Index: 1, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"location"}, Split: ",", Index: 0, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"formatted_address"}},
		{Field: result.HouseNumber, Paths: []string{"number"}},
		{Field: result.Street, Paths: []string{"street"}},
		{Field: result.Neighborhood, Paths: []string{"district"}},
		{Field: result.City, Paths: []string{"city"}},
		{Field: result.State, Paths: []string{"province"}},
		{Field: result.Country, Paths: []string{"country"}},
		{Field: result.PostalCode, Paths: []string{"adcode"}},
		{Field: result.Quality, Paths: []string{"level"}},
	},
	Required: result.CoordinateFields,
}

var gaodeReverseFields = result.FieldMap{
	List: "regeocode",
	Fields: []result.FieldSpec{
		{Field: result.Address, Paths: []string{"formatted_address"}},
		{Field: result.HouseNumber, Paths: []string{"addressComponent.streetNumber.number"}},
		{Field: result.Street, Paths: []string{"addressComponent.streetNumber.street"}},
		{Field: result.Neighborhood, Paths: []string{"addressComponent.township", "addressComponent.district"}},
		{Field: result.City, Paths: []string{"addressComponent.city", "addressComponent.province"}},
		{Field: result.State, Paths: []string{"addressComponent.province"}},
		{Field: result.Country, Paths: []string{"addressComponent.country"}},
		{Field: result.PostalCode, Paths: []string{"addressComponent.adcode"}},
	},
	Required: result.AddressFields,
}

// gaodeCheck reads the "status"/"infocode" pair AMap returns with 200.
func gaodeCheck(doc httpclient.Document) error {
	if s := doc.Get("status"); !s.Exists() || s.String() == "1" {
		return nil
	}
	info := doc.Get("info").String()
	switch doc.Get("infocode").String() {
	case "10001", "10002", "10005", "10006", "10007", "10009", "10010", "10012":
		return geoerrors.Auth(Gaode, http.StatusOK).WithDetail("reason", info)
	case "10003", "10004", "10014", "10015", "10019", "10020", "10021", "10044", "10045":
		return geoerrors.RateLimited(Gaode)
	case "10016", "10017":
		return geoerrors.ProviderUnavailable(Gaode, http.StatusOK)
	default:
		return geoerrors.RequestFailed(Gaode, http.StatusOK, info)
	}
}

func baidu() provider.Descriptor {
	reverseFields := baiduFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"BAIDU_API_KEY"}}
	return provider.Descriptor{
		Name: Baidu,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    "https://api.map.baidu.com",
				Path:       "geocoding/v3/",
				Defaults:   url.Values{"output": {"json"}, "ret_coordtype": {"gcj02ll"}},
				Build:      forward("address", "", keyQuery("ak"), extra(map[string]string{"city": "city"})),
				Fields:     baiduFields,
				Check:      baiduCheck,
				Credential: credential,
				RateLimit:  30,
				Burst:      10,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    "https://api.map.baidu.com",
				Path:       "reverse_geocoding/v3/",
				Defaults:   url.Values{"output": {"json"}, "coordtype": {"wgs84ll"}},
				Build:      reversePair("location", false, keyQuery("ak"), language("language")),
				Fields:     reverseFields,
				Check:      baiduCheck,
				Credential: credential,
				RateLimit:  30,
				Burst:      10,
			},
		},
	}
}

func gaode() provider.Descriptor {
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"GAODE_API_KEY"}}
	return provider.Descriptor{
		Name: Gaode,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    "https://restapi.amap.com",
				Path:       "v3/geocode/geo",
				Build:      forward("address", "", keyQuery("key"), extra(map[string]string{"city": "city"})),
				Fields:     gaodeFields,
				Check:      gaodeCheck,
				Credential: credential,
				RateLimit:  50,
				Burst:      10,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    "https://restapi.amap.com",
				Path:       "v3/geocode/regeo",
				Build:      reversePair("location", true, keyQuery("key"), extra(map[string]string{"radius": "radius"})),
				Fields:     gaodeReverseFields,
				Check:      gaodeCheck,
				Credential: credential,
				RateLimit:  50,
				Burst:      10,
			},
		},
	}
}
