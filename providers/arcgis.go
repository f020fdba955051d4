package providers

import (
	"net/http"
	"net/url"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const arcgisURL = "https://geocode.arcgis.com/arcgis/rest/services/World/GeocodeServer"

var arcgisFields = result.FieldMap{
	List: "locations",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"feature.geometry.y"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"feature.geometry.x"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"name"}},
		{Field: result.City, Paths: []string{"feature.attributes.City"}},
		{Field: result.State, Paths: []string{"feature.attributes.Region"}},
		{Field: result.Country, Paths: []string{"feature.attributes.Country"}},
		{Field: result.PostalCode, Paths: []string{"feature.attributes.Postal"}},
		{Field: result.Confidence, Paths: []string{"feature.attributes.Score"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"feature.attributes.Addr_Type"}},
		{Field: result.Name, Paths: []string{"feature.attributes.PlaceName"}},
	},
	Required: result.CoordinateFields,
}

var arcgisReverseFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"location.y"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"location.x"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"address.Match_addr", "address.LongLabel"}},
		{Field: result.HouseNumber, Paths: []string{"address.AddNum"}},
		{Field: result.Street, Paths: []string{"address.Address"}},
		{Field: result.Neighborhood, Paths: []string{"address.Neighborhood", "address.District"}},
		{Field: result.City, Paths: []string{"address.City"}},
		{Field: result.County, Paths: []string{"address.Subregion"}},
		{Field: result.State, Paths: []string{"address.Region"}},
		{Field: result.StateCode, Paths: []string{"address.RegionAbbr"}},
		{Field: result.CountryCode, Paths: []string{"address.CountryCode"}},
		{Field: result.PostalCode, Paths: []string{"address.Postal"}},
		{Field: result.Quality, Paths: []string{"address.Addr_type"}},
	},
	Required: result.AddressFields,
}

// esriCheck reads the error object ArcGIS servers return with status 200.
// It serves both the world geocoder and self-hosted ones such as Ottawa's.
func esriCheck(name string) func(doc httpclient.Document) error {
	return func(doc httpclient.Document) error {
		e := doc.Get("error")
		if !e.Exists() {
			return nil
		}
		code := int(e.Get("code").Int())
		reason := e.Get("message").String()
		switch code {
		case http.StatusUnauthorized, http.StatusForbidden, 498, 499:
			return geoerrors.Auth(name, code).WithDetail("reason", reason)
		case http.StatusTooManyRequests:
			return geoerrors.RateLimited(name)
		}
		if code >= 500 {
			return geoerrors.ProviderUnavailable(name, code)
		}
		// ArcGIS reports "no address found" for reverse misses.
		if code == http.StatusBadRequest && e.Get("details.0").String() == "Unable to find address for the specified location." {
			return nil
		}
		return geoerrors.RequestFailed(name, code, reason)
	}
}

func arcgis() provider.Descriptor {
	return provider.Descriptor{
		Name: ArcGIS,
		Adapters: []provider.Adapter{
			{
				Method:   provider.MethodGeocode,
				BaseURL:  arcgisURL,
				Path:     "find",
				Defaults: url.Values{"f": {"json"}},
				Build: forward("text", "maxLocations", keyQuery("token"), language("langCode"),
					proximity("location", true), bbox("bbox"),
					extra(map[string]string{"country": "sourceCountry", "sourcecountry": "sourceCountry"})),
				Fields:    arcgisFields,
				Check:     esriCheck(ArcGIS),
				RateLimit: 10,
				Burst:     10,
			},
			{
				Method:   provider.MethodReverse,
				BaseURL:  arcgisURL,
				Path:     "reverseGeocode",
				Defaults: url.Values{"f": {"json"}},
				Build: reversePair("location", true, keyQuery("token"), language("langCode"),
					extra(map[string]string{"distance": "distance"})),
				Fields:    arcgisReverseFields,
				Check:     esriCheck(ArcGIS),
				RateLimit: 10,
				Burst:     10,
			},
		},
	}
}
