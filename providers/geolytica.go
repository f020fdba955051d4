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

const geolyticaURL = "https://geocoder.ca"

// Geocoder.ca answers in XML under a <geodata> root.
var geolyticaFields = result.FieldMap{
	List: "geodata",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"latt"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"longt"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{
			"standard.stnumber", "standard.staddress", "standard.city", "standard.prov", "postal",
		}, Join: true},
		{Field: result.HouseNumber, Paths: []string{"standard.stnumber", "stnumber"}},
		{Field: result.Street, Paths: []string{"standard.staddress", "staddress"}},
		{Field: result.City, Paths: []string{"standard.city", "city"}},
		{Field: result.StateCode, Paths: []string{"standard.prov", "prov"}},
		{Field: result.PostalCode, Paths: []string{"postal"}},
		{Field: result.Confidence, Paths: []string{"standard.confidence", "confidence"}, Coerce: result.CoerceFloat},
		{Field: result.Accuracy, Paths: []string{"distance"}, Coerce: result.CoerceFloat},
	},
	Required: result.CoordinateFields,
}

var geolyticaReverseFields = func() result.FieldMap {
	fm := geolyticaFields.With(
		result.FieldSpec{Field: result.Address, Paths: []string{"stnumber", "staddress", "city", "prov", "postal"}, Join: true},
	)
	fm.Required = result.AddressFields
	return fm
}()

// geolyticaCheck reads <error>. Code 008 means no match.
func geolyticaCheck(doc httpclient.Document) error {
	e := doc.Get("geodata.error")
	if !e.Exists() {
		return nil
	}
	code := e.Get("code").String()
	reason := e.Get("description").String()
	lower := strings.ToLower(reason)
	switch {
	case code == "008":
		return nil
	case strings.Contains(lower, "auth"):
		return geoerrors.Auth(Geolytica, http.StatusOK).WithDetail("reason", reason)
	case strings.Contains(lower, "throttl") || strings.Contains(lower, "limit"):
		return geoerrors.RateLimited(Geolytica)
	default:
		return geoerrors.RequestFailed(Geolytica, http.StatusOK, code+": "+reason)
	}
}

func geolytica() provider.Descriptor {
	// A key lifts the free tier's throttle but is not required.
	credential := provider.CredentialSpec{EnvVars: []string{"GEOLYTICA_API_KEY"}}
	return provider.Descriptor{
		Name: Geolytica,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    geolyticaURL,
				Defaults:   url.Values{"geoit": {"xml"}, "standard": {"1"}},
				Format:     httpclient.FormatXML,
				Build:      forward("locate", "", keyQuery("auth")),
				Fields:     geolyticaFields,
				Check:      geolyticaCheck,
				Credential: credential,
				RateLimit:  1,
				Burst:      1,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    geolyticaURL,
				Defaults:   url.Values{"geoit": {"xml"}, "reverse": {"1"}},
				Format:     httpclient.FormatXML,
				Build:      reverse("latt", "longt", keyQuery("auth")),
				Fields:     geolyticaReverseFields,
				Check:      geolyticaCheck,
				Credential: credential,
				RateLimit:  1,
				Burst:      1,
			},
		},
	}
}
