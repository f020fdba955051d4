package providers

import (
	"net/http"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const w3wURL = "https://api.what3words.com"

var w3wFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"coordinates.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"coordinates.lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"words"}},
		{Field: result.Name, Paths: []string{"nearestPlace"}},
		{Field: result.CountryCode, Paths: []string{"country"}},
		{Field: result.PlaceID, Paths: []string{"map"}},
	},
	Required: result.CoordinateFields,
}

func w3wCheck(doc httpclient.Document) error {
	e := doc.Get("error")
	if !e.Exists() {
		return nil
	}
	reason := e.Get("message").String()
	switch e.Get("code").String() {
	case "InvalidKey", "MissingKey", "SuspendedKey":
		return geoerrors.Auth(W3W, http.StatusOK).WithDetail("reason", reason)
	case "QuotaExceeded":
		return geoerrors.RateLimited(W3W)
	default:
		return geoerrors.RequestFailed(W3W, http.StatusOK, reason)
	}
}

func w3w() provider.Descriptor {
	reverseFields := w3wFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"W3W_API_KEY"}}
	return provider.Descriptor{
		Name: W3W,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    w3wURL,
				Path:       "v3/convert-to-coordinates",
				Build:      forward("words", "", keyQuery("key")),
				Fields:     w3wFields,
				Check:      w3wCheck,
				Credential: credential,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    w3wURL,
				Path:       "v3/convert-to-3wa",
				Build:      reversePair("coordinates", false, keyQuery("key"), language("language")),
				Fields:     reverseFields,
				Check:      w3wCheck,
				Credential: credential,
			},
		},
	}
}
