package providers

import (
	"net/url"
	"strings"

	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const yandexObject = "GeoObject.metaDataProperty.GeocoderMetaData."

var yandexFields = result.FieldMap{
	List: "response.GeoObjectCollection.featureMember",
	Fields: []result.FieldSpec{
		// Point.pos is "lng lat".
		{Field: result.Latitude, Paths: []string{"GeoObject.Point.pos"}, Split: " ", Index: 1, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"GeoObject.Point.pos"}, Split: " ", Index: 0, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{yandexObject + "text", yandexObject + "Address.formatted"}},
		{Field: result.HouseNumber, Paths: []string{yandexObject + `Address.Components.#(kind=="house").name`}},
		{Field: result.Street, Paths: []string{yandexObject + `Address.Components.#(kind=="street").name`}},
		{Field: result.Neighborhood, Paths: []string{yandexObject + `Address.Components.#(kind=="district").name`}},
		{Field: result.City, Paths: []string{yandexObject + `Address.Components.#(kind=="locality").name`}},
		{Field: result.State, Paths: []string{yandexObject + `Address.Components.#(kind=="province").name`}},
		{Field: result.Country, Paths: []string{yandexObject + `Address.Components.#(kind=="country").name`}},
		{Field: result.CountryCode, Paths: []string{yandexObject + "Address.country_code"}},
		{Field: result.PostalCode, Paths: []string{yandexObject + "Address.postal_code"}},
		{Field: result.Quality, Paths: []string{yandexObject + "kind"}},
		{Field: result.Accuracy, Paths: []string{yandexObject + "precision"}},
		{Field: result.Name, Paths: []string{"GeoObject.name"}},
	},
	Required: result.CoordinateFields,
}

// yandexLang writes the language as Yandex's locale, e.g. "en_US".
func yandexLang(q *provider.Query, p *provider.Params) error {
	if q.Options.Language != "" {
		p.Values.Set("lang", strings.ReplaceAll(q.Options.Language, "-", "_"))
	}
	return nil
}

func yandex() provider.Descriptor {
	reverseFields := yandexFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"YANDEX_API_KEY"}}
	return provider.Descriptor{
		Name: Yandex,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    "https://geocode-maps.yandex.ru",
				Path:       "1.x/",
				Defaults:   url.Values{"format": {"json"}},
				Build:      forward("geocode", "results", keyQuery("apikey"), yandexLang),
				Fields:     yandexFields,
				Credential: credential,
				RateLimit:  10,
				Burst:      10,
			},
			{
				Method:   provider.MethodReverse,
				BaseURL:  "https://geocode-maps.yandex.ru",
				Path:     "1.x/",
				Defaults: url.Values{"format": {"json"}},
				Build: reversePair("geocode", true, keyQuery("apikey"), yandexLang, rows("results"),
					extra(map[string]string{"kind": "kind"})),
				Fields:     reverseFields,
				Credential: credential,
				RateLimit:  10,
				Burst:      10,
			},
		},
	}
}
