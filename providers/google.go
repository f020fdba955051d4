package providers

import (
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const googleURL = "https://maps.googleapis.com"

// googleComponent selects one entry of address_components by type.
func googleComponent(kind, name string) string {
	return `address_components.#(types.#(=="` + kind + `")).` + name
}

var googleFields = result.FieldMap{
	List: "results",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"geometry.location.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"geometry.location.lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"formatted_address"}},
		{Field: result.HouseNumber, Paths: []string{googleComponent("street_number", "long_name")}},
		{Field: result.Street, Paths: []string{googleComponent("route", "long_name")}},
		{Field: result.Neighborhood, Paths: []string{googleComponent("neighborhood", "long_name"), googleComponent("sublocality", "long_name")}},
		{Field: result.City, Paths: []string{googleComponent("locality", "long_name"), googleComponent("postal_town", "long_name")}},
		{Field: result.County, Paths: []string{googleComponent("administrative_area_level_2", "long_name")}},
		{Field: result.State, Paths: []string{googleComponent("administrative_area_level_1", "long_name")}},
		{Field: result.StateCode, Paths: []string{googleComponent("administrative_area_level_1", "short_name")}},
		{Field: result.Country, Paths: []string{googleComponent("country", "long_name")}},
		{Field: result.CountryCode, Paths: []string{googleComponent("country", "short_name")}},
		{Field: result.PostalCode, Paths: []string{googleComponent("postal_code", "long_name")}},
		{Field: result.Quality, Paths: []string{"types.0"}},
		{Field: result.Accuracy, Paths: []string{"geometry.location_type"}},
		{Field: result.PlaceID, Paths: []string{"place_id"}},
	},
	Required: result.CoordinateFields,
}

var googlePlacesFields = result.FieldMap{
	List: "results",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"geometry.location.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"geometry.location.lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"formatted_address", "vicinity"}},
		{Field: result.Name, Paths: []string{"name"}},
		{Field: result.PlaceID, Paths: []string{"place_id"}},
		{Field: result.Quality, Paths: []string{"types.0"}},
		{Field: result.Confidence, Paths: []string{"rating"}, Coerce: result.CoerceFloat},
	},
	Required: result.CoordinateFields,
}

var googleTimezoneFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.Timezone, Paths: []string{"timeZoneId"}},
		{Field: result.Name, Paths: []string{"timeZoneName"}},
		{Field: result.UTCOffset, Func: func(item gjson.Result) any {
			raw, dst := item.Get("rawOffset"), item.Get("dstOffset")
			if raw.Type != gjson.Number {
				return nil
			}
			return (raw.Float() + dst.Float()) / 3600
		}},
	},
	Required: result.TimezoneFields,
}

var googleElevationFields = result.FieldMap{
	List: "results",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"location.lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"location.lng"}, Coerce: result.CoerceFloat},
		{Field: result.Elevation, Paths: []string{"elevation"}, Coerce: result.CoerceFloat},
		{Field: result.Resolution, Paths: []string{"resolution"}, Coerce: result.CoerceFloat},
	},
	Required: result.ElevationFields,
}

// googleCheck classifies the status Google reports inside a 200 answer.
func googleCheck(doc httpclient.Document) error {
	status := doc.Get("status").String()
	reason := doc.Get("error_message").String()
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return geoerrors.RateLimited(Google)
	case "REQUEST_DENIED":
		return geoerrors.Auth(Google, http.StatusOK).WithDetail("reason", reason)
	case "UNKNOWN_ERROR":
		return geoerrors.ProviderUnavailable(Google, http.StatusOK)
	default:
		if reason == "" {
			reason = status
		}
		return geoerrors.RequestFailed(Google, http.StatusOK, reason)
	}
}

// googleBounds writes Options.BBox as "south,west|north,east".
func googleBounds(q *provider.Query, p *provider.Params) error {
	if b := q.Options.BBox; len(b) == 4 {
		p.Values.Set("bounds", location.FormatFloat(b[1])+","+location.FormatFloat(b[0])+"|"+
			location.FormatFloat(b[3])+","+location.FormatFloat(b[2]))
	}
	return nil
}

// googleTimestamp is the instant the timezone answer refers to: the
// "timestamp" option, or now.
func googleTimestamp(q *provider.Query, p *provider.Params) error {
	ts := q.Options.Get("timestamp")
	if ts == "" {
		ts = strconv.FormatInt(q.Now().Unix(), 10)
	}
	p.Values.Set("timestamp", ts)
	return nil
}

func google() provider.Descriptor {
	reverseFields := googleFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"GOOGLE_API_KEY"}}
	key := keyQuery("key")
	adapter := func(m provider.Method, path string, build provider.ParamBuilder, fields result.FieldMap) provider.Adapter {
		return provider.Adapter{
			Method:     m,
			BaseURL:    googleURL,
			Path:       path,
			Build:      build,
			Fields:     fields,
			Check:      googleCheck,
			Credential: credential,
			RateLimit:  50,
			Burst:      10,
		}
	}
	return provider.Descriptor{
		Name: Google,
		Adapters: []provider.Adapter{
			adapter(provider.MethodGeocode, "maps/api/geocode/json",
				forward("address", "", key, language("language"), googleBounds,
					extra(map[string]string{"region": "region", "components": "components"})),
				googleFields),
			adapter(provider.MethodReverse, "maps/api/geocode/json",
				reversePair("latlng", false, key, language("language"),
					extra(map[string]string{"resulttype": "result_type", "locationtype": "location_type"})),
				reverseFields),
			adapter(provider.MethodTimezone, "maps/api/timezone/json",
				reversePair("location", false, key, language("language"), googleTimestamp),
				googleTimezoneFields),
			adapter(provider.MethodElevation, "maps/api/elevation/json",
				reversePair("locations", false, key),
				googleElevationFields),
			adapter(provider.MethodPlaces, "maps/api/place/textsearch/json",
				forward("query", "", key, language("language"), proximity("location", false),
					extra(map[string]string{"radius": "radius", "type": "type"})),
				googlePlacesFields),
		},
	}
}
