package providers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

const (
	bingURL         = "https://dev.virtualearth.net"
	bingDataflowURL = "https://spatial.virtualearth.net"
)

var bingFields = result.FieldMap{
	List: "resourceSets.0.resources",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"point.coordinates.0"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"point.coordinates.1"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"address.formattedAddress", "name"}},
		{Field: result.Street, Paths: []string{"address.addressLine"}},
		{Field: result.Neighborhood, Paths: []string{"address.neighborhood"}},
		{Field: result.City, Paths: []string{"address.locality"}},
		{Field: result.County, Paths: []string{"address.adminDistrict2"}},
		{Field: result.State, Paths: []string{"address.adminDistrict"}},
		{Field: result.Country, Paths: []string{"address.countryRegion"}},
		{Field: result.CountryCode, Paths: []string{"address.countryRegionIso2"}},
		{Field: result.PostalCode, Paths: []string{"address.postalCode"}},
		{Field: result.Confidence, Paths: []string{"confidence"}},
		{Field: result.Quality, Paths: []string{"entityType"}},
		{Field: result.Accuracy, Paths: []string{"matchCodes.0"}},
		{Field: result.Name, Paths: []string{"name"}},
	},
	Required: result.CoordinateFields,
}

// A Dataflow answer describes the submitted job; the geocoded rows are
// downloaded later from the job's result link.
var bingJobFields = result.FieldMap{
	List: "resourceSets.0.resources",
	Fields: []result.FieldSpec{
		{Field: result.PlaceID, Paths: []string{"id"}},
		{Field: result.Quality, Paths: []string{"status"}},
		{Field: result.Name, Paths: []string{"links.#(role==\"self\").url", "links.0.url"}},
		{Field: result.Population, Paths: []string{"totalEntityCount"}, Coerce: result.CoerceFloat},
	},
	Required: []result.Field{result.PlaceID},
}

// bingStructured maps structured address parts onto the Locations API's
// structured query.
func bingStructured(q *provider.Query) (provider.Params, error) {
	parts, err := structured(q, "street", "city", "state", "postalcode", "country")
	if err != nil {
		return provider.Params{}, err
	}
	names := map[string]string{
		"street": "addressLine", "city": "locality", "state": "adminDistrict",
		"postalcode": "postalCode", "country": "countryRegion",
	}
	v := url.Values{}
	for k, val := range parts {
		v.Set(names[k], val)
	}
	if len(v) == 0 {
		text, _ := q.Text()
		v.Set("q", text)
	}
	return apply(q, provider.Params{Values: v}, []extender{keyQuery("key"), rows("maxResults"), language("culture")})
}

// bingDataflow renders a batch as a pipe-delimited Dataflow upload.
func bingDataflow(reverse bool) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		locs, err := items(q)
		if err != nil {
			return provider.Params{}, err
		}
		var b strings.Builder
		b.WriteString("Bing Spatial Data Services, 2.0\n")
		if reverse {
			b.WriteString("Id|ReverseGeocodeRequest/Location/Latitude|ReverseGeocodeRequest/Location/Longitude|" +
				"GeocodeResponse/Address/FormattedAddress\n")
		} else {
			b.WriteString("Id|GeocodeRequest/Query|GeocodeResponse/Point/Latitude|GeocodeResponse/Point/Longitude\n")
		}
		for i, loc := range locs {
			id := strconv.Itoa(i)
			if reverse {
				if !loc.IsCoordinates() {
					return provider.Params{}, geoerrors.InvalidLocationShape(string(q.Method),
						"item "+id+" is an address, expected coordinates")
				}
				b.WriteString(id + "|" + location.FormatFloat(loc.Lat) + "|" + location.FormatFloat(loc.Lng) + "|\n")
				continue
			}
			b.WriteString(id + "|" + strings.ReplaceAll(loc.Text, "|", " ") + "||\n")
		}
		p := provider.Params{
			Values:  url.Values{"input": {"pipe"}, "output": {"json"}},
			Body:    b.String(),
			Headers: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		}
		return apply(q, p, []extender{keyQuery("key")})
	}
}

func bing() provider.Descriptor {
	reverseFields := bingFields
	reverseFields.Required = result.AddressFields
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"BING_API_KEY"}}
	return provider.Descriptor{
		Name: Bing,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: bingURL,
				Path:    "REST/v1/Locations",
				Build: forward("q", "maxResults", keyQuery("key"), language("culture"),
					proximity("userLocation", false)),
				Fields:     bingFields,
				Credential: credential,
			},
			{
				Method:     provider.MethodDetails,
				BaseURL:    bingURL,
				Path:       "REST/v1/Locations",
				Build:      bingStructured,
				Fields:     bingFields,
				Credential: credential,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    bingURL,
				Path:       "REST/v1/Locations/{point}",
				Build:      pathPair("point", false, keyQuery("key"), language("culture")),
				Fields:     reverseFields,
				Credential: credential,
			},
			{
				Method:     provider.MethodBatch,
				BaseURL:    bingDataflowURL,
				Path:       "REST/v1/Dataflows/Geocode",
				HTTPMethod: http.MethodPost,
				Build:      bingDataflow(false),
				Fields:     bingJobFields,
				Credential: credential,
			},
			{
				Method:     provider.MethodBatchReverse,
				BaseURL:    bingDataflowURL,
				Path:       "REST/v1/Dataflows/Geocode",
				HTTPMethod: http.MethodPost,
				Build:      bingDataflow(true),
				Fields:     bingJobFields,
				Credential: credential,
			},
		},
	}
}
