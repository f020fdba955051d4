package providers

import (
	"net/url"

	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

// The City of Ottawa runs its own ArcGIS locator over the municipal
// address register.
const ottawaURL = "https://maps.ottawa.ca/arcgis/rest/services/compositeLocator/GeocodeServer"

var ottawaFields = result.FieldMap{
	List: "candidates",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"location.y"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"location.x"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"address"}},
		{Field: result.HouseNumber, Paths: []string{"attributes.AddNum"}},
		{Field: result.Street, Paths: []string{"attributes.StName", "attributes.Street"}},
		{Field: result.City, Paths: []string{"attributes.City"}},
		{Field: result.PostalCode, Paths: []string{"attributes.Postal"}},
		{Field: result.Confidence, Paths: []string{"score"}, Coerce: result.CoerceFloat},
		{Field: result.Quality, Paths: []string{"attributes.Addr_type"}},
		{Field: result.Accuracy, Paths: []string{"attributes.Loc_name"}},
	},
	Required: result.CoordinateFields,
}

func ottawa() provider.Descriptor {
	return provider.Descriptor{
		Name: Ottawa,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: ottawaURL,
				Path:    "findAddressCandidates",
				Defaults: url.Values{
					"f":         {"json"},
					"outSR":     {"4326"},
					"outFields": {"*"},
				},
				Build:     forward("SingleLine", "maxLocations"),
				Fields:    ottawaFields,
				Check:     esriCheck(Ottawa),
				RateLimit: 5,
				Burst:     5,
			},
		},
	}
}
