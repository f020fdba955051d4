package providers

import (
	"net/url"
	"strings"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/result"
)

// IP lookups take an address or host name as the location. "me" asks
// about the caller's own address.
const selfIP = "me"

var freegeoipFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.IP, Paths: []string{"ip"}},
		{Field: result.Latitude, Paths: []string{"latitude"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"longitude"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"city", "region_name", "country_name"}, Join: true},
		{Field: result.City, Paths: []string{"city"}},
		{Field: result.State, Paths: []string{"region_name"}},
		{Field: result.StateCode, Paths: []string{"region_code"}},
		{Field: result.Country, Paths: []string{"country_name"}},
		{Field: result.CountryCode, Paths: []string{"country_code"}},
		{Field: result.PostalCode, Paths: []string{"zip_code"}},
		{Field: result.Timezone, Paths: []string{"time_zone"}},
		{Field: result.MetroCode, Paths: []string{"metro_code"}, Coerce: result.CoerceString},
	},
	Required: result.CoordinateFields,
}

var ipinfoFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.IP, Paths: []string{"ip"}},
		{Field: result.Hostname, Paths: []string{"hostname"}},
		{Field: result.Org, Paths: []string{"org"}},
		{Field: result.Latitude, Paths: []string{"loc"}, Split: ",", Index: 0, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"loc"}, Split: ",", Index: 1, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"city", "region", "country"}, Join: true},
		{Field: result.City, Paths: []string{"city"}},
		{Field: result.State, Paths: []string{"region"}},
		{Field: result.CountryCode, Paths: []string{"country"}},
		{Field: result.PostalCode, Paths: []string{"postal"}},
		{Field: result.Timezone, Paths: []string{"timezone"}},
	},
	Required: result.CoordinateFields,
}

var maxmindFields = result.FieldMap{
	Fields: []result.FieldSpec{
		{Field: result.IP, Paths: []string{"traits.ip_address"}},
		{Field: result.Hostname, Paths: []string{"traits.domain"}},
		{Field: result.Org, Paths: []string{"traits.organization", "traits.isp"}},
		{Field: result.Latitude, Paths: []string{"location.latitude"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"location.longitude"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"city.names.en", "subdivisions.0.names.en", "country.names.en"}, Join: true},
		{Field: result.City, Paths: []string{"city.names.en"}},
		{Field: result.State, Paths: []string{"subdivisions.0.names.en"}},
		{Field: result.StateCode, Paths: []string{"subdivisions.0.iso_code"}},
		{Field: result.Country, Paths: []string{"country.names.en"}},
		{Field: result.CountryCode, Paths: []string{"country.iso_code"}},
		{Field: result.PostalCode, Paths: []string{"postal.code"}},
		{Field: result.Timezone, Paths: []string{"location.time_zone"}},
		{Field: result.MetroCode, Paths: []string{"location.metro_code"}, Coerce: result.CoerceString},
		{Field: result.Accuracy, Paths: []string{"location.accuracy_radius"}, Coerce: result.CoerceFloat},
		{Field: result.Confidence, Paths: []string{"city.confidence"}, Coerce: result.CoerceFloat},
		{Field: result.PlaceID, Paths: []string{"city.geoname_id"}, Coerce: result.CoerceString},
	},
	Required: result.CoordinateFields,
}

// ipPath puts the address into the path, mapping "me" to self.
func ipPath(self string, extend ...extender) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		text, err := q.Text()
		if err != nil {
			return provider.Params{}, err
		}
		if strings.EqualFold(text, selfIP) {
			text = self
		}
		p := provider.Params{Values: url.Values{}, PathVars: map[string]string{"ip": text}}
		return apply(q, p, extend)
	}
}

// maxmindAuth sends an "account:license" key as basic credentials.
func maxmindAuth(q *provider.Query, p *provider.Params) error {
	if q.Options.Key == "" {
		return nil
	}
	account, license, ok := strings.Cut(q.Options.Key, ":")
	if !ok || account == "" || license == "" {
		return geoerrors.InvalidInput("key", "expected account:license")
	}
	p.Auth = httpclient.Basic{User: account, Password: license}
	return nil
}

func freegeoip() provider.Descriptor {
	return provider.Descriptor{
		Name: FreeGeoIP,
		Adapters: []provider.Adapter{
			{
				Method:    provider.MethodGeocode,
				BaseURL:   "https://freegeoip.app",
				Path:      "json/{ip}",
				Build:     ipPath(""),
				Fields:    freegeoipFields,
				RateLimit: 4,
				Burst:     4,
			},
		},
	}
}

func ipinfo() provider.Descriptor {
	return provider.Descriptor{
		Name: IPInfo,
		Adapters: []provider.Adapter{
			{
				Method:  provider.MethodGeocode,
				BaseURL: "https://ipinfo.io",
				// "/json" alone describes the caller.
				Path:       "{ip}/json",
				Build:      ipPath("", bearer()),
				Fields:     ipinfoFields,
				Credential: provider.CredentialSpec{EnvVars: []string{"IPINFO_TOKEN"}},
				RateLimit:  10,
				Burst:      10,
			},
		},
	}
}

func maxmind() provider.Descriptor {
	return provider.Descriptor{
		Name: MaxMind,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    "https://geoip.maxmind.com",
				Path:       "geoip/v2.1/city/{ip}",
				Build:      ipPath("me", maxmindAuth),
				Fields:     maxmindFields,
				Credential: provider.CredentialSpec{Required: true, EnvVars: []string{"MAXMIND_LICENSE"}},
				RateLimit:  10,
				Burst:      10,
			},
		},
	}
}
