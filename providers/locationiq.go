package providers

import (
	"net/url"

	"github.com/kbukum/geokit/provider"
)

func locationiq() provider.Descriptor {
	defaults := url.Values{"format": {"json"}, "addressdetails": {"1"}}
	credential := provider.CredentialSpec{Required: true, EnvVars: []string{"LOCATIONIQ_API_KEY"}}
	return provider.Descriptor{
		Name: LocationIQ,
		Adapters: []provider.Adapter{
			{
				Method:     provider.MethodGeocode,
				BaseURL:    "https://us1.locationiq.com",
				Path:       "v1/search.php",
				Defaults:   defaults,
				Build:      forward("q", "limit", append([]extender{keyQuery("key")}, nominatimSearch...)...),
				Fields:     nominatimFields,
				Credential: credential,
				RateLimit:  2,
				Burst:      2,
			},
			{
				Method:     provider.MethodReverse,
				BaseURL:    "https://us1.locationiq.com",
				Path:       "v1/reverse.php",
				Defaults:   defaults,
				Build:      reverse("lat", "lon", keyQuery("key"), language("accept-language")),
				Fields:     nominatimReverseFields,
				Credential: credential,
				RateLimit:  2,
				Burst:      2,
			},
		},
	}
}
