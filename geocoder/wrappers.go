package geocoder

import (
	"context"

	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/providers"
	"github.com/kbukum/geokit/result"
)

// Each wrapper runs Get on the package-level client with a fixed provider.
// An empty method means geocode.

// ArcGIS queries Esri's World Geocoding Service.
func ArcGIS(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.ArcGIS, methodOr(method), opts)
}

// Baidu queries Baidu Maps.
func Baidu(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Baidu, methodOr(method), opts)
}

// Bing queries Bing Maps.
func Bing(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Bing, methodOr(method), opts)
}

// FreeGeoIP queries freegeoip.app IP location.
func FreeGeoIP(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.FreeGeoIP, methodOr(method), opts)
}

// Gaode queries Gaode (AMap).
func Gaode(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Gaode, methodOr(method), opts)
}

// GeocodeFarm queries Geocode.Farm.
func GeocodeFarm(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.GeocodeFarm, methodOr(method), opts)
}

// Geolytica queries geocoder.ca.
func Geolytica(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Geolytica, methodOr(method), opts)
}

// GeoNames queries GeoNames.
func GeoNames(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.GeoNames, methodOr(method), opts)
}

// Gisgraphy queries Gisgraphy.
func Gisgraphy(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Gisgraphy, methodOr(method), opts)
}

// Google queries the Google Maps Platform.
func Google(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Google, methodOr(method), opts)
}

// HERE queries HERE Geocoding and Search.
func HERE(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.HERE, methodOr(method), opts)
}

// IPInfo queries ipinfo.io.
func IPInfo(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.IPInfo, methodOr(method), opts)
}

// Komoot queries Komoot's Photon.
func Komoot(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Komoot, methodOr(method), opts)
}

// LocationIQ queries LocationIQ.
func LocationIQ(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.LocationIQ, methodOr(method), opts)
}

// Mapbox queries Mapbox.
func Mapbox(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Mapbox, methodOr(method), opts)
}

// MapQuest queries MapQuest.
func MapQuest(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.MapQuest, methodOr(method), opts)
}

// MaxMind queries MaxMind GeoIP2.
func MaxMind(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.MaxMind, methodOr(method), opts)
}

// OpenCage queries OpenCage.
func OpenCage(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.OpenCage, methodOr(method), opts)
}

// OSM queries OpenStreetMap Nominatim.
func OSM(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.OSM, methodOr(method), opts)
}

// Ottawa queries the City of Ottawa locator.
func Ottawa(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Ottawa, methodOr(method), opts)
}

// TAMU queries the Texas A&M geocoder.
func TAMU(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.TAMU, methodOr(method), opts)
}

// TomTom queries TomTom Search.
func TomTom(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.TomTom, methodOr(method), opts)
}

// USCensus queries the US Census Bureau geocoder.
func USCensus(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.USCensus, methodOr(method), opts)
}

// W3W queries what3words.
func W3W(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.W3W, methodOr(method), opts)
}

// Yandex queries Yandex Maps.
func Yandex(ctx context.Context, loc any, method string, opts provider.Options) (*result.Result, error) {
	return Get(ctx, loc, providers.Yandex, methodOr(method), opts)
}

func methodOr(method string) string {
	if method == "" {
		return string(provider.MethodGeocode)
	}
	return method
}
