package providers

import (
	"github.com/kbukum/geokit/provider"
)

// Provider names.
const (
	ArcGIS      = "arcgis"
	Baidu       = "baidu"
	Bing        = "bing"
	FreeGeoIP   = "freegeoip"
	Gaode       = "gaode"
	GeocodeFarm = "geocodefarm"
	Geolytica   = "geolytica"
	GeoNames    = "geonames"
	Gisgraphy   = "gisgraphy"
	Google      = "google"
	HERE        = "here"
	IPInfo      = "ipinfo"
	Komoot      = "komoot"
	LocationIQ  = "locationiq"
	Mapbox      = "mapbox"
	MapQuest    = "mapquest"
	MaxMind     = "maxmind"
	OpenCage    = "opencage"
	OSM         = "osm"
	Ottawa      = "ottawa"
	TAMU        = "tamu"
	TomTom      = "tomtom"
	USCensus    = "uscensus"
	W3W         = "w3w"
	Yandex      = "yandex"
)

// Descriptors returns a fresh copy of every built-in provider.
func Descriptors() []provider.Descriptor {
	return []provider.Descriptor{
		arcgis(),
		baidu(),
		bing(),
		freegeoip(),
		gaode(),
		geocodefarm(),
		geolytica(),
		geonames(),
		gisgraphy(),
		google(),
		here(),
		ipinfo(),
		komoot(),
		locationiq(),
		mapbox(),
		mapquest(),
		maxmind(),
		opencage(),
		osm(),
		ottawa(),
		tamu(),
		tomtom(),
		uscensus(),
		w3w(),
		yandex(),
	}
}

// Registry builds the registry of every built-in provider.
func Registry() *provider.Registry {
	return provider.NewRegistry(Descriptors()...)
}
