// Package version reports what build of geokit is running. The geocode
// command prints it, and the HTTP client sends it in the User-Agent header
// that Nominatim and other free providers use to identify callers.
//
// Release builds set the variables with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/geokit/version.Version=1.2.0" ./cmd/geocode
//
// Otherwise the module's VCS stamp fills in the commit and build time.
package version
