// Package geocoder is the entry point for applications: one call per query,
// against any built-in provider, returning a normalized result.
//
// Quick start:
//
//	res, err := geocoder.Get(ctx, "Ottawa, Ontario", "osm", "geocode", provider.Options{})
//	if err != nil {
//	    // the query was rejected before any network call
//	}
//	if res.OK() {
//	    fmt.Println(res.Lat(), res.Lng())
//	}
//
// The package-level functions share a client built lazily from defaults.
// Applications with configuration build their own:
//
//	var cfg config.Config
//	if err := config.LoadConfig("geocode", &cfg); err != nil {
//	    return err
//	}
//	client, err := geocoder.New(cfg, geocoder.WithRecorder(rec))
//
// Render and ConvertUnits turn a result into one of the output formats
// understood by the geocode command.
package geocoder
