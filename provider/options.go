package provider

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/validation"
)

// Options are the per-call settings shared by all providers.
// Provider-specific settings go in Extra.
type Options struct {
	// Key is the API key, username or "id:secret" pair, depending on the provider.
	Key string `mapstructure:"key"`
	// Language is a BCP 47 tag for localized answers.
	Language string `mapstructure:"language" validate:"omitempty,langtag"`
	// MaxRows caps the number of candidates requested. Zero means one.
	MaxRows int `mapstructure:"max_rows" validate:"gte=0,lte=100"`
	// Proximity biases forward geocoding towards a point.
	Proximity *location.Coordinates `mapstructure:"proximity"`
	// BBox restricts results to west, south, east, north.
	BBox []float64 `mapstructure:"bbox" validate:"omitempty,len=4"`
	// Timeout bounds the network call. Zero uses the client default.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	// Proxies maps a scheme ("http", "https") to a proxy URL.
	Proxies map[string]string `mapstructure:"proxies" validate:"omitempty,dive,keys,oneof=http https,endkeys,url"`
	// URL replaces the adapter's base URL, for self-hosted mirrors.
	URL string `mapstructure:"url" validate:"omitempty,url"`
	// Units selects the unit elevation is reported in.
	Units string `mapstructure:"units" validate:"omitempty,oneof=meters kilometers miles feet"`
	// Extra carries provider-specific settings such as "city" or "timestamp".
	Extra map[string]string `mapstructure:"-"`
}

// Validate checks the struct tags, then the proximity point and the
// bounding box corners.
func (o *Options) Validate() error {
	c := validation.Check(o)
	if p := o.Proximity; p != nil {
		c.Latitude("proximity.lat", p.Lat).Longitude("proximity.lng", p.Lng)
	}
	if len(o.BBox) == 4 {
		west, south, east, north := o.BBox[0], o.BBox[1], o.BBox[2], o.BBox[3]
		c.Longitude("bbox.west", west).Latitude("bbox.south", south).
			Longitude("bbox.east", east).Latitude("bbox.north", north).
			Custom(south <= north, "bbox", "south must not exceed north")
	}
	return c.Err()
}

// Merge returns o with zero fields filled from defaults. Extra keys in o
// win over those in defaults.
func (o Options) Merge(defaults Options) Options {
	out := o
	if out.Key == "" {
		out.Key = defaults.Key
	}
	if out.Language == "" {
		out.Language = defaults.Language
	}
	if out.MaxRows == 0 {
		out.MaxRows = defaults.MaxRows
	}
	if out.Proximity == nil {
		out.Proximity = defaults.Proximity
	}
	if len(out.BBox) == 0 {
		out.BBox = defaults.BBox
	}
	if out.Timeout == 0 {
		out.Timeout = defaults.Timeout
	}
	if len(out.Proxies) == 0 {
		out.Proxies = defaults.Proxies
	}
	if out.URL == "" {
		out.URL = defaults.URL
	}
	if out.Units == "" {
		out.Units = defaults.Units
	}
	if len(defaults.Extra) > 0 {
		extra := make(map[string]string, len(defaults.Extra)+len(o.Extra))
		for k, v := range defaults.Extra {
			extra[k] = v
		}
		for k, v := range o.Extra {
			extra[k] = v
		}
		out.Extra = extra
	}
	return out
}

// Get returns the provider-specific setting name, or "".
func (o Options) Get(name string) string {
	return o.Extra[normalizeKey(name)]
}

// Rows returns MaxRows, or def when unset.
func (o Options) Rows(def int) int {
	if o.MaxRows > 0 {
		return o.MaxRows
	}
	return def
}

// OptionsFromMap decodes keyword-style settings. Keys match field names
// ignoring case and underscores, so "maxRows" and "max_rows" both set
// MaxRows. Unknown keys with scalar values land in Extra; nested maps and
// lists are dropped. Timeouts may be a duration string
// or a number of seconds; proximity may be "lat,lng" or a pair.
func OptionsFromMap(m map[string]any) (Options, error) {
	var in struct {
		Opts Options        `mapstructure:",squash"`
		Rest map[string]any `mapstructure:",remain"`
	}
	if len(m) == 0 {
		return in.Opts, nil
	}

	normalized := make(map[string]any, len(m))
	for k, v := range m {
		normalized[normalizeKey(k)] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &in,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHook,
			mapstructure.StringToTimeDurationHookFunc(),
			coordinatesHook,
		),
	})
	if err != nil {
		return in.Opts, err
	}
	if err := dec.Decode(normalized); err != nil {
		return in.Opts, fmt.Errorf("decode options: %w", err)
	}

	opts := in.Opts
	for k, v := range in.Rest {
		switch v.(type) {
		case string, bool, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, float32, float64:
			if opts.Extra == nil {
				opts.Extra = make(map[string]string)
			}
			opts.Extra[k] = fmt.Sprint(v)
		}
	}
	return opts, nil
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(k), "_", ""))
}

var (
	durationType    = reflect.TypeOf(time.Duration(0))
	coordinatesType = reflect.TypeOf(location.Coordinates{})
)

func secondsToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case float32:
		return time.Duration(float64(v) * float64(time.Second)), nil
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	}
	return data, nil
}

func coordinatesHook(from, to reflect.Type, data any) (any, error) {
	if to != coordinatesType {
		return data, nil
	}
	switch data.(type) {
	case string, []float64, [2]float64, []any, location.Coordinates:
		loc, err := location.Classify(data)
		if err != nil {
			return nil, err
		}
		if !loc.IsCoordinates() {
			return nil, fmt.Errorf("proximity %q is not a coordinate pair", loc.Text)
		}
		return map[string]any{"lat": loc.Lat, "lng": loc.Lng}, nil
	}
	return data, nil
}
