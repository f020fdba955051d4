package providers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/provider"
)

// extender adds request parts once the base builder has run.
type extender func(q *provider.Query, p *provider.Params) error

// forward builds a forward geocoding request: the location text under
// textParam and, when rowsParam is set, the candidate limit.
func forward(textParam, rowsParam string, extend ...extender) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		text, err := q.Text()
		if err != nil {
			return provider.Params{}, err
		}
		p := provider.Params{Values: url.Values{textParam: {text}}}
		if rowsParam != "" {
			p.Values.Set(rowsParam, strconv.Itoa(q.Options.Rows(1)))
		}
		return apply(q, p, extend)
	}
}

// reverse builds a reverse request with latitude and longitude in
// separate parameters.
func reverse(latParam, lngParam string, extend ...extender) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		c, err := q.Coordinates()
		if err != nil {
			return provider.Params{}, err
		}
		p := provider.Params{Values: url.Values{
			latParam: {location.FormatFloat(c.Lat)},
			lngParam: {location.FormatFloat(c.Lng)},
		}}
		return apply(q, p, extend)
	}
}

// reversePair builds a reverse request with the pair joined in one
// parameter, as "lat,lng" or, with lngFirst, "lng,lat".
func reversePair(param string, lngFirst bool, extend ...extender) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		c, err := q.Coordinates()
		if err != nil {
			return provider.Params{}, err
		}
		pair := c.LatLng()
		if lngFirst {
			pair = c.LngLat()
		}
		return apply(q, provider.Params{Values: url.Values{param: {pair}}}, extend)
	}
}

// pathText puts the location text into a path placeholder.
func pathText(name string, extend ...extender) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		text, err := q.Text()
		if err != nil {
			return provider.Params{}, err
		}
		p := provider.Params{Values: url.Values{}, PathVars: map[string]string{name: text}}
		return apply(q, p, extend)
	}
}

// pathPair puts the coordinate pair into a path placeholder.
func pathPair(name string, lngFirst bool, extend ...extender) provider.ParamBuilder {
	return func(q *provider.Query) (provider.Params, error) {
		c, err := q.Coordinates()
		if err != nil {
			return provider.Params{}, err
		}
		pair := c.LatLng()
		if lngFirst {
			pair = c.LngLat()
		}
		p := provider.Params{Values: url.Values{}, PathVars: map[string]string{name: pair}}
		return apply(q, p, extend)
	}
}

func apply(q *provider.Query, p provider.Params, extend []extender) (provider.Params, error) {
	for _, e := range extend {
		if err := e(q, &p); err != nil {
			return provider.Params{}, err
		}
	}
	return p, nil
}

// keyQuery sends the key as a query parameter when one is set.
func keyQuery(name string) extender {
	return func(q *provider.Query, p *provider.Params) error {
		if q.Options.Key != "" {
			p.Auth = httpclient.QueryKey{Param: name, Key: q.Options.Key}
		}
		return nil
	}
}

// bearer sends the key as a bearer token when one is set.
func bearer() extender {
	return func(q *provider.Query, p *provider.Params) error {
		if q.Options.Key != "" {
			p.Auth = httpclient.Bearer(q.Options.Key)
		}
		return nil
	}
}

// language copies Options.Language into name.
func language(name string) extender {
	return func(q *provider.Query, p *provider.Params) error {
		if q.Options.Language != "" {
			p.Values.Set(name, q.Options.Language)
		}
		return nil
	}
}

// rows sets the candidate limit.
func rows(name string) extender {
	return func(q *provider.Query, p *provider.Params) error {
		p.Values.Set(name, strconv.Itoa(q.Options.Rows(1)))
		return nil
	}
}

// proximity writes Options.Proximity as a joined pair.
func proximity(name string, lngFirst bool) extender {
	return func(q *provider.Query, p *provider.Params) error {
		if c := q.Options.Proximity; c != nil {
			if lngFirst {
				p.Values.Set(name, c.LngLat())
			} else {
				p.Values.Set(name, c.LatLng())
			}
		}
		return nil
	}
}

// bbox writes Options.BBox as "west,south,east,north".
func bbox(name string) extender {
	return func(q *provider.Query, p *provider.Params) error {
		if len(q.Options.BBox) == 4 {
			p.Values.Set(name, joinFloats(q.Options.BBox, ","))
		}
		return nil
	}
}

// extra copies provider-specific options into parameters. Keys map an
// option name to a parameter name.
func extra(keys map[string]string) extender {
	return func(q *provider.Query, p *provider.Params) error {
		for opt, param := range keys {
			if v := q.Options.Get(opt); v != "" {
				p.Values.Set(param, v)
			}
		}
		return nil
	}
}

func joinFloats(vs []float64, sep string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = location.FormatFloat(v)
	}
	return strings.Join(parts, sep)
}

// geonameID reads a numeric GeoNames identifier from the location.
func geonameID(q *provider.Query) (string, error) {
	text, err := q.Text()
	if err != nil {
		return "", err
	}
	if _, err := strconv.ParseUint(text, 10, 64); err != nil {
		return "", geoerrors.InvalidLocationShape(string(q.Method), fmt.Sprintf("%q is not a GeoNames id", text))
	}
	return text, nil
}

// structured returns the address parts of a structured location, falling
// back to the same keys in the provider options.
func structured(q *provider.Query, keys ...string) (map[string]string, error) {
	loc, err := q.Classify()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v := loc.Parts[k]; v != "" {
			out[k] = v
		} else if v := q.Options.Get(k); v != "" {
			out[k] = v
		}
	}
	return out, nil
}

// items classifies every location of a batch query.
func items(q *provider.Query) ([]location.Location, error) {
	raw, err := q.Items()
	if err != nil {
		return nil, err
	}
	out := make([]location.Location, len(raw))
	for i, item := range raw {
		loc, err := location.Classify(item)
		if err != nil {
			return nil, geoerrors.InvalidLocationShape(string(q.Method),
				fmt.Sprintf("item %d: %v", i, err)).WithCause(err)
		}
		out[i] = loc
	}
	return out, nil
}
