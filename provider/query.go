package provider

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/logger"
	"github.com/kbukum/geokit/result"
)

// Query is one dispatch: created per call and never reused.
type Query struct {
	Location  any
	Provider  string
	Method    Method
	Options   Options
	RequestID string

	clock clockwork.Clock
}

// NewQuery creates a query for loc.
func NewQuery(loc any, provider string, method Method, opts Options) *Query {
	return &Query{Location: loc, Provider: provider, Method: method, Options: opts}
}

// Classify classifies the location.
func (q *Query) Classify() (location.Location, error) {
	loc, err := location.Classify(q.Location)
	if err != nil {
		return loc, geoerrors.InvalidLocationShape(string(q.Method), err.Error()).WithCause(err)
	}
	return loc, nil
}

// Text returns the location as a single line: the address, or "lat, lng".
func (q *Query) Text() (string, error) {
	loc, err := q.Classify()
	if err != nil {
		return "", err
	}
	return loc.Text, nil
}

// Coordinates returns the location as a coordinate pair and rejects
// addresses.
func (q *Query) Coordinates() (location.Coordinates, error) {
	loc, err := q.Classify()
	if err != nil {
		return location.Coordinates{}, err
	}
	if !loc.IsCoordinates() {
		return location.Coordinates{}, geoerrors.InvalidLocationShape(string(q.Method),
			fmt.Sprintf("%q is an address, expected coordinates", loc.Text))
	}
	return loc.Coordinates, nil
}

// Items returns the locations of a batch query.
func (q *Query) Items() ([]any, error) {
	items, ok := location.Items(q.Location)
	if !ok || len(items) == 0 {
		return nil, geoerrors.InvalidLocationShape(string(q.Method), "expected a non-empty sequence of locations")
	}
	return items, nil
}

// Now returns the query clock's current time.
func (q *Query) Now() time.Time {
	if q.clock == nil {
		return time.Now()
	}
	return q.clock.Now()
}

// Labels returns the provider and method, for metrics.
func (q *Query) Labels() (string, string) {
	return q.Provider, string(q.Method)
}

// LogFields identifies the query in logs.
func (q *Query) LogFields() map[string]interface{} {
	fields := logger.QueryFields(q.Provider, string(q.Method), describeLocation(q.Location))
	if q.RequestID != "" {
		fields[logger.FieldRequestID] = q.RequestID
	}
	return fields
}

func describeLocation(loc any) string {
	if items, ok := location.Items(loc); ok {
		return fmt.Sprintf("%d locations", len(items))
	}
	if l, err := location.Classify(loc); err == nil {
		return l.Text
	}
	return fmt.Sprint(loc)
}

// label stamps r with the query that produced it.
func (q *Query) label(r *result.Result) *result.Result {
	return r.WithQuery(q.Provider, string(q.Method), describeLocation(q.Location))
}
