package provider

import "strings"

// Method is an operation requested of a provider.
type Method string

// Supported methods. A provider need not implement all of them.
const (
	MethodGeocode      Method = "geocode"
	MethodReverse      Method = "reverse"
	MethodBatch        Method = "batch"
	MethodBatchReverse Method = "batch_reverse"
	MethodDetails      Method = "details"
	MethodTimezone     Method = "timezone"
	MethodChildren     Method = "children"
	MethodHierarchy    Method = "hierarchy"
	MethodElevation    Method = "elevation"
	MethodPlaces       Method = "places"
)

// Methods lists every known method.
var Methods = []Method{
	MethodGeocode, MethodReverse, MethodBatch, MethodBatchReverse, MethodDetails,
	MethodTimezone, MethodChildren, MethodHierarchy, MethodElevation, MethodPlaces,
}

// ParseMethod normalizes s and reports whether it names a known method.
// An empty string means geocode.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return MethodGeocode, true
	}
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return m, false
}

// IsBatch reports whether the method takes a sequence of locations.
func (m Method) IsBatch() bool {
	return m == MethodBatch || m == MethodBatchReverse
}

// String returns the method name.
func (m Method) String() string {
	return string(m)
}
