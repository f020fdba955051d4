// Package location decides what a geocoding input is.
//
// Classify turns a string, coordinate pair or structured address into a
// Location that is either an address or a pair of coordinates:
//
//	loc, err := location.Classify("45.4, -75.7")
//	// loc.Kind == location.KindCoordinates, loc.Lat == 45.4
//
//	loc, err = location.Classify("Ottawa, Ontario")
//	// loc.Kind == location.KindAddress
//
// ShapeOf reports whether an input is a single location or a sequence of
// them, which is what batch methods take.
package location
