// Package util holds the small string helpers shared by the geocoding
// packages: input line cleanup, environment value unquoting, first-non-empty
// selection and secret masking for logs.
package util
