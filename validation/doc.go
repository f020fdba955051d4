// Package validation checks configuration sections and query options,
// reporting every failure at once as a single INVALID_INPUT error.
//
// Struct tags run through go-playground/validator, with messages naming
// fields by their config keys:
//
//	type ProviderConfig struct {
//	    URL string `mapstructure:"url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(&cfg)
//
// Checks that tags cannot express chain after them:
//
//	err := validation.Check(&opts).
//	    Latitude("proximity.lat", p.Lat).
//	    Custom(south <= north, "bbox", "south must not exceed north").
//	    Err()
package validation
