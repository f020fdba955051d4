// Package config loads geocoder configuration with viper.
//
// Sources, lowest precedence first: config.yml (./cmd/<service>/config.yml,
// ./config/config.yml, ./config.yml, or the user config dir), a .env file,
// then environment variables. Variables are matched by key variants, so
// GEOCODER_TIMEOUT sets geocoder.timeout and GEOCODER_PROVIDERS_GOOGLE_KEY
// sets geocoder.providers.google.key.
//
// # Usage
//
//	var cfg config.Config
//	if err := config.LoadConfig("geocode", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
