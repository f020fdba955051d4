package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/kbukum/geokit/util"
)

// envPrefixes limits binding to variables this module owns, so PATH and
// friends never reach viper.
var envPrefixes = []string{"GEOCODER_", "LOGGING_", "NAME", "ENVIRONMENT", "VERSION", "DEBUG"}

const providersEnvPrefix = "GEOCODER_PROVIDERS_"

// bindEnv sets every owned variable on v under each key it could mean.
// Values lose surrounding quotes.
func bindEnv(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !hasOwnedPrefix(key) {
			continue
		}
		value = util.SanitizeEnvValue(value)
		if path, ok := providerEnvKey(key); ok {
			v.Set(path, value)
			continue
		}
		for _, k := range envKeyVariants(key) {
			v.Set(k, value)
		}
	}
}

func hasOwnedPrefix(key string) bool {
	for _, p := range envPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// providerEnvKey maps GEOCODER_PROVIDERS_<NAME>_<FIELD> to
// geocoder.providers.<name>.<field>. Provider entries live in a map, where
// the generic variants would plant stray scalar keys.
func providerEnvKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, providersEnvPrefix)
	if !ok {
		return "", false
	}
	name, field, ok := strings.Cut(strings.ToLower(rest), "_")
	if !ok || name == "" || field == "" {
		return "", false
	}
	return "geocoder.providers." + name + "." + field, true
}

// envKeyVariants lists the nested keys an env name could spell, since an
// underscore may separate sections or sit inside a key:
//
//	GEOCODER_DEFAULT_PROVIDER -> geocoder_default_provider,
//	    geocoder.default_provider, geocoder.default.provider
func envKeyVariants(key string) []string {
	lower := strings.ToLower(key)
	parts := strings.Split(lower, "_")
	variants := make([]string, 0, len(parts))
	variants = append(variants, lower)
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}
