package logger

import (
	"fmt"
	"slices"
)

// Levels accepted in Config.Level. "disabled" silences everything.
var Levels = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}

// Formats accepted in Config.Format. "text" and "pretty" are console aliases.
var Formats = []string{FormatConsole, FormatPretty, "text", FormatJSON}

// Config is the logging section of the geocode config file.
type Config struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// Output is stdout, stderr or a log file path. Files rotate by the
	// Max* settings.
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`

	MaxSize    int  `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int  `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool `yaml:"compress" mapstructure:"compress"`
	LocalTime  bool `yaml:"local_time" mapstructure:"local_time"`
}

// ApplyDefaults fills unset fields. Logs go to stderr unless told otherwise.
func (c *Config) ApplyDefaults() {
	c.Level = orDefault(c.Level, "info")
	c.Format = orDefault(c.Format, FormatConsole)
	c.Output = orDefault(c.Output, "stderr")
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAge == 0 {
		c.MaxAge = 28
	}
	c.Timestamp = true
}

// Validate checks the level and format names.
func (c *Config) Validate() error {
	if !slices.Contains(Levels, c.Level) {
		return fmt.Errorf("logging.level %q is not one of %v", c.Level, Levels)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("logging.format %q is not one of %v", c.Format, Formats)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
