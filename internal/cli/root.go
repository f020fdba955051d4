package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/geocoder"
	"github.com/kbukum/geokit/version"
)

// errInputsFailed marks a run where at least one input was rejected. The
// rejection itself has already been printed.
var errInputsFailed = errors.New("one or more locations were rejected")

// flags holds every command-line setting.
type flags struct {
	provider     string
	method       string
	output       string
	units        string
	timeout      time.Duration
	language     string
	url          string
	proxies      map[string]string
	key          string
	maxRows      int
	city         string
	state        string
	zipcode      string
	retries      int
	workers      int
	configFile   string
	files        []string
	metricsFile  string
	otlpEndpoint string
	logLevel     string
}

// streams are the process I/O, swapped out in tests.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand builds the geocode command.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	f := &flags{}
	s := streams{in: in, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "geocode [locations...]",
		Short: "Geocode locations with any of the built-in providers",
		Long: `geocode sends each location to a geocoding provider and prints one
normalized result per line, in input order.

Locations come from the arguments, then from --file, then from standard
input when neither is given or when "-" is passed.`,
		Example: `  geocode "Ottawa, Ontario"
  geocode --provider google --key $GOOGLE_API_KEY --output geojson "453 Booth Street"
  geocode --method reverse "45.4, -75.7"
  cat addresses.txt | geocode --provider arcgis --workers 4`,
		Version:       version.GetShortVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return f.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, s, args)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	fs := cmd.Flags()
	fs.StringVarP(&f.provider, "provider", "p", "", "geocoding provider (default from config, else osm)")
	fs.StringVarP(&f.method, "method", "m", "", "provider method (default from config, else geocode)")
	fs.StringVarP(&f.output, "output", "o", geocoder.FormatJSON, "output format: "+strings.Join(geocoder.Formats, ", "))
	fs.StringVar(&f.units, "units", "", "elevation units: "+strings.Join(geocoder.Units(), ", "))
	fs.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (default from config, else 5s)")
	fs.StringVarP(&f.language, "language", "l", "", "BCP 47 language tag for localized answers")
	fs.StringVar(&f.url, "url", "", "replace the provider base URL")
	fs.StringToStringVar(&f.proxies, "proxies", nil, "proxy per scheme, e.g. https=http://proxy:3128")
	fs.StringVarP(&f.key, "key", "k", "", "provider API key (default from the provider's environment variable)")
	fs.IntVar(&f.maxRows, "max-rows", 0, "maximum candidates to request")
	fs.StringVar(&f.city, "city", "", "city, for providers that take structured addresses")
	fs.StringVar(&f.state, "state", "", "state, for providers that take structured addresses")
	fs.StringVar(&f.zipcode, "zipcode", "", "zip code, for providers that take structured addresses")
	fs.IntVar(&f.retries, "retries", 0, "retries per location on timeouts, throttling and 5xx answers")
	fs.IntVarP(&f.workers, "workers", "w", 0, "locations queried concurrently")
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default ./cmd/geocode/config.yml or ./config.yml)")
	fs.StringArrayVarP(&f.files, "file", "f", nil, "read locations from a file, one per line (repeatable)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	fs.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "export traces and metrics over OTLP/HTTP to host:port")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func (f *flags) validate() error {
	if !slices.Contains(geocoder.Formats, strings.ToLower(f.output)) {
		return geoerrors.InvalidInput("output",
			fmt.Sprintf("unknown output format %q (want one of %s)", f.output, strings.Join(geocoder.Formats, ", ")))
	}
	if f.units != "" && !slices.Contains(geocoder.Units(), strings.ToLower(f.units)) {
		return geoerrors.InvalidInput("units",
			fmt.Sprintf("unknown unit %q (want one of %s)", f.units, strings.Join(geocoder.Units(), ", ")))
	}
	if f.retries < 0 {
		return geoerrors.InvalidInput("retries", "must not be negative")
	}
	if f.workers < 0 {
		return geoerrors.InvalidInput("workers", "must not be negative")
	}
	if f.maxRows < 0 {
		return geoerrors.InvalidInput("max-rows", "must not be negative")
	}
	return nil
}

// Execute runs the geocode command against the process streams and returns
// the exit status.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInputsFailed):
		return 1
	default:
		fmt.Fprintln(os.Stderr, "geocode:", err)
		return 1
	}
}
