package result

// Field is a canonical result attribute with a fixed meaning across
// providers.
type Field string

// Canonical fields.
const (
	Latitude     Field = "latitude"
	Longitude    Field = "longitude"
	Address      Field = "address"
	HouseNumber  Field = "houseNumber"
	Street       Field = "street"
	Neighborhood Field = "neighborhood"
	City         Field = "city"
	County       Field = "county"
	State        Field = "state"
	StateCode    Field = "stateCode"
	Country      Field = "country"
	CountryCode  Field = "countryCode"
	PostalCode   Field = "postalCode"
	Confidence   Field = "confidence"
	Quality      Field = "quality"
	Accuracy     Field = "accuracy"
	PlaceID      Field = "placeId"
	Name         Field = "name"
	IP           Field = "ip"
	Hostname     Field = "hostname"
	Org          Field = "org"
	Timezone     Field = "timezone"
	UTCOffset    Field = "utcOffset"
	Elevation    Field = "elevation"
	Resolution   Field = "resolution"
	Population   Field = "population"
	MetroCode    Field = "metroCode"
	Raw          Field = "raw"
)

// CanonicalFields lists every canonical field in output order.
var CanonicalFields = []Field{
	Latitude, Longitude, Address, HouseNumber, Street, Neighborhood, City,
	County, State, StateCode, Country, CountryCode, PostalCode, Confidence,
	Quality, Accuracy, PlaceID, Name, IP, Hostname, Org, Timezone, UTCOffset,
	Elevation, Resolution, Population, MetroCode, Raw,
}

// Mandatory field sets per method family.
var (
	CoordinateFields = []Field{Latitude, Longitude}
	AddressFields    = []Field{Address}
	TimezoneFields   = []Field{Timezone}
	ElevationFields  = []Field{Elevation}
)

// IsCanonical reports whether f is one of the canonical fields.
func IsCanonical(f Field) bool {
	for _, c := range CanonicalFields {
		if c == f {
			return true
		}
	}
	return false
}
