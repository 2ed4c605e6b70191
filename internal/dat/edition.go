// Package dat implements the MaxMind legacy .dat serializer: the
// per-edition wire encoders of spec §4.1, the segment-table/data-section
// layout of spec §4.3, and the Builder that wires internal/trie to a
// deduplicated data section for each of the eight enumerated editions.
package dat

// Byte identifies which legacy database format a .dat file carries in
// its trailer, matching pygeoip.const.*_EDITION in the original tool.
type Byte uint8

const (
	ByteCountry    Byte = 1
	ByteCityRev1   Byte = 2
	ByteISP        Byte = 4
	ByteOrg        Byte = 5
	ByteASN        Byte = 9
	ByteCountryV6  Byte = 12
	ByteASNv6      Byte = 21
	ByteCityRev1v6 Byte = 30
)

// countryBegin is the record-value base for country-edition data
// leaves: rec = COUNTRY_BEGIN + country_index (spec §4.3).
const countryBegin = 16776960

// CountryBegin exposes countryBegin to other packages (the test-only
// legacyreader decoder needs it to invert the encoding).
func CountryBegin() uint32 { return countryBegin }

// Edition is the small descriptor record spec §9 recommends in place of
// class inheritance: everything a builder needs to know to encode
// payloads and serialize a trie for one specific legacy format.
type Edition struct {
	Name             string
	EditionByte      Byte
	RecordLen        int // 3 or 4
	SegmentRecordLen int // always 3 here
	SeekDepth        int // 31 (v4) or 127 (v6)
	IsCountry        bool

	// Encode turns a payload into its wire bytes. Unused (nil) for
	// country editions, whose data leaves encode the country index
	// directly into the record rather than through a data section.
	Encode func(Payload) ([]byte, error)
}

// Payload is the edition-dependent tuple described in spec §3. Concrete
// editions only read the fields that apply to them.
type Payload struct {
	// ASN/ISP/Org
	Text string

	// Country / City
	Country string

	// City rev1 only
	Region     string
	City       string
	PostalCode string
	Lat        float64
	Lon        float64
	MetroCode  int
	AreaCode   int
}

var (
	ASN       = Edition{Name: "mmasn", EditionByte: ByteASN, RecordLen: 3, SegmentRecordLen: 3, SeekDepth: 31, Encode: encodeASN}
	ASNv6     = Edition{Name: "mmasn6", EditionByte: ByteASNv6, RecordLen: 3, SegmentRecordLen: 3, SeekDepth: 127, Encode: encodeASN}
	ISP       = Edition{Name: "mmisp", EditionByte: ByteISP, RecordLen: 4, SegmentRecordLen: 3, SeekDepth: 31, Encode: encodeASN}
	Org       = Edition{Name: "mmorg", EditionByte: ByteOrg, RecordLen: 4, SegmentRecordLen: 3, SeekDepth: 31, Encode: encodeASN}
	City      = Edition{Name: "mmcity", EditionByte: ByteCityRev1, RecordLen: 3, SegmentRecordLen: 3, SeekDepth: 31, Encode: encodeCity}
	CityV6    = Edition{Name: "mmcity6", EditionByte: ByteCityRev1v6, RecordLen: 3, SegmentRecordLen: 3, SeekDepth: 127, Encode: encodeCity}
	Country   = Edition{Name: "mmcountry", EditionByte: ByteCountry, RecordLen: 3, SegmentRecordLen: 3, SeekDepth: 31, IsCountry: true}
	CountryV6 = Edition{Name: "mmcountry6", EditionByte: ByteCountryV6, RecordLen: 3, SegmentRecordLen: 3, SeekDepth: 127, IsCountry: true}
)

// All lists every enumerated edition, in the order the original tool's
// rtrees list presents them, for CLI subcommand registration.
var All = []Edition{ASN, ASNv6, City, CityV6, Country, CountryV6, ISP, Org}
