package dat

import (
	"fmt"
	"math"
	"strings"

	"github.com/geodat/geodat/internal/country"
)

// encodeASN implements spec §4.1's ASN/ISP/Org encoding: the textual
// field NUL-terminated. ISP and Org reuse it verbatim; only RecordLen
// differs at serialization time.
func encodeASN(p Payload) ([]byte, error) {
	return append([]byte(p.Text), 0x00), nil
}

// encodeCity implements spec §4.1's City rev1 wire encoding.
func encodeCity(p Payload) ([]byte, error) {
	var buf []byte

	cc := strings.ToLower(p.Country)
	idx, ok := country.Index(cc)
	if !ok {
		idx = 0
	}
	buf = append(buf, byte(idx))

	buf = append(buf, []byte(p.Region)...)
	buf = append(buf, 0x00)
	buf = append(buf, []byte(p.City)...)
	buf = append(buf, 0x00)
	buf = append(buf, []byte(p.PostalCode)...)
	buf = append(buf, 0x00)

	latRec, err := encodeRec(latLonToUint24(p.Lat), 3)
	if err != nil {
		return nil, err
	}
	buf = append(buf, latRec...)

	lonRec, err := encodeRec(latLonToUint24(p.Lon), 3)
	if err != nil {
		return nil, err
	}
	buf = append(buf, lonRec...)

	if cc == "us" && (p.MetroCode != 0 || p.AreaCode != 0) {
		metroRec, err := encodeRec(uint32(p.MetroCode*1000+p.AreaCode), 3)
		if err != nil {
			return nil, err
		}
		buf = append(buf, metroRec...)
	} else {
		buf = append(buf, 0x00, 0x00, 0x00)
	}

	return buf, nil
}

// latLonToUint24 rounds a coordinate to 4 decimal places and rescales it
// into the uint24 range per spec §4.1: round(x,4) -> (x+180)*10000.
// Values outside the expected [-180, 180] range truncate into the
// lower 24 bits of their 32-bit little-endian form, per spec §4.1's
// "values that exceed 24 bits are silently truncated" note.
func latLonToUint24(v float64) uint32 {
	rounded := math.Round(v*10000) / 10000
	scaled := int32(math.Round((rounded + 180) * 10000))
	return uint32(scaled)
}

// encodeCountryIndexOnly resolves a country-edition payload's index and
// reports whether the code was recognized, mirroring
// CountryRadixTree.serialize_node's fallback-to-0-with-warning behavior
// in the original.
func encodeCountryIndexOnly(p Payload) (idx int, known bool) {
	return country.Index(strings.ToLower(p.Country))
}

// encodeRec encodes v as record_len little-endian bytes, matching the
// Python reference's encode_rec: take the 4-byte LE form and truncate.
// v must not require more than 32 bits; larger values are silently
// truncated to 32 bits first (record-level overflow is handled by the
// caller, which SHOULD warn per spec §7).
func encodeRec(v uint32, recordLen int) ([]byte, error) {
	if recordLen < 1 || recordLen > 4 {
		return nil, fmt.Errorf("dat: invalid record length %d", recordLen)
	}
	full := []byte{
		byte(v),
		byte(v >> 8),
		byte(v >> 16),
		byte(v >> 24),
	}
	return full[:recordLen], nil
}

// RecordOverflows reports whether v cannot be represented losslessly in
// recordLen bytes, for the explicit warning spec §7 asks for in place
// of the reference's silent truncation.
func RecordOverflows(v uint32, recordLen int) bool {
	if recordLen >= 4 {
		return false
	}
	max := uint32(1)<<(8*recordLen) - 1
	return v > max
}
