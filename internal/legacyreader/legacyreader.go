// Package legacyreader is a minimal, read-only decoder of the format
// internal/dat.Builder.Write emits. It exists only to drive spec §8
// property 5 (round-trip with a conforming reader) from tests, and to
// back the "test" CLI subcommand spec §6 names as a collaborator but
// leaves undesigned ("the companion test/diff tool"). It is
// intentionally not a general MaxMind .dat reader: it assumes the
// trailer comment is exactly dat.Comment, matching only files this
// tool itself produced. Querying arbitrary upstream .dat files remains
// a non-goal per spec §1/§2.
package legacyreader

import (
	"bytes"
	"fmt"
	"net/netip"
	"strings"

	"github.com/geodat/geodat/internal/country"
	"github.com/geodat/geodat/internal/dat"
)

// Reader decodes one in-memory .dat file for a known edition.
type Reader struct {
	segTable []byte // raw segment table bytes
	dataSect []byte // bytes from the sentinel up to the comment; data offsets (first valid offset 1) index it directly
	edition  dat.Edition
	segCount int
}

// Open parses data assuming it was produced for edition ed. It
// validates the trailer (signature, edition byte, segment count) but
// does not otherwise sanity-check the file.
func Open(data []byte, ed dat.Edition) (*Reader, error) {
	trailerTail := 3 + 1 + ed.SegmentRecordLen // signature + edition + segcount
	commentAndTail := len(dat.Comment) + trailerTail
	if len(data) < commentAndTail {
		return nil, fmt.Errorf("legacyreader: file too short")
	}

	trailerStart := len(data) - commentAndTail
	comment := data[trailerStart : trailerStart+len(dat.Comment)]
	if string(comment) != dat.Comment {
		return nil, fmt.Errorf("legacyreader: unexpected comment %q", comment)
	}

	sigStart := trailerStart + len(dat.Comment)
	sig := data[sigStart : sigStart+3]
	if !bytes.Equal(sig, []byte{0xFF, 0xFF, 0xFF}) {
		return nil, fmt.Errorf("legacyreader: bad signature %x", sig)
	}

	editionByte := data[sigStart+3]
	if dat.Byte(editionByte) != ed.EditionByte {
		return nil, fmt.Errorf("legacyreader: edition byte %d does not match expected %d", editionByte, ed.EditionByte)
	}

	segCountBytes := data[sigStart+4 : sigStart+4+ed.SegmentRecordLen]
	segCount := int(decodeLE(segCountBytes))

	tableLen := 2 * ed.RecordLen * segCount
	if tableLen > trailerStart {
		return nil, fmt.Errorf("legacyreader: segment table overruns file")
	}
	segTable := data[:tableLen]

	var dataSect []byte
	if ed.IsCountry {
		sep := data[tableLen : tableLen+3]
		if !bytes.Equal(sep, []byte{0, 0, 0}) {
			return nil, fmt.Errorf("legacyreader: expected zero padding after country segment table")
		}
	} else {
		if data[tableLen] != 0x2A {
			return nil, fmt.Errorf("legacyreader: missing sentinel after segment table")
		}
		dataSect = data[tableLen:trailerStart]
	}

	return &Reader{
		segTable: segTable,
		dataSect: dataSect,
		edition:  ed,
		segCount: segCount,
	}, nil
}

func decodeLE(b []byte) uint32 {
	var v uint32
	for i, c := range b {
		v |= uint32(c) << (8 * uint(i))
	}
	return v
}

// walk descends the trie for addr and returns the leaf's value (the
// record with its segment-count or COUNTRY_BEGIN base removed) plus
// whether a leaf was found (false for an empty child).
func (r *Reader) walk(addr netip.Addr) (uint32, bool, error) {
	seg := 0
	for d := r.edition.SeekDepth; d >= 0; d-- {
		right := addrBit(addr, d)
		recBytes := r.recordBytes(seg, right)
		rec := decodeLE(recBytes)

		if r.edition.IsCountry {
			if rec == dat.CountryBegin() {
				return 0, false, nil
			}
			if int(rec) < r.segCount {
				seg = int(rec)
				continue
			}
			return rec - dat.CountryBegin(), true, nil
		}

		if int(rec) == r.segCount {
			return 0, false, nil
		}
		if int(rec) < r.segCount {
			seg = int(rec)
			continue
		}
		return rec - uint32(r.segCount), true, nil
	}
	return 0, false, fmt.Errorf("legacyreader: walked past seek depth without resolving")
}

func (r *Reader) recordBytes(seg int, right bool) []byte {
	recLen := r.edition.RecordLen
	base := seg * 2 * recLen
	if right {
		base += recLen
	}
	return r.segTable[base : base+recLen]
}

func addrBit(addr netip.Addr, d int) bool {
	b := addr.AsSlice()
	byteIdx := len(b) - 1 - d/8
	bitIdx := uint(d % 8)
	return b[byteIdx]&(1<<bitIdx) != 0
}

// LookupText resolves an ASN/ISP/Org-style NUL-terminated string leaf.
func (r *Reader) LookupText(addr netip.Addr) (string, bool, error) {
	v, found, err := r.walk(addr)
	if err != nil || !found {
		return "", found, err
	}
	off := int(v)
	if off < 0 || off >= len(r.dataSect) {
		return "", false, fmt.Errorf("legacyreader: data offset %d out of range", off)
	}
	end := bytes.IndexByte(r.dataSect[off:], 0)
	if end < 0 {
		return "", false, fmt.Errorf("legacyreader: unterminated string at offset %d", off)
	}
	return string(r.dataSect[off : off+end]), true, nil
}

// LookupCountry resolves a Country-edition leaf to its two-letter code.
func (r *Reader) LookupCountry(addr netip.Addr) (string, bool, error) {
	v, found, err := r.walk(addr)
	if err != nil || !found {
		return "", found, err
	}
	idx := int(v)
	if idx < 0 || idx >= len(country.Codes) {
		return "", false, fmt.Errorf("legacyreader: country index %d out of range", idx)
	}
	return country.Codes[idx], true, nil
}

// CityRecord is the decoded form of a City rev1 data leaf.
type CityRecord struct {
	Country    string
	Region     string
	City       string
	PostalCode string
	// Lat/Lon are truncated to integers per spec §8 property 5's
	// note about lossy float comparisons.
	Lat       int
	Lon       int
	MetroCode int
	AreaCode  int
}

// LookupCity resolves a City rev1 leaf.
func (r *Reader) LookupCity(addr netip.Addr) (CityRecord, bool, error) {
	v, found, err := r.walk(addr)
	if err != nil || !found {
		return CityRecord{}, found, err
	}
	off := int(v)
	if off < 0 || off >= len(r.dataSect) {
		return CityRecord{}, false, fmt.Errorf("legacyreader: data offset %d out of range", off)
	}
	buf := r.dataSect[off:]

	if len(buf) < 1 {
		return CityRecord{}, false, fmt.Errorf("legacyreader: truncated city record")
	}
	countryIdx := int(buf[0])
	if countryIdx < 0 || countryIdx >= len(country.Codes) {
		return CityRecord{}, false, fmt.Errorf("legacyreader: country index %d out of range", countryIdx)
	}
	rest := buf[1:]

	fields := strings.SplitN(string(rest), "\x00", 4)
	if len(fields) < 4 {
		return CityRecord{}, false, fmt.Errorf("legacyreader: malformed city record")
	}
	region, city, postal := fields[0], fields[1], fields[2]
	tail := []byte(fields[3])
	if len(tail) < 9 {
		return CityRecord{}, false, fmt.Errorf("legacyreader: truncated city coordinate block")
	}
	latRaw := decodeLE(tail[0:3])
	lonRaw := decodeLE(tail[3:6])
	metroAreaRaw := decodeLE(tail[6:9])

	rec := CityRecord{
		Country:    country.Codes[countryIdx],
		Region:     region,
		City:       city,
		PostalCode: postal,
		Lat:        (int(latRaw) - 1_800_000) / 10000,
		Lon:        (int(lonRaw) - 1_800_000) / 10000,
	}
	if metroAreaRaw != 0 {
		rec.MetroCode = int(metroAreaRaw) / 1000
		rec.AreaCode = int(metroAreaRaw) % 1000
	}
	return rec, true, nil
}
