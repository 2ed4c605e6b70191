// Package csvsrc implements the per-edition CSV row sources of spec §6:
// it turns raw MaxMind distribution rows into internal/dat.Net values,
// skipping leading comment rows the way the original's gen_csv
// itertools.dropwhile does, and folding in the range-to-prefix
// expansion via internal/ipset. CSV parsing itself is grounded on
// carl-ship-it-ebpf-ddos-scrubber's internal/geoip loaders
// (encoding/csv, strconv, trimmed/validated columns).
package csvsrc

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"net/netip"
	"strconv"
	"strings"

	"github.com/geodat/geodat/internal/dat"
	"github.com/geodat/geodat/internal/ipset"
)

// reader wraps encoding/csv.Reader with the "skip until the first row
// whose first field starts with a digit" behavior spec §6 requires for
// comment/header lines.
type reader struct {
	cr      *csv.Reader
	started bool
}

func newReader(r io.Reader) *reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &reader{cr: cr}
}

func startsWithDigit(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= '0' && s[0] <= '9'
}

// next returns the next data row, skipping any leading comment/header
// rows once, then returning every subsequent row verbatim (including
// later rows that happen not to start with a digit — only the leading
// run is dropped, matching itertools.dropwhile semantics exactly).
func (r *reader) next() ([]string, error) {
	for {
		row, err := r.cr.Read()
		if err != nil {
			return nil, err
		}
		if !r.started {
			if len(row) == 0 || !startsWithDigit(row[0]) {
				continue
			}
			r.started = true
		}
		return row, nil
	}
}

// parseIPInt parses a decimal integer row field into an address of the
// given family. Family must be supplied explicitly (not inferred from
// magnitude): a small integer like 1 is a valid IPv6 address (::1) as
// well as a valid IPv4 one, and the CSV format, not the value, decides
// which it is.
func parseIPInt(s string, is6 bool) (netip.Addr, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return netip.Addr{}, fmt.Errorf("parsing integer IP %q", s)
	}
	if n.Sign() < 0 {
		return netip.Addr{}, fmt.Errorf("negative integer IP %q", s)
	}

	byteLen := 4
	if is6 {
		byteLen = 16
	}
	buf := make([]byte, byteLen)
	if n.BitLen() > byteLen*8 {
		return netip.Addr{}, fmt.Errorf("integer IP %q overflows %d-bit address", s, byteLen*8)
	}
	n.FillBytes(buf)

	if !is6 {
		var a [4]byte
		copy(a[:], buf)
		return netip.AddrFrom4(a), nil
	}
	var a [16]byte
	copy(a[:], buf)
	return netip.AddrFrom16(a), nil
}

func prefixesFor(loStr, hiStr string, is6 bool) ([]netip.Prefix, error) {
	lo, err := parseIPInt(loStr, is6)
	if err != nil {
		return nil, err
	}
	hi, err := parseIPInt(hiStr, is6)
	if err != nil {
		return nil, err
	}
	return ipset.Summarize(lo, hi)
}

func str2float(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func str2int(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
