package csvsrc

import (
	"fmt"
	"io"
	"strings"

	"github.com/geodat/geodat/internal/dat"
)

// ReadCountry parses a Country v4 CSV: _, _, lo_int, hi_int, cc, _
// (spec §6).
func ReadCountry(r io.Reader) ([]dat.Net, error) {
	rdr := newReader(r)
	var nets []dat.Net
	for {
		row, err := rdr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvsrc: reading country row: %w", err)
		}
		if len(row) < 6 {
			return nil, fmt.Errorf("csvsrc: country row has %d fields, want >= 6: %v", len(row), row)
		}

		pfxs, err := prefixesFor(row[2], row[3], false)
		if err != nil {
			return nil, fmt.Errorf("csvsrc: country row %v: %w", row, err)
		}
		nets = append(nets, dat.Net{
			Prefixes: pfxs,
			Payload:  dat.Payload{Country: row[4]},
		})
	}
	return nets, nil
}

// ReadCountryV6 parses a Country v6 CSV, stripping the stray spaces
// and quotes spec §6 calls out for columns 3..5 (lo_int, hi_int, cc).
func ReadCountryV6(r io.Reader) ([]dat.Net, error) {
	rdr := newReader(r)
	var nets []dat.Net
	for {
		row, err := rdr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvsrc: reading country v6 row: %w", err)
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("csvsrc: country v6 row has %d fields, want >= 5: %v", len(row), row)
		}

		lo := stripSpaceQuote(row[2])
		hi := stripSpaceQuote(row[3])
		cc := stripSpaceQuote(row[4])

		pfxs, err := prefixesFor(lo, hi, true)
		if err != nil {
			return nil, fmt.Errorf("csvsrc: country v6 row %v: %w", row, err)
		}
		nets = append(nets, dat.Net{
			Prefixes: pfxs,
			Payload:  dat.Payload{Country: cc},
		})
	}
	return nets, nil
}

func stripSpaceQuote(s string) string {
	return strings.Trim(s, " \"")
}
