package csvsrc

import (
	"fmt"
	"io"

	"github.com/geodat/geodat/internal/dat"
)

// ReadASN parses an ASN v4 CSV: lo_int, hi_int, asn_string (spec §6).
func ReadASN(r io.Reader) ([]dat.Net, error) {
	return readASNLike(r, false, func(row []string) (string, string, string) {
		return row[0], row[1], row[2]
	})
}

// ReadASNv6 parses an ASN v6 CSV: the first two columns are ignored
// (spec §6).
func ReadASNv6(r io.Reader) ([]dat.Net, error) {
	return readASNLike(r, true, func(row []string) (string, string, string) {
		return row[2], row[3], row[4]
	})
}

func readASNLike(r io.Reader, is6 bool, cols func([]string) (lo, hi, text string)) ([]dat.Net, error) {
	rdr := newReader(r)
	var nets []dat.Net
	for {
		row, err := rdr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvsrc: reading asn row: %w", err)
		}

		want := 3
		if is6 {
			want = 5
		}
		if len(row) < want {
			return nil, fmt.Errorf("csvsrc: asn row has %d fields, want >= %d: %v", len(row), want, row)
		}

		loStr, hiStr, text := cols(row)
		pfxs, err := prefixesFor(loStr, hiStr, is6)
		if err != nil {
			return nil, fmt.Errorf("csvsrc: asn row %v: %w", row, err)
		}

		nets = append(nets, dat.Net{
			Prefixes: pfxs,
			Payload:  dat.Payload{Text: text},
		})
	}
	return nets, nil
}
