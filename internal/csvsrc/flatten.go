package csvsrc

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Flatten joins one or more City Blocks CSVs against a Locations CSV
// into a single flattened CSV (lo, hi, country, region, city, postal,
// lat, lon, metro, area), matching the original's flatten_city command:
// easier to hand-edit than chasing a location_id indirection.
func Flatten(blocks []io.Reader, locations io.Reader, w io.Writer) error {
	idLoc, err := ReadLocations(locations)
	if err != nil {
		return fmt.Errorf("csvsrc: flatten: reading locations: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	for _, src := range blocks {
		rdr := newReader(src)
		for {
			row, err := rdr.next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("csvsrc: flatten: reading blocks row: %w", err)
			}
			if len(row) < 3 {
				return fmt.Errorf("csvsrc: flatten: blocks row has %d fields, want >= 3: %v", len(row), row)
			}

			locID := row[len(row)-1]
			loc, ok := idLoc[locID]
			if !ok {
				return fmt.Errorf("csvsrc: flatten: unknown location id %q", locID)
			}

			out := append(append([]string{}, row[:len(row)-1]...),
				loc.Country, loc.Region, loc.City, loc.PostalCode,
				loc.Lat, loc.Lon, loc.MetroCode, loc.AreaCode)

			if err := cw.Write(out); err != nil {
				return fmt.Errorf("csvsrc: flatten: writing row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
