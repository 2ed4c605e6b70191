package csvsrc

import (
	"fmt"
	"io"

	"github.com/geodat/geodat/internal/dat"
)

// ReadCityBlocks parses a City v4 Blocks CSV: lo_int, hi_int,
// location_id (spec §6). If locations is non-nil, location_id is
// expanded through it; otherwise the remaining columns are used
// directly as the payload tuple (country, region, city, postal, lat,
// lon, metro, area), matching the "flattened" CSV the original's
// flatten_city command produces.
func ReadCityBlocks(r io.Reader, locations map[string]Location) ([]dat.Net, error) {
	rdr := newReader(r)
	var nets []dat.Net
	for {
		row, err := rdr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvsrc: reading city blocks row: %w", err)
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("csvsrc: city blocks row has %d fields, want >= 3: %v", len(row), row)
		}

		pfxs, err := prefixesFor(row[0], row[1], false)
		if err != nil {
			return nil, fmt.Errorf("csvsrc: city blocks row %v: %w", row, err)
		}

		var payload dat.Payload
		if locations != nil {
			loc, ok := locations[row[2]]
			if !ok {
				return nil, fmt.Errorf("csvsrc: city blocks row %v: unknown location id %q", row, row[2])
			}
			payload = loc.toPayload()
		} else {
			if len(row) < 10 {
				return nil, fmt.Errorf("csvsrc: flat city blocks row has %d fields, want >= 10: %v", len(row), row)
			}
			payload = Location{
				Country:    row[2],
				Region:     row[3],
				City:       row[4],
				PostalCode: row[5],
				Lat:        row[6],
				Lon:        row[7],
				MetroCode:  row[8],
				AreaCode:   row[9],
			}.toPayload()
		}

		nets = append(nets, dat.Net{Prefixes: pfxs, Payload: payload})
	}
	return nets, nil
}

// ReadCityV6 parses a City v6 CSV: _, _, lo_int, hi_int, country,
// region, city, lat, lon, postal_code, metro, area (spec §6). Note the
// v6 column order puts postal_code after lat/lon; this reader
// re-orders fields into the canonical payload tuple before the shared
// encodeCity logic ever sees them.
func ReadCityV6(r io.Reader) ([]dat.Net, error) {
	rdr := newReader(r)
	var nets []dat.Net
	for {
		row, err := rdr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvsrc: reading city v6 row: %w", err)
		}
		if len(row) < 12 {
			return nil, fmt.Errorf("csvsrc: city v6 row has %d fields, want >= 12: %v", len(row), row)
		}

		pfxs, err := prefixesFor(row[2], row[3], true)
		if err != nil {
			return nil, fmt.Errorf("csvsrc: city v6 row %v: %w", row, err)
		}

		country, region, city := row[4], row[5], row[6]
		lat, lon, postal, metro, area := row[7], row[8], row[9], row[10], row[11]

		payload := Location{
			Country:    country,
			Region:     region,
			City:       city,
			PostalCode: postal,
			Lat:        lat,
			Lon:        lon,
			MetroCode:  metro,
			AreaCode:   area,
		}.toPayload()

		nets = append(nets, dat.Net{Prefixes: pfxs, Payload: payload})
	}
	return nets, nil
}
