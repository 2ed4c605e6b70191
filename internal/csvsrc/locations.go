package csvsrc

import (
	"fmt"
	"io"

	"github.com/geodat/geodat/internal/dat"
)

// Location is one row of a City locations CSV: id -> (country, region,
// city, postal, lat, lon, metro, area), per spec §6.
type Location struct {
	Country    string
	Region     string
	City       string
	PostalCode string
	Lat        string
	Lon        string
	MetroCode  string
	AreaCode   string
}

// ReadLocations builds the id -> Location lookup table spec §6's City
// v4 Blocks format needs when a locations CSV is supplied. It mirrors
// the original's `id_loc = dict((row[0], row[1:]) for row in
// gen_csv(open(opts.locations)))`.
func ReadLocations(r io.Reader) (map[string]Location, error) {
	rdr := newReader(r)
	out := make(map[string]Location)
	for {
		row, err := rdr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvsrc: reading locations row: %w", err)
		}
		if len(row) < 9 {
			return nil, fmt.Errorf("csvsrc: locations row has %d fields, want >= 9: %v", len(row), row)
		}
		out[row[0]] = Location{
			Country:    row[1],
			Region:     row[2],
			City:       row[3],
			PostalCode: row[4],
			Lat:        row[5],
			Lon:        row[6],
			MetroCode:  row[7],
			AreaCode:   row[8],
		}
	}
	return out, nil
}

func (l Location) toPayload() dat.Payload {
	return dat.Payload{
		Country:    l.Country,
		Region:     l.Region,
		City:       l.City,
		PostalCode: l.PostalCode,
		Lat:        str2float(l.Lat),
		Lon:        str2float(l.Lon),
		MetroCode:  str2int(l.MetroCode),
		AreaCode:   str2int(l.AreaCode),
	}
}
