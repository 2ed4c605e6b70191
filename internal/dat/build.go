package dat

import (
	"fmt"
	"net/netip"

	"github.com/geodat/geodat/internal/trie"
	"go.uber.org/zap"
)

// Net is one (prefixes, payload) input row already expanded by
// internal/ipset.Summarize: every prefix in Prefixes carries the same
// payload, matching the original's `for net in nets: self[net] = data`.
type Net struct {
	Prefixes []netip.Prefix
	Payload  Payload
}

// Builder wires a trie, a data table, and an edition descriptor
// together, corresponding to the Python reference's RadixTree
// subclasses collapsed into one generic type parameterized by Edition
// (spec §9's "small descriptor record" design note).
type Builder struct {
	edition  Edition
	trie     *trie.Trie
	data     *DataTable
	log      *zap.Logger
	netCount int
	rowCount int
}

// NewBuilder creates a builder for ed, ready to accept inserts.
func NewBuilder(ed Edition, log *zap.Logger) *Builder {
	b := &Builder{
		edition: ed,
		trie:    trie.New(ed.SeekDepth),
		log:     log,
	}
	if !ed.IsCountry {
		b.data = NewDataTable()
	}
	return b
}

// Insert inserts every prefix in n, deduplicating n.Payload's encoded
// form across all inserts (spec §4.2's dedup contract). For country
// editions, the leaf carries the country index directly; for all other
// editions, it carries a DataTable offset.
func (b *Builder) Insert(n Net) error {
	b.rowCount++

	var leafValue uint32
	if b.edition.IsCountry {
		idx, ok := encodeCountryIndexOnly(n.Payload)
		if !ok {
			b.warnUnknownCountry(n.Payload.Country)
			idx = 0
		}
		leafValue = uint32(idx)
	} else {
		if b.edition.EditionByte == ByteCityRev1 || b.edition.EditionByte == ByteCityRev1v6 {
			if _, ok := encodeCountryIndexOnly(n.Payload); !ok {
				b.warnUnknownCountry(n.Payload.Country)
			}
		}
		encoded, err := b.edition.Encode(n.Payload)
		if err != nil {
			return fmt.Errorf("dat: encoding payload: %w", err)
		}
		leafValue = b.data.OffsetFor(encoded)
	}

	for _, pfx := range n.Prefixes {
		if err := b.trie.Insert(pfx, leafValue); err != nil {
			return fmt.Errorf("dat: inserting %s: %w", pfx, err)
		}
		b.netCount++
	}
	return nil
}

func (b *Builder) warnUnknownCountry(code string) {
	if b.log != nil {
		b.log.Warn("unrecognized country code, falling back to unknown",
			zap.String("code", code))
	}
}

// Stats summarizes a finished build, matching the original's closing
// "wrote N-node trie with M networks (K distinct labels)" log line.
type Stats struct {
	SegmentCount int
	NetCount     int
	RowCount     int
	DataEntries  int
}

func (b *Builder) Stats() Stats {
	entries := 0
	if b.data != nil {
		entries = b.data.Len()
	}
	return Stats{
		SegmentCount: b.trie.SegmentCount(),
		NetCount:     b.netCount,
		RowCount:     b.rowCount,
		DataEntries:  entries,
	}
}
