package dat

// DataTable is the append-only, deduplicated data section of spec §3:
// encoded payload bytes are appended at most once, keyed by their exact
// byte content, with offsets starting at 1 (offset 0 is reserved).
type DataTable struct {
	offsets   map[string]uint32
	segments  [][]byte
	curOffset uint32
}

// NewDataTable returns an empty table with cur_offset primed to 1.
func NewDataTable() *DataTable {
	return &DataTable{
		offsets:   make(map[string]uint32),
		curOffset: 1,
	}
}

// OffsetFor returns the dedup offset for encoded, appending it to the
// table on first sight. Equal byte strings always return the same
// offset (spec §8 property 4).
func (d *DataTable) OffsetFor(encoded []byte) uint32 {
	key := string(encoded)
	if off, ok := d.offsets[key]; ok {
		return off
	}
	off := d.curOffset
	d.offsets[key] = off
	cp := make([]byte, len(encoded))
	copy(cp, encoded)
	d.segments = append(d.segments, cp)
	d.curOffset += uint32(len(encoded))
	return off
}

// Bytes returns the concatenated data section in insertion order.
func (d *DataTable) Bytes() []byte {
	total := 0
	for _, s := range d.segments {
		total += len(s)
	}
	out := make([]byte, 0, total)
	for _, s := range d.segments {
		out = append(out, s...)
	}
	return out
}

// Len is the number of distinct encoded payloads stored.
func (d *DataTable) Len() int { return len(d.offsets) }
