package dat

import (
	"bytes"
	"fmt"
	"io"

	mtrie "github.com/geodat/geodat/internal/trie"
	"go.uber.org/zap"
)

// sentinel separates the segment table from the data section in
// non-country editions; country editions write three NUL bytes instead
// (spec §4.3 / §8 property 3).
const sentinel = 0x2A

// Comment is the free-form ASCII trailer comment every emitted file
// carries, matching the original's hard-coded "csv2dat.py" marker.
const Comment = "geodat"

// signature is the fixed 3-byte marker preceding the edition byte.
var signature = [3]byte{0xFF, 0xFF, 0xFF}

// Write serializes the builder's trie and data section to w in the
// exact layout spec §4.3 requires. It does not open or rename any
// file; callers are expected to write to a temp file and rename on
// success (spec §7), which cmd/geodat does.
func (b *Builder) Write(w io.Writer) error {
	nodes := b.trie.Nodes()
	segCount := len(nodes)

	maxSegs := uint64(1) << (8 * uint(b.edition.SegmentRecordLen))
	if uint64(segCount) >= maxSegs {
		if b.log != nil {
			b.log.Warn("too many segments for final segment record size",
				zap.Int("segment_count", segCount),
				zap.Int("segment_record_len", b.edition.SegmentRecordLen))
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, segCount*2*b.edition.RecordLen+64))

	for _, n := range nodes {
		for _, right := range [2]bool{false, true} {
			rec, err := b.recordFor(n, right, segCount)
			if err != nil {
				return err
			}
			enc, err := encodeRec(rec, b.edition.RecordLen)
			if err != nil {
				return err
			}
			buf.Write(enc)
		}
	}

	if b.edition.IsCountry {
		buf.Write([]byte{0x00, 0x00, 0x00})
	} else {
		buf.WriteByte(sentinel)
		buf.Write(b.data.Bytes())
	}

	buf.WriteString(Comment)
	buf.Write(signature[:])
	buf.WriteByte(byte(b.edition.EditionByte))

	segRec, err := encodeRec(uint32(segCount), b.edition.SegmentRecordLen)
	if err != nil {
		return err
	}
	buf.Write(segRec)

	_, err = w.Write(buf.Bytes())
	return err
}

// recordFor computes the record value for one child slot, per the
// table in spec §4.3.
func (b *Builder) recordFor(n mtrie.Node, right bool, segCount int) (uint32, error) {
	kind, payload := n.Child(right)

	if b.edition.IsCountry {
		switch kind {
		case mtrie.ChildEmpty:
			return countryBegin, nil
		case mtrie.ChildNode:
			return payload, nil
		default: // ChildLeaf: payload is the country index
			return uint32(countryBegin) + payload, nil
		}
	}

	switch kind {
	case mtrie.ChildEmpty:
		return uint32(segCount), nil
	case mtrie.ChildNode:
		return payload, nil
	default: // ChildLeaf: payload is a DataTable offset
		rec := uint32(segCount) + payload
		if RecordOverflows(rec, b.edition.RecordLen) && b.log != nil {
			b.log.Warn("record value truncated to record length",
				zap.Uint32("value", rec),
				zap.Int("record_len", b.edition.RecordLen))
		}
		return rec, nil
	}
}

// ValidateSegmentCount is a defensive check callers can use before
// Write to turn the spec §7 "segment count overflow" warning into a
// hard error, for tools that want stricter behavior than the legacy
// reference.
func (b *Builder) ValidateSegmentCount() error {
	segCount := b.trie.SegmentCount()
	maxSegs := uint64(1) << (8 * uint(b.edition.SegmentRecordLen))
	if uint64(segCount) >= maxSegs {
		return fmt.Errorf("dat: segment count %d exceeds %d-byte segment record capacity", segCount, b.edition.SegmentRecordLen)
	}
	return nil
}
