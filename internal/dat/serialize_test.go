package dat

import (
	"bytes"
	"net/netip"
	"testing"
)

func mustPrefix(s string) netip.Prefix {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		panic(err)
	}
	return p
}

func TestSerializeSegmentTableSize(t *testing.T) {
	// Universal property 1.
	b := NewBuilder(ASN, nil)
	if err := b.Insert(Net{
		Prefixes: []netip.Prefix{mustPrefix("1.0.0.0/24")},
		Payload:  Payload{Text: "AS13335 Cloudflare"},
	}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatal(err)
	}

	segCount := b.trie.SegmentCount()
	wantTableLen := 2 * ASN.RecordLen * segCount
	got := buf.Bytes()
	if len(got) < wantTableLen {
		t.Fatalf("output shorter than expected segment table: %d < %d", len(got), wantTableLen)
	}
	if got[wantTableLen] != sentinel {
		t.Errorf("byte after segment table = %#x, want sentinel %#x", got[wantTableLen], sentinel)
	}
}

func TestSerializeTrailerLayout(t *testing.T) {
	// Universal property 2.
	b := NewBuilder(ASN, nil)
	if err := b.Insert(Net{
		Prefixes: []netip.Prefix{mustPrefix("1.0.0.0/24")},
		Payload:  Payload{Text: "AS13335 Cloudflare"},
	}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got := buf.Bytes()

	segCount := b.trie.SegmentCount()
	segRec, _ := encodeRec(uint32(segCount), ASN.SegmentRecordLen)
	wantTrailer := append([]byte(Comment), signature[:]...)
	wantTrailer = append(wantTrailer, byte(ASN.EditionByte))
	wantTrailer = append(wantTrailer, segRec...)

	gotTrailer := got[len(got)-len(wantTrailer):]
	if !bytes.Equal(gotTrailer, wantTrailer) {
		t.Errorf("trailer = %x, want %x", gotTrailer, wantTrailer)
	}
}

func TestSerializeCountrySentinelIsThreeZeroBytes(t *testing.T) {
	// Universal property 3, country variant.
	b := NewBuilder(Country, nil)
	if err := b.Insert(Net{
		Prefixes: []netip.Prefix{mustPrefix("192.168.0.0/24")},
		Payload:  Payload{Country: "US"},
	}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got := buf.Bytes()

	segCount := b.trie.SegmentCount()
	tableLen := 2 * Country.RecordLen * segCount
	sep := got[tableLen : tableLen+3]
	if !bytes.Equal(sep, []byte{0, 0, 0}) {
		t.Errorf("country separator = %x, want 000000", sep)
	}
	if got[tableLen+3] != 'g' { // start of "geodat" comment
		t.Errorf("expected comment to start right after the 3-byte separator")
	}
}

func TestSerializeEditionByteMatchesCountry(t *testing.T) {
	// Scenario A.
	b := NewBuilder(Country, nil)
	if err := b.Insert(Net{
		Prefixes: []netip.Prefix{mustPrefix("192.168.0.0/24")},
		Payload:  Payload{Country: "US"},
	}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got := buf.Bytes()
	editionIdx := len(got) - 1 - Country.SegmentRecordLen
	if Byte(got[editionIdx]) != ByteCountry {
		t.Errorf("edition byte = %d, want %d", got[editionIdx], ByteCountry)
	}
}

func TestSerializeDedupProducesIdenticalLeafRecords(t *testing.T) {
	// Scenario C.
	b := NewBuilder(ASN, nil)
	if err := b.Insert(Net{
		Prefixes: []netip.Prefix{mustPrefix("8.8.8.0/24")},
		Payload:  Payload{Text: "AS15169 Google"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := b.Insert(Net{
		Prefixes: []netip.Prefix{mustPrefix("8.8.4.0/24")},
		Payload:  Payload{Text: "AS15169 Google"},
	}); err != nil {
		t.Fatal(err)
	}
	if b.data.Len() != 1 {
		t.Errorf("distinct data entries = %d, want 1", b.data.Len())
	}

	// Leaf records are the ones above segCount (internal children are
	// below it, empty children equal it).
	segCount := b.trie.SegmentCount()
	var leafRecs []uint32
	for _, n := range b.trie.Nodes() {
		for _, right := range [2]bool{false, true} {
			rec, err := b.recordFor(n, right, segCount)
			if err != nil {
				t.Fatal(err)
			}
			if rec > uint32(segCount) {
				leafRecs = append(leafRecs, rec)
			}
		}
	}
	if len(leafRecs) != 2 || leafRecs[0] != leafRecs[1] {
		t.Errorf("leaf records = %v, want two identical values", leafRecs)
	}
}

func TestSerializeEditionIndependenceDataSectionIdentical(t *testing.T) {
	// Universal property 6: ASN vs ISP builders fed the same input
	// differ only in record_len/edition byte; data bytes are identical.
	net := Net{
		Prefixes: []netip.Prefix{mustPrefix("1.0.0.0/24")},
		Payload:  Payload{Text: "AS13335 Cloudflare"},
	}

	asnBuilder := NewBuilder(ASN, nil)
	if err := asnBuilder.Insert(net); err != nil {
		t.Fatal(err)
	}
	ispBuilder := NewBuilder(ISP, nil)
	if err := ispBuilder.Insert(net); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(asnBuilder.data.Bytes(), ispBuilder.data.Bytes()) {
		t.Error("ASN and ISP data sections differ for identical input")
	}

	var asnBuf, ispBuf bytes.Buffer
	if err := asnBuilder.Write(&asnBuf); err != nil {
		t.Fatal(err)
	}
	if err := ispBuilder.Write(&ispBuf); err != nil {
		t.Fatal(err)
	}
	if asnBuf.Len() == ispBuf.Len() {
		// ISP uses 4-byte records vs ASN's 3-byte records, so the
		// segment table (and thus total length) must differ.
		t.Error("expected ASN and ISP output lengths to differ due to record_len")
	}
}

func TestValidateSegmentCount(t *testing.T) {
	b := NewBuilder(ASN, nil)
	if err := b.Insert(Net{
		Prefixes: []netip.Prefix{mustPrefix("1.0.0.0/24")},
		Payload:  Payload{Text: "x"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateSegmentCount(); err != nil {
		t.Errorf("unexpected overflow on tiny trie: %v", err)
	}
}
