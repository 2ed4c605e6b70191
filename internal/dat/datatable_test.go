package dat

import "testing"

func TestDataTableDedup(t *testing.T) {
	// Scenario C: two disjoint ranges with the same label collapse to
	// one data-section entry with identical offsets.
	dt := NewDataTable()
	a := dt.OffsetFor([]byte("AS15169 Google\x00"))
	b := dt.OffsetFor([]byte("AS15169 Google\x00"))
	if a != b {
		t.Errorf("OffsetFor same bytes returned %d and %d, want equal", a, b)
	}
	if dt.Len() != 1 {
		t.Errorf("Len = %d, want 1", dt.Len())
	}
}

func TestDataTableDistinctOffsetsDiffer(t *testing.T) {
	dt := NewDataTable()
	a := dt.OffsetFor([]byte("one\x00"))
	b := dt.OffsetFor([]byte("two\x00"))
	if a == b {
		t.Errorf("distinct payloads got the same offset %d", a)
	}
}

func TestDataTableOffsetStartsAtOne(t *testing.T) {
	dt := NewDataTable()
	off := dt.OffsetFor([]byte("x"))
	if off != 1 {
		t.Errorf("first offset = %d, want 1 (offset 0 is reserved)", off)
	}
}

func TestDataTableOffsetAdvancesByLength(t *testing.T) {
	dt := NewDataTable()
	first := dt.OffsetFor([]byte("abcd")) // len 4
	second := dt.OffsetFor([]byte("xy"))  // len 2
	if second != first+4 {
		t.Errorf("second offset = %d, want %d", second, first+4)
	}
}

func TestDataTableBytesConcatenatesInOrder(t *testing.T) {
	dt := NewDataTable()
	dt.OffsetFor([]byte("ab"))
	dt.OffsetFor([]byte("cd"))
	if got, want := string(dt.Bytes()), "abcd"; got != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
}
