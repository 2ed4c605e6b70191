package country

import "testing"

func TestAliases(t *testing.T) {
	cases := []struct{ alias, canonical string }{
		{"cw", "an"},
		{"uk", "gb"},
		{"sx", "fx"},
	}
	for _, c := range cases {
		t.Run(c.alias, func(t *testing.T) {
			got, ok := Index(c.alias)
			if !ok {
				t.Fatalf("Index(%q) not found", c.alias)
			}
			want, ok := Index(c.canonical)
			if !ok {
				t.Fatalf("Index(%q) not found", c.canonical)
			}
			if got != want {
				t.Errorf("Index(%q) = %d, want %d (Index(%q))", c.alias, got, want, c.canonical)
			}
		})
	}
}

func TestUnknown(t *testing.T) {
	for _, code := range []string{"", "--", "zz-not-a-code"} {
		if code == "zz-not-a-code" {
			if _, ok := Index(code); ok {
				t.Errorf("Index(%q) unexpectedly found", code)
			}
			continue
		}
		idx, ok := Index(code)
		if !ok || idx != 0 {
			t.Errorf("Index(%q) = %d, %v, want 0, true", code, idx, ok)
		}
	}
}

func TestMustIndexFallback(t *testing.T) {
	if got := MustIndex("not-a-real-code"); got != 0 {
		t.Errorf("MustIndex(unknown) = %d, want 0", got)
	}
	if got := MustIndex("US"); got == 0 {
		t.Errorf("MustIndex(US) = 0, want non-zero")
	}
}

func TestIndexStability(t *testing.T) {
	// US and GB indices are load-bearing for on-disk format compatibility;
	// a reordering of Codes would silently corrupt every .dat this tool emits.
	us, _ := Index("us")
	gb, _ := Index("gb")
	an, _ := Index("an")
	fx, _ := Index("fx")
	if us != 225 || gb != 77 || an != 10 || fx != 75 {
		t.Errorf("country indices drifted: us=%d gb=%d an=%d fx=%d", us, gb, an, fx)
	}
}
