package ipset

import (
	"net/netip"
	"testing"
)

func TestSummarizeSingleSlash24(t *testing.T) {
	lo := netip.MustParseAddr("192.168.0.0")
	hi := netip.MustParseAddr("192.168.0.255")
	got, err := Summarize(lo, hi)
	if err != nil {
		t.Fatal(err)
	}
	want := []Prefix{netip.MustParsePrefix("192.168.0.0/24")}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("Summarize = %v, want %v", got, want)
	}
}

func TestSummarizeOddRange(t *testing.T) {
	// 10.0.0.0 - 10.0.0.2 cannot be a single CIDR: /31 covers .0-.1, then /32 for .2.
	lo := netip.MustParseAddr("10.0.0.0")
	hi := netip.MustParseAddr("10.0.0.2")
	got, err := Summarize(lo, hi)
	if err != nil {
		t.Fatal(err)
	}
	want := []Prefix{
		netip.MustParsePrefix("10.0.0.0/31"),
		netip.MustParsePrefix("10.0.0.2/32"),
	}
	if len(got) != len(want) {
		t.Fatalf("Summarize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Summarize[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSummarizeSingleHost(t *testing.T) {
	addr := netip.MustParseAddr("1.2.3.4")
	got, err := Summarize(addr, addr)
	if err != nil {
		t.Fatal(err)
	}
	want := netip.MustParsePrefix("1.2.3.4/32")
	if len(got) != 1 || got[0] != want {
		t.Errorf("Summarize = %v, want [%v]", got, want)
	}
}

func TestSummarizeIPv6(t *testing.T) {
	lo := netip.MustParseAddr("2001:db8::")
	hi := netip.MustParseAddr("2001:db8::ffff:ffff:ffff:ffff")
	got, err := Summarize(lo, hi)
	if err != nil {
		t.Fatal(err)
	}
	want := netip.MustParsePrefix("2001:db8::/64")
	if len(got) != 1 || got[0] != want {
		t.Errorf("Summarize = %v, want [%v]", got, want)
	}
}

func TestSummarizeFamilyMismatch(t *testing.T) {
	lo := netip.MustParseAddr("1.2.3.4")
	hi := netip.MustParseAddr("::1")
	if _, err := Summarize(lo, hi); err == nil {
		t.Error("expected error for mismatched address families")
	}
}

func TestSummarizeLoGreaterThanHi(t *testing.T) {
	lo := netip.MustParseAddr("10.0.0.5")
	hi := netip.MustParseAddr("10.0.0.1")
	if _, err := Summarize(lo, hi); err == nil {
		t.Error("expected error for lo > hi")
	}
}

func TestSummarizeFullIPv4Range(t *testing.T) {
	lo := netip.MustParseAddr("0.0.0.0")
	hi := netip.MustParseAddr("255.255.255.255")
	got, err := Summarize(lo, hi)
	if err != nil {
		t.Fatal(err)
	}
	want := netip.MustParsePrefix("0.0.0.0/0")
	if len(got) != 1 || got[0] != want {
		t.Errorf("Summarize = %v, want [%v]", got, want)
	}
}
