// Package ipset turns an integer (lo, hi) address range into the minimal
// ordered set of CIDR prefixes that exactly cover it, the classical
// range-to-prefix expansion spec.md names as an external helper
// (assume available as a library). No example in the retrieved pack
// implements this specific algorithm, so it is hand-rolled here against
// net/netip rather than against a third-party CIDR-summarization module.
package ipset

import (
	"fmt"
	"math/big"
	"net/netip"
)

// Prefix is a family-tagged network: Addr/Bits, matching net/netip's own
// representation so the rest of the tool (trie, CSV sources) can lean on
// netip.Prefix directly.
type Prefix = netip.Prefix

// Summarize returns the ordered, minimal list of prefixes covering
// [lo, hi] inclusive. lo and hi must be valid addresses of the same
// family with lo <= hi.
func Summarize(lo, hi netip.Addr) ([]Prefix, error) {
	if lo.Is4() != hi.Is4() {
		return nil, fmt.Errorf("ipset: address family mismatch between %s and %s", lo, hi)
	}
	bits := 32
	if lo.Is6() {
		bits = 128
	}

	loInt := addrToBig(lo)
	hiInt := addrToBig(hi)
	if loInt.Cmp(hiInt) > 0 {
		return nil, fmt.Errorf("ipset: lo %s is greater than hi %s", lo, hi)
	}

	var prefixes []Prefix
	one := big.NewInt(1)
	cur := new(big.Int).Set(loInt)

	for cur.Cmp(hiInt) <= 0 {
		// Largest block aligned at cur that doesn't overshoot hi:
		// maxSizeByAlignment = number of trailing zero bits of cur (capped by bits).
		maxSizeBits := trailingZeroBits(cur, bits)

		// Shrink until the block [cur, cur+2^maxSizeBits-1] fits within hi.
		for maxSizeBits > 0 {
			blockLen := new(big.Int).Lsh(one, uint(maxSizeBits))
			blockEnd := new(big.Int).Sub(new(big.Int).Add(cur, blockLen), one)
			if blockEnd.Cmp(hiInt) <= 0 {
				break
			}
			maxSizeBits--
		}

		prefixLen := bits - maxSizeBits
		addr, err := bigToAddr(cur, bits)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, prefixLen))

		blockLen := new(big.Int).Lsh(one, uint(maxSizeBits))
		cur.Add(cur, blockLen)
	}

	return prefixes, nil
}

func trailingZeroBits(v *big.Int, bits int) int {
	if v.Sign() == 0 {
		return bits
	}
	n := 0
	t := new(big.Int).Set(v)
	for n < bits && t.Bit(0) == 0 {
		t.Rsh(t, 1)
		n++
	}
	return n
}

func addrToBig(a netip.Addr) *big.Int {
	b := a.AsSlice()
	return new(big.Int).SetBytes(b)
}

func bigToAddr(v *big.Int, bits int) (netip.Addr, error) {
	byteLen := bits / 8
	buf := make([]byte, byteLen)
	v.FillBytes(buf)
	if bits == 32 {
		var a [4]byte
		copy(a[:], buf)
		return netip.AddrFrom4(a), nil
	}
	var a [16]byte
	copy(a[:], buf)
	return netip.AddrFrom16(a), nil
}
