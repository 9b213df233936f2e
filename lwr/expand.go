// expand.go is the JIT expander: deterministic regeneration of public
// matrix rows and ternary vectors from 32-byte seeds. Every stream is a
// pure function of (seed, tag, indices); nothing is cached between calls.
package lwr

import "github.com/eth2030/lwrkem/keccak"

// matrixRow squeezes row (i, l) of the public matrix A into dst (length N).
// Domain: seed || 0x00 || i || l, then 2-byte little-endian samples masked
// into [0, Q). No rejection sampling; the mask confines the range.
func matrixRow(seed *[SeedLen]byte, i, l int, dst []uint16) {
	var xof keccak.Shake256
	xof.Absorb(seed[:])
	xof.Absorb([]byte{tagMatrix, byte(i), byte(l)})

	var raw [2 * N]byte
	xof.Squeeze(raw[:])
	for j := 0; j < N; j++ {
		dst[j] = (uint16(raw[2*j]) | uint16(raw[2*j+1])<<8) & QMask
	}
	xof.Reset()
}

// matrixElement returns coefficient j of A[i, l] under the element-wise
// domain, which additionally absorbs the element index. The scratch is a
// single sample; the stream is distinct from the row-wise one.
func matrixElement(seed *[SeedLen]byte, i, l, j int) uint16 {
	var xof keccak.Shake256
	xof.Absorb(seed[:])
	xof.Absorb([]byte{tagMatrix, byte(i), byte(l), byte(j)})

	var raw [2]byte
	xof.Squeeze(raw[:])
	xof.Reset()
	return (uint16(raw[0]) | uint16(raw[1])<<8) & QMask
}

// ternaryByte maps one squeezed byte to a coefficient in {-1, 0, +1}.
// v = r & 3; v == 3 maps to 0, otherwise v-1. Pr[0] = 1/2, Pr[±1] = 1/4.
// Branchless: the input byte is secret-derived.
func ternaryByte(r byte) int16 {
	v := int32(r & 3)
	return int16(select32(0, v-1, eq32(v, 3)))
}

// ternaryRow fills dst (length N) with ternary vector l expanded from a
// secret or ephemeral seed. Domain: seed || 0xFF || l.
func ternaryRow(seed *[SeedLen]byte, l int, dst []int16) {
	var xof keccak.Shake256
	xof.Absorb(seed[:])
	xof.Absorb([]byte{tagTernary, byte(l)})

	var raw [N]byte
	xof.Squeeze(raw[:])
	for j := 0; j < N; j++ {
		dst[j] = ternaryByte(raw[j])
	}
	secureZero(raw[:])
	xof.Reset()
}

// ternaryElement returns coefficient j of ternary vector l under the
// element-wise domain: seed || 0xFF || l || j.
func ternaryElement(seed *[SeedLen]byte, l, j int) int16 {
	var xof keccak.Shake256
	xof.Absorb(seed[:])
	xof.Absorb([]byte{tagTernary, byte(l), byte(j)})

	var raw [1]byte
	xof.Squeeze(raw[:])
	xof.Reset()
	return ternaryByte(raw[0])
}

// expandTernary fills s (length k*N) with the full ternary vector for the
// given seed, honoring the expander mode's domain scheme.
func expandTernary(mode ExpandMode, seed *[SeedLen]byte, k int, s []int16) {
	if mode == ExpandRow {
		for l := 0; l < k; l++ {
			ternaryRow(seed, l, s[l*N:(l+1)*N])
		}
		return
	}
	for l := 0; l < k; l++ {
		for j := 0; j < N; j++ {
			s[l*N+j] = ternaryElement(seed, l, j)
		}
	}
}
