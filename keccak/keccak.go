// Package keccak implements the Keccak-f[1600] permutation together with the
// SHAKE-256 XOF and a domain-tagged SHA3-256, as used by the lwr KEM for
// seed expansion and key derivation.
//
// The sponge keeps an explicit byte cursor into the state so callers can
// absorb and squeeze byte-wise across rate boundaries; the lwr expander
// relies on this to squeeze a whole row or a single sample per stream.
package keccak

import "math/bits"

const (
	// RateShake256 is the SHAKE-256 / SHA3-256 bitrate in bytes.
	RateShake256 = 136

	numRounds = 24

	suffixShake = 0x1F // SHAKE domain suffix (FIPS 202)
	suffixSHA3  = 0x06 // SHA3 domain suffix
	padEnd      = 0x80 // final padding bit, XORed at rate-1
)

// roundConstants are the 24 iota constants of Keccak-f[1600].
var roundConstants = [numRounds]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808A,
	0x8000000080008000, 0x000000000000808B, 0x0000000080000001,
	0x8000000080008081, 0x8000000000008009, 0x000000000000008A,
	0x0000000000000088, 0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B, 0x8000000000008089,
	0x8000000000008003, 0x8000000000008002, 0x8000000000000080,
	0x000000000000800A, 0x800000008000000A, 0x8000000080008081,
	0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rhoOffsets[x][y] holds the rotation offset of lane (x, y).
var rhoOffsets = [5][5]int{
	{0, 36, 3, 41, 18},
	{1, 44, 10, 45, 2},
	{62, 6, 43, 15, 61},
	{28, 55, 25, 21, 56},
	{27, 20, 39, 8, 14},
}

// permute runs the full 24-round Keccak-f[1600] permutation over the state.
// Lane (x, y) lives at index x+5y; bytes of lane i occupy offsets 8i..8i+7
// in the byte view of the state (FIPS 202 ordering).
func permute(a *[25]uint64) {
	var c, d [5]uint64
	var b [25]uint64

	for round := 0; round < numRounds; round++ {
		// theta
		for x := 0; x < 5; x++ {
			c[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		for x := 0; x < 5; x++ {
			d[x] = c[(x+4)%5] ^ bits.RotateLeft64(c[(x+1)%5], 1)
			for y := 0; y < 5; y++ {
				a[x+5*y] ^= d[x]
			}
		}

		// rho and pi
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				b[y+5*((2*x+3*y)%5)] = bits.RotateLeft64(a[x+5*y], rhoOffsets[x][y])
			}
		}

		// chi
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				a[x+5*y] = b[x+5*y] ^ (^b[(x+1)%5+5*y] & b[(x+2)%5+5*y])
			}
		}

		// iota
		a[0] ^= roundConstants[round]
	}
}

// sponge is a byte-granular Keccak sponge at a fixed rate.
type sponge struct {
	state [25]uint64
	pos   int // byte cursor within the rate part of the state
}

// xorByte XORs b into the state at byte offset pos.
func (s *sponge) xorByte(pos int, b byte) {
	s.state[pos>>3] ^= uint64(b) << (8 * uint(pos&7))
}

// byteAt reads the state byte at offset pos.
func (s *sponge) byteAt(pos int) byte {
	return byte(s.state[pos>>3] >> (8 * uint(pos&7)))
}

// absorb XORs p into the state, permuting at every rate boundary.
func (s *sponge) absorb(p []byte) {
	for _, b := range p {
		s.xorByte(s.pos, b)
		s.pos++
		if s.pos == RateShake256 {
			permute(&s.state)
			s.pos = 0
		}
	}
}

// finalize applies the domain suffix at the current cursor, the final
// padding bit at rate-1, and permutes once, switching to squeeze phase.
func (s *sponge) finalize(suffix byte) {
	s.xorByte(s.pos, suffix)
	s.xorByte(RateShake256-1, padEnd)
	permute(&s.state)
	s.pos = 0
}

// squeeze reads len(out) bytes from the state, permuting at rate boundaries.
func (s *sponge) squeeze(out []byte) {
	for i := range out {
		if s.pos == RateShake256 {
			permute(&s.state)
			s.pos = 0
		}
		out[i] = s.byteAt(s.pos)
		s.pos++
	}
}

// reset zeroes the state and cursor so the sponge can be reused. Callers
// that absorbed secret material use this to wipe it.
func (s *sponge) reset() {
	for i := range s.state {
		s.state[i] = 0
	}
	s.pos = 0
}
