// shake.go exposes the two modes the lwr KEM needs: a restartable SHAKE-256
// stream for the JIT expander and a one-shot domain-tagged SHA3-256 for key
// derivation.
package keccak

// Shake256 is a streaming SHAKE-256 instance. The zero value is ready for
// use: Absorb input, Finalize once, then Squeeze any number of output bytes.
type Shake256 struct {
	s         sponge
	finalized bool
}

// Absorb feeds p into the stream. Must not be called after Finalize.
func (h *Shake256) Absorb(p []byte) {
	h.s.absorb(p)
}

// AbsorbByte feeds a single byte into the stream.
func (h *Shake256) AbsorbByte(b byte) {
	h.s.xorByte(h.s.pos, b)
	h.s.pos++
	if h.s.pos == RateShake256 {
		permute(&h.s.state)
		h.s.pos = 0
	}
}

// Finalize pads the absorbed input (suffix 0x1F, final bit 0x80 at rate-1)
// and switches the instance to the squeeze phase. Calling it more than once
// is a no-op.
func (h *Shake256) Finalize() {
	if h.finalized {
		return
	}
	h.s.finalize(suffixShake)
	h.finalized = true
}

// Squeeze fills out with the next bytes of the output stream, finalizing
// first if needed.
func (h *Shake256) Squeeze(out []byte) {
	if !h.finalized {
		h.Finalize()
	}
	h.s.squeeze(out)
}

// Reset wipes the state and returns the instance to the absorb phase.
func (h *Shake256) Reset() {
	h.s.reset()
	h.finalized = false
}

// SumShake256 computes n bytes of SHAKE-256 over data.
func SumShake256(n int, data ...[]byte) []byte {
	var h Shake256
	for _, d := range data {
		h.Absorb(d)
	}
	out := make([]byte, n)
	h.Squeeze(out)
	h.Reset()
	return out
}

// DomainSum256 computes SHA3-256 over domain || data and returns the
// 32-byte digest. The leading domain byte separates one hash usage from
// another; the lwr KEM uses it for key derivation.
func DomainSum256(domain byte, data ...[]byte) [32]byte {
	var s sponge
	s.absorb([]byte{domain})
	for _, d := range data {
		s.absorb(d)
	}
	s.finalize(suffixSHA3)

	var out [32]byte
	s.squeeze(out[:])
	s.reset()
	return out
}

// Sum256 computes plain SHA3-256 over data.
func Sum256(data []byte) [32]byte {
	var s sponge
	s.absorb(data)
	s.finalize(suffixSHA3)

	var out [32]byte
	s.squeeze(out[:])
	s.reset()
	return out
}
