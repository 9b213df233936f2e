// encode.go packs and parses the flat wire layouts. The core treats keys
// and ciphertexts as value objects; these helpers exist for transport and
// persistence only.
package lwr

import "encoding/binary"

// Bytes packs the public key as seed || b (row-major).
func (pk *PublicKey) Bytes() []byte {
	out := make([]byte, 0, pk.Params.PublicKeySize())
	out = append(out, pk.Seed[:]...)
	out = append(out, pk.B...)
	return out
}

// ParsePublicKey parses a packed public key for the given parameter set.
func ParsePublicKey(p Params, data []byte) (*PublicKey, error) {
	if !p.Valid() {
		return nil, ErrParams
	}
	if len(data) != p.PublicKeySize() {
		return nil, ErrInvalidPublicKeySize
	}
	pk := &PublicKey{Params: p, B: make([]byte, p.K*N)}
	copy(pk.Seed[:], data[:SeedLen])
	copy(pk.B, data[SeedLen:])
	return pk, nil
}

// Bytes packs the ciphertext as u || mask || cnt (little-endian).
func (ct *Ciphertext) Bytes() []byte {
	out := make([]byte, 0, len(ct.U)+MaskLen+2)
	out = append(out, ct.U...)
	out = append(out, ct.Mask[:]...)
	out = binary.LittleEndian.AppendUint16(out, ct.Cnt)
	return out
}

// ParseCiphertext parses a packed ciphertext for the given parameter set.
// Content is not validated: decapsulation recomputes the bit count from
// the mask, and a tampered ciphertext simply derives an unrelated key.
func ParseCiphertext(p Params, data []byte) (*Ciphertext, error) {
	if !p.Valid() {
		return nil, ErrParams
	}
	if len(data) != p.CiphertextSize() {
		return nil, ErrInvalidCiphertext
	}
	ct := &Ciphertext{U: make([]byte, p.K*N)}
	copy(ct.U, data[:p.K*N])
	copy(ct.Mask[:], data[p.K*N:p.K*N+MaskLen])
	ct.Cnt = binary.LittleEndian.Uint16(data[p.K*N+MaskLen:])
	return ct, nil
}

// Bytes packs the secret key at two bits per coefficient (coefficient+1,
// so {-1, 0, +1} map to {0, 1, 2}). Persistence is the caller's choice;
// wipe the returned buffer after use.
func (sk *SecretKey) Bytes() []byte {
	out := make([]byte, sk.Params.SecretKeySize())
	for i, c := range sk.S {
		t := byte(c+1) & 3
		out[i>>2] |= t << (2 * uint(i&3))
	}
	return out
}

// ParseSecretKey parses a packed secret key. The reserved two-bit value 3
// is rejected; the scan accumulates the check so no byte terminates early.
func ParseSecretKey(p Params, data []byte) (*SecretKey, error) {
	if !p.Valid() {
		return nil, ErrParams
	}
	if len(data) != p.SecretKeySize() {
		return nil, ErrInvalidSecretKeySize
	}
	sk := &SecretKey{Params: p, S: make([]int16, p.K*N)}
	bad := uint32(0)
	for i := range sk.S {
		t := int32(data[i>>2]>>(2*uint(i&3))) & 3
		bad |= eq32(t, 3)
		sk.S[i] = int16(t - 1)
	}
	if bad != 0 {
		sk.Zeroize()
		return nil, ErrInvalidSecretKeySize
	}
	return sk, nil
}
