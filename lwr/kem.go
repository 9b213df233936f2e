// kem.go composes the expander and the arithmetic core into the three KEM
// operations. Entropy flow: caller entropy is domain-split through
// SHAKE-256 into the public matrix seed and the secret seed (key
// generation), or into the ephemeral seed (encapsulation). Every scratch
// buffer that held secret-dependent data is wiped before return.
package lwr

import (
	"crypto/rand"
	"io"

	"github.com/eth2030/lwrkem/keccak"
)

// PublicKey is the encapsulation key: the matrix seed plus the compressed
// vector b = (A*s mod Q) >> Shift. Transportable; see Bytes.
type PublicKey struct {
	Params Params
	Seed   [SeedLen]byte
	B      []byte // K*N entries, row-major
}

// SecretKey is the decapsulation key: K*N ternary coefficients. Call
// Zeroize when the key is no longer needed.
type SecretKey struct {
	Params Params
	S      []int16 // entries in {-1, 0, +1}
}

// Ciphertext carries the compressed rounded product u, the safe-zone mask
// (one bit per position), and the mask population count.
type Ciphertext struct {
	U    []byte // K*N entries, row-major
	Mask [MaskLen]byte
	Cnt  uint16
}

// KeyGen deterministically derives a key pair from 32 bytes of caller
// entropy. The entropy is split via SHAKE-256 into the public matrix seed
// and the ternary secret seed.
func KeyGen(p Params, entropy []byte) (*PublicKey, *SecretKey, error) {
	if !p.Valid() {
		return nil, nil, ErrParams
	}
	if len(entropy) != SeedLen {
		return nil, nil, ErrEntropySize
	}

	var seeds [2 * SeedLen]byte
	var xof keccak.Shake256
	xof.Absorb(entropy)
	xof.Squeeze(seeds[:])
	xof.Reset()

	pk := &PublicKey{Params: p, B: make([]byte, p.K*N)}
	copy(pk.Seed[:], seeds[:SeedLen])
	var secretSeed [SeedLen]byte
	copy(secretSeed[:], seeds[SeedLen:])

	sk := &SecretKey{Params: p, S: make([]int16, p.K*N)}
	expandTernary(p.Mode, &secretSeed, p.K, sk.S)

	// b = (A*s mod Q) >> Shift. Element mode regenerates A per coefficient;
	// the stored secret is used either way since sk holds it regardless.
	if p.Mode == ExpandRow {
		mulMatVecRow(p.K, &pk.Seed, sk.S, false, pk.B)
	} else {
		for i := 0; i < p.K; i++ {
			for j := 0; j < N; j++ {
				var acc int32
				for l := 0; l < p.K; l++ {
					acc += int32(matrixElement(&pk.Seed, i, l, j)) * int32(sk.S[l*N+j])
				}
				pk.B[i*N+j] = byte((acc & QMask) >> Shift)
			}
		}
	}

	secureZero(seeds[:])
	secureZero(secretSeed[:])
	return pk, sk, nil
}

// GenerateKeyPair draws entropy from crypto/rand and calls KeyGen.
func GenerateKeyPair(p Params) (*PublicKey, *SecretKey, error) {
	return GenerateKeyPairWithReader(p, rand.Reader)
}

// GenerateKeyPairWithReader draws 32 bytes from rng and calls KeyGen.
func GenerateKeyPairWithReader(p Params, rng io.Reader) (*PublicKey, *SecretKey, error) {
	var entropy [SeedLen]byte
	if _, err := io.ReadFull(rng, entropy[:]); err != nil {
		return nil, nil, err
	}
	pk, sk, err := KeyGen(p, entropy[:])
	secureZero(entropy[:])
	return pk, sk, err
}

// Encapsulate derives an ephemeral ternary vector from 32 bytes of caller
// entropy, computes u = (A^T*r mod Q) >> Shift and the agreement vector
// v = b.r mod 256, and extracts one bit per safe position of v. The shared
// key is SHA3-256 over the extracted bit stream under the KDF domain.
func Encapsulate(pk *PublicKey, entropy []byte) (*Ciphertext, []byte, error) {
	p := pk.Params
	if !p.Valid() {
		return nil, nil, ErrParams
	}
	if len(entropy) != SeedLen {
		return nil, nil, ErrEntropySize
	}
	if len(pk.B) != p.K*N {
		return nil, nil, ErrInvalidPublicKeySize
	}

	var rseed [SeedLen]byte
	var xof keccak.Shake256
	xof.Absorb(entropy)
	xof.Squeeze(rseed[:])
	xof.Reset()

	ct := &Ciphertext{U: make([]byte, p.K*N)}
	var v [N]byte

	if p.Mode == ExpandRow {
		var r [MaxK * N]int16
		expandTernary(p.Mode, &rseed, p.K, r[:p.K*N])
		mulMatVecRow(p.K, &pk.Seed, r[:p.K*N], true, ct.U)
		innerProductByte(p.K, pk.B, r[:p.K*N], v[:])
		secureZero16(r[:])
	} else {
		mulMatVecElem(p.K, &pk.Seed, &rseed, true, ct.U)
		innerProductByteJIT(p.K, pk.B, &rseed, v[:])
	}

	var buf [N]byte
	cnt := extractBits(v[:], ct.Mask[:], buf[:])
	ct.Cnt = uint16(cnt)

	shared := keccak.DomainSum256(tagKDF, buf[:cnt])

	secureZero(rseed[:])
	secureZero(v[:])
	secureZero(buf[:])
	return ct, shared[:], nil
}

// EncapsulateRand draws entropy from crypto/rand and calls Encapsulate.
func EncapsulateRand(pk *PublicKey) (*Ciphertext, []byte, error) {
	var entropy [SeedLen]byte
	if _, err := io.ReadFull(rand.Reader, entropy[:]); err != nil {
		return nil, nil, err
	}
	ct, shared, err := Encapsulate(pk, entropy[:])
	secureZero(entropy[:])
	return ct, shared, err
}

// Decapsulate recomputes the agreement vector v' = u.s mod 256, reads the
// quadrant bit at every position selected by the transmitted mask, and
// derives the shared key over the collected bit stream. A tampered
// ciphertext yields an unrelated key rather than an error.
func Decapsulate(sk *SecretKey, ct *Ciphertext) ([]byte, error) {
	p := sk.Params
	if !p.Valid() {
		return nil, ErrParams
	}
	if len(sk.S) != p.K*N {
		return nil, ErrInvalidSecretKeySize
	}
	if len(ct.U) != p.K*N {
		return nil, ErrInvalidCiphertext
	}

	var v [N]byte
	innerProductByte(p.K, ct.U, sk.S, v[:])

	var buf [N]byte
	cnt := collectBits(v[:], ct.Mask[:], buf[:])

	shared := keccak.DomainSum256(tagKDF, buf[:cnt])

	secureZero(v[:])
	secureZero(buf[:])
	return shared[:], nil
}

// Zeroize wipes the ternary coefficients. The key is unusable afterwards.
func (sk *SecretKey) Zeroize() {
	secureZero16(sk.S)
}

// ZeroizeShared wipes a shared key buffer.
func ZeroizeShared(k []byte) {
	secureZero(k)
}
