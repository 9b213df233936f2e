package keccak

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"

	"golang.org/x/crypto/sha3"
)

// FIPS 202 known-answer vectors.
func TestSum256KAT(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
		{"abc", "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
	}
	for _, tt := range tests {
		got := Sum256([]byte(tt.in))
		if hex.EncodeToString(got[:]) != tt.want {
			t.Errorf("Sum256(%q): got %x, want %s", tt.in, got, tt.want)
		}
	}
}

func TestShake256KAT(t *testing.T) {
	// First 32 bytes of SHAKE-256 over the empty string.
	want := "46b9dd2b0ba88d13233b3feb743eeb243fcd52ea62b81b82b50c27646ed5762f"
	var h Shake256
	var out [32]byte
	h.Squeeze(out[:])
	if hex.EncodeToString(out[:]) != want {
		t.Errorf("SHAKE256(\"\"): got %x, want %s", out, want)
	}
}

// TestSum256Differential checks the in-tree SHA3-256 against x/crypto across
// input lengths that straddle the rate boundary.
func TestSum256Differential(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 31, 32, 134, 135, 136, 137, 271, 272, 273, 1000} {
		data := make([]byte, n)
		rng.Read(data)

		got := Sum256(data)
		want := sha3.Sum256(data)
		if got != want {
			t.Errorf("Sum256 mismatch at len %d: got %x, want %x", n, got, want)
		}
	}
}

// TestShake256Differential checks the XOF stream against x/crypto, with the
// output squeezed in uneven chunks to exercise the byte cursor.
func TestShake256Differential(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{0, 1, 17, 135, 136, 137, 500} {
		data := make([]byte, n)
		rng.Read(data)

		var h Shake256
		h.Absorb(data)
		got := make([]byte, 300)
		for off := 0; off < len(got); {
			chunk := 7
			if off+chunk > len(got) {
				chunk = len(got) - off
			}
			h.Squeeze(got[off : off+chunk])
			off += chunk
		}

		want := make([]byte, 300)
		sha3.ShakeSum256(want, data)
		if !bytes.Equal(got, want) {
			t.Errorf("SHAKE256 mismatch at len %d:\n got %x\nwant %x", n, got, want)
		}
	}
}

func TestDomainSum256(t *testing.T) {
	data := []byte("reconciliation buffer")
	got := DomainSum256(0x02, data)
	want := sha3.Sum256(append([]byte{0x02}, data...))
	if got != want {
		t.Errorf("DomainSum256: got %x, want %x", got, want)
	}

	// Distinct domains must separate.
	other := DomainSum256(0x03, data)
	if got == other {
		t.Error("DomainSum256: different domain bytes produced the same digest")
	}
}

// TestDomainSum256Multi checks that a split absorb matches the concatenation.
func TestDomainSum256Multi(t *testing.T) {
	a, b := []byte("split"), []byte("absorb")
	got := DomainSum256(0xFF, a, b)
	want := DomainSum256(0xFF, append(append([]byte{}, a...), b...))
	if got != want {
		t.Errorf("DomainSum256 multi-slice: got %x, want %x", got, want)
	}
}

func TestSumShake256(t *testing.T) {
	data := []byte("stream")
	got := SumShake256(64, data)

	want := make([]byte, 64)
	sha3.ShakeSum256(want, data)
	if !bytes.Equal(got, want) {
		t.Errorf("SumShake256: got %x, want %x", got, want)
	}
}

func TestShakeAbsorbByte(t *testing.T) {
	data := make([]byte, 200)
	for i := range data {
		data[i] = byte(i)
	}

	var a Shake256
	a.Absorb(data)
	var b Shake256
	for _, c := range data {
		b.AbsorbByte(c)
	}

	var outA, outB [48]byte
	a.Squeeze(outA[:])
	b.Squeeze(outB[:])
	if outA != outB {
		t.Errorf("AbsorbByte diverges from Absorb: %x vs %x", outA, outB)
	}
}

func TestShakeReset(t *testing.T) {
	var h Shake256
	h.Absorb([]byte("secret seed material"))
	var out [16]byte
	h.Squeeze(out[:])
	h.Reset()

	if h.s.pos != 0 || h.finalized {
		t.Fatal("Reset did not clear cursor or phase")
	}
	for i, w := range h.s.state {
		if w != 0 {
			t.Fatalf("Reset left state word %d nonzero", i)
		}
	}

	// A reset instance must behave like a fresh one.
	h.Absorb([]byte("x"))
	var got [16]byte
	h.Squeeze(got[:])

	var fresh Shake256
	fresh.Absorb([]byte("x"))
	var want [16]byte
	fresh.Squeeze(want[:])
	if got != want {
		t.Errorf("post-Reset stream diverges: got %x, want %x", got, want)
	}
}

func BenchmarkPermute(b *testing.B) {
	var st [25]uint64
	b.SetBytes(200)
	for i := 0; i < b.N; i++ {
		permute(&st)
	}
}

func BenchmarkShake256Squeeze(b *testing.B) {
	var h Shake256
	h.Absorb([]byte("bench seed"))
	out := make([]byte, 512)
	b.SetBytes(int64(len(out)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Squeeze(out)
	}
}
