// ct.go holds the branchless building blocks. Everything here compiles to
// straight-line arithmetic: no value-dependent branches, no value-dependent
// indexing.
package lwr

import "runtime"

// sign32 returns 0 for non-negative x and -1 for negative x.
func sign32(x int32) int32 { return x >> 31 }

// abs32 returns |x| without branching.
func abs32(x int32) int32 {
	s := sign32(x)
	return (x ^ s) - s
}

// lt32 returns 1 if a < b (signed), else 0.
func lt32(a, b int32) uint32 {
	return uint32(a-b) >> 31
}

// eq32 returns 1 if a == b, else 0.
func eq32(a, b int32) uint32 {
	x := uint32(a ^ b)
	return (^(x | -x)) >> 31
}

// select32 returns a when cond is 1 and b when cond is 0.
func select32(a, b int32, cond uint32) int32 {
	return b ^ ((a ^ b) & -int32(cond))
}

// min32 returns the smaller of a and b without branching.
func min32(a, b int32) int32 {
	return select32(a, b, lt32(a, b))
}

// bitGet reads bit i of arr under little-endian bit addressing.
func bitGet(arr []byte, i int) uint32 {
	return uint32(arr[i>>3]>>(uint(i)&7)) & 1
}

// bitSet writes bit i of arr to v (0 or 1). The byte is rewritten whole so
// the store is independent of the previous bit value.
func bitSet(arr []byte, i int, v uint32) {
	shift := uint(i) & 7
	arr[i>>3] = (arr[i>>3] &^ (1 << shift)) | (byte(v) << shift)
}

// secureZero wipes b. runtime.KeepAlive pins the buffer so the stores
// cannot be elided as dead.
func secureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}

// secureZero16 wipes a signed coefficient buffer.
func secureZero16(v []int16) {
	for i := range v {
		v[i] = 0
	}
	runtime.KeepAlive(&v)
}

// secureZero32 wipes an accumulator buffer.
func secureZero32(v []int32) {
	for i := range v {
		v[i] = 0
	}
	runtime.KeepAlive(&v)
}
