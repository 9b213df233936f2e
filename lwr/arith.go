// arith.go is the mod-Q arithmetic core: matrix-vector products under the
// implicit mask, right-shift compression, and the safe-zone reconciliation
// that turns two close-but-unequal byte vectors into one agreed bit stream.
package lwr

// safeMargin is the half-width of the corridor around each reconciliation
// centre within which the quadrant bit survives rounding drift.
const safeMargin = 12

// mulMatVecRow computes out[i*N+j] = ((sum_l A[i,l][j] * s[l*N+j]) & QMask)
// >> Shift using row-wise expansion. With transpose set, A[l,i] replaces
// A[i,l] (the encapsulation direction). Products accumulate in int32 before
// the mask.
func mulMatVecRow(k int, seed *[SeedLen]byte, s []int16, transpose bool, out []byte) {
	var row [N]uint16
	var acc [N]int32
	for i := 0; i < k; i++ {
		for j := range acc {
			acc[j] = 0
		}
		for l := 0; l < k; l++ {
			ri, ci := i, l
			if transpose {
				ri, ci = l, i
			}
			matrixRow(seed, ri, ci, row[:])
			sl := s[l*N : (l+1)*N]
			for j := 0; j < N; j++ {
				acc[j] += int32(row[j]) * int32(sl[j])
			}
		}
		for j := 0; j < N; j++ {
			out[i*N+j] = byte((acc[j] & QMask) >> Shift)
		}
	}
	secureZero32(acc[:])
	for j := range row {
		row[j] = 0
	}
}

// mulMatVecElem is the element-wise counterpart of mulMatVecRow. Both the
// matrix coefficient and the ternary coefficient are regenerated per
// element, so scratch beyond the output is a single accumulator.
func mulMatVecElem(k int, seed, tseed *[SeedLen]byte, transpose bool, out []byte) {
	for i := 0; i < k; i++ {
		for j := 0; j < N; j++ {
			var acc int32
			for l := 0; l < k; l++ {
				ri, ci := i, l
				if transpose {
					ri, ci = l, i
				}
				acc += int32(matrixElement(seed, ri, ci, j)) * int32(ternaryElement(tseed, l, j))
			}
			out[i*N+j] = byte((acc & QMask) >> Shift)
		}
	}
}

// innerProductByte computes v[j] = (sum_l b[l*N+j] * s[l*N+j]) mod 256 —
// the low byte of the inner product in the compressed domain. Used with
// (pk.b, r) during encapsulation and (ct.u, sk.s) during decapsulation.
func innerProductByte(k int, b []byte, s []int16, v []byte) {
	for j := 0; j < N; j++ {
		var acc int32
		for l := 0; l < k; l++ {
			acc += int32(b[l*N+j]) * int32(s[l*N+j])
		}
		v[j] = byte(acc)
	}
}

// innerProductByteJIT is innerProductByte with the ternary side regenerated
// element-wise from its seed.
func innerProductByteJIT(k int, b []byte, tseed *[SeedLen]byte, v []byte) {
	for j := 0; j < N; j++ {
		var acc int32
		for l := 0; l < k; l++ {
			acc += int32(b[l*N+j]) * int32(ternaryElement(tseed, l, j))
		}
		v[j] = byte(acc)
	}
}

// safeMask returns 1 when val lies within safeMargin of one of the four
// reconciliation centres {32, 96, 160, 224}, else 0. Branchless.
func safeMask(val uint32) uint32 {
	x := int32(val)
	m := abs32(x - 32)
	m = min32(m, abs32(x-96))
	m = min32(m, abs32(x-160))
	m = min32(m, abs32(x-224))
	return lt32(m, safeMargin)
}

// extractBits walks v, records the safe-zone mask, and appends the quadrant
// bit (val >> 6) & 1 of every safe position to buf, one bit per byte. The
// append is a branchless masked store with a masked index advance. Returns
// the number of appended bits.
func extractBits(v, mask, buf []byte) int {
	widx := uint32(0)
	for j := 0; j < N; j++ {
		val := uint32(v[j])
		safe := safeMask(val)
		bitSet(mask, j, safe)
		bit := (val >> 6) & 1
		buf[widx] = byte(select32(int32(bit), int32(buf[widx]), safe))
		widx += safe
	}
	return int(widx)
}

// collectBits is the decapsulation side: positions are selected by the
// transmitted mask instead of the local safe-zone predicate. Returns the
// number of collected bits, which equals popcount(mask).
func collectBits(v, mask, buf []byte) int {
	widx := uint32(0)
	for j := 0; j < N; j++ {
		sel := bitGet(mask, j)
		bit := (uint32(v[j]) >> 6) & 1
		buf[widx] = byte(select32(int32(bit), int32(buf[widx]), sel))
		widx += sel
	}
	return int(widx)
}
