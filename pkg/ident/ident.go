package ident

import (
	"math"
	"math/rand"
)

// MaxPath is the largest 48-bit path value a triplet can carry.
const MaxPath uint64 = 0xFFFFFFFFFFFF

const (
	limbBytes    = 2
	tripletLimbs = 8
	tripletBytes = tripletLimbs * limbBytes
	duplexLimbs  = 5
	duplexBytes  = duplexLimbs * limbBytes
)

// ─────────────────────────────────────────────────────────────
// limb packing
// ─────────────────────────────────────────────────────────────

func putLimb(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

func getLimb(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// put48 appends a 48-bit value as three big-endian 16-bit limbs.
func put48(buf []byte, v uint64) []byte {
	buf = putLimb(buf, uint16(v>>32))
	buf = putLimb(buf, uint16(v>>16))
	buf = putLimb(buf, uint16(v))
	return buf
}

func get48(b []byte) uint64 {
	return uint64(getLimb(b[0:2]))<<32 | uint64(getLimb(b[2:4]))<<16 | uint64(getLimb(b[4:6]))
}

// put32 appends a 32-bit value as two big-endian 16-bit limbs.
func put32(buf []byte, v uint32) []byte {
	buf = putLimb(buf, uint16(v>>16))
	buf = putLimb(buf, uint16(v))
	return buf
}

func get32(b []byte) uint32 {
	return uint32(getLimb(b[0:2]))<<16 | uint32(getLimb(b[2:4]))
}

// ─────────────────────────────────────────────────────────────
// Duplex — transaction identifiers
// ─────────────────────────────────────────────────────────────

// MakeDuplex encodes a transaction id from a 48-bit version and a 32-bit
// storeId. Duplex ids compare by plain string order, giving (version,
// storeId) order.
func MakeDuplex(version uint64, storeID uint32) string {
	buf := make([]byte, 0, duplexBytes)
	buf = put48(buf, version)
	buf = put32(buf, storeID)
	return string(buf)
}

// ReadDuplex decodes the (version, storeId) pair encoded by MakeDuplex.
func ReadDuplex(id string) (version uint64, storeID uint32) {
	b := []byte(id)
	return get48(b[0:6]), get32(b[6:10])
}

// ─────────────────────────────────────────────────────────────
// Triplex — position identifiers
// ─────────────────────────────────────────────────────────────

// TripletCount returns the number of (path, clock, storeId) triplets
// encoded in id.
func TripletCount(id string) int {
	return len(id) / tripletBytes
}

func readTriplet(id string, i int) (path, clock uint64, store uint32) {
	b := []byte(id)[i*tripletBytes : (i+1)*tripletBytes]
	path = get48(b[0:6])
	clock = get48(b[6:12])
	store = get32(b[12:16])
	return
}

// PathAt returns the path component of the i-th triplet in id.
func PathAt(id string, i int) uint64 {
	p, _, _ := readTriplet(id, i)
	return p
}

// ClockAt returns the clock component of the i-th triplet in id.
func ClockAt(id string, i int) uint64 {
	_, c, _ := readTriplet(id, i)
	return c
}

// StoreAt returns the storeId component of the i-th triplet in id.
func StoreAt(id string, i int) uint32 {
	_, _, s := readTriplet(id, i)
	return s
}

func encodeTriplet(path, clock uint64, store uint32) []byte {
	buf := make([]byte, 0, tripletBytes)
	buf = put48(buf, path)
	buf = put48(buf, clock)
	buf = put32(buf, store)
	return buf
}

// randomPath picks a new path in [min, max], biased toward the low end of
// the window so sequential appends get short ids while random inserts
// still converge.
func randomPath(min, max uint64) uint64 {
	if max <= min {
		return min
	}
	span := float64(max - min)
	offset := math.Round(rand.Float64() * math.Sqrt(span))
	return min + uint64(offset)
}

// MakeTriplex produces a new triplex identifier strictly between lower
// (exclusive, "" meaning before everything) and upper (exclusive, ""
// meaning after everything). Both are assumed well-ordered (lower < upper).
func MakeTriplex(version uint64, storeID uint32, lower, upper string) string {
	lowerLen := TripletCount(lower)
	upperLen := TripletCount(upper)

	out := make([]byte, 0, tripletBytes*2)

	// upperForced, once >= 0, means "from this triplet index on, treat
	// upper as if it were empty" (the spec's "pretend upper is empty"
	// rule): index upperForced itself sees the one-time (MaxPath+1,0,0)
	// pad step, every index after sees (0,0,0) forever.
	upperForced := -1

	for i := 0; ; i++ {
		var lp, lc uint64
		var ls uint32
		if i < lowerLen {
			lp, lc, ls = readTriplet(lower, i)
		}

		effUpperLen := upperLen
		if upperForced >= 0 {
			effUpperLen = upperForced
		}

		var up, uc uint64
		var us uint32
		switch {
		case upperForced < 0 && i < effUpperLen:
			up, uc, us = readTriplet(upper, i)
		case i == effUpperLen:
			up, uc, us = MaxPath+1, 0, 0
		default:
			up, uc, us = 0, 0, 0
		}

		if i >= lowerLen && i > effUpperLen {
			// Exhausted both inputs without producing a new triplet.
			break
		}

		if lp == up && lc == uc && ls == us {
			out = append(out, encodeTriplet(lp, lc, ls)...)
			continue
		}

		if int64(up)-int64(lp) > 1 {
			np := randomPath(lp+1, up-1)
			out = append(out, encodeTriplet(np, version, storeID)...)
			return string(out)
		}

		// Paths adjacent (or equal with differing tail): keep lower's
		// triplet and seek free space to the right of it from here on.
		out = append(out, encodeTriplet(lp, lc, ls)...)
		upperForced = i + 1
	}

	np := randomPath(1, MaxPath)
	out = append(out, encodeTriplet(np, version, storeID)...)
	return string(out)
}

// MakeTriplexMany emits n identifiers strictly between lower and upper, in
// increasing order, by chaining MakeTriplex: each generated id becomes the
// next call's lower bound.
func MakeTriplexMany(n int, version uint64, storeID uint32, lower, upper string) []string {
	ids := make([]string, 0, n)
	cur := lower
	for i := 0; i < n; i++ {
		id := MakeTriplex(version, storeID, cur, upper)
		ids = append(ids, id)
		cur = id
	}
	return ids
}

// Marshal converts an identifier to its []uint16 code-unit wire form, the
// representation spec.md requires for bit-exact transport.
func Marshal(id string) []uint16 {
	b := []byte(id)
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, getLimb(b[i:i+2]))
	}
	return units
}

// Unmarshal converts a []uint16 code-unit wire form back into the internal
// identifier representation.
func Unmarshal(units []uint16) string {
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = putLimb(buf, u)
	}
	return string(buf)
}
