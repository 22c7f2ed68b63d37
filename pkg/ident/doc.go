/*
Package ident implements the duplex and triplex identifier algebra: the
ordered string identifiers that encode (path, clock, storeId) position
triplets, and the (version, storeId) transaction-id pairs.

# Architecture

	┌──────────────────────── IDENTIFIER ALGEBRA ───────────────────────┐
	│                                                                     │
	│  Duplex (transaction id): 5 big-endian uint16 limbs                │
	│    [v_hi, v_mid, v_lo | s_hi, s_lo]                                │
	│    sorts by (version, storeId) via plain byte comparison           │
	│                                                                     │
	│  Triplex (position id): N triplets of 8 big-endian uint16 limbs    │
	│    [p_hi, p_mid, p_lo | c_hi, c_mid, c_lo | s_hi, s_lo] ...         │
	│    sorts by (path, clock, storeId) per triplet, then by length     │
	│    via plain byte comparison                                       │
	│                                                                     │
	└─────────────────────────────────────────────────────────────────┘

A Go string is an immutable byte slice, and Go's `<` operator on strings is
already byte-lexicographic — so encoding every limb as a fixed-width,
big-endian 2-byte field is enough to make ordinary string comparison give
exactly the ordering the spec requires, with no custom Less function
anywhere in the rest of the module.

Identifiers are deliberately NOT valid UTF-8 in general (a limb can be any
value in [0, 0xFFFF], including values that are not valid UTF-8 continuation
bytes when paired) — a Go string is just bytes, never validated as UTF-8 by
the language, so this is safe for in-process use. For wire transport where a
consumer needs the spec's "UTF-16 or UCS-2, bit-exact" code units, use
Marshal/Unmarshal to convert to/from a []uint16 slice, which JSON (or any
other codec) can carry as an array of numbers without ever treating the
bytes as text.

# Undefined Behavior

makeTriplex assumes its lower/upper arguments are well-ordered
(lower < upper, or either empty meaning "open" at that end) and themselves
came from this package's own constructors. Passing malformed identifiers is
documented undefined behavior, not a runtime-checked error — callers must
only pass identifiers produced by MakeDuplex/MakeTriplex/MakeTriplexMany.
*/
package ident
