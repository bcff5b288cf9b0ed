// Copyright 2026 The Patchguard Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memrange provides arithmetic on closed intervals of 64-bit
// addresses, as used for address-space and memory-region bookkeeping.
//
// Ranges must not wrap around 0, but may include the last byte of the
// address space (^uint64(0)). The full interval [0, ^uint64(0)] is not
// representable as a distinct state and is unsupported.
package memrange

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned by New when the requested interval would extend
// past the 64-bit address space.
var ErrOverflow = errors.New("range exceeds the 64-bit address space")

// ErrNoOverlap is returned by Merge when the two ranges neither overlap
// nor touch, so no single contiguous range covers both.
var ErrNoOverlap = errors.New("ranges neither overlap nor touch")

// A Range represents the closed interval [Begin, End] of 64-bit addresses.
//
// Either Begin <= End (the range is non-empty and End is its last byte) or
// Begin == End+1 (the range is empty). All methods require this invariant;
// methods that begin by checking emptiness panic if it does not hold.
type Range struct {
	// Begin is the first byte of the range.
	Begin uint64

	// End is the last byte of the range, or Begin-1 if the range is
	// empty.
	End uint64
}

// MakeEmpty returns the canonical empty range.
func MakeEmpty() Range {
	return Range{Begin: 1, End: 0}
}

// New returns the range [base, base+size-1]. size may be 0, in which case
// the result is empty for any base >= 1. New fails with ErrOverflow if the
// interval would extend past the last representable address.
func New(base, size uint64) (Range, error) {
	if base+size < base {
		return Range{}, ErrOverflow
	}
	r := Range{Begin: base, End: base + size - 1}
	r.checkInvariant()
	return r, nil
}

// MustNew is like New, but the caller asserts that the interval does not
// overflow. MustNew panics if it does.
func MustNew(base, size uint64) Range {
	r, err := New(base, size)
	if err != nil {
		panic(fmt.Sprintf("range [%#x, %#x+%#x) overflows the address space", base, base, size))
	}
	return r
}

func (r Range) checkInvariant() {
	if r.Begin > r.End && r.Begin != r.End+1 {
		panic(fmt.Sprintf("malformed range %+v", r))
	}
}

// IsEmpty returns true if r contains no addresses.
func (r Range) IsEmpty() bool {
	r.checkInvariant()
	return r.Begin > r.End
}

// LowerBound returns the first byte of r.
//
// Preconditions: !r.IsEmpty().
func (r Range) LowerBound() uint64 {
	if r.IsEmpty() {
		panic("lower bound of empty range")
	}
	return r.Begin
}

// UpperBound returns the last byte of r.
//
// Preconditions: !r.IsEmpty().
func (r Range) UpperBound() uint64 {
	if r.IsEmpty() {
		panic("upper bound of empty range")
	}
	return r.End
}

// Size returns the number of addresses in r. The result is meaningless if
// r is empty.
func (r Range) Size() uint64 {
	return r.End - r.Begin + 1
}

// Overlaps returns true if r and r2 share at least one address. If either
// range is empty, the result is false.
func (r Range) Overlaps(r2 Range) bool {
	if r.IsEmpty() || r2.IsEmpty() {
		return false
	}
	return !(r2.End < r.Begin || r.End < r2.Begin)
}

// Contains returns true if r encloses all of r2. If either range is empty,
// the result is false.
func (r Range) Contains(r2 Range) bool {
	if r.IsEmpty() || r2.IsEmpty() {
		return false
	}
	return r.Begin <= r2.Begin && r.End >= r2.End
}

// Intersect returns the intersection of r and r2, or the canonical empty
// range if they do not overlap.
func (r Range) Intersect(r2 Range) Range {
	if !r.Overlaps(r2) {
		return MakeEmpty()
	}
	if r.Begin < r2.Begin {
		r.Begin = r2.Begin
	}
	if r.End > r2.End {
		r.End = r2.End
	}
	return r
}

// Extend grows r to cover by as well.
//
// The all-zero value {0, 0} is reserved as an "unset" placeholder,
// distinct from the canonical empty range: an all-zero by means there is
// nothing to add, and an all-zero r takes on by wholesale.
//
// Preconditions: apart from the all-zero placeholder, neither r nor by is
// empty.
func (r *Range) Extend(by Range) {
	if by.Begin == 0 && by.End == 0 {
		// Unset placeholder: nothing to add.
		return
	}
	if r.Begin == 0 && r.End == 0 {
		// r is still unset.
		*r = by
		return
	}
	if r.Begin > by.Begin {
		r.Begin = by.Begin
	}
	// Compare last bytes shifted down by one so a range ending at the top
	// of the address space does not wrap the comparison.
	if r.End-1 < by.End-1 {
		r.End = by.End
	}
}

// CanMerge returns true if the union of r and r2 is a single contiguous
// range, i.e. they overlap or touch with no gap. Ranges separated by even
// a one-byte gap cannot merge.
//
// Preconditions: neither r nor r2 is empty.
func (r Range) CanMerge(r2 Range) bool {
	if r2.Begin > r.End {
		return r2.Begin-r.End == 1
	}
	if r.Begin > r2.End {
		return r.Begin-r2.End == 1
	}
	return true
}

// Merge grows r to the union of r and r2. If the two ranges neither
// overlap nor touch, Merge fails with ErrNoOverlap and r is unmodified.
//
// Preconditions: neither r nor r2 is empty.
func (r *Range) Merge(r2 Range) error {
	if !r.CanMerge(r2) {
		return ErrNoOverlap
	}
	if r.End < r2.End {
		r.End = r2.End
	}
	if r.Begin > r2.Begin {
		r.Begin = r2.Begin
	}
	return nil
}

// Compare orders ranges for sorted collections. It returns 0 only when
// both bounds are equal, and otherwise -1 or +1 by ascending
// LastByte(Begin, End).
//
// Note that the ordering key reads End as a length rather than an upper
// bound. This is the collection's historical sort key and is kept for
// compatibility. For disjoint ranges whose keys do not wrap (Begin+End <
// 2^64) it yields the same order as ascending End; a range with Begin in
// the upper half of the address space wraps its key and sorts by the
// wrapped value. Two distinct ranges with equal keys are unordered:
// Compare returns +1 for both argument orders.
func (r Range) Compare(r2 Range) int {
	if r.Begin == r2.Begin && r.End == r2.End {
		return 0
	}
	if LastByte(r.Begin, r.End) < LastByte(r2.Begin, r2.End) {
		return -1
	}
	return 1
}

// String implements fmt.Stringer.String.
func (r Range) String() string {
	if r.Begin > r.End {
		return "[empty]"
	}
	return fmt.Sprintf("[%#x, %#x]", r.Begin, r.End)
}
