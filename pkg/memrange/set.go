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

package memrange

import (
	"strings"

	"github.com/google/btree"
)

// setDegree is the branching factor of the backing btree.
const setDegree = 16

// A Set is an ordered collection of non-overlapping, non-touching ranges.
// Inserting a range that overlaps or touches existing entries coalesces
// them all into a single entry.
//
// Entries sort by Range.Compare's key, which matches ascending last-byte
// order only while Begin+End does not wrap past the top of the address
// space; a wrapped key sorts by its wrapped value, so iteration order is
// not address order in general. Distinct entries whose keys collide are
// both kept, ordered by ascending Begin.
//
// A Set is not safe for concurrent use. Callers with shared Sets are
// responsible for serializing access.
type Set struct {
	tree *btree.BTreeG[Range]
}

// rangeLess refines Range.Compare into the total order the backing btree
// requires. Compare leaves distinct ranges with equal keys unordered
// (returning +1 for both argument orders); rangeLess breaks those ties by
// ascending Begin so that no entry can silently replace another.
func rangeLess(a, b Range) bool {
	c := a.Compare(b)
	if c == 0 {
		return false
	}
	if b.Compare(a) != c {
		return c < 0
	}
	// Equal keys, distinct bounds. Begin determines End for a given key,
	// so this tie-break is total.
	return a.Begin < b.Begin
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		tree: btree.NewG(setDegree, rangeLess),
	}
}

// InsertMerged inserts r into s, first absorbing every existing entry r
// overlaps or touches: the absorbed entries are removed and their union
// with r is inserted in their place. Inserting an empty range is a no-op.
func (s *Set) InsertMerged(r Range) {
	if r.IsEmpty() {
		return
	}

	// Entries are pairwise unmergeable, so an entry mergeable with the
	// growing union is necessarily mergeable with r itself and one pass
	// suffices. The scan must visit every entry: tree order tracks
	// address order only while compare keys do not wrap, so there is no
	// sound early cutoff.
	var absorbed []Range
	s.tree.Ascend(func(e Range) bool {
		if e.CanMerge(r) {
			absorbed = append(absorbed, e)
		}
		return true
	})

	merged := r
	for _, e := range absorbed {
		s.tree.Delete(e)
		if err := merged.Merge(e); err != nil {
			panic("unmergeable entry in absorbed run: " + e.String())
		}
	}
	s.tree.ReplaceOrInsert(merged)
}

// Len returns the number of ranges in s.
func (s *Set) Len() int {
	return s.tree.Len()
}

// Ascend calls f for each range in s in sort order until f returns false.
func (s *Set) Ascend(f func(Range) bool) {
	s.tree.Ascend(f)
}

// Ranges returns the ranges in s in sort order.
func (s *Set) Ranges() []Range {
	rs := make([]Range, 0, s.tree.Len())
	s.tree.Ascend(func(e Range) bool {
		rs = append(rs, e)
		return true
	})
	return rs
}

// ContainsAddr returns true if some range in s covers the address a.
func (s *Set) ContainsAddr(a uint64) bool {
	found := false
	// Sort order is not address order once compare keys wrap, so the scan
	// can only stop when it finds a covering entry.
	s.tree.Ascend(func(e Range) bool {
		if CoversByte(e.Begin, e.Size(), a) {
			found = true
			return false
		}
		return true
	})
	return found
}

// String implements fmt.Stringer.String.
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	s.tree.Ascend(func(e Range) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(e.String())
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
