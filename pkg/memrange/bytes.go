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

// These helpers use the offset+length convention rather than Range's
// begin/end fields. They are undefined for intervals that wrap around 0.

// LastByte returns the last byte of the interval [offset, offset+length-1].
func LastByte(offset, length uint64) uint64 {
	return offset + length - 1
}

// CoversByte returns true if the interval [offset, offset+length-1]
// covers b.
func CoversByte(offset, length, b uint64) bool {
	return offset <= b && b <= LastByte(offset, length)
}

// Overlap returns true if the intervals [first1, first1+len1-1] and
// [first2, first2+len2-1] share at least one byte.
func Overlap(first1, len1, first2, len2 uint64) bool {
	last1 := LastByte(first1, len1)
	last2 := LastByte(first2, len2)
	return !(last2 < first1 || last1 < first2)
}
