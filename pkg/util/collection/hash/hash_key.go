// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package hash

// A reasonably simple hashmap implementation which permits collisions.
// Observe that, for example, hashicorp's go-set is *not* a suitable
// replacement here, since that does not handle collisions.  Specifically, it
// assumes the hash function always uniquely identifies the data in question.
// We cannot make that assumption here, since structural keys for interned
// nodes can (and eventually will) collide.

// Hasher provides a generic definition of a hashing function suitable for use
// within the hashmap.  This is similar to the Hasher interface provided in
// go-set, except that it additionally includes equality.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// ============================================================================
// Uint64Key Implementation
// ============================================================================

var _ Hasher[Uint64Key] = Uint64Key(0)

// Uint64Key wraps a machine word as something which can be safely placed into
// a hashmap.
type Uint64Key uint64

// Equals compares two Uint64Keys for equality.
func (p Uint64Key) Equals(other Uint64Key) bool {
	return p == other
}

// Hash applies a single FNV-1a round to the underlying word.
func (p Uint64Key) Hash() uint64 {
	return (offset64 ^ uint64(p)) * prime64
}

// ============================================================================
// Word Mixer
// ============================================================================

// Mixer accumulates a sequence of machine words into a single 64-bit
// hashcode using FNV-1a.  This is intended for keys which are naturally
// described as a short tuple of words (e.g. interned node descriptors).
type Mixer uint64

// NewMixer constructs a mixer primed with the FNV offset basis.
func NewMixer() Mixer {
	return Mixer(offset64)
}

// Word mixes a single word into this hashcode.
func (p Mixer) Word(w uint64) Mixer {
	return Mixer((uint64(p) ^ w) * prime64)
}

// String mixes the bytes of a string into this hashcode.
func (p Mixer) String(s string) Mixer {
	h := uint64(p)
	//
	for i := 0; i < len(s); i++ {
		h = (h ^ uint64(s[i])) * prime64
	}
	//
	return Mixer(h)
}

// Sum returns the accumulated hashcode.
func (p Mixer) Sum() uint64 {
	return uint64(p)
}
