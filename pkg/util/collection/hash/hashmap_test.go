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

import (
	"math/rand"
	"testing"
)

func Test_HashMap_01(t *testing.T) {
	check_HashMap(t, []uint64{1, 2, 3, 4, 3, 2, 1})
}

func Test_HashMap_02(t *testing.T) {
	check_HashMap(t, randomUint64s(10))
}

func Test_HashMap_03(t *testing.T) {
	check_HashMap(t, randomUint64s(100))
}

func Test_HashMap_04(t *testing.T) {
	check_HashMap(t, randomUint64s(1000))
}

func Test_HashMap_05(t *testing.T) {
	check_HashMap(t, randomUint64s(100000))
}

func Test_HashMap_Clear(t *testing.T) {
	hmap := NewMap[Uint64Key, uint64](0)
	hmap.Insert(Uint64Key(1), 1)
	hmap.Insert(Uint64Key(2), 2)
	//
	hmap.Clear()
	//
	if hmap.Size() != 0 {
		t.Errorf("expected empty map, got %d items", hmap.Size())
	} else if hmap.ContainsKey(Uint64Key(1)) {
		t.Errorf("cleared map still contains key")
	}
}

func Test_HashMap_Overwrite(t *testing.T) {
	hmap := NewMap[Uint64Key, uint64](0)
	// Insert reports whether the key was already present.
	if hmap.Insert(Uint64Key(1), 10) {
		t.Errorf("expected fresh insertion")
	} else if !hmap.Insert(Uint64Key(1), 20) {
		t.Errorf("expected overwrite")
	}
	//
	if v, ok := hmap.Get(Uint64Key(1)); !ok || v != 20 {
		t.Errorf("expected 1=>20, got %d (%t)", v, ok)
	}
}

func Test_Mixer(t *testing.T) {
	// Order matters
	h1 := NewMixer().Word(1).Word(2).Sum()
	h2 := NewMixer().Word(2).Word(1).Sum()
	//
	if h1 == h2 {
		t.Errorf("expected order-sensitive hashes")
	}
	// Deterministic
	h3 := NewMixer().Word(1).String("abc").Sum()
	h4 := NewMixer().Word(1).String("abc").Sum()
	//
	if h3 != h4 {
		t.Errorf("expected deterministic hashes")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_HashMap(t *testing.T, items []uint64) {
	gmap := make(map[uint64]uint64)
	//
	for i, item := range items {
		gmap[item] = uint64(i)
	}
	//
	hmap := NewMap[Uint64Key, uint64](0)
	// Insert items
	for key, val := range gmap {
		hmap.Insert(Uint64Key(key), val)
	}
	// Sanity check number of unique items
	if hmap.Size() != uint(len(gmap)) {
		t.Errorf("expected %d items, got %d", len(gmap), hmap.Size())
	}
	// Sanity check containership
	for key, val := range gmap {
		if !hmap.ContainsKey(Uint64Key(key)) {
			t.Errorf("missing key %d", key)
		} else if v, ok := hmap.Get(Uint64Key(key)); !ok || v != val {
			t.Errorf("expecting %d=>%d, got %d=>%d", key, val, key, v)
		}
	}
}

func randomUint64s(n uint) []uint64 {
	items := make([]uint64, n)
	//
	for i := range items {
		items[i] = rand.Uint64() % (uint64(n) * 2)
	}
	//
	return items
}
