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
package smt

import (
	"math/big"

	"github.com/consensys/go-smt/pkg/util/collection/hash"
)

// Table owns the sort and term arenas for one solving session, together with
// the consing indices which enforce uniqueness.  All externally visible
// handles (Sort, Term) are indices into these arenas; ownership never leaves
// the table, so resetting the table invalidates every handle at once without
// any dangling pointers.  The table is single-threaded by contract.
type Table struct {
	// Bumped on every Reset.  Handles obtained before a reset are stale;
	// callers holding them are in error, and Generation lets them detect it.
	generation uint
	// Sort arena; index 0 is reserved as the nil handle.
	sorts []sortNode
	// Consing index over sort descriptors.
	sortIndex *hash.Map[sortKey, Sort]
	// Term arena; index 0 is reserved as the nil handle.
	terms []termNode
	// Consing index over term tuples.
	termIndex *hash.Map[termKey, Term]
	// Counter underpinning the semantic identity of constants and variables,
	// which are identified by creation rather than by name.
	fresh uint32
}

// NewTable constructs an empty table.
func NewTable() *Table {
	p := &Table{}
	p.init()
	//
	return p
}

func (p *Table) init() {
	p.sorts = make([]sortNode, 1, 32)
	p.sortIndex = hash.NewMap[sortKey, Sort](32)
	p.terms = make([]termNode, 1, 256)
	p.termIndex = hash.NewMap[termKey, Term](256)
	p.fresh = 0
}

// Generation returns the current generation counter.  It increases on every
// Reset, allowing callers to detect stale handles.
func (p *Table) Generation() uint {
	return p.generation
}

// Len returns the number of interned terms.
func (p *Table) Len() uint {
	return uint(len(p.terms) - 1)
}

// Reset destroys every sort and term in this table en masse and bumps the
// generation counter.  All previously obtained handles become invalid.
func (p *Table) Reset() {
	p.generation++
	p.init()
}

// ============================================================================
// Sort interning
// ============================================================================

func (p *Table) internSort(key sortKey) Sort {
	if s, ok := p.sortIndex.Get(key); ok {
		return s
	}
	// Not present, hence allocate.
	s := Sort(len(p.sorts))
	p.sorts = append(p.sorts, sortNode{key.kind, key.w1, key.w2, key.children})
	p.sortIndex.Insert(key, s)
	//
	return s
}

func (p *Table) sortNode(s Sort) *sortNode {
	if s == NilSort {
		panic("nil sort handle")
	}
	//
	return &p.sorts[s]
}

// ============================================================================
// Term interning
// ============================================================================

// termKey is the structural identity of a term: every field participates in
// consing except the symbol, which is display metadata only.  For constants
// and variables the fresh counter stands in as the identity, so repeated
// construction never aliases.
type termKey struct {
	kind     Kind
	sort     Sort
	children []Term
	indices  []uint
	payload  string
	fresh    uint32
}

var _ hash.Hasher[termKey] = termKey{}

// Equals performs a structural comparison of two term tuples.
func (p termKey) Equals(o termKey) bool {
	if p.kind != o.kind || p.sort != o.sort || p.fresh != o.fresh ||
		p.payload != o.payload || len(p.children) != len(o.children) ||
		len(p.indices) != len(o.indices) {
		return false
	}
	// Children are handles, hence handle equality suffices.
	for i := range p.children {
		if p.children[i] != o.children[i] {
			return false
		}
	}
	//
	for i := range p.indices {
		if p.indices[i] != o.indices[i] {
			return false
		}
	}
	//
	return true
}

// Hash computes a content hash over the full structural tuple.
func (p termKey) Hash() uint64 {
	m := hash.NewMixer().Word(uint64(p.kind)).Word(uint64(p.sort)).Word(uint64(p.fresh))
	//
	for _, c := range p.children {
		m = m.Word(uint64(c))
	}
	//
	for _, i := range p.indices {
		m = m.Word(uint64(i))
	}
	//
	return m.String(p.payload).Sum()
}

// termNode is one interned term.  The value payload (for bit-vector values)
// is stored once here and never mutated.
type termNode struct {
	kind     Kind
	sort     Sort
	children []Term
	indices  []uint
	// Display symbol for constants and variables; not part of identity for
	// either (constants are keyed by the fresh counter instead).
	symbol string
	// Bit pattern for bit-vector values.
	value *big.Int
	// Identity counter for constants and variables.
	fresh uint32
}

func (p *Table) intern(key termKey, symbol string, value *big.Int) Term {
	if t, ok := p.termIndex.Get(key); ok {
		return t
	}
	// Not present, hence allocate.
	t := Term(len(p.terms))
	p.terms = append(p.terms, termNode{
		kind:     key.kind,
		sort:     key.sort,
		children: key.children,
		indices:  key.indices,
		symbol:   symbol,
		value:    value,
		fresh:    key.fresh,
	})
	p.termIndex.Insert(key, t)
	//
	return t
}

func (p *Table) termNode(t Term) *termNode {
	if t == NilTerm {
		panic("nil term handle")
	}
	//
	return &p.terms[t]
}
