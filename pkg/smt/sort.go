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
	"fmt"
	"strings"

	"github.com/consensys/go-smt/pkg/util/collection/hash"
)

// Sort is a handle to an interned sort descriptor held by a Table.  Sorts are
// hash-consed: two sorts with identical descriptor content are the same
// handle, hence sort comparison is handle equality everywhere.  The zero
// handle is invalid and denotes "no sort".
type Sort uint32

// NilSort is the invalid sort handle.
const NilSort Sort = 0

// SortKind distinguishes the (closed) family of sort descriptors.
type SortKind uint8

const (
	// SortBool is the boolean sort.
	SortBool SortKind = iota
	// SortBv is a bit-vector sort of some fixed width.
	SortBv
	// SortFp is a floating-point sort with fixed exponent and significand
	// sizes (the significand size includes the hidden bit).
	SortFp
	// SortArray is an array sort over index and element sorts.
	SortArray
	// SortFun is a function sort over a non-empty domain and a codomain.
	SortFun
	// SortRm is the rounding-mode sort.
	SortRm
)

// sortNode is one interned sort descriptor.  For array sorts, children holds
// {index, element}; for function sorts it holds the domain followed by the
// codomain.  w1/w2 hold the bit-vector width, respectively the floating-point
// exponent and significand sizes.
type sortNode struct {
	kind     SortKind
	w1, w2   uint
	children []Sort
}

// ============================================================================
// Consing key
// ============================================================================

type sortKey struct {
	kind     SortKind
	w1, w2   uint
	children []Sort
}

var _ hash.Hasher[sortKey] = sortKey{}

// Equals performs a structural comparison of two sort descriptors.
func (p sortKey) Equals(o sortKey) bool {
	if p.kind != o.kind || p.w1 != o.w1 || p.w2 != o.w2 || len(p.children) != len(o.children) {
		return false
	}
	// Components are handles, hence handle equality suffices.
	for i := range p.children {
		if p.children[i] != o.children[i] {
			return false
		}
	}
	//
	return true
}

// Hash computes a content hash over the descriptor tuple.
func (p sortKey) Hash() uint64 {
	m := hash.NewMixer().Word(uint64(p.kind)).Word(uint64(p.w1)).Word(uint64(p.w2))
	//
	for _, c := range p.children {
		m = m.Word(uint64(c))
	}
	//
	return m.Sum()
}

// ============================================================================
// Sort construction
// ============================================================================

// BoolSort returns the boolean sort.
func (p *Table) BoolSort() Sort {
	return p.internSort(sortKey{SortBool, 0, 0, nil})
}

// RmSort returns the rounding-mode sort.
func (p *Table) RmSort() Sort {
	return p.internSort(sortKey{SortRm, 0, 0, nil})
}

// BvSort returns the bit-vector sort of the given width.
func (p *Table) BvSort(width uint) (Sort, error) {
	if width == 0 {
		return NilSort, invalidSortf("zero-width bit-vector")
	}
	//
	return p.internSort(sortKey{SortBv, width, 0, nil}), nil
}

// FpSort returns the floating-point sort with the given exponent and
// significand sizes.
func (p *Table) FpSort(exp, sig uint) (Sort, error) {
	if exp < 2 {
		return NilSort, invalidSortf("floating-point exponent size %d too small", exp)
	} else if sig < 2 {
		return NilSort, invalidSortf("floating-point significand size %d too small", sig)
	}
	//
	return p.internSort(sortKey{SortFp, exp, sig, nil}), nil
}

// ArraySort returns the array sort over the given index and element sorts.
func (p *Table) ArraySort(index, element Sort) (Sort, error) {
	if index == NilSort || element == NilSort {
		return NilSort, invalidSortf("array sort with nil component")
	}
	//
	return p.internSort(sortKey{SortArray, 0, 0, []Sort{index, element}}), nil
}

// FunSort returns the function sort over the given domain and codomain.  The
// domain must be non-empty.
func (p *Table) FunSort(domain []Sort, codomain Sort) (Sort, error) {
	if len(domain) == 0 {
		return NilSort, invalidSortf("function sort with empty domain")
	} else if codomain == NilSort {
		return NilSort, invalidSortf("function sort with nil codomain")
	}
	//
	children := make([]Sort, len(domain)+1)
	//
	for i, d := range domain {
		if d == NilSort {
			return NilSort, invalidSortf("function sort with nil domain component")
		}
		//
		children[i] = d
	}
	//
	children[len(domain)] = codomain
	//
	return p.internSort(sortKey{SortFun, 0, 0, children}), nil
}

// ============================================================================
// Sort accessors
// ============================================================================

// SortKindOf returns the kind of a sort.
func (p *Table) SortKindOf(s Sort) SortKind {
	return p.sortNode(s).kind
}

// IsBoolSort checks whether the given sort is the boolean sort.
func (p *Table) IsBoolSort(s Sort) bool {
	return p.sortNode(s).kind == SortBool
}

// IsBvSort checks whether the given sort is a bit-vector sort.
func (p *Table) IsBvSort(s Sort) bool {
	return p.sortNode(s).kind == SortBv
}

// IsFpSort checks whether the given sort is a floating-point sort.
func (p *Table) IsFpSort(s Sort) bool {
	return p.sortNode(s).kind == SortFp
}

// IsArraySort checks whether the given sort is an array sort.
func (p *Table) IsArraySort(s Sort) bool {
	return p.sortNode(s).kind == SortArray
}

// IsFunSort checks whether the given sort is a function sort.
func (p *Table) IsFunSort(s Sort) bool {
	return p.sortNode(s).kind == SortFun
}

// IsRmSort checks whether the given sort is the rounding-mode sort.
func (p *Table) IsRmSort(s Sort) bool {
	return p.sortNode(s).kind == SortRm
}

// BvWidth returns the width of a bit-vector sort.
func (p *Table) BvWidth(s Sort) uint {
	n := p.sortNode(s)
	//
	if n.kind != SortBv {
		panic(fmt.Sprintf("BvWidth on %s sort", p.SortString(s)))
	}
	//
	return n.w1
}

// FpSizes returns the exponent and significand sizes of a floating-point
// sort.
func (p *Table) FpSizes(s Sort) (uint, uint) {
	n := p.sortNode(s)
	//
	if n.kind != SortFp {
		panic(fmt.Sprintf("FpSizes on %s sort", p.SortString(s)))
	}
	//
	return n.w1, n.w2
}

// ArrayIndexSort returns the index sort of an array sort.
func (p *Table) ArrayIndexSort(s Sort) Sort {
	return p.sortNode(s).children[0]
}

// ArrayElementSort returns the element sort of an array sort.
func (p *Table) ArrayElementSort(s Sort) Sort {
	return p.sortNode(s).children[1]
}

// FunDomain returns the domain sorts of a function sort.
func (p *Table) FunDomain(s Sort) []Sort {
	children := p.sortNode(s).children
	return children[:len(children)-1]
}

// FunCodomain returns the codomain sort of a function sort.
func (p *Table) FunCodomain(s Sort) Sort {
	children := p.sortNode(s).children
	return children[len(children)-1]
}

// SortString returns a textual rendering of a sort in the native format.
func (p *Table) SortString(s Sort) string {
	n := p.sortNode(s)
	//
	switch n.kind {
	case SortBool:
		return "Bool"
	case SortRm:
		return "RoundingMode"
	case SortBv:
		return fmt.Sprintf("(_ BitVec %d)", n.w1)
	case SortFp:
		return fmt.Sprintf("(_ FloatingPoint %d %d)", n.w1, n.w2)
	case SortArray:
		return fmt.Sprintf("(Array %s %s)", p.SortString(n.children[0]), p.SortString(n.children[1]))
	case SortFun:
		var builder strings.Builder
		//
		builder.WriteString("(-> ")
		//
		for _, c := range n.children {
			builder.WriteString(p.SortString(c))
			builder.WriteString(" ")
		}
		//
		str := strings.TrimSuffix(builder.String(), " ")
		//
		return str + ")"
	}
	//
	return "?"
}
