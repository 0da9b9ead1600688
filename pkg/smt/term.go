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
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// Term is a handle to an interned term node held by a Table.  Terms are
// hash-consed: two terms with identical (kind, sort, children, indices,
// payload) tuples are the same handle, hence membership tests and
// substitution maps use handle equality rather than deep comparison.  The
// zero handle is invalid and denotes "no term".
type Term uint32

// NilTerm is the invalid term handle.
const NilTerm Term = 0

// RoundingMode enumerates the five IEEE-754 rounding modes.
type RoundingMode uint8

const (
	// RNE rounds to nearest, ties to even.
	RNE RoundingMode = iota
	// RNA rounds to nearest, ties away from zero.
	RNA
	// RTN rounds towards negative infinity.
	RTN
	// RTP rounds towards positive infinity.
	RTP
	// RTZ rounds towards zero.
	RTZ
)

func (r RoundingMode) String() string {
	switch r {
	case RNE:
		return "RNE"
	case RNA:
		return "RNA"
	case RTN:
		return "RTN"
	case RTP:
		return "RTP"
	case RTZ:
		return "RTZ"
	}
	//
	return "?"
}

// ============================================================================
// Construction
// ============================================================================

// New constructs (or returns the already interned) term for a non-indexed
// operator kind applied to the given children.  Arity and sort compatibility
// are checked before interning; violations fail with ErrIllTyped.
func (p *Table) New(kind Kind, children ...Term) (Term, error) {
	return p.NewIndexed(kind, children, nil)
}

// NewIndexed constructs (or returns the already interned) term for an
// operator kind applied to the given children and integer indices.
func (p *Table) NewIndexed(kind Kind, children []Term, indices []uint) (Term, error) {
	if kind.IsLeaf() {
		return NilTerm, illTypedf("%s terms cannot be built from children", kind)
	}
	//
	if err := kind.checkShape(len(children), len(indices)); err != nil {
		return NilTerm, err
	}
	//
	sort, err := p.typecheck(kind, children, indices)
	//
	if err != nil {
		return NilTerm, err
	}
	//
	return p.intern(termKey{kind, sort, children, indices, "", 0}, "", nil), nil
}

// Constant constructs a fresh free constant (0-arity function symbol) of the
// given sort.  The symbol is display metadata only: semantic identity is
// keyed by an internal counter, so repeated calls never alias.
func (p *Table) Constant(sort Sort, symbol string) (Term, error) {
	if sort == NilSort {
		return NilTerm, invalidSortf("constant with nil sort")
	}
	//
	p.fresh++
	//
	return p.intern(termKey{KindConstant, sort, nil, nil, "", p.fresh}, symbol, nil), nil
}

// Variable constructs a fresh bound variable of the given sort.  A variable
// is only meaningful underneath a quantifier or lambda binding it; two
// variables with the same symbol and sort are distinct terms.
func (p *Table) Variable(sort Sort, symbol string) (Term, error) {
	if sort == NilSort {
		return NilTerm, invalidSortf("variable with nil sort")
	}
	//
	p.fresh++
	//
	return p.intern(termKey{KindVariable, sort, nil, nil, "", p.fresh}, symbol, nil), nil
}

// Bool returns the boolean value term for b.
func (p *Table) Bool(b bool) Term {
	var index uint
	//
	if b {
		index = 1
	}
	//
	return p.intern(termKey{KindValueBool, p.BoolSort(), nil, []uint{index}, "", 0}, "", nil)
}

// True returns the boolean value term for truth.
func (p *Table) True() Term { return p.Bool(true) }

// False returns the boolean value term for falsehood.
func (p *Table) False() Term { return p.Bool(false) }

// RmValue returns the value term for a rounding mode.
func (p *Table) RmValue(rm RoundingMode) Term {
	return p.intern(termKey{KindValueRm, p.RmSort(), nil, []uint{uint(rm)}, "", 0}, "", nil)
}

// BvValue constructs the bit-vector value term for the given bit pattern.
// The value is reduced into the range of the sort (i.e. taken modulo 2^w),
// so negative inputs denote their two's complement.
func (p *Table) BvValue(sort Sort, value *big.Int) (Term, error) {
	if sort == NilSort || !p.IsBvSort(sort) {
		return NilTerm, illTypedf("bit-vector value requires a bit-vector sort")
	}
	// Normalise the bit pattern, so structurally equal values share one key.
	bits := truncate(value, p.BvWidth(sort))
	//
	return p.intern(termKey{KindValueBv, sort, nil, nil, bits.Text(16), 0}, "", bits), nil
}

// BvValueUint64 constructs the bit-vector value term for a machine word.
func (p *Table) BvValueUint64(sort Sort, value uint64) (Term, error) {
	return p.BvValue(sort, new(big.Int).SetUint64(value))
}

// FpValue constructs a floating-point value from sign, exponent and
// significand bit-vector value terms.  The sign must be one bit wide; the
// significand excludes the hidden bit.
func (p *Table) FpValue(sign, exp, sig Term) (Term, error) {
	for _, t := range []Term{sign, exp, sig} {
		if p.KindOf(t) != KindValueBv {
			return NilTerm, illTypedf("fp value requires bit-vector value components")
		}
	}
	//
	if w := p.BvWidth(p.SortOf(sign)); w != 1 {
		return NilTerm, illTypedf("fp value sign must be one bit, got %d", w)
	}
	//
	var (
		ew        = p.BvWidth(p.SortOf(exp))
		sw        = p.BvWidth(p.SortOf(sig))
		sort, err = p.FpSort(ew, sw+1)
	)
	//
	if err != nil {
		return NilTerm, err
	}
	//
	return p.intern(termKey{KindValueFp, sort, []Term{sign, exp, sig}, nil, "", 0}, "", nil), nil
}

// truncate reduces a value into the range [0, 2^width), interpreting
// negative values as two's complement.
func truncate(value *big.Int, width uint) *big.Int {
	var (
		modulus = new(big.Int).Lsh(big.NewInt(1), width)
		bits    = new(big.Int).Mod(value, modulus)
	)
	// Mod can return negative for negative operands in principle; Go's
	// big.Int Mod is Euclidean, hence bits is already non-negative.
	return bits
}

// ============================================================================
// Accessors
// ============================================================================

// KindOf returns the operator kind of a term.
func (p *Table) KindOf(t Term) Kind {
	return p.termNode(t).kind
}

// SortOf returns the sort of a term.
func (p *Table) SortOf(t Term) Sort {
	return p.termNode(t).sort
}

// Children returns the ordered child terms of a term.  The returned slice
// aliases the arena and must not be mutated.
func (p *Table) Children(t Term) []Term {
	return p.termNode(t).children
}

// Child returns the ith child of a term.
func (p *Table) Child(t Term, i int) Term {
	return p.termNode(t).children[i]
}

// Indices returns the integer indices of a term (nil for non-indexed kinds).
func (p *Table) Indices(t Term) []uint {
	n := p.termNode(t)
	//
	if n.kind.IsLeaf() {
		return nil
	}
	//
	return n.indices
}

// Symbol returns the display symbol of a constant or variable, and the empty
// string for anything else.
func (p *Table) Symbol(t Term) string {
	return p.termNode(t).symbol
}

// IsConstant checks whether a term is a free constant.
func (p *Table) IsConstant(t Term) bool {
	return p.termNode(t).kind == KindConstant
}

// IsVariable checks whether a term is a bound variable.
func (p *Table) IsVariable(t Term) bool {
	return p.termNode(t).kind == KindVariable
}

// IsValue checks whether a term is a value.
func (p *Table) IsValue(t Term) bool {
	return p.termNode(t).kind.IsValue()
}

// BvBits returns the bit pattern of a bit-vector value term.  The returned
// value must not be mutated.
func (p *Table) BvBits(t Term) *big.Int {
	n := p.termNode(t)
	//
	if n.kind != KindValueBv {
		panic(fmt.Sprintf("BvBits on %s term", n.kind))
	}
	//
	return n.value
}

// BoolValue returns the truth of a boolean value term.
func (p *Table) BoolValue(t Term) bool {
	n := p.termNode(t)
	//
	if n.kind != KindValueBool {
		panic(fmt.Sprintf("BoolValue on %s term", n.kind))
	}
	//
	return n.indices[0] == 1
}

// RmValueOf returns the rounding mode of a rounding-mode value term.
func (p *Table) RmValueOf(t Term) RoundingMode {
	n := p.termNode(t)
	//
	if n.kind != KindValueRm {
		panic(fmt.Sprintf("RmValueOf on %s term", n.kind))
	}
	//
	return RoundingMode(n.indices[0])
}

// ============================================================================
// Traversal
// ============================================================================

// FreeConstants returns every free constant reachable from the given term,
// in first-visit order.
func (p *Table) FreeConstants(t Term) []Term {
	var (
		visited  = bitset.New(uint(len(p.terms)))
		consts   []Term
		worklist = []Term{t}
	)
	//
	for len(worklist) > 0 {
		n := len(worklist) - 1
		next := worklist[n]
		worklist = worklist[:n]
		//
		if visited.Test(uint(next)) {
			continue
		}
		//
		visited.Set(uint(next))
		//
		if p.IsConstant(next) {
			consts = append(consts, next)
		}
		//
		children := p.Children(next)
		// Push in reverse, so children are visited left-to-right.
		for i := len(children) - 1; i >= 0; i-- {
			worklist = append(worklist, children[i])
		}
	}
	//
	return consts
}

// CheckClosed checks that every variable occurring in the given term is
// bound by an enclosing quantifier or lambda.  A bound variable occurring
// without an enclosing binder is a well-formedness violation.
func (p *Table) CheckClosed(t Term) error {
	bound := bitset.New(uint(len(p.terms)))
	return p.checkClosed(t, bound)
}

func (p *Table) checkClosed(t Term, bound *bitset.BitSet) error {
	n := p.termNode(t)
	//
	switch {
	case n.kind == KindVariable:
		if !bound.Test(uint(t)) {
			return illTypedf("unbound variable %s", p.Lisp(t))
		}
	case n.kind.IsBinder():
		var (
			body = n.children[len(n.children)-1]
			vars = n.children[:len(n.children)-1]
		)
		// Record which binders are newly in scope, so shadowing binders do
		// not unbind on exit.
		fresh := make([]Term, 0, len(vars))
		//
		for _, v := range vars {
			if !bound.Test(uint(v)) {
				bound.Set(uint(v))
				fresh = append(fresh, v)
			}
		}
		//
		err := p.checkClosed(body, bound)
		//
		for _, v := range fresh {
			bound.Clear(uint(v))
		}
		//
		if err != nil {
			return err
		}
	default:
		for _, c := range n.children {
			if err := p.checkClosed(c, bound); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

// ============================================================================
// Printing
// ============================================================================

// Lisp renders a term as an s-expression in the native format.  Constants
// and variables print their display symbol (suffixed with the identity
// counter when no symbol was supplied).
func (p *Table) Lisp(t Term) string {
	n := p.termNode(t)
	//
	switch n.kind {
	case KindConstant, KindVariable:
		if n.symbol != "" {
			return n.symbol
		}
		//
		return fmt.Sprintf("%s!%d", n.kind, n.fresh)
	case KindValueBool:
		if n.indices[0] == 1 {
			return "true"
		}
		//
		return "false"
	case KindValueRm:
		return RoundingMode(n.indices[0]).String()
	case KindValueBv:
		return "#b" + zeroPad(n.value.Text(2), p.BvWidth(n.sort))
	case KindValueFp:
		return fmt.Sprintf("(fp %s %s %s)", p.Lisp(n.children[0]), p.Lisp(n.children[1]), p.Lisp(n.children[2]))
	}
	// Operator term
	str := "(" + n.kind.String()
	//
	for _, i := range n.indices {
		str += fmt.Sprintf(" %d", i)
	}
	//
	for _, c := range n.children {
		str += " " + p.Lisp(c)
	}
	//
	return str + ")"
}

// zeroPad left-pads a digit string with zeros up to the given width.
func zeroPad(s string, width uint) string {
	for uint(len(s)) < width {
		s = "0" + s
	}
	//
	return s
}
