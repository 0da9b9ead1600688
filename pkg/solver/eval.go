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
package solver

import (
	"fmt"
	"math/big"

	"github.com/consensys/go-smt/pkg/smt"
)

// Assignment maps free constants to value terms of the same sort.
type Assignment map[smt.Term]smt.Term

// Evaluate computes the value term a given term denotes under an assignment
// of its free constants.  Evaluation is bottom-up over the DAG with a
// per-call cache, hence shared sub-terms are evaluated once.  Terms over
// theories the evaluator does not interpret (floating-point arithmetic,
// arrays, quantifiers, uninterpreted functions) fail with an error, which
// procedures surface as an unknown result rather than a wrong one.
func Evaluate(tbl *smt.Table, t smt.Term, asg Assignment) (smt.Term, error) {
	e := &evaluator{tbl, asg, make(map[smt.Term]smt.Term), false}
	return e.eval(t)
}

// evaluator carries the state of one evaluation call.
type evaluator struct {
	tbl   *smt.Table
	asg   Assignment
	cache map[smt.Term]smt.Term
	// When set, constants absent from the assignment evaluate to the zero
	// value of their sort rather than failing.
	defaults bool
}

func (p *evaluator) eval(t smt.Term) (smt.Term, error) {
	if v, ok := p.cache[t]; ok {
		return v, nil
	}
	//
	v, err := p.evalNode(t)
	//
	if err != nil {
		return smt.NilTerm, err
	}
	//
	p.cache[t] = v
	//
	return v, nil
}

func (p *evaluator) evalNode(t smt.Term) (smt.Term, error) {
	var (
		tbl  = p.tbl
		kind = tbl.KindOf(t)
	)
	//
	switch {
	case kind.IsValue():
		return t, nil
	case kind == smt.KindConstant:
		if v, ok := p.asg[t]; ok {
			return v, nil
		} else if p.defaults {
			return p.zeroValue(tbl.SortOf(t))
		}
		//
		return smt.NilTerm, fmt.Errorf("unassigned constant %s", tbl.Lisp(t))
	case kind == smt.KindIte:
		// Lazy in the untaken branch.
		c, err := p.evalBool(tbl.Child(t, 0))
		//
		if err != nil {
			return smt.NilTerm, err
		} else if c {
			return p.eval(tbl.Child(t, 1))
		}
		//
		return p.eval(tbl.Child(t, 2))
	case kind == smt.KindNot:
		b, err := p.evalBool(tbl.Child(t, 0))
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		return tbl.Bool(!b), nil
	case kind == smt.KindAnd, kind == smt.KindOr, kind == smt.KindXor,
		kind == smt.KindIff, kind == smt.KindImplies:
		return p.evalBoolOp(kind, t)
	case kind == smt.KindEqual, kind == smt.KindDistinct:
		return p.evalChainOp(kind, t)
	}
	// Remaining kinds operate on bit-vectors.
	return p.evalBvOp(kind, t)
}

func (p *evaluator) evalBool(t smt.Term) (bool, error) {
	v, err := p.eval(t)
	//
	if err != nil {
		return false, err
	} else if p.tbl.KindOf(v) != smt.KindValueBool {
		return false, fmt.Errorf("expected boolean value, got %s", p.tbl.Lisp(v))
	}
	//
	return p.tbl.BoolValue(v), nil
}

func (p *evaluator) evalBv(t smt.Term) (*big.Int, uint, error) {
	v, err := p.eval(t)
	//
	if err != nil {
		return nil, 0, err
	} else if p.tbl.KindOf(v) != smt.KindValueBv {
		return nil, 0, fmt.Errorf("expected bit-vector value, got %s", p.tbl.Lisp(v))
	}
	//
	return p.tbl.BvBits(v), p.tbl.BvWidth(p.tbl.SortOf(v)), nil
}

func (p *evaluator) evalBoolOp(kind smt.Kind, t smt.Term) (smt.Term, error) {
	var (
		tbl      = p.tbl
		children = tbl.Children(t)
		values   = make([]bool, len(children))
	)
	//
	for i, c := range children {
		b, err := p.evalBool(c)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		values[i] = b
	}
	//
	var result bool
	//
	switch kind {
	case smt.KindAnd:
		result = true
		//
		for _, b := range values {
			result = result && b
		}
	case smt.KindOr:
		for _, b := range values {
			result = result || b
		}
	case smt.KindXor:
		for _, b := range values {
			result = result != b
		}
	case smt.KindIff:
		result = values[0] == values[1]
	case smt.KindImplies:
		result = !values[0] || values[1]
	}
	//
	return tbl.Bool(result), nil
}

func (p *evaluator) evalChainOp(kind smt.Kind, t smt.Term) (smt.Term, error) {
	var (
		tbl      = p.tbl
		children = tbl.Children(t)
		values   = make([]smt.Term, len(children))
	)
	//
	for i, c := range children {
		v, err := p.eval(c)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		values[i] = v
	}
	// Values are hash-consed, hence value equality is handle equality.
	if kind == smt.KindEqual {
		for _, v := range values[1:] {
			if v != values[0] {
				return tbl.Bool(false), nil
			}
		}
		//
		return tbl.Bool(true), nil
	}
	// Distinct requires pairwise disequality.
	for i := range values {
		for j := i + 1; j < len(values); j++ {
			if values[i] == values[j] {
				return tbl.Bool(false), nil
			}
		}
	}
	//
	return tbl.Bool(true), nil
}

//nolint:gocyclo
func (p *evaluator) evalBvOp(kind smt.Kind, t smt.Term) (smt.Term, error) {
	var (
		tbl      = p.tbl
		children = tbl.Children(t)
		indices  = tbl.Indices(t)
		args     = make([]*big.Int, len(children))
		widths   = make([]uint, len(children))
	)
	//
	for i, c := range children {
		a, w, err := p.evalBv(c)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		args[i], widths[i] = a, w
	}
	//
	var (
		w      = widths[0]
		result *big.Int
	)
	//
	switch kind {
	case smt.KindBvAdd:
		result = new(big.Int).Add(args[0], args[1])
	case smt.KindBvSub:
		result = new(big.Int).Sub(args[0], args[1])
	case smt.KindBvMul:
		result = new(big.Int).Mul(args[0], args[1])
	case smt.KindBvNeg:
		result = new(big.Int).Neg(args[0])
	case smt.KindBvInc:
		result = new(big.Int).Add(args[0], big.NewInt(1))
	case smt.KindBvDec:
		result = new(big.Int).Sub(args[0], big.NewInt(1))
	case smt.KindBvNot:
		result = flip(args[0], w)
	case smt.KindBvAnd:
		result = new(big.Int).And(args[0], args[1])
	case smt.KindBvOr:
		result = new(big.Int).Or(args[0], args[1])
	case smt.KindBvXor:
		result = new(big.Int).Xor(args[0], args[1])
	case smt.KindBvNand:
		result = flip(new(big.Int).And(args[0], args[1]), w)
	case smt.KindBvNor:
		result = flip(new(big.Int).Or(args[0], args[1]), w)
	case smt.KindBvXnor:
		result = flip(new(big.Int).Xor(args[0], args[1]), w)
	case smt.KindBvShl:
		result = shiftLeft(args[0], args[1], w)
	case smt.KindBvShr:
		result = shiftRight(args[0], args[1], w)
	case smt.KindBvAshr:
		result = shiftRightArith(args[0], args[1], w)
	case smt.KindBvRol:
		result = rotate(args[0], w, rotAmount(args[1], w), true)
	case smt.KindBvRor:
		result = rotate(args[0], w, rotAmount(args[1], w), false)
	case smt.KindBvRoli:
		result = rotate(args[0], w, indices[0]%w, true)
	case smt.KindBvRori:
		result = rotate(args[0], w, indices[0]%w, false)
	case smt.KindBvUdiv:
		result = unsignedDiv(args[0], args[1], w)
	case smt.KindBvUrem:
		result = unsignedRem(args[0], args[1])
	case smt.KindBvSdiv:
		result = signedDiv(args[0], args[1], w)
	case smt.KindBvSrem:
		result = signedRem(args[0], args[1], w)
	case smt.KindBvSmod:
		result = signedMod(args[0], args[1], w)
	case smt.KindBvComp:
		return p.bvBit(args[0].Cmp(args[1]) == 0)
	case smt.KindBvRedand:
		return p.bvBit(args[0].Cmp(allOnes(w)) == 0)
	case smt.KindBvRedor:
		return p.bvBit(args[0].Sign() != 0)
	case smt.KindBvRedxor:
		return p.bvBit(parity(args[0]))
	case smt.KindBvConcat:
		result = big.NewInt(0)
		//
		for i, a := range args {
			result.Lsh(result, widths[i]).Or(result, a)
		}
		//
		return p.bvResult(result, tbl.SortOf(t))
	case smt.KindBvExtract:
		high, low := indices[0], indices[1]
		result = new(big.Int).Rsh(args[0], low)
		w = high - low + 1
	case smt.KindBvRepeat:
		result = big.NewInt(0)
		//
		for i := uint(0); i < indices[0]; i++ {
			result.Lsh(result, w).Or(result, args[0])
		}
		//
		w *= indices[0]
	case smt.KindBvZeroExtend:
		result = args[0]
		w += indices[0]
	case smt.KindBvSignExtend:
		result = toSigned(args[0], w)
		w += indices[0]
	case smt.KindBvUlt:
		return tbl.Bool(args[0].Cmp(args[1]) < 0), nil
	case smt.KindBvUle:
		return tbl.Bool(args[0].Cmp(args[1]) <= 0), nil
	case smt.KindBvUgt:
		return tbl.Bool(args[0].Cmp(args[1]) > 0), nil
	case smt.KindBvUge:
		return tbl.Bool(args[0].Cmp(args[1]) >= 0), nil
	case smt.KindBvSlt:
		return tbl.Bool(toSigned(args[0], w).Cmp(toSigned(args[1], w)) < 0), nil
	case smt.KindBvSle:
		return tbl.Bool(toSigned(args[0], w).Cmp(toSigned(args[1], w)) <= 0), nil
	case smt.KindBvSgt:
		return tbl.Bool(toSigned(args[0], w).Cmp(toSigned(args[1], w)) > 0), nil
	case smt.KindBvSge:
		return tbl.Bool(toSigned(args[0], w).Cmp(toSigned(args[1], w)) >= 0), nil
	case smt.KindBvUaddOverflow:
		sum := new(big.Int).Add(args[0], args[1])
		return tbl.Bool(sum.BitLen() > int(w)), nil
	case smt.KindBvUsubOverflow:
		return tbl.Bool(args[0].Cmp(args[1]) < 0), nil
	case smt.KindBvUmulOverflow:
		product := new(big.Int).Mul(args[0], args[1])
		return tbl.Bool(product.BitLen() > int(w)), nil
	case smt.KindBvSaddOverflow:
		sum := new(big.Int).Add(toSigned(args[0], w), toSigned(args[1], w))
		return tbl.Bool(signedOverflows(sum, w)), nil
	case smt.KindBvSsubOverflow:
		diff := new(big.Int).Sub(toSigned(args[0], w), toSigned(args[1], w))
		return tbl.Bool(signedOverflows(diff, w)), nil
	case smt.KindBvSmulOverflow:
		product := new(big.Int).Mul(toSigned(args[0], w), toSigned(args[1], w))
		return tbl.Bool(signedOverflows(product, w)), nil
	case smt.KindBvSdivOverflow:
		var (
			minInt = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), w-1))
			lhs    = toSigned(args[0], w)
			rhs    = toSigned(args[1], w)
		)
		//
		return tbl.Bool(lhs.Cmp(minInt) == 0 && rhs.Cmp(big.NewInt(-1)) == 0), nil
	default:
		return smt.NilTerm, fmt.Errorf("cannot evaluate %s term", kind)
	}
	//
	sort, err := tbl.BvSort(w)
	//
	if err != nil {
		return smt.NilTerm, err
	}
	//
	return p.bvResult(result, sort)
}

func (p *evaluator) bvResult(value *big.Int, sort smt.Sort) (smt.Term, error) {
	return p.tbl.BvValue(sort, value)
}

func (p *evaluator) bvBit(b bool) (smt.Term, error) {
	sort, err := p.tbl.BvSort(1)
	//
	if err != nil {
		return smt.NilTerm, err
	}
	//
	var v uint64
	//
	if b {
		v = 1
	}
	//
	return p.tbl.BvValueUint64(sort, v)
}

func (p *evaluator) zeroValue(sort smt.Sort) (smt.Term, error) {
	switch {
	case p.tbl.IsBoolSort(sort):
		return p.tbl.Bool(false), nil
	case p.tbl.IsBvSort(sort):
		return p.tbl.BvValueUint64(sort, 0)
	case p.tbl.IsRmSort(sort):
		return p.tbl.RmValue(smt.RNE), nil
	}
	//
	return smt.NilTerm, fmt.Errorf("no default value for sort %s", p.tbl.SortString(sort))
}

// ============================================================================
// Bit-vector arithmetic helpers
// ============================================================================

// toSigned interprets an unsigned bit pattern as two's complement.
func toSigned(v *big.Int, w uint) *big.Int {
	if v.Bit(int(w)-1) == 0 {
		return v
	}
	//
	return new(big.Int).Sub(v, new(big.Int).Lsh(big.NewInt(1), w))
}

func allOnes(w uint) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), w), big.NewInt(1))
}

func flip(v *big.Int, w uint) *big.Int {
	return new(big.Int).Xor(v, allOnes(w))
}

func parity(v *big.Int) bool {
	count := 0
	//
	for i := 0; i < v.BitLen(); i++ {
		count += int(v.Bit(i))
	}
	//
	return count%2 == 1
}

// amountOf reduces a bit-vector shift/rotate amount to a machine word,
// saturating at the width (which is all any operation distinguishes).
func amountOf(v *big.Int, w uint) uint {
	if !v.IsUint64() || v.Uint64() > uint64(w) {
		return w
	}
	//
	return uint(v.Uint64())
}

// rotAmount reduces a rotate amount modulo the width.
func rotAmount(v *big.Int, w uint) uint {
	m := new(big.Int).Mod(v, new(big.Int).SetUint64(uint64(w)))
	return uint(m.Uint64())
}

func shiftLeft(v, amount *big.Int, w uint) *big.Int {
	n := amountOf(amount, w)
	//
	if n >= w {
		return big.NewInt(0)
	}
	//
	return new(big.Int).Lsh(v, n)
}

func shiftRight(v, amount *big.Int, w uint) *big.Int {
	n := amountOf(amount, w)
	//
	if n >= w {
		return big.NewInt(0)
	}
	//
	return new(big.Int).Rsh(v, n)
}

func shiftRightArith(v, amount *big.Int, w uint) *big.Int {
	var (
		n = amountOf(amount, w)
		s = toSigned(v, w)
	)
	//
	if n >= w {
		n = w - 1
	}
	// Rsh on a negative value floors, which is exactly arithmetic shift.
	return new(big.Int).Rsh(s, n)
}

// rotate by n bits (n < w), left or right.
func rotate(v *big.Int, w, n uint, left bool) *big.Int {
	if n == 0 {
		return v
	}
	//
	if !left {
		n = w - n
	}
	//
	var (
		mask = allOnes(w)
		high = new(big.Int).Lsh(v, n)
		low  = new(big.Int).Rsh(v, w-n)
	)
	//
	return high.Or(high, low).And(high, mask)
}

// unsignedDiv with the usual total semantics: division by zero yields all
// ones.
func unsignedDiv(a, b *big.Int, w uint) *big.Int {
	if b.Sign() == 0 {
		return allOnes(w)
	}
	//
	return new(big.Int).Quo(a, b)
}

// unsignedRem with division by zero yielding the dividend.
func unsignedRem(a, b *big.Int) *big.Int {
	if b.Sign() == 0 {
		return a
	}
	//
	return new(big.Int).Rem(a, b)
}

func signedDiv(a, b *big.Int, w uint) *big.Int {
	var (
		sa = toSigned(a, w)
		sb = toSigned(b, w)
	)
	// Division by zero yields one for negative dividends, all ones
	// otherwise.
	if sb.Sign() == 0 {
		if sa.Sign() < 0 {
			return big.NewInt(1)
		}
		//
		return allOnes(w)
	}
	// Quo truncates towards zero, matching the required semantics.
	return new(big.Int).Quo(sa, sb)
}

// signedRem follows the sign of the dividend; division by zero yields the
// dividend.
func signedRem(a, b *big.Int, w uint) *big.Int {
	var (
		sa = toSigned(a, w)
		sb = toSigned(b, w)
	)
	//
	if sb.Sign() == 0 {
		return a
	}
	//
	return new(big.Int).Rem(sa, sb)
}

// signedMod follows the sign of the divisor; division by zero yields the
// dividend.
func signedMod(a, b *big.Int, w uint) *big.Int {
	var (
		sa = toSigned(a, w)
		sb = toSigned(b, w)
	)
	//
	if sb.Sign() == 0 {
		return a
	}
	//
	rem := new(big.Int).Rem(sa, sb)
	//
	if rem.Sign() != 0 && rem.Sign() != sb.Sign() {
		rem.Add(rem, sb)
	}
	//
	return rem
}

func signedOverflows(v *big.Int, w uint) bool {
	var (
		max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), w-1), big.NewInt(1))
		min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), w-1))
	)
	//
	return v.Cmp(min) < 0 || v.Cmp(max) > 0
}
