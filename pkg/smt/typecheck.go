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

// typecheck validates the sorts of the given children against the rules of
// the given kind, returning the sort of the resulting term.  Arity and index
// counts have already been validated against the kind table at this point.
// Violations fail with ErrIllTyped; nothing is ever silently coerced.
func (p *Table) typecheck(kind Kind, children []Term, indices []uint) (Sort, error) {
	switch kind {
	case KindNot, KindAnd, KindOr, KindXor, KindIff, KindImplies:
		return p.checkBoolOp(kind, children)
	case KindEqual, KindDistinct:
		return p.checkChainOp(kind, children)
	case KindIte:
		return p.checkIte(children)
	case KindArraySelect:
		return p.checkSelect(children)
	case KindArrayStore:
		return p.checkStore(children)
	case KindApply:
		return p.checkApply(children)
	case KindExists, KindForall:
		return p.checkQuantifier(kind, children)
	case KindLambda:
		return p.checkLambda(children)
	case KindBvNeg, KindBvNot, KindBvInc, KindBvDec:
		return p.checkBvUnary(kind, children)
	case KindBvRedand, KindBvRedor, KindBvRedxor:
		if _, err := p.checkBvUnary(kind, children); err != nil {
			return NilSort, err
		}
		//
		return p.BvSort(1)
	case KindBvAdd, KindBvAnd, KindBvAshr, KindBvMul, KindBvNand, KindBvNor,
		KindBvOr, KindBvRol, KindBvRor, KindBvSdiv, KindBvShl, KindBvShr,
		KindBvSmod, KindBvSrem, KindBvSub, KindBvUdiv, KindBvUrem,
		KindBvXnor, KindBvXor:
		return p.checkBvBinary(kind, children)
	case KindBvUlt, KindBvUle, KindBvUgt, KindBvUge, KindBvSlt, KindBvSle,
		KindBvSgt, KindBvSge, KindBvSaddOverflow, KindBvSdivOverflow,
		KindBvSmulOverflow, KindBvSsubOverflow, KindBvUaddOverflow,
		KindBvUmulOverflow, KindBvUsubOverflow:
		if _, err := p.checkBvBinary(kind, children); err != nil {
			return NilSort, err
		}
		//
		return p.BoolSort(), nil
	case KindBvComp:
		if _, err := p.checkBvBinary(kind, children); err != nil {
			return NilSort, err
		}
		//
		return p.BvSort(1)
	case KindBvConcat:
		return p.checkConcat(children)
	case KindBvExtract:
		return p.checkExtract(children, indices)
	case KindBvRepeat:
		return p.checkRepeat(children, indices)
	case KindBvRoli, KindBvRori:
		return p.checkBvUnary(kind, children)
	case KindBvSignExtend, KindBvZeroExtend:
		return p.checkExtend(kind, children, indices)
	case KindFpAbs, KindFpNeg:
		return p.checkFpUnary(kind, children)
	case KindFpIsInf, KindFpIsNan, KindFpIsNeg, KindFpIsNormal, KindFpIsPos,
		KindFpIsSubnormal, KindFpIsZero:
		if _, err := p.checkFpUnary(kind, children); err != nil {
			return NilSort, err
		}
		//
		return p.BoolSort(), nil
	case KindFpEq, KindFpGeq, KindFpGt, KindFpLeq, KindFpLt:
		if _, err := p.checkFpBinary(kind, children); err != nil {
			return NilSort, err
		}
		//
		return p.BoolSort(), nil
	case KindFpRem, KindFpMin, KindFpMax:
		return p.checkFpBinary(kind, children)
	case KindFpAdd, KindFpSub, KindFpMul, KindFpDiv:
		return p.checkFpRounded(kind, children, 2)
	case KindFpSqrt, KindFpRti:
		return p.checkFpRounded(kind, children, 1)
	case KindFpFma:
		return p.checkFpRounded(kind, children, 3)
	case KindFpFp:
		return p.checkFpFp(children)
	case KindFpToFpFromBv:
		return p.checkToFpFromBv(children, indices)
	case KindFpToFpFromFp, KindFpToFpFromSbv, KindFpToFpFromUbv:
		return p.checkToFpRounded(kind, children, indices)
	case KindFpToSbv, KindFpToUbv:
		return p.checkFpToBv(kind, children, indices)
	}
	//
	return NilSort, illTypedf("unknown kind %d", kind)
}

func (p *Table) checkBoolOp(kind Kind, children []Term) (Sort, error) {
	for _, c := range children {
		if !p.IsBoolSort(p.SortOf(c)) {
			return NilSort, illTypedf("%s requires boolean children, got %s", kind, p.SortString(p.SortOf(c)))
		}
	}
	//
	return p.BoolSort(), nil
}

func (p *Table) checkChainOp(kind Kind, children []Term) (Sort, error) {
	sort := p.SortOf(children[0])
	//
	for _, c := range children[1:] {
		if p.SortOf(c) != sort {
			return NilSort, illTypedf("%s requires children of one sort: %s vs %s", kind,
				p.SortString(sort), p.SortString(p.SortOf(c)))
		}
	}
	//
	return p.BoolSort(), nil
}

func (p *Table) checkIte(children []Term) (Sort, error) {
	if !p.IsBoolSort(p.SortOf(children[0])) {
		return NilSort, illTypedf("ite condition must be boolean")
	} else if p.SortOf(children[1]) != p.SortOf(children[2]) {
		return NilSort, illTypedf("ite branches must share one sort")
	}
	//
	return p.SortOf(children[1]), nil
}

func (p *Table) checkSelect(children []Term) (Sort, error) {
	array := p.SortOf(children[0])
	//
	if !p.IsArraySort(array) {
		return NilSort, illTypedf("select requires an array, got %s", p.SortString(array))
	} else if p.SortOf(children[1]) != p.ArrayIndexSort(array) {
		return NilSort, illTypedf("select index sort mismatch")
	}
	//
	return p.ArrayElementSort(array), nil
}

func (p *Table) checkStore(children []Term) (Sort, error) {
	array := p.SortOf(children[0])
	//
	if !p.IsArraySort(array) {
		return NilSort, illTypedf("store requires an array, got %s", p.SortString(array))
	} else if p.SortOf(children[1]) != p.ArrayIndexSort(array) {
		return NilSort, illTypedf("store index sort mismatch")
	} else if p.SortOf(children[2]) != p.ArrayElementSort(array) {
		return NilSort, illTypedf("store element sort mismatch")
	}
	//
	return array, nil
}

func (p *Table) checkApply(children []Term) (Sort, error) {
	fn := p.SortOf(children[0])
	//
	if !p.IsFunSort(fn) {
		return NilSort, illTypedf("apply requires a function, got %s", p.SortString(fn))
	}
	//
	domain := p.FunDomain(fn)
	args := children[1:]
	//
	if len(args) != len(domain) {
		return NilSort, illTypedf("apply requires %d arguments, got %d", len(domain), len(args))
	}
	//
	for i, arg := range args {
		if p.SortOf(arg) != domain[i] {
			return NilSort, illTypedf("apply argument %d sort mismatch", i)
		}
	}
	//
	return p.FunCodomain(fn), nil
}

func (p *Table) checkQuantifier(kind Kind, children []Term) (Sort, error) {
	body := children[len(children)-1]
	//
	for _, v := range children[:len(children)-1] {
		if !p.IsVariable(v) {
			return NilSort, illTypedf("%s binds non-variable %s", kind, p.Lisp(v))
		}
	}
	//
	if !p.IsBoolSort(p.SortOf(body)) {
		return NilSort, illTypedf("%s body must be boolean", kind)
	}
	//
	return p.BoolSort(), nil
}

func (p *Table) checkLambda(children []Term) (Sort, error) {
	var (
		body   = children[len(children)-1]
		vars   = children[:len(children)-1]
		domain = make([]Sort, len(vars))
	)
	//
	for i, v := range vars {
		if !p.IsVariable(v) {
			return NilSort, illTypedf("lambda binds non-variable %s", p.Lisp(v))
		}
		//
		domain[i] = p.SortOf(v)
	}
	//
	return p.FunSort(domain, p.SortOf(body))
}

func (p *Table) checkBvUnary(kind Kind, children []Term) (Sort, error) {
	sort := p.SortOf(children[0])
	//
	if !p.IsBvSort(sort) {
		return NilSort, illTypedf("%s requires a bit-vector, got %s", kind, p.SortString(sort))
	}
	//
	return sort, nil
}

func (p *Table) checkBvBinary(kind Kind, children []Term) (Sort, error) {
	var (
		lhs = p.SortOf(children[0])
		rhs = p.SortOf(children[1])
	)
	//
	if !p.IsBvSort(lhs) {
		return NilSort, illTypedf("%s requires bit-vectors, got %s", kind, p.SortString(lhs))
	} else if lhs != rhs {
		return NilSort, illTypedf("%s requires children of identical width: %s vs %s", kind,
			p.SortString(lhs), p.SortString(rhs))
	}
	//
	return lhs, nil
}

func (p *Table) checkConcat(children []Term) (Sort, error) {
	width := uint(0)
	//
	for _, c := range children {
		sort := p.SortOf(c)
		//
		if !p.IsBvSort(sort) {
			return NilSort, illTypedf("concat requires bit-vectors, got %s", p.SortString(sort))
		}
		//
		width += p.BvWidth(sort)
	}
	//
	return p.BvSort(width)
}

func (p *Table) checkExtract(children []Term, indices []uint) (Sort, error) {
	sort, err := p.checkBvUnary(KindBvExtract, children)
	//
	if err != nil {
		return NilSort, err
	}
	//
	high, low := indices[0], indices[1]
	//
	if low > high || high >= p.BvWidth(sort) {
		return NilSort, illTypedf("extract [%d:%d] out of range for width %d", high, low, p.BvWidth(sort))
	}
	//
	return p.BvSort(high - low + 1)
}

func (p *Table) checkRepeat(children []Term, indices []uint) (Sort, error) {
	sort, err := p.checkBvUnary(KindBvRepeat, children)
	//
	if err != nil {
		return NilSort, err
	}
	//
	if indices[0] == 0 {
		return NilSort, illTypedf("repeat count must be positive")
	}
	//
	return p.BvSort(p.BvWidth(sort) * indices[0])
}

func (p *Table) checkExtend(kind Kind, children []Term, indices []uint) (Sort, error) {
	sort, err := p.checkBvUnary(kind, children)
	//
	if err != nil {
		return NilSort, err
	}
	//
	return p.BvSort(p.BvWidth(sort) + indices[0])
}

func (p *Table) checkFpUnary(kind Kind, children []Term) (Sort, error) {
	sort := p.SortOf(children[0])
	//
	if !p.IsFpSort(sort) {
		return NilSort, illTypedf("%s requires a floating-point, got %s", kind, p.SortString(sort))
	}
	//
	return sort, nil
}

func (p *Table) checkFpBinary(kind Kind, children []Term) (Sort, error) {
	var (
		lhs = p.SortOf(children[0])
		rhs = p.SortOf(children[1])
	)
	//
	if !p.IsFpSort(lhs) {
		return NilSort, illTypedf("%s requires floating-points, got %s", kind, p.SortString(lhs))
	} else if lhs != rhs {
		return NilSort, illTypedf("%s requires children of identical format", kind)
	}
	//
	return lhs, nil
}

// checkFpRounded checks an operator taking a rounding mode followed by n
// floating-point operands of identical format.
func (p *Table) checkFpRounded(kind Kind, children []Term, n int) (Sort, error) {
	if !p.IsRmSort(p.SortOf(children[0])) {
		return NilSort, illTypedf("%s requires a rounding mode first", kind)
	}
	//
	sort := p.SortOf(children[1])
	//
	if !p.IsFpSort(sort) {
		return NilSort, illTypedf("%s requires floating-point operands", kind)
	}
	//
	for _, c := range children[2 : 1+n] {
		if p.SortOf(c) != sort {
			return NilSort, illTypedf("%s requires operands of identical format", kind)
		}
	}
	//
	return sort, nil
}

func (p *Table) checkFpFp(children []Term) (Sort, error) {
	for _, c := range children {
		if !p.IsBvSort(p.SortOf(c)) {
			return NilSort, illTypedf("fp requires bit-vector components")
		}
	}
	//
	if w := p.BvWidth(p.SortOf(children[0])); w != 1 {
		return NilSort, illTypedf("fp sign must be one bit, got %d", w)
	}
	//
	var (
		exp = p.BvWidth(p.SortOf(children[1]))
		sig = p.BvWidth(p.SortOf(children[2]))
	)
	//
	return p.FpSort(exp, sig+1)
}

func (p *Table) checkToFpFromBv(children []Term, indices []uint) (Sort, error) {
	sort := p.SortOf(children[0])
	//
	if !p.IsBvSort(sort) {
		return NilSort, illTypedf("to_fp requires a bit-vector, got %s", p.SortString(sort))
	}
	//
	exp, sig := indices[0], indices[1]
	//
	if p.BvWidth(sort) != exp+sig {
		return NilSort, illTypedf("to_fp requires a %d-bit operand, got %d", exp+sig, p.BvWidth(sort))
	}
	//
	return p.FpSort(exp, sig)
}

func (p *Table) checkToFpRounded(kind Kind, children []Term, indices []uint) (Sort, error) {
	if !p.IsRmSort(p.SortOf(children[0])) {
		return NilSort, illTypedf("%s requires a rounding mode first", kind)
	}
	//
	operand := p.SortOf(children[1])
	//
	switch kind {
	case KindFpToFpFromFp:
		if !p.IsFpSort(operand) {
			return NilSort, illTypedf("to_fp requires a floating-point operand")
		}
	default:
		if !p.IsBvSort(operand) {
			return NilSort, illTypedf("to_fp requires a bit-vector operand")
		}
	}
	//
	return p.FpSort(indices[0], indices[1])
}

func (p *Table) checkFpToBv(kind Kind, children []Term, indices []uint) (Sort, error) {
	if !p.IsRmSort(p.SortOf(children[0])) {
		return NilSort, illTypedf("%s requires a rounding mode first", kind)
	} else if !p.IsFpSort(p.SortOf(children[1])) {
		return NilSort, illTypedf("%s requires a floating-point operand", kind)
	}
	//
	return p.BvSort(indices[0])
}
