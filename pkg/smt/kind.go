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

// Kind identifies the operator of a term node.  The set of kinds is closed;
// every kind has a fixed shape (arity range plus number of integer indices)
// recorded in the dispatch table below.  Type checking is driven entirely off
// this table together with per-group sort rules (see typecheck.go).
type Kind uint8

const (
	// KindConstant is a free (0-arity) function symbol.  Constants are
	// identified by creation, not by name: two constants of the same sort and
	// symbol constructed separately are distinct terms.
	KindConstant Kind = iota
	// KindVariable is a bound variable, only meaningful underneath an
	// enclosing quantifier or lambda binding it.
	KindVariable
	// KindValueBv is a bit-vector value (bit pattern payload).
	KindValueBv
	// KindValueFp is a floating-point value, composed of sign / exponent /
	// significand bit-vector value sub-terms.
	KindValueFp
	// KindValueRm is a rounding-mode value.
	KindValueRm
	// KindValueBool is a boolean value (true or false).
	KindValueBool

	// ------------------------------------------------------------------
	// Core operators
	// ------------------------------------------------------------------

	// KindAnd is n-ary boolean conjunction.
	KindAnd
	// KindApply applies an uninterpreted function to arguments.
	KindApply
	// KindArraySelect reads an array at an index.
	KindArraySelect
	// KindArrayStore writes an array at an index.
	KindArrayStore
	// KindDistinct requires pairwise disequality of its operands.
	KindDistinct
	// KindEqual is n-ary (chained) equality.
	KindEqual
	// KindExists is existential quantification.
	KindExists
	// KindForall is universal quantification.
	KindForall
	// KindIff is boolean equivalence.
	KindIff
	// KindImplies is boolean implication.
	KindImplies
	// KindIte is if-then-else.
	KindIte
	// KindLambda is function abstraction.
	KindLambda
	// KindNot is boolean negation.
	KindNot
	// KindOr is n-ary boolean disjunction.
	KindOr
	// KindXor is n-ary boolean exclusive or.
	KindXor

	// ------------------------------------------------------------------
	// Bit-vector operators
	// ------------------------------------------------------------------

	// KindBvAdd is bit-vector addition.
	KindBvAdd
	// KindBvAnd is bit-wise conjunction.
	KindBvAnd
	// KindBvAshr is arithmetic shift right.
	KindBvAshr
	// KindBvComp compares two bit-vectors, yielding a 1-bit result.
	KindBvComp
	// KindBvConcat is n-ary bit-vector concatenation.
	KindBvConcat
	// KindBvDec decrements by one.
	KindBvDec
	// KindBvInc increments by one.
	KindBvInc
	// KindBvMul is bit-vector multiplication.
	KindBvMul
	// KindBvNand is bit-wise nand.
	KindBvNand
	// KindBvNeg is two's complement negation.
	KindBvNeg
	// KindBvNor is bit-wise nor.
	KindBvNor
	// KindBvNot is bit-wise negation.
	KindBvNot
	// KindBvOr is bit-wise disjunction.
	KindBvOr
	// KindBvRedand reduces to one bit via conjunction.
	KindBvRedand
	// KindBvRedor reduces to one bit via disjunction.
	KindBvRedor
	// KindBvRedxor reduces to one bit via exclusive or.
	KindBvRedxor
	// KindBvRol rotates left by a bit-vector amount.
	KindBvRol
	// KindBvRor rotates right by a bit-vector amount.
	KindBvRor
	// KindBvSaddOverflow tests signed addition overflow.
	KindBvSaddOverflow
	// KindBvSdivOverflow tests signed division overflow.
	KindBvSdivOverflow
	// KindBvSdiv is signed division.
	KindBvSdiv
	// KindBvSge is signed greater-than-or-equal.
	KindBvSge
	// KindBvSgt is signed greater-than.
	KindBvSgt
	// KindBvShl is logical shift left.
	KindBvShl
	// KindBvShr is logical shift right.
	KindBvShr
	// KindBvSle is signed less-than-or-equal.
	KindBvSle
	// KindBvSlt is signed less-than.
	KindBvSlt
	// KindBvSmod is signed remainder (sign follows divisor).
	KindBvSmod
	// KindBvSmulOverflow tests signed multiplication overflow.
	KindBvSmulOverflow
	// KindBvSrem is signed remainder (sign follows dividend).
	KindBvSrem
	// KindBvSsubOverflow tests signed subtraction overflow.
	KindBvSsubOverflow
	// KindBvSub is bit-vector subtraction.
	KindBvSub
	// KindBvUaddOverflow tests unsigned addition overflow.
	KindBvUaddOverflow
	// KindBvUdiv is unsigned division.
	KindBvUdiv
	// KindBvUge is unsigned greater-than-or-equal.
	KindBvUge
	// KindBvUgt is unsigned greater-than.
	KindBvUgt
	// KindBvUle is unsigned less-than-or-equal.
	KindBvUle
	// KindBvUlt is unsigned less-than.
	KindBvUlt
	// KindBvUmulOverflow tests unsigned multiplication overflow.
	KindBvUmulOverflow
	// KindBvUrem is unsigned remainder.
	KindBvUrem
	// KindBvUsubOverflow tests unsigned subtraction overflow.
	KindBvUsubOverflow
	// KindBvXnor is bit-wise exclusive nor.
	KindBvXnor
	// KindBvXor is bit-wise exclusive or.
	KindBvXor

	// ------------------------------------------------------------------
	// Floating-point operators
	// ------------------------------------------------------------------

	// KindFpAbs is floating-point absolute value.
	KindFpAbs
	// KindFpAdd is floating-point addition (rounding mode first).
	KindFpAdd
	// KindFpDiv is floating-point division (rounding mode first).
	KindFpDiv
	// KindFpEq is floating-point equality (as opposed to bit-wise equality).
	KindFpEq
	// KindFpFma is fused multiply-add (rounding mode first).
	KindFpFma
	// KindFpFp composes a floating-point from sign/exponent/significand
	// bit-vectors.
	KindFpFp
	// KindFpGeq is floating-point greater-than-or-equal.
	KindFpGeq
	// KindFpGt is floating-point greater-than.
	KindFpGt
	// KindFpIsInf tests for infinity.
	KindFpIsInf
	// KindFpIsNan tests for NaN.
	KindFpIsNan
	// KindFpIsNeg tests for negative sign.
	KindFpIsNeg
	// KindFpIsNormal tests for a normal number.
	KindFpIsNormal
	// KindFpIsPos tests for positive sign.
	KindFpIsPos
	// KindFpIsSubnormal tests for a subnormal number.
	KindFpIsSubnormal
	// KindFpIsZero tests for zero.
	KindFpIsZero
	// KindFpLeq is floating-point less-than-or-equal.
	KindFpLeq
	// KindFpLt is floating-point less-than.
	KindFpLt
	// KindFpMax is floating-point maximum.
	KindFpMax
	// KindFpMin is floating-point minimum.
	KindFpMin
	// KindFpMul is floating-point multiplication (rounding mode first).
	KindFpMul
	// KindFpNeg is floating-point negation.
	KindFpNeg
	// KindFpRem is floating-point remainder.
	KindFpRem
	// KindFpRti rounds to integral (rounding mode first).
	KindFpRti
	// KindFpSqrt is floating-point square root (rounding mode first).
	KindFpSqrt
	// KindFpSub is floating-point subtraction (rounding mode first).
	KindFpSub

	// ------------------------------------------------------------------
	// Indexed operators
	// ------------------------------------------------------------------

	// KindBvExtract extracts bits high down to low (indices: high, low).
	KindBvExtract
	// KindBvRepeat repeats its operand n times (index: n).
	KindBvRepeat
	// KindBvRoli rotates left by a fixed amount (index: amount).
	KindBvRoli
	// KindBvRori rotates right by a fixed amount (index: amount).
	KindBvRori
	// KindBvSignExtend sign-extends by n bits (index: n).
	KindBvSignExtend
	// KindBvZeroExtend zero-extends by n bits (index: n).
	KindBvZeroExtend
	// KindFpToFpFromBv converts an IEEE-754 bit-vector to floating-point
	// (indices: exponent size, significand size).
	KindFpToFpFromBv
	// KindFpToFpFromFp converts between floating-point formats (indices:
	// exponent size, significand size).
	KindFpToFpFromFp
	// KindFpToFpFromSbv converts a signed bit-vector to floating-point
	// (indices: exponent size, significand size).
	KindFpToFpFromSbv
	// KindFpToFpFromUbv converts an unsigned bit-vector to floating-point
	// (indices: exponent size, significand size).
	KindFpToFpFromUbv
	// KindFpToSbv converts a floating-point to a signed bit-vector (index:
	// bit-vector size).
	KindFpToSbv
	// KindFpToUbv converts a floating-point to an unsigned bit-vector
	// (index: bit-vector size).
	KindFpToUbv

	// NumKinds is the number of operator kinds.
	NumKinds
)

// kindInfo records the fixed shape of a kind: a display name, the minimum
// and maximum arities (maxArity < 0 means unbounded) and the number of
// integer indices the kind carries.
type kindInfo struct {
	name     string
	minArity int
	maxArity int
	nindices int
}

var kinds = [NumKinds]kindInfo{
	KindConstant:  {"const", 0, 0, 0},
	KindVariable:  {"var", 0, 0, 0},
	KindValueBv:   {"bv-value", 0, 0, 0},
	KindValueFp:   {"fp-value", 3, 3, 0},
	KindValueRm:   {"rm-value", 0, 0, 1},
	KindValueBool: {"bool-value", 0, 0, 1},
	//
	KindAnd:         {"and", 2, -1, 0},
	KindApply:       {"apply", 2, -1, 0},
	KindArraySelect: {"select", 2, 2, 0},
	KindArrayStore:  {"store", 3, 3, 0},
	KindDistinct:    {"distinct", 2, -1, 0},
	KindEqual:       {"=", 2, -1, 0},
	KindExists:      {"exists", 2, -1, 0},
	KindForall:      {"forall", 2, -1, 0},
	KindIff:         {"iff", 2, 2, 0},
	KindImplies:     {"=>", 2, 2, 0},
	KindIte:         {"ite", 3, 3, 0},
	KindLambda:      {"lambda", 2, -1, 0},
	KindNot:         {"not", 1, 1, 0},
	KindOr:          {"or", 2, -1, 0},
	KindXor:         {"xor", 2, -1, 0},
	//
	KindBvAdd:          {"bvadd", 2, 2, 0},
	KindBvAnd:          {"bvand", 2, 2, 0},
	KindBvAshr:         {"bvashr", 2, 2, 0},
	KindBvComp:         {"bvcomp", 2, 2, 0},
	KindBvConcat:       {"concat", 2, -1, 0},
	KindBvDec:          {"bvdec", 1, 1, 0},
	KindBvInc:          {"bvinc", 1, 1, 0},
	KindBvMul:          {"bvmul", 2, 2, 0},
	KindBvNand:         {"bvnand", 2, 2, 0},
	KindBvNeg:          {"bvneg", 1, 1, 0},
	KindBvNor:          {"bvnor", 2, 2, 0},
	KindBvNot:          {"bvnot", 1, 1, 0},
	KindBvOr:           {"bvor", 2, 2, 0},
	KindBvRedand:       {"bvredand", 1, 1, 0},
	KindBvRedor:        {"bvredor", 1, 1, 0},
	KindBvRedxor:       {"bvredxor", 1, 1, 0},
	KindBvRol:          {"bvrol", 2, 2, 0},
	KindBvRor:          {"bvror", 2, 2, 0},
	KindBvSaddOverflow: {"bvsaddo", 2, 2, 0},
	KindBvSdivOverflow: {"bvsdivo", 2, 2, 0},
	KindBvSdiv:         {"bvsdiv", 2, 2, 0},
	KindBvSge:          {"bvsge", 2, 2, 0},
	KindBvSgt:          {"bvsgt", 2, 2, 0},
	KindBvShl:          {"bvshl", 2, 2, 0},
	KindBvShr:          {"bvlshr", 2, 2, 0},
	KindBvSle:          {"bvsle", 2, 2, 0},
	KindBvSlt:          {"bvslt", 2, 2, 0},
	KindBvSmod:         {"bvsmod", 2, 2, 0},
	KindBvSmulOverflow: {"bvsmulo", 2, 2, 0},
	KindBvSrem:         {"bvsrem", 2, 2, 0},
	KindBvSsubOverflow: {"bvssubo", 2, 2, 0},
	KindBvSub:          {"bvsub", 2, 2, 0},
	KindBvUaddOverflow: {"bvuaddo", 2, 2, 0},
	KindBvUdiv:         {"bvudiv", 2, 2, 0},
	KindBvUge:          {"bvuge", 2, 2, 0},
	KindBvUgt:          {"bvugt", 2, 2, 0},
	KindBvUle:          {"bvule", 2, 2, 0},
	KindBvUlt:          {"bvult", 2, 2, 0},
	KindBvUmulOverflow: {"bvumulo", 2, 2, 0},
	KindBvUrem:         {"bvurem", 2, 2, 0},
	KindBvUsubOverflow: {"bvusubo", 2, 2, 0},
	KindBvXnor:         {"bvxnor", 2, 2, 0},
	KindBvXor:          {"bvxor", 2, 2, 0},
	//
	KindFpAbs:         {"fp.abs", 1, 1, 0},
	KindFpAdd:         {"fp.add", 3, 3, 0},
	KindFpDiv:         {"fp.div", 3, 3, 0},
	KindFpEq:          {"fp.eq", 2, 2, 0},
	KindFpFma:         {"fp.fma", 4, 4, 0},
	KindFpFp:          {"fp", 3, 3, 0},
	KindFpGeq:         {"fp.geq", 2, 2, 0},
	KindFpGt:          {"fp.gt", 2, 2, 0},
	KindFpIsInf:       {"fp.isInfinite", 1, 1, 0},
	KindFpIsNan:       {"fp.isNaN", 1, 1, 0},
	KindFpIsNeg:       {"fp.isNegative", 1, 1, 0},
	KindFpIsNormal:    {"fp.isNormal", 1, 1, 0},
	KindFpIsPos:       {"fp.isPositive", 1, 1, 0},
	KindFpIsSubnormal: {"fp.isSubnormal", 1, 1, 0},
	KindFpIsZero:      {"fp.isZero", 1, 1, 0},
	KindFpLeq:         {"fp.leq", 2, 2, 0},
	KindFpLt:          {"fp.lt", 2, 2, 0},
	KindFpMax:         {"fp.max", 2, 2, 0},
	KindFpMin:         {"fp.min", 2, 2, 0},
	KindFpMul:         {"fp.mul", 3, 3, 0},
	KindFpNeg:         {"fp.neg", 1, 1, 0},
	KindFpRem:         {"fp.rem", 2, 2, 0},
	KindFpRti:         {"fp.roundToIntegral", 2, 2, 0},
	KindFpSqrt:        {"fp.sqrt", 2, 2, 0},
	KindFpSub:         {"fp.sub", 3, 3, 0},
	//
	KindBvExtract:     {"extract", 1, 1, 2},
	KindBvRepeat:      {"repeat", 1, 1, 1},
	KindBvRoli:        {"rotate_left", 1, 1, 1},
	KindBvRori:        {"rotate_right", 1, 1, 1},
	KindBvSignExtend:  {"sign_extend", 1, 1, 1},
	KindBvZeroExtend:  {"zero_extend", 1, 1, 1},
	KindFpToFpFromBv:  {"to_fp", 1, 1, 2},
	KindFpToFpFromFp:  {"to_fp", 2, 2, 2},
	KindFpToFpFromSbv: {"to_fp", 2, 2, 2},
	KindFpToFpFromUbv: {"to_fp_unsigned", 2, 2, 2},
	KindFpToSbv:       {"fp.to_sbv", 2, 2, 1},
	KindFpToUbv:       {"fp.to_ubv", 2, 2, 1},
}

// String returns the display name for this kind.
func (k Kind) String() string {
	if k < NumKinds {
		return kinds[k].name
	}
	//
	return "?"
}

// IsLeaf checks whether this kind is a leaf kind (constant, variable or
// value).  Leaf kinds carry a payload and are never constructed through the
// generic operator path.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindConstant, KindVariable, KindValueBv, KindValueFp, KindValueRm, KindValueBool:
		return true
	}
	//
	return false
}

// IsValue checks whether this kind denotes a value term.
func (k Kind) IsValue() bool {
	switch k {
	case KindValueBv, KindValueFp, KindValueRm, KindValueBool:
		return true
	}
	//
	return false
}

// IsIndexed checks whether this kind carries integer indices.
func (k Kind) IsIndexed() bool {
	return !k.IsLeaf() && kinds[k].nindices > 0
}

// IsBinder checks whether this kind binds variables (quantifier or lambda).
func (k Kind) IsBinder() bool {
	return k == KindExists || k == KindForall || k == KindLambda
}

// NumIndices returns the number of integer indices this kind carries.
func (k Kind) NumIndices() int {
	return kinds[k].nindices
}

// checkShape validates arity and index count for a kind.
func (k Kind) checkShape(nchildren, nindices int) error {
	info := &kinds[k]
	//
	if nchildren < info.minArity {
		return illTypedf("%s expects at least %d children, got %d", k, info.minArity, nchildren)
	} else if info.maxArity >= 0 && nchildren > info.maxArity {
		return illTypedf("%s expects at most %d children, got %d", k, info.maxArity, nchildren)
	} else if nindices != info.nindices {
		return illTypedf("%s expects %d indices, got %d", k, info.nindices, nindices)
	}
	//
	return nil
}
