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
	"testing"

	"github.com/consensys/go-smt/pkg/smt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContext constructs an incremental context with full model production
// and core tracking, for exercising the whole query surface.
func newTestContext() *Context {
	options := DefaultOptions()
	options.Models = ModelsAll
	options.TrackAssertions = true
	options.TrackAssumptions = true
	//
	return NewContext(options)
}

// declare a fresh 8-bit constant.
func declareBv8(t *testing.T, ctx *Context, name string) smt.Term {
	tbl := ctx.Table()
	bv8, err := tbl.BvSort(8)
	require.NoError(t, err)
	//
	c, err := tbl.Constant(bv8, name)
	require.NoError(t, err)
	//
	return c
}

// equalsValue builds the formula "t == value" over the sort of t.
func equalsValue(t *testing.T, ctx *Context, term smt.Term, value uint64) smt.Term {
	tbl := ctx.Table()
	//
	v, err := tbl.BvValueUint64(tbl.SortOf(term), value)
	require.NoError(t, err)
	eq, err := tbl.New(smt.KindEqual, term, v)
	require.NoError(t, err)
	//
	return eq
}

func Test_Context_SatWithModel(t *testing.T) {
	ctx := newTestContext()
	tbl := ctx.Table()
	//
	x := declareBv8(t, ctx, "x")
	one, _ := tbl.BvValueUint64(tbl.SortOf(x), 1)
	inc, err := tbl.New(smt.KindBvAdd, x, one)
	require.NoError(t, err)
	// assert x + 1 == 5
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, inc, 5)))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Sat, result)
	// The model must give x = 4.
	v, err := ctx.Value(x)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), tbl.BvBits(v).Uint64())
	// Compound queries evaluate under the same model.
	v, err = ctx.Value(inc)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), tbl.BvBits(v).Uint64())
}

func Test_Context_Unsat(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 2)))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsat, result)
	// No model is available after unsat.
	_, err = ctx.Value(x)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func Test_Context_PushPop(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	// Contradiction on a pushed level
	require.NoError(t, ctx.Push(1))
	assert.Equal(t, uint(1), ctx.Level())
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 2)))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsat, result)
	// Popping the level removes the contradiction, leaving only the
	// level-0 assertion visible.
	require.NoError(t, ctx.Pop(1))
	assert.Equal(t, uint(0), ctx.Level())
	assert.Len(t, ctx.Assertions(), 1)
	//
	result, err = ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Sat, result)
}

func Test_Context_PopUnderflow(t *testing.T) {
	ctx := newTestContext()
	// Level 0 cannot be popped.
	assert.ErrorIs(t, ctx.Pop(1), ErrInvalidOperation)
	//
	require.NoError(t, ctx.Push(2))
	assert.ErrorIs(t, ctx.Pop(3), ErrInvalidOperation)
	assert.NoError(t, ctx.Pop(2))
}

func Test_Context_NonIncremental(t *testing.T) {
	options := DefaultOptions()
	options.Incremental = false
	ctx := NewContext(options)
	//
	b, err := ctx.Table().Constant(ctx.Table().BoolSort(), "b")
	require.NoError(t, err)
	// Push, pop and assume all require incremental mode.
	assert.ErrorIs(t, ctx.Push(1), ErrInvalidOperation)
	assert.ErrorIs(t, ctx.Pop(1), ErrInvalidOperation)
	assert.ErrorIs(t, ctx.Assume(b), ErrInvalidOperation)
	// Plain assertion still works.
	assert.NoError(t, ctx.Assert(b))
}

func Test_Context_AssumptionsCleared(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	// Assume a contradiction for one check only.
	require.NoError(t, ctx.Assume(equalsValue(t, ctx, x, 2)))
	assert.Len(t, ctx.Assumptions(), 1)
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsat, result)
	// The assumption is gone, so the next check succeeds.
	assert.Empty(t, ctx.Assumptions())
	//
	result, err = ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Sat, result)
}

func Test_Context_FixateAssumptions(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assume(equalsValue(t, ctx, x, 2)))
	// Fixating turns the assumption into a real assertion.
	ctx.FixateAssumptions()
	assert.Empty(t, ctx.Assumptions())
	assert.Len(t, ctx.Assertions(), 1)
	//
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unsat, result)
}

func Test_Context_ResetAssumptions(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	require.NoError(t, ctx.Assume(equalsValue(t, ctx, x, 2)))
	// Dropping the assumption leaves only the satisfiable assertion.
	ctx.ResetAssumptions()
	assert.Empty(t, ctx.Assumptions())
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Sat, result)
}

func Test_Context_UnsatCore(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	y := declareBv8(t, ctx, "y")
	//
	a1 := equalsValue(t, ctx, x, 1)
	a2 := equalsValue(t, ctx, x, 2)
	a3 := equalsValue(t, ctx, y, 3)
	require.NoError(t, ctx.Assert(a1))
	require.NoError(t, ctx.Assert(a2))
	require.NoError(t, ctx.Assert(a3))
	// Core queries are invalid before any check.
	_, err := ctx.UnsatCore()
	assert.ErrorIs(t, err, ErrInvalidState)
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Unsat, result)
	// The core contains the conflicting pair but not the independent fact.
	core, err := ctx.UnsatCore()
	require.NoError(t, err)
	assert.ElementsMatch(t, []smt.Term{a1, a2}, core)
}

func Test_Context_UnsatAssumptions(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	//
	bad := equalsValue(t, ctx, x, 2)
	require.NoError(t, ctx.Assume(bad))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Unsat, result)
	//
	failed, err := ctx.UnsatAssumptions()
	require.NoError(t, err)
	assert.Contains(t, failed, bad)
}

func Test_Context_QueryStateMatrix(t *testing.T) {
	options := DefaultOptions()
	ctx := NewContext(options)
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Sat, result)
	// Core queries are invalid after sat.
	_, err = ctx.UnsatCore()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = ctx.UnsatAssumptions()
	assert.ErrorIs(t, err, ErrInvalidState)
	// Mutation invalidates the cached model.
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	_, err = ctx.Value(x)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func Test_Context_CoreTrackingDisabled(t *testing.T) {
	// Without tracking, core queries fail even after an unsat result.
	ctx := NewContext(DefaultOptions())
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 2)))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Unsat, result)
	//
	_, err = ctx.UnsatCore()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = ctx.UnsatAssumptions()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func Test_Context_ModelModes(t *testing.T) {
	options := DefaultOptions()
	options.Models = ModelsOff
	ctx := NewContext(options)
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Sat, result)
	// Model production disabled entirely.
	_, err = ctx.Value(x)
	assert.ErrorIs(t, err, ErrInvalidState)
	// Assertion-confined mode rejects constants outside the checked formula.
	ctx = NewContext(DefaultOptions())
	x = declareBv8(t, ctx, "x")
	y := declareBv8(t, ctx, "y")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	//
	result, err = ctx.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Sat, result)
	//
	_, err = ctx.Value(x)
	assert.NoError(t, err)
	_, err = ctx.Value(y)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func Test_Context_IllFormedAssertions(t *testing.T) {
	ctx := newTestContext()
	tbl := ctx.Table()
	// Non-boolean assertions are rejected.
	x := declareBv8(t, ctx, "x")
	assert.ErrorIs(t, ctx.Assert(x), smt.ErrIllTyped)
	// Open formulas are rejected.
	v, err := tbl.Variable(tbl.BoolSort(), "v")
	require.NoError(t, err)
	assert.ErrorIs(t, ctx.Assert(v), smt.ErrIllTyped)
}

func Test_Context_OptionFreeze(t *testing.T) {
	ctx := NewContext(DefaultOptions())
	// Options may be set freely on a pristine context.
	require.NoError(t, ctx.SetOption("incremental", "false"))
	require.NoError(t, ctx.SetOption("rewrite-level", "2"))
	require.NoError(t, ctx.SetOption("produce-models", "all"))
	// Creating any term freezes the structural options.
	_, err := ctx.Table().Constant(ctx.Table().BoolSort(), "b")
	require.NoError(t, err)
	//
	assert.ErrorIs(t, ctx.SetOption("incremental", "true"), ErrInvalidOption)
	assert.ErrorIs(t, ctx.SetOption("rewrite-level", "0"), ErrInvalidOption)
	// Non-structural options stay mutable.
	assert.NoError(t, ctx.SetOption("produce-unsat-cores", "true"))
	assert.NoError(t, ctx.SetOption("produce-models", "off"))
	// Unknown keys and values are rejected.
	assert.ErrorIs(t, ctx.SetOption("no-such-option", "true"), ErrInvalidOption)
	assert.ErrorIs(t, ctx.SetOption("produce-models", "maybe"), ErrInvalidOption)
}

func Test_Context_Terminator(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	// A pre-terminated gate forces an unknown verdict.
	ctx.Terminator().Terminate()
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unknown, result)
	// No model or core is available after unknown.
	_, err = ctx.Value(x)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func Test_Context_TerminatorCallback(t *testing.T) {
	gate := NewTerminator()
	// Callback-driven termination
	calls := 0
	gate.SetCallback(func(state any) bool {
		calls++
		return state.(bool)
	}, false)
	assert.False(t, gate.Terminated())
	//
	gate.SetCallback(func(state any) bool { return state.(bool) }, true)
	assert.True(t, gate.Terminated())
	assert.True(t, calls > 0)
	// The explicit flag dominates.
	gate = NewTerminator()
	gate.Terminate()
	gate.Terminate() // idempotent
	assert.True(t, gate.Terminated())
	// A nil terminator never fires.
	var nilGate *Terminator
	assert.False(t, nilGate.Terminated())
}

func Test_Context_BudgetExhaustion(t *testing.T) {
	ctx := newTestContext()
	ctx.SetProcedure(NewEnumerator(4))
	tbl := ctx.Table()
	//
	bv32, err := tbl.BvSort(32)
	require.NoError(t, err)
	x, err := tbl.Constant(bv32, "x")
	require.NoError(t, err)
	target, err := tbl.BvValueUint64(bv32, 1<<20)
	require.NoError(t, err)
	eq, err := tbl.New(smt.KindEqual, x, target)
	require.NoError(t, err)
	// The satisfying assignment lies beyond the tiny budget.
	require.NoError(t, ctx.Assert(eq))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unknown, result)
}

func Test_Context_UninterpretedUnknown(t *testing.T) {
	ctx := newTestContext()
	tbl := ctx.Table()
	// Formulas over uninterpreted theories come back unknown, never wrong.
	fp, err := tbl.FpSort(8, 24)
	require.NoError(t, err)
	a, err := tbl.Constant(fp, "a")
	require.NoError(t, err)
	isnan, err := tbl.New(smt.KindFpIsNan, a)
	require.NoError(t, err)
	require.NoError(t, ctx.Assert(isnan))
	//
	result, err := ctx.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Unknown, result)
}

func Test_Context_Reset(t *testing.T) {
	ctx := newTestContext()
	//
	x := declareBv8(t, ctx, "x")
	require.NoError(t, ctx.Assert(equalsValue(t, ctx, x, 1)))
	require.NoError(t, ctx.Push(1))
	//
	ctx.Reset()
	// Everything is gone: levels, assertions and the table contents.
	assert.Equal(t, uint(0), ctx.Level())
	assert.Empty(t, ctx.Assertions())
	assert.Equal(t, uint(0), ctx.Table().Len())
}
