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
package smt2

import (
	"testing"

	"github.com/consensys/go-smt/pkg/smt"
	"github.com/consensys/go-smt/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Printer_Formats(t *testing.T) {
	tbl := smt.NewTable()
	bv8, _ := tbl.BvSort(8)
	//
	x, _ := tbl.Constant(bv8, "x")
	ext, err := tbl.NewIndexed(smt.KindBvExtract, []smt.Term{x}, []uint{3, 0})
	require.NoError(t, err)
	// Native form keeps indices inline, SMT-LIB uses the underscore head.
	assert.Equal(t, "(extract 3 0 x)", Print(tbl, ext, FormatNative))
	assert.Equal(t, "((_ extract 3 0) x)", Print(tbl, ext, FormatSmtLib2))
}

func Test_Printer_Iff(t *testing.T) {
	tbl := smt.NewTable()
	//
	a, _ := tbl.Constant(tbl.BoolSort(), "a")
	b, _ := tbl.Constant(tbl.BoolSort(), "b")
	iff, err := tbl.New(smt.KindIff, a, b)
	require.NoError(t, err)
	// SMT-LIB spells equivalence as equality.
	assert.Equal(t, "(= a b)", Print(tbl, iff, FormatSmtLib2))
	assert.Equal(t, "(iff a b)", Print(tbl, iff, FormatNative))
}

func Test_Printer_Binder(t *testing.T) {
	tbl := smt.NewTable()
	bv8, _ := tbl.BvSort(8)
	//
	v, _ := tbl.Variable(bv8, "v")
	zero, _ := tbl.BvValueUint64(bv8, 0)
	body, _ := tbl.New(smt.KindBvUge, v, zero)
	forall, err := tbl.New(smt.KindForall, v, body)
	require.NoError(t, err)
	//
	assert.Equal(t, "(forall ((v (_ BitVec 8))) (bvuge v #b00000000))",
		Print(tbl, forall, FormatSmtLib2))
}

func Test_Printer_Apply(t *testing.T) {
	tbl := smt.NewTable()
	bv8, _ := tbl.BvSort(8)
	//
	fun, err := tbl.FunSort([]smt.Sort{bv8}, tbl.BoolSort())
	require.NoError(t, err)
	f, _ := tbl.Constant(fun, "f")
	x, _ := tbl.Constant(bv8, "x")
	app, err := tbl.New(smt.KindApply, f, x)
	require.NoError(t, err)
	// Application drops the head keyword.
	assert.Equal(t, "(f x)", Print(tbl, app, FormatSmtLib2))
}

func Test_Printer_RoundTrip(t *testing.T) {
	// SMT-LIB output parses back to the identical term.
	ctx := solver.NewContext(solver.DefaultOptions())
	reader := NewReader(ctx)
	tbl := ctx.Table()
	//
	bv8, _ := tbl.BvSort(8)
	x, _ := tbl.Constant(bv8, "x")
	reader.globals["x"] = binding{term: x}
	//
	five, _ := tbl.BvValueUint64(bv8, 5)
	sum, _ := tbl.New(smt.KindBvAdd, x, five)
	original, _ := tbl.New(smt.KindEqual, sum, five)
	//
	sexp, err := ParseAll(Print(tbl, original, FormatSmtLib2))
	require.NoError(t, err)
	require.Len(t, sexp, 1)
	//
	parsed, err := reader.parseTerm(sexp[0], nil)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
