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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Substitute_Simple(t *testing.T) {
	tbl := NewTable()
	bv8, _ := tbl.BvSort(8)
	//
	x, _ := tbl.Constant(bv8, "x")
	y, _ := tbl.Constant(bv8, "y")
	five, _ := tbl.BvValueUint64(bv8, 5)
	sum, _ := tbl.New(KindBvAdd, x, y)
	// Replace x with 5
	out, err := tbl.Substitute(sum, map[Term]Term{x: five})
	require.NoError(t, err)
	assert.Equal(t, "(bvadd #b00000101 y)", tbl.Lisp(out))
}

func Test_Substitute_Identity(t *testing.T) {
	tbl := NewTable()
	bv8, _ := tbl.BvSort(8)
	//
	x, _ := tbl.Constant(bv8, "x")
	y, _ := tbl.Constant(bv8, "y")
	z, _ := tbl.Constant(bv8, "z")
	sum, _ := tbl.New(KindBvAdd, x, y)
	// A mapping touching nothing in the term returns the identical handle.
	out, err := tbl.Substitute(sum, map[Term]Term{z: x})
	require.NoError(t, err)
	assert.Equal(t, sum, out)
	// An empty mapping likewise.
	out, err = tbl.Substitute(sum, nil)
	require.NoError(t, err)
	assert.Equal(t, sum, out)
	// Substituting a term for itself is the identity transform.
	out, err = tbl.Substitute(sum, map[Term]Term{x: x})
	require.NoError(t, err)
	assert.Equal(t, sum, out)
}

func Test_Substitute_SortMismatch(t *testing.T) {
	tbl := NewTable()
	bv8, _ := tbl.BvSort(8)
	bv9, _ := tbl.BvSort(9)
	//
	x, _ := tbl.Constant(bv8, "x")
	w, _ := tbl.Constant(bv9, "w")
	// Mappings must preserve sorts.
	_, err := tbl.Substitute(x, map[Term]Term{x: w})
	assert.ErrorIs(t, err, ErrIllTyped)
}

func Test_Substitute_Shared(t *testing.T) {
	tbl := NewTable()
	bv8, _ := tbl.BvSort(8)
	//
	x, _ := tbl.Constant(bv8, "x")
	one, _ := tbl.BvValueUint64(bv8, 1)
	inc, _ := tbl.New(KindBvAdd, x, one)
	// (x+1) * (x+1), sharing the subterm
	prod, _ := tbl.New(KindBvMul, inc, inc)
	//
	two, _ := tbl.BvValueUint64(bv8, 2)
	out, err := tbl.Substitute(prod, map[Term]Term{x: two})
	require.NoError(t, err)
	// Both occurrences are rewritten, and remain shared.
	children := tbl.Children(out)
	assert.Equal(t, children[0], children[1])
	assert.Equal(t, "(bvadd #b00000010 #b00000001)", tbl.Lisp(children[0]))
}
