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

	"github.com/consensys/go-smt/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runScript executes a script on a fresh context, requiring success.
func runScript(t *testing.T, script string) []string {
	reader := NewReader(solver.NewContext(solver.DefaultOptions()))
	//
	outputs, err := reader.Run(script)
	require.NoError(t, err)
	//
	return outputs
}

func Test_Reader_CheckSat(t *testing.T) {
	outputs := runScript(t, `
		(set-logic QF_BV)
		(set-info :status sat)
		(declare-const x (_ BitVec 8))
		(assert (= (bvadd x #x01) #x05))
		(check-sat)
		(get-value (x))
	`)
	assert.Equal(t, []string{"sat", "((x #b00000100))"}, outputs)
}

func Test_Reader_Unsat(t *testing.T) {
	outputs := runScript(t, `
		(declare-const b Bool)
		(assert b)
		(assert (not b))
		(check-sat)
	`)
	assert.Equal(t, []string{"unsat"}, outputs)
}

func Test_Reader_Status(t *testing.T) {
	reader := NewReader(solver.NewContext(solver.DefaultOptions()))
	//
	_, err := reader.Run("(set-info :status unsat)")
	require.NoError(t, err)
	assert.Equal(t, "unsat", reader.ExpectedStatus())
}

func Test_Reader_PushPop(t *testing.T) {
	outputs := runScript(t, `
		(declare-const x (_ BitVec 4))
		(assert (= x #x1))
		(push 1)
		(assert (= x #x2))
		(check-sat)
		(pop 1)
		(check-sat)
	`)
	assert.Equal(t, []string{"unsat", "sat"}, outputs)
}

func Test_Reader_CheckSatAssuming(t *testing.T) {
	outputs := runScript(t, `
		(declare-const b Bool)
		(assert b)
		(check-sat-assuming ((not b)))
		(check-sat)
	`)
	// The assumption holds for one check only.
	assert.Equal(t, []string{"unsat", "sat"}, outputs)
}

func Test_Reader_DefineFun(t *testing.T) {
	outputs := runScript(t, `
		(declare-const x (_ BitVec 8))
		(define-fun inc ((a (_ BitVec 8))) (_ BitVec 8) (bvadd a #x01))
		(assert (= (inc x) #x05))
		(check-sat)
		(get-value (x))
	`)
	assert.Equal(t, []string{"sat", "((x #b00000100))"}, outputs)
}

func Test_Reader_Let(t *testing.T) {
	outputs := runScript(t, `
		(declare-const x (_ BitVec 8))
		(assert (let ((y (bvadd x #x01))) (= y #x03)))
		(check-sat)
		(get-value (x))
	`)
	assert.Equal(t, []string{"sat", "((x #b00000010))"}, outputs)
}

func Test_Reader_Indexed(t *testing.T) {
	outputs := runScript(t, `
		(declare-const x (_ BitVec 8))
		(assert (= ((_ extract 3 0) x) #x5))
		(assert (= ((_ extract 7 4) x) #x0))
		(check-sat)
		(get-value (x))
	`)
	assert.Equal(t, []string{"sat", "((x #b00000101))"}, outputs)
}

func Test_Reader_BvTemplate(t *testing.T) {
	outputs := runScript(t, `
		(declare-const x (_ BitVec 8))
		(assert (= x (_ bv5 8)))
		(check-sat)
		(get-value (x))
	`)
	assert.Equal(t, []string{"sat", "((x #b00000101))"}, outputs)
}

func Test_Reader_UnsatCore(t *testing.T) {
	outputs := runScript(t, `
		(set-option :produce-unsat-cores true)
		(declare-const x (_ BitVec 4))
		(declare-const y (_ BitVec 4))
		(assert (= x #x1))
		(assert (= x #x2))
		(assert (= y #x3))
		(check-sat)
		(get-unsat-core)
	`)
	require.Len(t, outputs, 2)
	assert.Equal(t, "unsat", outputs[0])
	// The independent fact about y is not part of the core.
	assert.Contains(t, outputs[1], "(= x #b0001)")
	assert.Contains(t, outputs[1], "(= x #b0010)")
	assert.NotContains(t, outputs[1], "y")
}

func Test_Reader_GetModel(t *testing.T) {
	outputs := runScript(t, `
		(declare-const x (_ BitVec 8))
		(assert (= x #x2a))
		(check-sat)
		(get-model)
	`)
	require.Len(t, outputs, 2)
	assert.Equal(t, "sat", outputs[0])
	assert.Equal(t, "((define-fun x () (_ BitVec 8) #b00101010))", outputs[1])
}

func Test_Reader_GetModelOrdered(t *testing.T) {
	// Entries are reported in name order regardless of declaration order.
	outputs := runScript(t, `
		(declare-const y (_ BitVec 4))
		(declare-const x (_ BitVec 4))
		(assert (= x #x1))
		(assert (= y #x2))
		(check-sat)
		(get-model)
	`)
	require.Len(t, outputs, 2)
	assert.Equal(t, "sat", outputs[0])
	assert.Equal(t,
		"((define-fun x () (_ BitVec 4) #b0001) (define-fun y () (_ BitVec 4) #b0010))",
		outputs[1])
}

func Test_Reader_UninterpretedFun(t *testing.T) {
	// Applications of declared functions construct well-sorted terms, even
	// though the baseline procedure cannot decide them.
	outputs := runScript(t, `
		(declare-const x (_ BitVec 8))
		(declare-fun f ((_ BitVec 8)) Bool)
		(assert (f x))
		(check-sat)
	`)
	assert.Equal(t, []string{"unknown"}, outputs)
}

func Test_Reader_Exit(t *testing.T) {
	outputs := runScript(t, `
		(declare-const b Bool)
		(assert b)
		(exit)
		(check-sat)
	`)
	// Nothing is executed after exit.
	assert.Empty(t, outputs)
}

func Test_Reader_Errors(t *testing.T) {
	reader := NewReader(solver.NewContext(solver.DefaultOptions()))
	// Unknown symbols are reported.
	_, err := reader.Run("(assert (= x x))")
	assert.Error(t, err)
	// Redeclaration is rejected.
	_, err = reader.Run("(declare-const b Bool) (declare-const b Bool)")
	assert.Error(t, err)
	// Unknown commands are rejected.
	_, err = reader.Run("(frobnicate)")
	assert.Error(t, err)
	// A status which is not a symbol is rejected, never dereferenced.
	_, err = reader.Run("(set-info :status (sat))")
	assert.Error(t, err)
	// Option errors surface through the context.
	_, err = reader.Run("(set-option :produce-models maybe)")
	assert.ErrorIs(t, err, solver.ErrInvalidOption)
}
