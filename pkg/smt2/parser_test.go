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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parser_Simple(t *testing.T) {
	terms, err := ParseAll("(assert (= x y))")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "(assert (= x y))", terms[0].String())
}

func Test_Parser_Multiple(t *testing.T) {
	terms, err := ParseAll("(push 1) (check-sat)\n(pop 1)")
	require.NoError(t, err)
	require.Len(t, terms, 3)
	assert.Equal(t, "(push 1)", terms[0].String())
	assert.Equal(t, "(check-sat)", terms[1].String())
	assert.Equal(t, "(pop 1)", terms[2].String())
}

func Test_Parser_Comments(t *testing.T) {
	terms, err := ParseAll("; a comment\n(check-sat) ; trailing\n")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "(check-sat)", terms[0].String())
}

func Test_Parser_Empty(t *testing.T) {
	terms, err := ParseAll("  ; nothing here\n")
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func Test_Parser_Nested(t *testing.T) {
	terms, err := ParseAll("(a (b (c d) ()) e)")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	//
	list := terms[0].AsList()
	require.NotNil(t, list)
	assert.Equal(t, 3, list.Len())
	assert.Nil(t, list.Get(0).AsList())
	assert.NotNil(t, list.Get(1).AsList())
}

func Test_Parser_Unterminated(t *testing.T) {
	_, err := ParseAll("(assert (= x y)")
	require.Error(t, err)
	//
	syntax, ok := err.(*SyntaxError)
	require.True(t, ok)
	assert.Equal(t, 1, syntax.Line)
}

func Test_Parser_UnexpectedClose(t *testing.T) {
	_, err := ParseAll("(check-sat)\n)")
	require.Error(t, err)
	//
	syntax, ok := err.(*SyntaxError)
	require.True(t, ok)
	assert.Equal(t, 2, syntax.Line)
	assert.Equal(t, 1, syntax.Column)
}

func Test_Parser_MatchSymbols(t *testing.T) {
	terms, err := ParseAll("(_ BitVec 8)")
	require.NoError(t, err)
	//
	list := terms[0].AsList()
	require.NotNil(t, list)
	assert.True(t, list.MatchSymbols(3, "_", "BitVec"))
	assert.False(t, list.MatchSymbols(3, "_", "FloatingPoint"))
	assert.False(t, list.MatchSymbols(4, "_", "BitVec"))
}
