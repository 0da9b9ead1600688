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
package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Stack_PushPop(t *testing.T) {
	s := NewStack[int]()
	assert.True(t, s.IsEmpty())
	//
	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(t, uint(3), s.Len())
	// Peek offsets count from the top.
	assert.Equal(t, 3, s.Peek(0))
	assert.Equal(t, 1, s.Peek(2))
	//
	assert.Equal(t, 3, s.Pop())
	assert.Equal(t, 2, s.Pop())
	assert.Equal(t, uint(1), s.Len())
}

func Test_Stack_Items(t *testing.T) {
	s := NewStack[string]()
	s.Push("a")
	s.Push("b")
	// Items are reported bottom-up.
	assert.Equal(t, []string{"a", "b"}, s.Items())
}

func Test_Stack_Clear(t *testing.T) {
	s := NewStack[int]()
	s.Push(1)
	s.Push(2)
	//
	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, uint(0), s.Len())
}
