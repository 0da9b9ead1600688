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

import "sync/atomic"

// Terminator is a cooperative cancellation gate consulted by a decision
// procedure at its own checkpoints during a long-running satisfiability
// check.  It combines a flag, settable from a different goroutine than the
// one running the check (the sole sanctioned form of concurrency here), with
// an optional caller-supplied predicate over opaque state.  Setting the flag
// is lock-free and idempotent; there is no way to unset it.
type Terminator struct {
	flag atomic.Bool
	// Optional predicate, invoked with the opaque state on every poll.
	predicate func(any) bool
	state     any
}

// NewTerminator constructs an unset terminator with no predicate.
func NewTerminator() *Terminator {
	return &Terminator{}
}

// SetCallback installs a predicate function and its opaque state.  The
// predicate is polled alongside the flag; returning true requests
// termination.  Must be installed before the check begins.
func (p *Terminator) SetCallback(predicate func(any) bool, state any) {
	p.predicate = predicate
	p.state = state
}

// Terminate requests termination of any in-progress satisfiability check.
// Safe to call from another goroutine, and idempotent.
func (p *Terminator) Terminate() {
	p.flag.Store(true)
}

// Terminated reports whether termination has been requested, either via the
// flag or via the installed predicate.  A nil terminator never terminates.
func (p *Terminator) Terminated() bool {
	if p == nil {
		return false
	} else if p.flag.Load() {
		return true
	} else if p.predicate != nil {
		return p.predicate(p.state)
	}
	//
	return false
}
