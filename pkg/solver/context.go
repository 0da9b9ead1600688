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
	"errors"
	"fmt"

	"github.com/consensys/go-smt/pkg/smt"
	"github.com/consensys/go-smt/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidOperation indicates a context operation issued in the wrong
// configuration: push/pop/assume without incremental mode, or popping more
// levels than exist.
var ErrInvalidOperation = errors.New("invalid context operation")

// ErrInvalidState indicates a query issued outside its required session
// state, e.g. a model query without a preceding sat result.
var ErrInvalidState = errors.New("invalid state")

// session states.  Any mutation after a check moves the session back to
// dirty, at which point model and core queries are rejected even though the
// context still holds the prior levels.
type state uint8

const (
	stateDirty state = iota
	stateSat
	stateUnsat
	stateUnknown
)

// level is one frame of the assertion stack: an ordered sequence of asserted
// terms, conjuncted.
type level struct {
	assertions []smt.Term
}

// Context is an incremental solving session: a term table, a stack of
// assertion levels, a transient assumption set and the cached outcome of the
// most recent satisfiability check.  Level 0 always exists and cannot be
// popped.  A context is single-threaded by contract; the terminator is the
// only piece which may be touched from another goroutine.
type Context struct {
	options Options
	table   *smt.Table
	// Assertion levels, bottom-up.  Never empty.
	levels *stack.Stack[*level]
	// Terms conjoined for the next check only, then discarded.
	assumptions []smt.Term
	// Decision procedure collaborator.
	procedure Procedure
	// Cooperative cancellation gate for the procedure.
	terminator *Terminator
	// Outcome of the most recent check.
	state            state
	model            Model
	core             []smt.Term
	unsatAssumptions []smt.Term
	// Constants of the formula last checked, for assertions-only model mode.
	checkedConsts map[smt.Term]bool
}

// NewContext constructs a context with the given options, a fresh term
// table, and the baseline enumeration procedure.
func NewContext(options Options) *Context {
	p := &Context{
		options:    options,
		table:      smt.NewTable(),
		levels:     stack.NewStack[*level](),
		procedure:  NewEnumerator(DefaultBudget),
		terminator: NewTerminator(),
	}
	p.levels.Push(&level{})
	//
	return p
}

// Table returns the term table owned by this context.  All sorts and terms
// used with this context must be built through it.
func (p *Context) Table() *smt.Table {
	return p.table
}

// Terminator returns the cancellation gate consulted during checks.
func (p *Context) Terminator() *Terminator {
	return p.terminator
}

// SetProcedure replaces the decision-procedure collaborator.
func (p *Context) SetProcedure(procedure Procedure) {
	p.procedure = procedure
}

// Reset returns the context to its initial state: all levels, assumptions
// and cached results are dropped and the term table is cleared, invalidating
// every handle derived from it.
func (p *Context) Reset() {
	p.table.Reset()
	p.levels.Clear()
	p.levels.Push(&level{})
	p.assumptions = nil
	p.dirty()
	p.terminator = NewTerminator()
}

// ============================================================================
// Assertion / assumption lifecycle
// ============================================================================

// Push adds n empty assertion levels.  Requires incremental mode.
func (p *Context) Push(n uint) error {
	if !p.options.Incremental {
		return fmt.Errorf("%w: push requires incremental mode", ErrInvalidOperation)
	}
	//
	for i := uint(0); i < n; i++ {
		p.levels.Push(&level{})
	}
	//
	p.dirty()
	//
	return nil
}

// Pop removes the top n assertion levels and everything asserted in them.
// Level 0 cannot be popped.  Requires incremental mode.
func (p *Context) Pop(n uint) error {
	if !p.options.Incremental {
		return fmt.Errorf("%w: pop requires incremental mode", ErrInvalidOperation)
	} else if n >= p.levels.Len() {
		return fmt.Errorf("%w: cannot pop %d of %d levels", ErrInvalidOperation, n, p.levels.Len()-1)
	}
	//
	for i := uint(0); i < n; i++ {
		p.levels.Pop()
	}
	//
	p.dirty()
	//
	return nil
}

// Level returns the current assertion level (0 being the bottom).
func (p *Context) Level() uint {
	return p.levels.Len() - 1
}

// Assert appends a boolean-sorted term to the current top level.  The term
// must be closed (no unbound variables).
func (p *Context) Assert(t smt.Term) error {
	if err := p.checkFormula(t); err != nil {
		return err
	}
	//
	top := p.levels.Peek(0)
	top.assertions = append(top.assertions, t)
	p.dirty()
	//
	return nil
}

// Assume appends a boolean-sorted term to the transient assumption set,
// conjoined with the assertion stack for the next check only and cleared
// automatically once that check completes.  Requires incremental mode.
func (p *Context) Assume(t smt.Term) error {
	if !p.options.Incremental {
		return fmt.Errorf("%w: assume requires incremental mode", ErrInvalidOperation)
	}
	//
	if err := p.checkFormula(t); err != nil {
		return err
	}
	//
	p.assumptions = append(p.assumptions, t)
	p.dirty()
	//
	return nil
}

// FixateAssumptions moves every currently assumed term into the current
// assertion level as a real assertion, then clears the assumption set.
func (p *Context) FixateAssumptions() {
	top := p.levels.Peek(0)
	top.assertions = append(top.assertions, p.assumptions...)
	p.assumptions = nil
	p.dirty()
}

// ResetAssumptions clears the assumption set without asserting anything.
func (p *Context) ResetAssumptions() {
	p.assumptions = nil
	p.dirty()
}

// Assertions returns the currently visible assertion set, bottom-up across
// all levels.
func (p *Context) Assertions() []smt.Term {
	var all []smt.Term
	//
	for _, l := range p.levels.Items() {
		all = append(all, l.assertions...)
	}
	//
	return all
}

// Assumptions returns the pending assumption set.
func (p *Context) Assumptions() []smt.Term {
	return p.assumptions
}

func (p *Context) checkFormula(t smt.Term) error {
	if !p.table.IsBoolSort(p.table.SortOf(t)) {
		return fmt.Errorf("%w: formula must be boolean-sorted", smt.ErrIllTyped)
	}
	//
	return p.table.CheckClosed(t)
}

// ============================================================================
// Satisfiability checking
// ============================================================================

// CheckSat freezes the conjunction of all assertion levels and the current
// assumption set, delegates to the decision-procedure collaborator, and
// caches the outcome for subsequent model / core queries.  Assumptions are
// cleared on return regardless of the outcome.  Unknown is returned exactly
// when the procedure could not decide within its resource limits or when
// termination was requested mid-check.
func (p *Context) CheckSat() (Result, error) {
	var (
		assertions  = p.Assertions()
		assumptions = p.assumptions
		inputs      = make([]smt.Term, 0, len(assertions)+len(assumptions))
	)
	//
	inputs = append(inputs, assertions...)
	inputs = append(inputs, assumptions...)
	// Assumptions never survive a check.
	p.assumptions = nil
	//
	want := Want{
		Model: p.options.Models != ModelsOff,
		Core:  p.options.TrackAssertions || p.options.TrackAssumptions,
	}
	//
	log.Debugf("checking satisfiability of %d assertions + %d assumptions",
		len(assertions), len(assumptions))
	//
	verdict, err := p.procedure.Check(p.table, inputs, want, p.terminator)
	//
	if err != nil {
		p.dirty()
		return Unknown, err
	}
	//
	log.Debugf("check-sat: %s", verdict.Result)
	// Cache outcome against the snapshot which produced it.
	p.model = verdict.Model
	p.core = nil
	p.unsatAssumptions = nil
	//
	switch verdict.Result {
	case Sat:
		p.state = stateSat
		p.recordCheckedConsts(inputs)
	case Unsat:
		p.state = stateUnsat
		//
		for _, index := range verdict.Core {
			if index < len(assertions) {
				p.core = append(p.core, inputs[index])
			} else {
				p.unsatAssumptions = append(p.unsatAssumptions, inputs[index])
			}
		}
	default:
		p.state = stateUnknown
	}
	//
	return verdict.Result, nil
}

// Value evaluates a term against the model carried by the decision
// procedure.  Valid only when the most recent check returned sat, model
// production is enabled, and no mutation has occurred since.
func (p *Context) Value(t smt.Term) (smt.Term, error) {
	if p.state != stateSat {
		return smt.NilTerm, fmt.Errorf("%w: no model available", ErrInvalidState)
	} else if p.options.Models == ModelsOff {
		return smt.NilTerm, fmt.Errorf("%w: model production is disabled", ErrInvalidState)
	}
	// In assertions-only mode, queries are confined to terms built from the
	// constants of the checked formula.
	if p.options.Models == ModelsAssertions {
		for _, c := range p.table.FreeConstants(t) {
			if !p.checkedConsts[c] {
				return smt.NilTerm, fmt.Errorf("%w: %s does not occur in the checked formula",
					ErrInvalidState, p.table.Lisp(c))
			}
		}
	}
	//
	return p.model.Value(t)
}

// UnsatCore returns the subset of asserted terms whose conjunction the
// procedure certified as already unsatisfiable.  Valid only after an unsat
// result with assertion tracking enabled.  Minimality is best-effort.
func (p *Context) UnsatCore() ([]smt.Term, error) {
	if p.state != stateUnsat {
		return nil, fmt.Errorf("%w: no unsat result available", ErrInvalidState)
	} else if !p.options.TrackAssertions {
		return nil, fmt.Errorf("%w: assertion tracking is disabled", ErrInvalidState)
	}
	//
	return p.core, nil
}

// UnsatAssumptions returns the subset of assumed terms which contributed to
// the unsatisfiability certificate.  Valid only after an unsat result with
// assumption tracking enabled.
func (p *Context) UnsatAssumptions() ([]smt.Term, error) {
	if p.state != stateUnsat {
		return nil, fmt.Errorf("%w: no unsat result available", ErrInvalidState)
	} else if !p.options.TrackAssumptions {
		return nil, fmt.Errorf("%w: assumption tracking is disabled", ErrInvalidState)
	}
	//
	return p.unsatAssumptions, nil
}

// dirty invalidates any cached check outcome.
func (p *Context) dirty() {
	p.state = stateDirty
	p.model = nil
	p.core = nil
	p.unsatAssumptions = nil
	p.checkedConsts = nil
}

func (p *Context) recordCheckedConsts(inputs []smt.Term) {
	p.checkedConsts = make(map[smt.Term]bool)
	//
	for _, t := range inputs {
		for _, c := range p.table.FreeConstants(t) {
			p.checkedConsts[c] = true
		}
	}
}
