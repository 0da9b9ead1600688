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
	"math/big"

	"github.com/consensys/go-smt/pkg/smt"
	log "github.com/sirupsen/logrus"
)

// DefaultBudget is the default number of candidate assignments an
// Enumerator examines before giving up.
const DefaultBudget = 1 << 20

// Enumerator is a baseline decision procedure deciding formulas over boolean
// and bit-vector free constants by bounded model enumeration: candidate
// assignments are drawn from a counter over the concatenated constant bits
// and checked by evaluation.  It is complete whenever the combined state
// space fits within its budget, and returns Unknown otherwise — or when the
// formula mentions theories the evaluator does not interpret.  The
// termination gate is consulted once per candidate.
type Enumerator struct {
	budget uint64
}

var _ Procedure = &Enumerator{}

// NewEnumerator constructs an enumerator with the given candidate budget.
func NewEnumerator(budget uint64) *Enumerator {
	return &Enumerator{budget}
}

// Check implements the Procedure contract.
func (p *Enumerator) Check(tbl *smt.Table, inputs []smt.Term, want Want, gate *Terminator) (Verdict, error) {
	consts, widths, ok := shape(tbl, inputs)
	//
	if !ok {
		// Formula ranges over sorts we cannot enumerate.
		return Verdict{Result: Unknown}, nil
	}
	//
	asg, exhausted := p.search(tbl, inputs, consts, widths, gate)
	//
	switch {
	case asg != nil:
		var verdict = Verdict{Result: Sat}
		//
		if want.Model {
			verdict.Model = &enumModel{tbl, asg}
		}
		//
		return verdict, nil
	case !exhausted:
		return Verdict{Result: Unknown}, nil
	}
	// Space exhausted without a satisfying assignment.
	verdict := Verdict{Result: Unsat}
	//
	if want.Core {
		verdict.Core = p.shrink(tbl, inputs, gate)
	}
	//
	return verdict, nil
}

// shape collects the free constants of the inputs together with their bit
// widths, failing when any constant ranges over a sort which cannot be
// enumerated.
func shape(tbl *smt.Table, inputs []smt.Term) ([]smt.Term, []uint, bool) {
	var (
		seen   = make(map[smt.Term]bool)
		consts []smt.Term
		widths []uint
	)
	//
	for _, t := range inputs {
		for _, c := range tbl.FreeConstants(t) {
			if seen[c] {
				continue
			}
			//
			seen[c] = true
			sort := tbl.SortOf(c)
			//
			switch {
			case tbl.IsBoolSort(sort):
				widths = append(widths, 1)
			case tbl.IsBvSort(sort):
				widths = append(widths, tbl.BvWidth(sort))
			default:
				return nil, nil, false
			}
			//
			consts = append(consts, c)
		}
	}
	//
	return consts, widths, true
}

// search examines candidate assignments up to the budget, returning the
// first satisfying assignment (or nil), plus whether the space was
// exhausted.
func (p *Enumerator) search(tbl *smt.Table, inputs []smt.Term, consts []smt.Term,
	widths []uint, gate *Terminator) (Assignment, bool) {
	var (
		total = uint(0)
		one   = big.NewInt(1)
	)
	//
	for _, w := range widths {
		total += w
	}
	//
	var (
		space   = new(big.Int).Lsh(one, total)
		counter = big.NewInt(0)
	)
	//
	log.Debugf("enumerating %d constants over %d bits (budget %d)", len(consts), total, p.budget)
	//
	for round := uint64(0); counter.Cmp(space) < 0; round++ {
		if round >= p.budget {
			log.Debugf("enumeration budget exhausted after %d candidates", round)
			return nil, false
		} else if gate.Terminated() {
			log.Debugf("enumeration terminated after %d candidates", round)
			return nil, false
		}
		//
		asg, err := decode(tbl, consts, widths, counter)
		//
		if err != nil {
			return nil, false
		}
		//
		holds, undecided := satisfies(tbl, inputs, asg)
		//
		if undecided {
			// Evaluation hit an uninterpreted theory.
			return nil, false
		} else if holds {
			return asg, false
		}
		//
		counter.Add(counter, one)
	}
	//
	return nil, true
}

// decode slices a candidate counter into per-constant value terms.
func decode(tbl *smt.Table, consts []smt.Term, widths []uint, counter *big.Int) (Assignment, error) {
	var (
		asg    = make(Assignment, len(consts))
		offset = uint(0)
	)
	//
	for i, c := range consts {
		var (
			w    = widths[i]
			mask = allOnes(w)
			bits = new(big.Int).Rsh(counter, offset)
		)
		//
		bits.And(bits, mask)
		sort := tbl.SortOf(c)
		//
		if tbl.IsBoolSort(sort) {
			asg[c] = tbl.Bool(bits.Sign() != 0)
		} else {
			value, err := tbl.BvValue(sort, bits)
			//
			if err != nil {
				return nil, err
			}
			//
			asg[c] = value
		}
		//
		offset += w
	}
	//
	return asg, nil
}

// satisfies evaluates every input under the assignment, reporting whether
// all hold, or whether evaluation was undecided.
func satisfies(tbl *smt.Table, inputs []smt.Term, asg Assignment) (bool, bool) {
	for _, t := range inputs {
		v, err := Evaluate(tbl, t, asg)
		//
		if err != nil {
			return false, true
		} else if tbl.KindOf(v) != smt.KindValueBool || !tbl.BoolValue(v) {
			return false, false
		}
	}
	//
	return true, false
}

// shrink computes a best-effort unsatisfiable subset of the inputs by greedy
// deletion: each input is dropped in turn and kept out whenever the
// remainder is still exhaustively unsatisfiable within budget.
func (p *Enumerator) shrink(tbl *smt.Table, inputs []smt.Term, gate *Terminator) []int {
	core := make([]int, 0, len(inputs))
	//
	for i := range inputs {
		core = append(core, i)
	}
	//
	for i := 0; i < len(core); i++ {
		candidate := make([]smt.Term, 0, len(core)-1)
		//
		for j, index := range core {
			if j != i {
				candidate = append(candidate, inputs[index])
			}
		}
		//
		if len(candidate) > 0 && p.refutes(tbl, candidate, gate) {
			core = append(core[:i], core[i+1:]...)
			i--
		}
	}
	//
	log.Debugf("shrunk unsat core to %d of %d inputs", len(core), len(inputs))
	//
	return core
}

// refutes checks whether a subset is exhaustively unsatisfiable within
// budget.
func (p *Enumerator) refutes(tbl *smt.Table, inputs []smt.Term, gate *Terminator) bool {
	consts, widths, ok := shape(tbl, inputs)
	//
	if !ok {
		return false
	}
	//
	asg, exhausted := p.search(tbl, inputs, consts, widths, gate)
	//
	return asg == nil && exhausted
}

// enumModel is the value oracle backing a Sat verdict.  Constants absent
// from the checked formula take the default value of their sort.
type enumModel struct {
	tbl *smt.Table
	asg Assignment
}

// Value evaluates a term under the satisfying assignment.
func (p *enumModel) Value(t smt.Term) (smt.Term, error) {
	e := &evaluator{p.tbl, p.asg, make(map[smt.Term]smt.Term), true}
	return e.eval(t)
}
