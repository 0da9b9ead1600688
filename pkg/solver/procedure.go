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

import "github.com/consensys/go-smt/pkg/smt"

// Result is the outcome of one satisfiability check.  The numeric values
// follow the usual solver convention (1 sat, 0 unknown, -1 unsat).
type Result int8

const (
	// Unsat indicates the formula was certified unsatisfiable.
	Unsat Result = -1
	// Unknown indicates the procedure could not decide within its configured
	// resource limits, or termination was requested mid-check.
	Unknown Result = 0
	// Sat indicates a satisfying assignment was found.
	Sat Result = 1
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	//
	return "unknown"
}

// Model is the value oracle a procedure exposes after a successful check.
// Value evaluates an arbitrary term under the satisfying assignment found,
// returning a value term of the same sort.
type Model interface {
	Value(t smt.Term) (smt.Term, error)
}

// Verdict carries everything a procedure reports back from one check: the
// result, a model oracle on Sat, and on Unsat (when requested) the indices
// of an input subset whose conjunction is already unsatisfiable.  Minimality
// of the core is best-effort, not guaranteed.
type Verdict struct {
	Result Result
	Model  Model
	Core   []int
}

// Procedure is the decision-procedure collaborator boundary.  It receives
// the term table, the frozen sequence of boolean-sorted input formulas
// (assertions followed by assumptions, to be conjoined) and a termination
// gate, which it must consult at well-defined checkpoints — never
// mid-atomic-step — aborting with Unknown as soon as it observes true.
// Whether a model or core is wanted is conveyed up front, so procedures can
// skip the bookkeeping otherwise.
type Procedure interface {
	Check(tbl *smt.Table, inputs []smt.Term, want Want, gate *Terminator) (Verdict, error)
}

// Want flags which artefacts the caller will query after the check.
type Want struct {
	Model bool
	Core  bool
}
