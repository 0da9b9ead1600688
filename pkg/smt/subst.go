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

// Substitute produces the term resulting from simultaneously replacing every
// occurrence (by identity) of each key of the mapping with its value.  The
// rewrite proceeds bottom-up through the interning path, hence the result
// remains maximally shared; a per-call cache keyed by original-term identity
// ensures repeated sub-DAGs are rewritten once, not once per occurrence.
// Substituting nothing (or a term containing no occurrence of any key)
// returns the original handle unchanged.  Every value must share the sort of
// its key, otherwise ErrIllTyped.
func (p *Table) Substitute(t Term, mapping map[Term]Term) (Term, error) {
	if len(mapping) == 0 {
		return t, nil
	}
	//
	for k, v := range mapping {
		if p.SortOf(k) != p.SortOf(v) {
			return NilTerm, illTypedf("substituting %s for %s changes sort",
				p.SortString(p.SortOf(v)), p.SortString(p.SortOf(k)))
		}
	}
	// Rewrite cache, lasting for this call only.
	cache := make(map[Term]Term)
	//
	return p.substitute(t, mapping, cache)
}

func (p *Table) substitute(t Term, mapping map[Term]Term, cache map[Term]Term) (Term, error) {
	// Keys are matched before descending, i.e. an occurrence of a key is
	// replaced wholesale rather than rewritten within.
	if r, ok := mapping[t]; ok {
		return r, nil
	} else if r, ok := cache[t]; ok {
		return r, nil
	}
	//
	var (
		n       = p.termNode(t)
		result  = t
		changed = false
	)
	//
	if len(n.children) > 0 && !n.kind.IsValue() {
		children := make([]Term, len(n.children))
		//
		for i, c := range n.children {
			rc, err := p.substitute(c, mapping, cache)
			//
			if err != nil {
				return NilTerm, err
			}
			//
			children[i] = rc
			changed = changed || rc != c
		}
		// Only re-intern when something underneath actually changed, so
		// untouched sub-DAGs keep their identity.
		if changed {
			var err error
			//
			if result, err = p.NewIndexed(n.kind, children, n.indices); err != nil {
				return NilTerm, err
			}
		}
	}
	//
	cache[t] = result
	//
	return result, nil
}
