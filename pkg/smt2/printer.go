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
	"fmt"
	"strings"

	"github.com/consensys/go-smt/pkg/smt"
)

// Format selects an output syntax for terms and sorts.
type Format uint8

const (
	// FormatNative is the native s-expression form (indices inline).
	FormatNative Format = iota
	// FormatSmtLib2 is SMT-LIB v2 syntax (indexed operators via "(_ ...)").
	FormatSmtLib2
)

// Print renders a term in the given format.
func Print(tbl *smt.Table, t smt.Term, format Format) string {
	if format == FormatNative {
		return tbl.Lisp(t)
	}
	//
	return printSmtLib(tbl, t)
}

// PrintSort renders a sort.  Both formats agree on sort syntax.
func PrintSort(tbl *smt.Table, s smt.Sort) string {
	return tbl.SortString(s)
}

//nolint:gocyclo
func printSmtLib(tbl *smt.Table, t smt.Term) string {
	var (
		kind     = tbl.KindOf(t)
		children = tbl.Children(t)
		indices  = tbl.Indices(t)
	)
	//
	switch kind {
	case smt.KindConstant, smt.KindVariable, smt.KindValueBool, smt.KindValueRm, smt.KindValueBv:
		// Leaf syntax coincides with the native form.
		return tbl.Lisp(t)
	case smt.KindValueFp:
		return fmt.Sprintf("(fp %s %s %s)", printSmtLib(tbl, children[0]),
			printSmtLib(tbl, children[1]), printSmtLib(tbl, children[2]))
	case smt.KindApply:
		// Function application has no head symbol.
		return printApplication(tbl, printSmtLib(tbl, children[0]), children[1:])
	case smt.KindExists, smt.KindForall, smt.KindLambda:
		return printBinder(tbl, kind, children)
	case smt.KindIff:
		// SMT-LIB spells boolean equivalence as equality.
		return printApplication(tbl, "=", children)
	}
	//
	head := kind.String()
	// Indexed operators take the "(_ name indices)" head form.
	if len(indices) > 0 {
		head = "(_ " + head
		//
		for _, index := range indices {
			head += fmt.Sprintf(" %d", index)
		}
		//
		head += ")"
	}
	//
	return printApplication(tbl, head, children)
}

func printApplication(tbl *smt.Table, head string, children []smt.Term) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(head)
	//
	for _, c := range children {
		builder.WriteString(" ")
		builder.WriteString(printSmtLib(tbl, c))
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func printBinder(tbl *smt.Table, kind smt.Kind, children []smt.Term) string {
	var (
		builder strings.Builder
		body    = children[len(children)-1]
	)
	//
	builder.WriteString("(")
	builder.WriteString(kind.String())
	builder.WriteString(" (")
	//
	for i, v := range children[:len(children)-1] {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		fmt.Fprintf(&builder, "(%s %s)", tbl.Lisp(v), tbl.SortString(tbl.SortOf(v)))
	}
	//
	builder.WriteString(") ")
	builder.WriteString(printSmtLib(tbl, body))
	builder.WriteString(")")
	//
	return builder.String()
}
