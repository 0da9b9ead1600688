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
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/go-smt/pkg/smt"
	"github.com/consensys/go-smt/pkg/solver"
)

// Reader executes an SMT-LIB v2 script against a solving context,
// translating each command into context operations.  The core never parses
// text itself; this is the format collaborator feeding it.
type Reader struct {
	ctx *solver.Context
	tbl *smt.Table
	// Globally declared symbols (constants and macros).
	globals map[string]binding
	// Expected result declared via (set-info :status ...), if any.
	status string
	// Set once (exit) is seen.
	done bool
}

// binding is a named global: either a term (declared constant, 0-ary
// definition) or a macro (define-fun with parameters), expanded by
// substitution at application sites.
type binding struct {
	term   smt.Term
	params []smt.Term
	body   smt.Term
	macro  bool
}

// operators maps SMT-LIB head symbols to non-indexed operator kinds.
var operators map[string]smt.Kind

func init() {
	operators = make(map[string]smt.Kind)
	//
	for k := smt.Kind(0); k < smt.NumKinds; k++ {
		if k.IsLeaf() || k.IsIndexed() || k.IsBinder() {
			continue
		}
		// First registration wins; later duplicates (the to_fp family) are
		// resolved by shape in the indexed path.
		if _, ok := operators[k.String()]; !ok {
			operators[k.String()] = k
		}
	}
	// SMT-LIB spells equivalence as equality, which KindEqual covers.
	delete(operators, "iff")
}

// NewReader constructs a reader executing against the given context.
func NewReader(ctx *solver.Context) *Reader {
	return &Reader{
		ctx:     ctx,
		tbl:     ctx.Table(),
		globals: make(map[string]binding),
	}
}

// ExpectedStatus returns the result declared via (set-info :status ...), or
// the empty string.
func (p *Reader) ExpectedStatus() string {
	return p.status
}

// Run parses and executes a complete script, returning the printable output
// of each result-producing command in order.
func (p *Reader) Run(input string) ([]string, error) {
	commands, err := ParseAll(input)
	//
	if err != nil {
		return nil, err
	}
	//
	var outputs []string
	//
	for _, command := range commands {
		if p.done {
			break
		}
		//
		output, err := p.execute(command)
		//
		if err != nil {
			return outputs, err
		} else if output != "" {
			outputs = append(outputs, output)
		}
	}
	//
	return outputs, nil
}

//nolint:gocyclo
func (p *Reader) execute(command SExp) (string, error) {
	list := command.AsList()
	//
	if list == nil || list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		return "", fmt.Errorf("malformed command %s", command)
	}
	//
	head := list.Get(0).AsSymbol().Value
	//
	switch head {
	case "set-logic", "set-info":
		return "", p.setInfo(list)
	case "set-option":
		return "", p.setOption(list)
	case "declare-const":
		return "", p.declareConst(list)
	case "declare-fun":
		return "", p.declareFun(list)
	case "define-fun":
		return "", p.defineFun(list)
	case "assert":
		return "", p.assert(list)
	case "push", "pop":
		return "", p.pushPop(head, list)
	case "check-sat":
		result, err := p.ctx.CheckSat()
		return result.String(), err
	case "check-sat-assuming":
		return p.checkSatAssuming(list)
	case "get-value":
		return p.getValue(list)
	case "get-model":
		return p.getModel()
	case "get-unsat-core":
		return p.getUnsatCore()
	case "get-unsat-assumptions":
		return p.getUnsatAssumptions()
	case "echo":
		if list.Len() == 2 {
			return strings.Trim(list.Get(1).String(), "\""), nil
		}
		//
		return "", nil
	case "reset":
		p.ctx.Reset()
		p.globals = make(map[string]binding)
		//
		return "", nil
	case "exit":
		p.done = true
		return "", nil
	}
	//
	return "", fmt.Errorf("unsupported command %q", head)
}

// ============================================================================
// Commands
// ============================================================================

func (p *Reader) setInfo(list *List) error {
	// Only the declared status is of interest.
	if list.MatchSymbols(3, "set-info", ":status") {
		if list.Get(2).AsSymbol() == nil {
			return fmt.Errorf("malformed set-info %s", list)
		}
		//
		p.status = list.Get(2).AsSymbol().Value
	}
	//
	return nil
}

func (p *Reader) setOption(list *List) error {
	if list.Len() != 3 || list.Get(1).AsSymbol() == nil || list.Get(2).AsSymbol() == nil {
		return fmt.Errorf("malformed set-option %s", list)
	}
	//
	var (
		key   = strings.TrimPrefix(list.Get(1).AsSymbol().Value, ":")
		value = list.Get(2).AsSymbol().Value
	)
	//
	return p.ctx.SetOption(key, value)
}

func (p *Reader) declareConst(list *List) error {
	if list.Len() != 3 || list.Get(1).AsSymbol() == nil {
		return fmt.Errorf("malformed declare-const %s", list)
	}
	//
	name := list.Get(1).AsSymbol().Value
	//
	sort, err := p.parseSort(list.Get(2))
	//
	if err != nil {
		return err
	}
	//
	return p.bindConstant(name, sort)
}

func (p *Reader) declareFun(list *List) error {
	if list.Len() != 4 || list.Get(1).AsSymbol() == nil || list.Get(2).AsList() == nil {
		return fmt.Errorf("malformed declare-fun %s", list)
	}
	//
	var (
		name    = list.Get(1).AsSymbol().Value
		domainE = list.Get(2).AsList()
	)
	//
	codomain, err := p.parseSort(list.Get(3))
	//
	if err != nil {
		return err
	}
	// 0-ary function symbols are plain constants.
	if domainE.Len() == 0 {
		return p.bindConstant(name, codomain)
	}
	//
	domain := make([]smt.Sort, domainE.Len())
	//
	for i := 0; i < domainE.Len(); i++ {
		if domain[i], err = p.parseSort(domainE.Get(i)); err != nil {
			return err
		}
	}
	//
	sort, err := p.tbl.FunSort(domain, codomain)
	//
	if err != nil {
		return err
	}
	//
	return p.bindConstant(name, sort)
}

func (p *Reader) defineFun(list *List) error {
	if list.Len() != 5 || list.Get(1).AsSymbol() == nil || list.Get(2).AsList() == nil {
		return fmt.Errorf("malformed define-fun %s", list)
	}
	//
	var (
		name    = list.Get(1).AsSymbol().Value
		paramsE = list.Get(2).AsList()
		scope   = make(map[string]smt.Term)
		params  = make([]smt.Term, paramsE.Len())
	)
	//
	for i := 0; i < paramsE.Len(); i++ {
		binder := paramsE.Get(i).AsList()
		//
		if binder == nil || binder.Len() != 2 || binder.Get(0).AsSymbol() == nil {
			return fmt.Errorf("malformed parameter %s", paramsE.Get(i))
		}
		//
		pname := binder.Get(0).AsSymbol().Value
		//
		sort, err := p.parseSort(binder.Get(1))
		//
		if err != nil {
			return err
		}
		//
		if params[i], err = p.tbl.Variable(sort, pname); err != nil {
			return err
		}
		//
		scope[pname] = params[i]
	}
	//
	declared, err := p.parseSort(list.Get(3))
	//
	if err != nil {
		return err
	}
	//
	body, err := p.parseTerm(list.Get(4), scope)
	//
	if err != nil {
		return err
	} else if p.tbl.SortOf(body) != declared {
		return fmt.Errorf("define-fun %s body sort mismatch", name)
	}
	//
	if len(params) == 0 {
		p.globals[name] = binding{term: body}
	} else {
		p.globals[name] = binding{params: params, body: body, macro: true}
	}
	//
	return nil
}

func (p *Reader) assert(list *List) error {
	if list.Len() != 2 {
		return fmt.Errorf("malformed assert %s", list)
	}
	//
	t, err := p.parseTerm(list.Get(1), nil)
	//
	if err != nil {
		return err
	}
	//
	return p.ctx.Assert(t)
}

func (p *Reader) pushPop(head string, list *List) error {
	n := uint(1)
	//
	if list.Len() == 2 && list.Get(1).AsSymbol() != nil {
		v, err := strconv.ParseUint(list.Get(1).AsSymbol().Value, 10, 32)
		//
		if err != nil {
			return fmt.Errorf("malformed %s %s", head, list)
		}
		//
		n = uint(v)
	}
	//
	if head == "push" {
		return p.ctx.Push(n)
	}
	//
	return p.ctx.Pop(n)
}

func (p *Reader) checkSatAssuming(list *List) (string, error) {
	if list.Len() != 2 || list.Get(1).AsList() == nil {
		return "", fmt.Errorf("malformed check-sat-assuming %s", list)
	}
	//
	literals := list.Get(1).AsList()
	//
	for i := 0; i < literals.Len(); i++ {
		t, err := p.parseTerm(literals.Get(i), nil)
		//
		if err != nil {
			return "", err
		}
		//
		if err := p.ctx.Assume(t); err != nil {
			return "", err
		}
	}
	//
	result, err := p.ctx.CheckSat()
	//
	return result.String(), err
}

func (p *Reader) getValue(list *List) (string, error) {
	if list.Len() != 2 || list.Get(1).AsList() == nil {
		return "", fmt.Errorf("malformed get-value %s", list)
	}
	//
	var (
		terms   = list.Get(1).AsList()
		builder strings.Builder
	)
	//
	builder.WriteString("(")
	//
	for i := 0; i < terms.Len(); i++ {
		t, err := p.parseTerm(terms.Get(i), nil)
		//
		if err != nil {
			return "", err
		}
		//
		v, err := p.ctx.Value(t)
		//
		if err != nil {
			return "", err
		}
		//
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		fmt.Fprintf(&builder, "(%s %s)", Print(p.tbl, t, FormatSmtLib2), Print(p.tbl, v, FormatSmtLib2))
	}
	//
	builder.WriteString(")")
	//
	return builder.String(), nil
}

func (p *Reader) getModel() (string, error) {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	var (
		first = true
		count = 0
		last  error
	)
	// Render entries in a stable name order, not map order.
	names := make([]string, 0, len(p.globals))
	//
	for name := range p.globals {
		names = append(names, name)
	}
	//
	slices.Sort(names)
	//
	for _, name := range names {
		b := p.globals[name]
		//
		if b.macro || b.term == smt.NilTerm || !p.tbl.IsConstant(b.term) {
			continue
		}
		// Function-sorted constants have no enumerable value.
		if p.tbl.IsFunSort(p.tbl.SortOf(b.term)) {
			continue
		}
		//
		count++
		//
		v, err := p.ctx.Value(b.term)
		// Constants outside the checked formula are simply omitted.
		if err != nil {
			last = err
			continue
		}
		//
		if !first {
			builder.WriteString(" ")
		}
		//
		first = false
		//
		fmt.Fprintf(&builder, "(define-fun %s () %s %s)", name,
			PrintSort(p.tbl, p.tbl.SortOf(b.term)), Print(p.tbl, v, FormatSmtLib2))
	}
	// A model with no printable entry at all signals the underlying failure.
	if first && count > 0 && last != nil {
		return "", last
	}
	//
	builder.WriteString(")")
	//
	return builder.String(), nil
}

func (p *Reader) getUnsatCore() (string, error) {
	core, err := p.ctx.UnsatCore()
	//
	if err != nil {
		return "", err
	}
	//
	return p.printTermList(core), nil
}

func (p *Reader) getUnsatAssumptions() (string, error) {
	assumptions, err := p.ctx.UnsatAssumptions()
	//
	if err != nil {
		return "", err
	}
	//
	return p.printTermList(assumptions), nil
}

func (p *Reader) printTermList(terms []smt.Term) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, t := range terms {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(Print(p.tbl, t, FormatSmtLib2))
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (p *Reader) bindConstant(name string, sort smt.Sort) error {
	if _, ok := p.globals[name]; ok {
		return fmt.Errorf("symbol %q already declared", name)
	}
	//
	t, err := p.tbl.Constant(sort, name)
	//
	if err != nil {
		return err
	}
	//
	p.globals[name] = binding{term: t}
	//
	return nil
}

// ============================================================================
// Sorts
// ============================================================================

func (p *Reader) parseSort(e SExp) (smt.Sort, error) {
	if symbol := e.AsSymbol(); symbol != nil {
		switch symbol.Value {
		case "Bool":
			return p.tbl.BoolSort(), nil
		case "RoundingMode":
			return p.tbl.RmSort(), nil
		case "Float16":
			return p.tbl.FpSort(5, 11)
		case "Float32":
			return p.tbl.FpSort(8, 24)
		case "Float64":
			return p.tbl.FpSort(11, 53)
		case "Float128":
			return p.tbl.FpSort(15, 113)
		}
		//
		return smt.NilSort, fmt.Errorf("unknown sort %q", symbol.Value)
	}
	//
	list := e.AsList()
	//
	switch {
	case list.MatchSymbols(3, "_", "BitVec"):
		width, err := parseNumeral(list.Get(2))
		//
		if err != nil {
			return smt.NilSort, err
		}
		//
		return p.tbl.BvSort(width)
	case list.MatchSymbols(4, "_", "FloatingPoint"):
		exp, err := parseNumeral(list.Get(2))
		//
		if err != nil {
			return smt.NilSort, err
		}
		//
		sig, err := parseNumeral(list.Get(3))
		//
		if err != nil {
			return smt.NilSort, err
		}
		//
		return p.tbl.FpSort(exp, sig)
	case list.MatchSymbols(3, "Array"):
		index, err := p.parseSort(list.Get(1))
		//
		if err != nil {
			return smt.NilSort, err
		}
		//
		element, err := p.parseSort(list.Get(2))
		//
		if err != nil {
			return smt.NilSort, err
		}
		//
		return p.tbl.ArraySort(index, element)
	}
	//
	return smt.NilSort, fmt.Errorf("unknown sort %s", e)
}

// ============================================================================
// Terms
// ============================================================================

//nolint:gocyclo
func (p *Reader) parseTerm(e SExp, scope map[string]smt.Term) (smt.Term, error) {
	if symbol := e.AsSymbol(); symbol != nil {
		return p.parseAtom(symbol.Value, scope)
	}
	//
	list := e.AsList()
	//
	if list.Len() == 0 {
		return smt.NilTerm, fmt.Errorf("empty term")
	}
	// Indexed heads and value templates
	if inner := list.Get(0).AsList(); inner != nil {
		return p.parseIndexedApplication(list, inner, scope)
	}
	//
	head := list.Get(0).AsSymbol()
	//
	if head == nil {
		return smt.NilTerm, fmt.Errorf("malformed term %s", list)
	}
	//
	switch head.Value {
	case "_":
		// Value template, e.g. (_ bv5 8)
		return p.parseUnderscore(list)
	case "let":
		return p.parseLet(list, scope)
	case "exists", "forall", "lambda":
		return p.parseBinder(head.Value, list, scope)
	case "fp":
		return p.parseFpValue(list, scope)
	}
	// Parse arguments
	args := make([]smt.Term, list.Len()-1)
	//
	for i := 1; i < list.Len(); i++ {
		arg, err := p.parseTerm(list.Get(i), scope)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		args[i-1] = arg
	}
	// Macro application
	if b, ok := p.globals[head.Value]; ok {
		return p.applyBinding(head.Value, b, args)
	}
	// Built-in operator
	if kind, ok := operators[head.Value]; ok {
		return p.tbl.New(kind, args...)
	}
	//
	return smt.NilTerm, fmt.Errorf("unknown operator %q", head.Value)
}

func (p *Reader) parseAtom(name string, scope map[string]smt.Term) (smt.Term, error) {
	switch {
	case name == "true":
		return p.tbl.True(), nil
	case name == "false":
		return p.tbl.False(), nil
	case name == "RNE":
		return p.tbl.RmValue(smt.RNE), nil
	case name == "RNA":
		return p.tbl.RmValue(smt.RNA), nil
	case name == "RTN":
		return p.tbl.RmValue(smt.RTN), nil
	case name == "RTP":
		return p.tbl.RmValue(smt.RTP), nil
	case name == "RTZ":
		return p.tbl.RmValue(smt.RTZ), nil
	case strings.HasPrefix(name, "#b"):
		return p.parseBvLiteral(name[2:], 2, uint(len(name)-2))
	case strings.HasPrefix(name, "#x"):
		return p.parseBvLiteral(name[2:], 16, uint(4*(len(name)-2)))
	}
	//
	if t, ok := scope[name]; ok {
		return t, nil
	}
	//
	if b, ok := p.globals[name]; ok {
		if b.macro {
			return smt.NilTerm, fmt.Errorf("macro %q requires arguments", name)
		}
		//
		return b.term, nil
	}
	//
	return smt.NilTerm, fmt.Errorf("unknown symbol %q", name)
}

func (p *Reader) parseBvLiteral(digits string, base int, width uint) (smt.Term, error) {
	value, ok := new(big.Int).SetString(digits, base)
	//
	if !ok {
		return smt.NilTerm, fmt.Errorf("malformed bit-vector literal")
	}
	//
	sort, err := p.tbl.BvSort(width)
	//
	if err != nil {
		return smt.NilTerm, err
	}
	//
	return p.tbl.BvValue(sort, value)
}

// parseUnderscore handles "(_ bvN w)" value templates.
func (p *Reader) parseUnderscore(list *List) (smt.Term, error) {
	if list.Len() == 3 && list.Get(1).AsSymbol() != nil {
		name := list.Get(1).AsSymbol().Value
		//
		if strings.HasPrefix(name, "bv") {
			value, ok := new(big.Int).SetString(name[2:], 10)
			//
			if !ok {
				return smt.NilTerm, fmt.Errorf("malformed value %s", list)
			}
			//
			width, err := parseNumeral(list.Get(2))
			//
			if err != nil {
				return smt.NilTerm, err
			}
			//
			sort, err := p.tbl.BvSort(width)
			//
			if err != nil {
				return smt.NilTerm, err
			}
			//
			return p.tbl.BvValue(sort, value)
		}
	}
	//
	return smt.NilTerm, fmt.Errorf("unknown term %s", list)
}

// parseIndexedApplication handles applications whose head is an indexed
// operator, e.g. ((_ extract 7 0) x).
func (p *Reader) parseIndexedApplication(list, head *List, scope map[string]smt.Term) (smt.Term, error) {
	if head.Len() < 3 || !head.MatchSymbols(2, "_") || head.Get(1).AsSymbol() == nil {
		return smt.NilTerm, fmt.Errorf("malformed term %s", list)
	}
	//
	name := head.Get(1).AsSymbol().Value
	//
	indices := make([]uint, head.Len()-2)
	//
	for i := 2; i < head.Len(); i++ {
		index, err := parseNumeral(head.Get(i))
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		indices[i-2] = index
	}
	//
	args := make([]smt.Term, list.Len()-1)
	//
	for i := 1; i < list.Len(); i++ {
		arg, err := p.parseTerm(list.Get(i), scope)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		args[i-1] = arg
	}
	//
	kind, err := p.indexedKind(name, args)
	//
	if err != nil {
		return smt.NilTerm, err
	}
	//
	return p.tbl.NewIndexed(kind, args, indices)
}

// indexedKind resolves an indexed head symbol, disambiguating the to_fp
// family by operand shape.
func (p *Reader) indexedKind(name string, args []smt.Term) (smt.Kind, error) {
	switch name {
	case "extract":
		return smt.KindBvExtract, nil
	case "repeat":
		return smt.KindBvRepeat, nil
	case "rotate_left":
		return smt.KindBvRoli, nil
	case "rotate_right":
		return smt.KindBvRori, nil
	case "sign_extend":
		return smt.KindBvSignExtend, nil
	case "zero_extend":
		return smt.KindBvZeroExtend, nil
	case "to_fp_unsigned":
		return smt.KindFpToFpFromUbv, nil
	case "fp.to_sbv":
		return smt.KindFpToSbv, nil
	case "fp.to_ubv":
		return smt.KindFpToUbv, nil
	case "to_fp":
		if len(args) == 1 {
			return smt.KindFpToFpFromBv, nil
		} else if len(args) == 2 && p.tbl.IsFpSort(p.tbl.SortOf(args[1])) {
			return smt.KindFpToFpFromFp, nil
		} else if len(args) == 2 {
			return smt.KindFpToFpFromSbv, nil
		}
	}
	//
	return 0, fmt.Errorf("unknown indexed operator %q", name)
}

func (p *Reader) parseLet(list *List, scope map[string]smt.Term) (smt.Term, error) {
	if list.Len() != 3 || list.Get(1).AsList() == nil {
		return smt.NilTerm, fmt.Errorf("malformed let %s", list)
	}
	//
	var (
		bindings = list.Get(1).AsList()
		// Let bindings are parallel: all right-hand sides are parsed in the
		// outer scope before any name becomes visible.
		inner = extendScope(scope)
	)
	//
	for i := 0; i < bindings.Len(); i++ {
		b := bindings.Get(i).AsList()
		//
		if b == nil || b.Len() != 2 || b.Get(0).AsSymbol() == nil {
			return smt.NilTerm, fmt.Errorf("malformed let binding %s", bindings.Get(i))
		}
		//
		value, err := p.parseTerm(b.Get(1), scope)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		inner[b.Get(0).AsSymbol().Value] = value
	}
	//
	return p.parseTerm(list.Get(2), inner)
}

func (p *Reader) parseBinder(head string, list *List, scope map[string]smt.Term) (smt.Term, error) {
	if list.Len() != 3 || list.Get(1).AsList() == nil {
		return smt.NilTerm, fmt.Errorf("malformed %s %s", head, list)
	}
	//
	var (
		binders  = list.Get(1).AsList()
		inner    = extendScope(scope)
		children = make([]smt.Term, 0, binders.Len()+1)
	)
	//
	for i := 0; i < binders.Len(); i++ {
		b := binders.Get(i).AsList()
		//
		if b == nil || b.Len() != 2 || b.Get(0).AsSymbol() == nil {
			return smt.NilTerm, fmt.Errorf("malformed binder %s", binders.Get(i))
		}
		//
		sort, err := p.parseSort(b.Get(1))
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		name := b.Get(0).AsSymbol().Value
		//
		v, err := p.tbl.Variable(sort, name)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		inner[name] = v
		children = append(children, v)
	}
	//
	body, err := p.parseTerm(list.Get(2), inner)
	//
	if err != nil {
		return smt.NilTerm, err
	}
	//
	children = append(children, body)
	//
	var kind smt.Kind
	//
	switch head {
	case "forall":
		kind = smt.KindForall
	case "exists":
		kind = smt.KindExists
	default:
		kind = smt.KindLambda
	}
	//
	return p.tbl.New(kind, children...)
}

// parseFpValue handles "(fp sign exp sig)" triples: a floating-point value
// when every component is a bit-vector literal, and the component-assembly
// operator otherwise.
func (p *Reader) parseFpValue(list *List, scope map[string]smt.Term) (smt.Term, error) {
	if list.Len() != 4 {
		return smt.NilTerm, fmt.Errorf("malformed fp term %s", list)
	}
	//
	var (
		components = make([]smt.Term, 3)
		literal    = true
	)
	//
	for i := 1; i < 4; i++ {
		c, err := p.parseTerm(list.Get(i), scope)
		//
		if err != nil {
			return smt.NilTerm, err
		}
		//
		literal = literal && p.tbl.KindOf(c) == smt.KindValueBv
		components[i-1] = c
	}
	//
	if literal {
		return p.tbl.FpValue(components[0], components[1], components[2])
	}
	//
	return p.tbl.New(smt.KindFpFp, components...)
}

func (p *Reader) applyBinding(name string, b binding, args []smt.Term) (smt.Term, error) {
	if b.macro {
		if len(args) != len(b.params) {
			return smt.NilTerm, fmt.Errorf("%q expects %d arguments, got %d", name, len(b.params), len(args))
		}
		//
		mapping := make(map[smt.Term]smt.Term, len(args))
		//
		for i, param := range b.params {
			mapping[param] = args[i]
		}
		//
		return p.tbl.Substitute(b.body, mapping)
	}
	// Uninterpreted function application
	if p.tbl.IsFunSort(p.tbl.SortOf(b.term)) {
		children := append([]smt.Term{b.term}, args...)
		return p.tbl.New(smt.KindApply, children...)
	}
	//
	return smt.NilTerm, fmt.Errorf("%q cannot be applied", name)
}

func extendScope(scope map[string]smt.Term) map[string]smt.Term {
	inner := make(map[string]smt.Term, len(scope)+2)
	//
	for k, v := range scope {
		inner[k] = v
	}
	//
	return inner
}

func parseNumeral(e SExp) (uint, error) {
	symbol := e.AsSymbol()
	//
	if symbol == nil {
		return 0, fmt.Errorf("expected numeral, got %s", e)
	}
	//
	v, err := strconv.ParseUint(symbol.Value, 10, 32)
	//
	if err != nil {
		return 0, fmt.Errorf("malformed numeral %q", symbol.Value)
	}
	//
	return uint(v), nil
}
