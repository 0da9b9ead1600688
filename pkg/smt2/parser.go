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
	"unicode"
)

// SyntaxError is a parse failure at a given position of the input.
type SyntaxError struct {
	// Line and column of the offending character (1-based).
	Line, Column int
	// Description of the failure.
	Message string
}

func (p *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", p.Line, p.Column, p.Message)
}

// ParseAll converts a given string into zero or more S-expressions, or
// returns an error if the string is malformed.  Comments (from ';' to end of
// line) are skipped.
func ParseAll(input string) ([]SExp, error) {
	var (
		p     = newParser(input)
		terms []SExp
	)
	//
	for {
		term, err := p.parse()
		// Sanity check everything was parsed
		if err != nil {
			return terms, err
		} else if term == nil {
			// EOF reached
			return terms, nil
		}
		//
		terms = append(terms, term)
	}
}

// parser represents a parser in the process of parsing a given string into
// one or more S-expressions.
type parser struct {
	// Cache (for simplicity)
	text []rune
	// Determine current position within text
	index int
}

func newParser(input string) *parser {
	return &parser{text: []rune(input)}
}

// parse the next S-Expression, returning nil at end of input.
func (p *parser) parse() (SExp, error) {
	p.skipWhiteSpace()
	// Extract next token from the stream
	token := p.next()
	//
	switch {
	case token == nil:
		return nil, nil
	case len(token) == 1 && token[0] == ')':
		p.index-- // backup
		return nil, p.error("unexpected end-of-list")
	case len(token) == 1 && token[0] == '(':
		elements, err := p.parseSequence()
		// Check for error
		if err != nil {
			return nil, err
		}
		// Done
		return &List{elements}, nil
	}
	//
	return &Symbol{string(token)}, nil
}

func (p *parser) parseSequence() ([]SExp, error) {
	var elements []SExp
	//
	for {
		p.skipWhiteSpace()
		//
		if p.index >= len(p.text) {
			return nil, p.error("unterminated list")
		} else if p.text[p.index] == ')' {
			p.index++
			return elements, nil
		}
		//
		element, err := p.parse()
		//
		if err != nil {
			return nil, err
		}
		//
		elements = append(elements, element)
	}
}

// next extracts the next token (a parenthesis or a symbol), or nil at end of
// input.
func (p *parser) next() []rune {
	if p.index >= len(p.text) {
		return nil
	}
	//
	c := p.text[p.index]
	//
	if c == '(' || c == ')' {
		p.index++
		return p.text[p.index-1 : p.index]
	}
	// Symbol token
	start := p.index
	//
	for p.index < len(p.text) && isSymbolLetter(p.text[p.index]) {
		p.index++
	}
	//
	return p.text[start:p.index]
}

func (p *parser) skipWhiteSpace() {
	for p.index < len(p.text) {
		c := p.text[p.index]
		//
		if c == ';' {
			// Comment runs to end of line
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		} else if unicode.IsSpace(c) {
			p.index++
		} else {
			return
		}
	}
}

func (p *parser) error(message string) *SyntaxError {
	line, column := 1, 1
	//
	for i := 0; i < p.index && i < len(p.text); i++ {
		if p.text[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	//
	return &SyntaxError{line, column, message}
}

func isSymbolLetter(r rune) bool {
	return r != '(' && r != ')' && r != ';' && !unicode.IsSpace(r)
}
