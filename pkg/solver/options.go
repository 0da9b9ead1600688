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
)

// ErrInvalidOption indicates an attempt to mutate a frozen option, an
// unrecognised option key, or an out-of-range option value.
var ErrInvalidOption = errors.New("invalid option")

// ModelMode configures model production.
type ModelMode uint8

const (
	// ModelsOff disables model production entirely.
	ModelsOff ModelMode = iota
	// ModelsAssertions permits value queries only against terms built from
	// the constants of the checked formula.
	ModelsAssertions
	// ModelsAll permits value queries against arbitrary terms; constants
	// absent from the checked formula take a default value.
	ModelsAll
)

// MaxRewriteLevel bounds the rewrite-level option.
const MaxRewriteLevel = 3

// Options is the caller-visible configuration surface of a context.
// Incremental and RewriteLevel freeze once the context has created any term;
// the remaining options may be toggled between checks.
type Options struct {
	// Incremental enables push/pop and assumptions.  Must be set before any
	// term is created.
	Incremental bool
	// Models configures model production.
	Models ModelMode
	// RewriteLevel configures the term rewriting effort (0-3).  Frozen once
	// any term exists.
	RewriteLevel uint
	// TrackAssertions gates unsat-core availability.
	TrackAssertions bool
	// TrackAssumptions gates unsat-assumption availability.
	TrackAssumptions bool
}

// DefaultOptions returns the default configuration: incremental solving with
// assertion-level models, and no core tracking.
func DefaultOptions() Options {
	return Options{
		Incremental:  true,
		Models:       ModelsAssertions,
		RewriteLevel: 1,
	}
}

// SetOption updates one option by its textual key.  Recognised keys are
// "incremental", "produce-models", "rewrite-level", "produce-unsat-cores"
// and "produce-unsat-assumptions".  Frozen options reject mutation with
// ErrInvalidOption once the context holds terms.
func (p *Context) SetOption(key, value string) error {
	frozen := p.table.Len() > 0
	//
	switch key {
	case "incremental":
		if frozen {
			return fmt.Errorf("%w: incremental is frozen once terms exist", ErrInvalidOption)
		}
		//
		return setBool(&p.options.Incremental, key, value)
	case "rewrite-level":
		if frozen {
			return fmt.Errorf("%w: rewrite-level is frozen once terms exist", ErrInvalidOption)
		}
		//
		switch value {
		case "0", "1", "2", "3":
			p.options.RewriteLevel = uint(value[0] - '0')
		default:
			return fmt.Errorf("%w: rewrite-level must be 0-%d, got %q", ErrInvalidOption, MaxRewriteLevel, value)
		}
		//
		return nil
	case "produce-models":
		switch value {
		case "false", "off":
			p.options.Models = ModelsOff
		case "true", "assertions":
			p.options.Models = ModelsAssertions
		case "all":
			p.options.Models = ModelsAll
		default:
			return fmt.Errorf("%w: unrecognised produce-models value %q", ErrInvalidOption, value)
		}
		//
		return nil
	case "produce-unsat-cores":
		return setBool(&p.options.TrackAssertions, key, value)
	case "produce-unsat-assumptions":
		return setBool(&p.options.TrackAssumptions, key, value)
	}
	//
	return fmt.Errorf("%w: unrecognised option %q", ErrInvalidOption, key)
}

// Options returns a copy of the current configuration.
func (p *Context) Options() Options {
	return p.options
}

func setBool(dst *bool, key, value string) error {
	switch value {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidOption, key, value)
	}
	//
	return nil
}
