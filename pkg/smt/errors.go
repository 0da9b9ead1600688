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

import (
	"errors"
	"fmt"
)

// ErrInvalidSort indicates a malformed sort descriptor, such as a zero-width
// bit-vector sort or a function sort with an empty domain.
var ErrInvalidSort = errors.New("invalid sort")

// ErrIllTyped indicates an operator/sort/arity mismatch during term
// construction.  Construction never coerces silently; it fails here instead.
var ErrIllTyped = errors.New("ill-typed term")

func invalidSortf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSort, fmt.Sprintf(format, args...))
}

func illTypedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllTyped, fmt.Sprintf(format, args...))
}
