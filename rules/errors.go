/* Copyright 2026 The Bindkit Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rules

// These errors are user errors, not internal errors.

import "errors"

// RuleNotCompiled occurs when a Rule is used (say via Apply()) before
// it has been Compile()ed.
type RuleNotCompiled struct {
	Rule *Rule
}

func (e *RuleNotCompiled) Error() string {
	return `rule "` + e.Rule.Name + `" not compiled`
}

// UncompiledGuard occurs when a guard execution is attempted but the
// guard hasn't been Compile()ed.  Usually that compilation happens as
// part of Rule.Compile().
type UncompiledGuard struct {
	Rule      *Rule
	CaseIndex int
}

func (e *UncompiledGuard) Error() string {
	return `uncompiled guard in rule "` + e.Rule.Name + `"`
}

// InterpreterNotFound occurs when you try to Compile a guard and the
// required interpreter isn't in the given map of interpreters.
var InterpreterNotFound = errors.New("interpreter not found")

// BadGuardSource occurs when guard source isn't something an
// interpreter can work with.
var BadGuardSource = errors.New("bad guard source")
