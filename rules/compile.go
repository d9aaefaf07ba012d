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

import (
	"context"

	"github.com/bindkit/bindkit/match"
)

// compiledGuard is a guard ready to run.
type compiledGuard func(ctx context.Context, bs match.Bindings, props Props) (*Execution, error)

// Compile prepares the rule's guards for execution.
//
// If interpreters is nil, DefaultInterpreters is used.  Compile must
// be called before Apply; it is not safe to call concurrently with
// Apply.
func (r *Rule) Compile(ctx context.Context, interpreters InterpretersMap) error {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}

	for _, c := range r.Cases {
		if c.Guard == nil {
			continue
		}

		name := c.Guard.Interpreter
		if name == "" {
			name = DefaultInterpreterName
		}
		interpreter, have := interpreters[name]
		if !have {
			return InterpreterNotFound
		}

		compiled, err := interpreter.Compile(ctx, c.Guard.Source)
		if err != nil {
			return err
		}

		src := c.Guard.Source
		c.guard = func(ctx context.Context, bs match.Bindings, props Props) (*Execution, error) {
			return interpreter.Exec(ctx, bs, props, src, compiled)
		}
	}

	r.compiled = true
	return nil
}

// Compile compiles every rule in the set.
func (rs *Ruleset) Compile(ctx context.Context, interpreters InterpretersMap) error {
	for _, r := range rs.Rules {
		if err := r.Compile(ctx, interpreters); err != nil {
			return err
		}
	}
	return nil
}
