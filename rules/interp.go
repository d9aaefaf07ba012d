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

// Props are read-only values exposed to guard execution environments.
type Props map[string]interface{}

func (ps Props) Copy() Props {
	acc := make(Props, len(ps))
	for p, v := range ps {
		acc[p] = v
	}
	return acc
}

// Execution is what running a guard produces: the (possibly revised)
// bindings and any messages the guard emitted along the way.
//
// A nil Bs means the guard vetoed its case.
type Execution struct {
	Bs      match.Bindings
	Emitted []interface{}
}

func NewExecution(bs match.Bindings) *Execution {
	return &Execution{
		Bs:      bs,
		Emitted: make([]interface{}, 0, 4),
	}
}

// AddEmitted adds the given thing to the list of emitted messages.
func (e *Execution) AddEmitted(x interface{}) {
	e.Emitted = append(e.Emitted, x)
}

// Interpreter can optionally compile and execute guard code.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, code interface{}) (interface{}, error)

	// Exec executes the code.  The result of a previous Compile()
	// might be provided.
	Exec(ctx context.Context, bs match.Bindings, props Props, code interface{}, compiled interface{}) (*Execution, error)
}

// InterpretersMap maps interpreter names to Interpreters.
type InterpretersMap map[string]Interpreter

func NewInterpretersMap() InterpretersMap {
	return make(InterpretersMap, 4)
}

// DefaultInterpreters will be used by Rule.Compile when given a nil
// map.  Interpreter packages register themselves here from their
// init()s.
var DefaultInterpreters = NewInterpretersMap()

// DefaultInterpreterName names the interpreter used when a guard
// source doesn't say.
var DefaultInterpreterName = "goja"
