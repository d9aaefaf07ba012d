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

package noop

import (
	"context"
	"log"

	"github.com/bindkit/bindkit/match"
	"github.com/bindkit/bindkit/rules"
)

// Interpreter is a rules.Interpreter that just returns the bindings
// without modification.  Every guard it runs accepts.
type Interpreter struct {
	// Silent, if true, suppresses warning log messages.
	Silent bool
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (i *Interpreter) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	if !i.Silent {
		log.Printf("warning: using noop.Interpreter for compilation")
	}
	return nil, nil
}

func (i *Interpreter) Exec(ctx context.Context, bs match.Bindings, props rules.Props, code interface{}, compiled interface{}) (*rules.Execution, error) {
	if !i.Silent {
		log.Printf("warning: using noop.Interpreter for execution")
	}
	return rules.NewExecution(bs), nil
}
