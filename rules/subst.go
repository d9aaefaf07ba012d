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
	"github.com/bindkit/bindkit/match"
)

// Subst instantiates a template against bindings.
//
// Strings that are pattern variables with a binding are replaced by
// their bound values; everything else passes through.  Maps and
// arrays are walked recursively.  Unbound variables are left alone so
// the gap is visible downstream.
func Subst(template interface{}, bs match.Bindings) interface{} {
	switch t := template.(type) {
	case string:
		if match.IsVariable(t) {
			if v, have := bs[t]; have {
				return v
			}
		}
		return t
	case map[string]interface{}:
		acc := make(map[string]interface{}, len(t))
		for k, v := range t {
			acc[k] = Subst(v, bs)
		}
		return acc
	case []interface{}:
		acc := make([]interface{}, len(t))
		for i, v := range t {
			acc[i] = Subst(v, bs)
		}
		return acc
	default:
		return template
	}
}
