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

package bind

import (
	"context"

	"github.com/bindkit/bindkit/match"
)

// Default substitutes a fallback when the value is Absent.
//
// The input is forced; if its tag is Absent, the fallback is forced
// (exactly once, right here, never at construction) and output is
// bound against the result.  Any other value, falsy or not, binds
// as-is and leaves the fallback untouched.
//
// Fails iff the downstream bind of output fails.
func Default(output Pattern, fallback Thunk) Pattern {
	return PatternFunc(func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
		forced, err := Force(ctx, v)
		if err != nil {
			return nil, err
		}
		if TagOf(forced) == TagAbsent {
			x, err := fallback(ctx)
			if err != nil {
				return nil, err
			}
			return output.Bind(ctx, x, bs)
		}
		return output.Bind(ctx, forced, bs)
	})
}
