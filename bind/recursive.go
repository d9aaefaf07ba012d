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

import "context"

// Func is a callable value.
type Func func(ctx context.Context, args ...interface{}) (interface{}, error)

// RecFunc is a function that receives its own wrapped form as 'self'.
//
// Every recursive call must go through self; forgetting to is a
// caller bug, not something this package can detect.
type RecFunc func(ctx context.Context, self Func, args ...interface{}) (interface{}, error)

// Recursive ties the knot: Recursive(f) returns g such that
// g(args...) evaluates f(g, args...).
//
// No error translation happens here; whatever f returns (or panics)
// reaches the caller unchanged.  Recursion depth is bounded only by
// the Go stack, so prefer iteration when the host offers it.
func Recursive(f RecFunc) Func {
	var g Func
	g = func(ctx context.Context, args ...interface{}) (interface{}, error) {
		return f(ctx, g, args...)
	}
	return g
}
