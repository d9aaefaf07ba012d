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
	"fmt"
	"sort"

	"github.com/bindkit/bindkit/match"
)

// RequiredMissing reports that a key an Import descriptor requires
// was missing (or Absent) in the value.
//
// This is an evaluation error, not a NoMatch: a missing required
// field is a hard failure that Matches will not recover from.
type RequiredMissing struct {
	Key string
}

func (e *RequiredMissing) Error() string {
	if e.Key == "" {
		return "required value missing"
	}
	return `required value missing for "` + e.Key + `"`
}

// BadDescriptor reports an Import descriptor that is neither a
// Pattern nor a keyed container of descriptors.
type BadDescriptor struct {
	Descriptor interface{}
}

func (e *BadDescriptor) Error() string {
	return fmt.Sprintf("bad import descriptor (%T)", e.Descriptor)
}

// Import destructures a nested keyed container according to the
// given descriptor.
//
// A descriptor is either a terminal Pattern, which binds directly
// against the value, or a map[string]interface{} of sub-descriptors.
// For a map descriptor, the value must force to a keyed container,
// and every descriptor key must be present and non-Absent in it;
// otherwise the bind fails with RequiredMissing naming the key.  The
// presence check wins even when the sub-descriptor itself (say, a
// Default) would have accepted Absent.
//
// Sub-bindings of all keys accumulate into one result.  Keys are
// visited in sorted order, which matters only if sub-patterns have
// observable effects.  Any single key's failure fails the whole
// application, and the caller's bindings are left untouched.
func Import(descriptor interface{}) Pattern {
	step := Recursive(importStep)
	return PatternFunc(func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
		x, err := step(ctx, descriptor, v, bs)
		if err != nil {
			return nil, err
		}
		return x.(match.Bindings), nil
	})
}

// importStep is one level of Import's recursion.  Descriptors nest
// to arbitrary depth, so the self-reference threads down through
// Recursive.
func importStep(ctx context.Context, self Func, args ...interface{}) (interface{}, error) {
	descriptor, v, bs := args[0], args[1], args[2].(match.Bindings)

	switch d := descriptor.(type) {
	case Pattern:
		return d.Bind(ctx, v, bs)

	case map[string]interface{}:
		forced, err := Force(ctx, v)
		if err != nil {
			return nil, err
		}
		container, is := forced.(map[string]interface{})
		if !is {
			return nil, noMatchf(forced, "import needs a keyed container, not %T", forced)
		}

		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fv, found := container[k]
			if found {
				if fv, err = Force(ctx, fv); err != nil {
					return nil, err
				}
			}
			if !found || match.IsAbsent(fv) {
				return nil, &RequiredMissing{Key: k}
			}
			x, err := self(ctx, d[k], fv, bs)
			if err != nil {
				return nil, err
			}
			bs = x.(match.Bindings)
		}
		return bs, nil

	default:
		return nil, &BadDescriptor{descriptor}
	}
}
