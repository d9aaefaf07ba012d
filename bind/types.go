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

// Required rejects Absent with a RequiredMissing error and otherwise
// delegates to p.
//
// The error carries no key because this pattern doesn't know where it
// is; Import supplies the key when it does the same check itself.
func Required(p Pattern) Pattern {
	return PatternFunc(func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
		forced, err := Force(ctx, v)
		if err != nil {
			return nil, err
		}
		if TagOf(forced) == TagAbsent {
			return nil, &RequiredMissing{}
		}
		return p.Bind(ctx, forced, bs)
	})
}

// Optional is Default with nicer intent: bind p against the value, or
// against the fallback if the value is Absent.
func Optional(p Pattern, fallback Thunk) Pattern {
	return Default(p, fallback)
}

// OfType delegates to p only when the forced value has the given
// tag; anything else is a NoMatch.
func OfType(tag Tag, p Pattern) Pattern {
	return PatternFunc(func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
		forced, err := Force(ctx, v)
		if err != nil {
			return nil, err
		}
		if TagOf(forced) != tag {
			return nil, noMatchf(forced, "want tag %s, have %s", tag, TagOf(forced))
		}
		return p.Bind(ctx, forced, bs)
	})
}
