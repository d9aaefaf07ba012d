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

// Matches combines cases into a single Pattern with first-match-wins
// dispatch.
//
// The input is forced once, then tried against each case in the given
// order.  A case that fails with NoMatch just means "try the next
// one".  Any other error stops the dispatch immediately: evaluation
// errors are not an invitation to keep looking.  The first case that
// succeeds commits; its bindings are the result, and commitment is
// final.
//
// With no cases, the resulting Pattern rejects everything.
func Matches(cases ...Pattern) Pattern {
	return PatternFunc(func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
		forced, err := Force(ctx, v)
		if err != nil {
			return nil, err
		}
		for _, c := range cases {
			got, err := c.Bind(ctx, forced, bs)
			if err == nil {
				return got, nil
			}
			if IsNoMatch(err) {
				continue
			}
			return nil, err
		}
		return nil, noMatchf(forced, "none of %d cases matched", len(cases))
	})
}
