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

// Absent marks a name that has no value bound to it.
//
// See the match package for the sentinel itself.
var Absent = match.Absent

// Thunk is an unforced value.
//
// A Thunk is forced by calling it, which can trigger arbitrary
// computation (including errors).  Combinators in this package force
// values only at the points documented on each combinator, never
// earlier.
type Thunk func(ctx context.Context) (interface{}, error)

// Const wraps an already-computed value as a Thunk.
func Const(x interface{}) Thunk {
	return func(context.Context) (interface{}, error) {
		return x, nil
	}
}

// Force resolves chains of Thunks until it reaches a value that isn't
// one.
//
// A bare func with a Thunk's signature counts as a Thunk, so callers
// don't have to remember the conversion.  Forcing is shallow: values
// inside a container are not forced.
func Force(ctx context.Context, v interface{}) (interface{}, error) {
	for {
		var t Thunk
		switch vv := v.(type) {
		case Thunk:
			t = vv
		case func(context.Context) (interface{}, error):
			t = vv
		default:
			return v, nil
		}
		x, err := t(ctx)
		if err != nil {
			return nil, err
		}
		v = x
	}
}

// Tag classifies a value as far as this package cares.
type Tag int

const (
	// TagOther covers everything this package is happy to pass
	// through untouched.
	TagOther Tag = iota

	// TagAbsent is the tag of the Absent sentinel.
	TagAbsent

	// TagMap is the tag of a keyed container
	// (map[string]interface{}).
	TagMap
)

func (t Tag) String() string {
	switch t {
	case TagAbsent:
		return "absent"
	case TagMap:
		return "map"
	default:
		return "other"
	}
}

// TagOf reports the Tag of the given value.
//
// TagOf does not force; force first if the value might be a Thunk.
func TagOf(v interface{}) Tag {
	switch v.(type) {
	case match.AbsentType:
		return TagAbsent
	case map[string]interface{}:
		return TagMap
	default:
		return TagOther
	}
}
