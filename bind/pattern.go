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

// Package bind provides combinators over the structural matcher:
// first-match-wins dispatch (Matches), defaults for absent values
// (Default), self-reference for recursive functions (Recursive), and
// recursive destructuring of keyed containers (Import).
//
// A Pattern either accepts a value, returning extended Bindings, or
// rejects it with a NoMatch error.  NoMatch is the only recoverable
// signal here: Matches catches it to try the next case, and nothing
// else may swallow it.  Every other error is an evaluation error and
// propagates unchanged.
package bind

import (
	"context"
	"errors"
	"fmt"

	"github.com/bindkit/bindkit/match"
)

// Pattern accepts or rejects a value, optionally producing bindings.
//
// A Pattern must not modify the given Bindings; on success it returns
// an extended copy.  That way a failed Bind leaves no trace in the
// caller's scope.
type Pattern interface {
	Bind(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error)
}

// PatternFunc adapts a function to the Pattern interface.
type PatternFunc func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error)

func (f PatternFunc) Bind(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
	return f(ctx, v, bs)
}

// NoMatch reports that a Pattern rejected a value.
//
// NoMatch is recoverable: Matches catches it to fall through to the
// next case.  Any other error that comes out of a Bind is an
// evaluation error, which no combinator in this package recovers
// from.
type NoMatch struct {
	Value  interface{}
	Reason string
}

func (e *NoMatch) Error() string {
	if e.Reason == "" {
		return "no match"
	}
	return "no match: " + e.Reason
}

// IsNoMatch reports whether err is (or wraps) a NoMatch.
func IsNoMatch(err error) bool {
	var nm *NoMatch
	return errors.As(err, &nm)
}

// noMatchf makes a NoMatch with a formatted reason.
func noMatchf(v interface{}, format string, args ...interface{}) error {
	return &NoMatch{Value: v, Reason: fmt.Sprintf(format, args...)}
}

// Literal makes a Pattern from a structural pattern (see the match
// package).
//
// The input value is forced before matching.  If the matcher returns
// several sets of bindings (array patterns can do that), the first
// one wins.
func Literal(pattern interface{}) Pattern {
	return PatternFunc(func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
		forced, err := Force(ctx, v)
		if err != nil {
			return nil, err
		}
		bss, err := match.Match(pattern, forced, bs)
		if err != nil {
			return nil, err
		}
		if len(bss) == 0 {
			return nil, noMatchf(forced, "pattern %v rejected the value", pattern)
		}
		return bss[0], nil
	})
}

// Var makes a Pattern that binds any value to the variable '?name'.
func Var(name string) Pattern {
	return Literal("?" + name)
}
