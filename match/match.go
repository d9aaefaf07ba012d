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

// Package match implements the structural pattern matcher that the
// bind combinators build on.
//
// A pattern is a JSON-shaped value: nil, bool, float64, string, array,
// or map.  A string starting with '?' is a pattern variable, which
// binds the value it is matched against.  '??x' marks an optional
// variable, and a bare '?' matches anything without binding.  A
// variable like '?<n', given an initial numeric binding, matches only
// numbers below that bound and binds '?n' to the matched number (see
// inequal for the other operators).
package match

import (
	"errors"
	"strings"
)

// IsVariable reports if the string represents a pattern variable.
//
// All pattern variables start with a '?'.
func IsVariable(s string) bool {
	return strings.HasPrefix(s, "?")
}

// IsOptionalVariable reports if x is a variable of the form '??x'.
//
// An optional variable is allowed to match nothing.
func IsOptionalVariable(x interface{}) bool {
	if s, is := x.(string); is {
		return strings.HasPrefix(s, "??")
	}
	return false
}

// IsAnonymousVariable detects a variable of the form '?'.  A binding
// for an anonymous variable never makes it into Bindings.
func IsAnonymousVariable(s string) bool {
	return s == "?"
}

// IsConstant reports if the string represents a constant (and not a
// pattern variable).
func IsConstant(s string) bool {
	return !IsVariable(s)
}

// UnknownPatternType is an error that includes the thing that's
// causing the trouble.
type UnknownPatternType struct {
	Pattern interface{}
}

func (e *UnknownPatternType) Error() string {
	return "unknown pattern type"
}

// Matches attempts to match the given fact with the given pattern,
// starting from empty Bindings.
//
// Note that this function returns multiple (sets of) bindings.  This
// ambiguity is introduced when a pattern contains an array that
// contains a variable.
func Matches(pattern interface{}, fact interface{}) ([]Bindings, error) {
	return Match(pattern, fact, make(Bindings))
}

// Match is a version of Matches that takes initial bindings.
//
// Those initial bindings are not modified.
func Match(pattern interface{}, fact interface{}, bindings Bindings) ([]Bindings, error) {
	if bindings == nil {
		bindings = make(Bindings)
	}
	return match(pattern, fact, bindings.Copy())
}

// fudge casts numbers to float64s so that JSON-decoded and literal
// numbers compare equal.
func fudge(x interface{}) interface{} {
	switch vv := x.(type) {
	case float64:
		return vv
	case float32:
		return float64(vv)
	case int64:
		return float64(vv)
	case int32:
		return float64(vv)
	case int:
		return float64(vv)
	default:
		return x
	}
}

// match is the recursive matcher.  The given bindings can be
// modified.
func match(pattern interface{}, fact interface{}, bs Bindings) ([]Bindings, error) {
	pattern = fudge(pattern)
	fact = fudge(fact)

	switch p := pattern.(type) {
	case nil:
		if fact == nil {
			return []Bindings{bs}, nil
		}
		return nil, nil

	case bool:
		if f, is := fact.(bool); is && p == f {
			return []Bindings{bs}, nil
		}
		return nil, nil

	case float64:
		if f, is := fact.(float64); is && p == f {
			return []Bindings{bs}, nil
		}
		return nil, nil

	case string:
		if IsConstant(p) {
			if f, is := fact.(string); is && p == f {
				return []Bindings{bs}, nil
			}
			return nil, nil
		}
		if IsAnonymousVariable(p) {
			return []Bindings{bs}, nil
		}
		if used, bss := inequal(p, fact, bs); used {
			return bss, nil
		}
		if binding, bound := bs[p]; bound {
			return match(binding, fact, bs)
		}
		bs[p] = fact
		return []Bindings{bs}, nil

	case AbsentType:
		if IsAbsent(fact) {
			return []Bindings{bs}, nil
		}
		return nil, nil

	case map[string]interface{}:
		f, is := fact.(map[string]interface{})
		if !is {
			return nil, nil
		}
		return matchMap(p, f, bs)

	case []interface{}:
		f, is := fact.([]interface{})
		if !is {
			return nil, nil
		}
		return matchArray(p, f, bs)

	default:
		return nil, &UnknownPatternType{pattern}
	}
}

// inequal handles an inequality variable: a variable like "?<n" with
// an operator ("<", "<=", ">", ">=", "!=") right after its '?'.
//
// An inequality variable must arrive already bound to a number.  A
// numeric fact then matches only if fact op binding holds, and the
// plain form of the variable ("?n") is bound to the fact.  Only
// numbers participate; anything else falls back to ordinary variable
// treatment, which the first result reports.
func inequal(v string, fact interface{}, bs Bindings) (bool, []Bindings) {
	bound, have := bs[v]
	if !have {
		return false, nil
	}
	limit, is := fudge(bound).(float64)
	if !is {
		return false, nil
	}
	f, is := fact.(float64)
	if !is {
		return false, nil
	}

	var op, plain string
	for _, candidate := range []string{"<=", ">=", "!=", "<", ">"} {
		if strings.HasPrefix(v[1:], candidate) {
			op = candidate
			plain = "?" + v[1+len(candidate):]
			break
		}
	}
	if op == "" || plain == "?" {
		return false, nil
	}

	var satisfied bool
	switch op {
	case "<":
		satisfied = f < limit
	case "<=":
		satisfied = f <= limit
	case ">":
		satisfied = f > limit
	case ">=":
		satisfied = f >= limit
	case "!=":
		satisfied = f != limit
	}
	if !satisfied {
		return true, nil
	}

	if prior, have := bs[plain]; have {
		p, is := fudge(prior).(float64)
		if !is {
			return false, nil
		}
		if p != f {
			return true, nil
		}
		return true, []Bindings{bs}
	}

	bs[plain] = f
	return true, []Bindings{bs}
}

// matchMap matches a map pattern against a map fact.
//
// An empty map pattern matches any map.  A variable as a key is a
// property variable, which is only allowed when it is the pattern's
// sole key.
func matchMap(pattern, fact map[string]interface{}, bs Bindings) ([]Bindings, error) {
	if v, prop := propertyVariable(pattern); prop != "" {
		if 1 < len(pattern) {
			return nil, errors.New(`can't have a variable as a key ("` + prop + `") with other keys`)
		}
		// Try the property variable against every fact key.
		var gather []Bindings
		for fk, fv := range fact {
			kbss, err := match(prop, fk, bs.Copy())
			if err != nil {
				return nil, err
			}
			for _, kbs := range kbss {
				vbss, err := match(v, fv, kbs)
				if err != nil {
					return nil, err
				}
				gather = append(gather, vbss...)
			}
		}
		return gather, nil
	}

	bss := []Bindings{bs}
	for k, v := range pattern {
		fv, found := fact[k]
		if !found {
			if IsOptionalVariable(v) {
				continue
			}
			return nil, nil
		}
		var acc []Bindings
		for _, candidate := range bss {
			more, err := match(v, fv, candidate.Copy())
			if err != nil {
				return nil, err
			}
			acc = append(acc, more...)
		}
		if len(acc) == 0 {
			return nil, nil
		}
		bss = acc
	}
	return bss, nil
}

// propertyVariable returns the value and key of a pattern's property
// variable (if any).
func propertyVariable(pattern map[string]interface{}) (interface{}, string) {
	for k, v := range pattern {
		if IsVariable(k) {
			return v, k
		}
	}
	return nil, ""
}

// matchArray matches an array pattern against an array fact.
//
// An array represents a set: each pattern element must match a
// distinct fact element, in any order.  This function can backtrack,
// which can be scary.
func matchArray(pattern, fact []interface{}, bs Bindings) ([]Bindings, error) {
	used := make([]bool, len(fact))
	return matchElements(pattern, fact, used, bs)
}

func matchElements(pattern, fact []interface{}, used []bool, bs Bindings) ([]Bindings, error) {
	if len(pattern) == 0 {
		return []Bindings{bs}, nil
	}

	p, rest := pattern[0], pattern[1:]

	var gather []Bindings
	for i, f := range fact {
		if used[i] {
			continue
		}
		bss, err := match(p, f, bs.Copy())
		if err != nil {
			return nil, err
		}
		used[i] = true
		for _, candidate := range bss {
			more, err := matchElements(rest, fact, used, candidate)
			if err != nil {
				return nil, err
			}
			gather = append(gather, more...)
		}
		used[i] = false
	}

	if len(gather) == 0 && IsOptionalVariable(p) {
		// An optional variable is allowed to consume nothing.
		return matchElements(rest, fact, used, bs)
	}

	return gather, nil
}
