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

package match

import (
	"fmt"
	"reflect"
	"testing"

	. "github.com/bindkit/bindkit/util/testutil"
)

type matchTest struct {
	title   string
	pattern string
	fact    string
	want    []Bindings
	err     bool
}

var matchTests = []matchTest{
	{
		title:   "constant",
		pattern: `{"likes":"tacos"}`,
		fact:    `{"likes":"tacos","when":"now"}`,
		want:    []Bindings{{}},
	},
	{
		title:   "simple variable",
		pattern: `{"likes":"?liked"}`,
		fact:    `{"likes":"tacos"}`,
		want:    []Bindings{{"?liked": "tacos"}},
	},
	{
		title:   "no match",
		pattern: `{"likes":"tacos"}`,
		fact:    `{"likes":"queso"}`,
		want:    nil,
	},
	{
		title:   "missing key",
		pattern: `{"likes":"?liked"}`,
		fact:    `{"wants":"tacos"}`,
		want:    nil,
	},
	{
		title:   "optional variable on a missing key",
		pattern: `{"likes":"tacos","opt":"??maybe"}`,
		fact:    `{"likes":"tacos"}`,
		want:    []Bindings{{}},
	},
	{
		title:   "anonymous variable",
		pattern: `{"likes":"?"}`,
		fact:    `{"likes":"tacos"}`,
		want:    []Bindings{{}},
	},
	{
		title:   "nested maps",
		pattern: `{"a":{"b":"?x"}}`,
		fact:    `{"a":{"b":3}}`,
		want:    []Bindings{{"?x": float64(3)}},
	},
	{
		title:   "empty map pattern matches any map",
		pattern: `{}`,
		fact:    `{"a":1}`,
		want:    []Bindings{{}},
	},
	{
		title:   "consistent rebinding",
		pattern: `{"a":"?x","b":"?x"}`,
		fact:    `{"a":1,"b":1}`,
		want:    []Bindings{{"?x": float64(1)}},
	},
	{
		title:   "inconsistent rebinding",
		pattern: `{"a":"?x","b":"?x"}`,
		fact:    `{"a":1,"b":2}`,
		want:    nil,
	},
	{
		title:   "array as a set",
		pattern: `["a","?x"]`,
		fact:    `["b","a"]`,
		want:    []Bindings{{"?x": "b"}},
	},
	{
		title:   "array with multiple answers",
		pattern: `["?x"]`,
		fact:    `["a","b"]`,
		want:    []Bindings{{"?x": "a"}, {"?x": "b"}},
	},
	{
		title:   "property variable",
		pattern: `{"?p":1}`,
		fact:    `{"a":1,"b":2}`,
		want:    []Bindings{{"?p": "a"}},
	},
	{
		title:   "property variable with other keys",
		pattern: `{"?p":1,"b":2}`,
		fact:    `{"a":1,"b":2}`,
		err:     true,
	},
	{
		title:   "null is a value",
		pattern: `{"a":null}`,
		fact:    `{"a":null}`,
		want:    []Bindings{{}},
	},
	{
		title:   "number normalization",
		pattern: `{"n":1}`,
		fact:    `{"n":1}`,
		want:    []Bindings{{}},
	},
}

func (mt matchTest) name(i int) string {
	if mt.title == "" {
		return fmt.Sprintf("%d", i)
	}
	return fmt.Sprintf("%03d %s", i, mt.title)
}

func TestMatch(t *testing.T) {
	for i, mt := range matchTests {
		t.Run(mt.name(i), func(t *testing.T) {
			bss, err := Matches(Dwimjs(mt.pattern), Dwimjs(mt.fact))
			if mt.err {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !sameBindingss(bss, mt.want) {
				t.Fatalf("got %s, wanted %s", JS(bss), JS(mt.want))
			}
		})
	}
}

// sameBindingss compares two sets of bindings without regard to
// order.
func sameBindingss(got []Bindings, want []Bindings) bool {
	if len(got) != len(want) {
		return false
	}
	remaining := make(map[int]Bindings, len(got))
	for i, bs := range got {
		remaining[i] = bs
	}
	for _, w := range want {
		found := false
		for i, g := range remaining {
			if reflect.DeepEqual(map[string]interface{}(w), map[string]interface{}(g)) {
				delete(remaining, i)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return len(remaining) == 0
}

func TestMatchInitialBindings(t *testing.T) {
	bs := Bindings{"?x": "tacos"}
	bss, err := Match(Dwimjs(`{"likes":"?x"}`), Dwimjs(`{"likes":"tacos"}`), bs)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 1 {
		t.Fatalf("got %s", JS(bss))
	}

	bss, err = Match(Dwimjs(`{"likes":"?x"}`), Dwimjs(`{"likes":"queso"}`), bs)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 0 {
		t.Fatalf("got %s", JS(bss))
	}

	// The caller's bindings are never modified.
	if len(bs) != 1 {
		t.Fatalf("initial bindings were modified: %s", JS(bs))
	}
}

func TestMatchInequalities(t *testing.T) {
	// "?<n" bound to 10 accepts numbers below 10 and binds "?n".
	bs := Bindings{"?<n": float64(10)}
	bss, err := Match(Dwimjs(`{"n":"?<n"}`), Dwimjs(`{"n":3}`), bs)
	if err != nil {
		t.Fatal(err)
	}
	want := []Bindings{{"?<n": float64(10), "?n": float64(3)}}
	if !sameBindingss(bss, want) {
		t.Fatalf("got %s, wanted %s", JS(bss), JS(want))
	}

	// 11 is not below 10.
	bss, err = Match(Dwimjs(`{"n":"?<n"}`), Dwimjs(`{"n":11}`), bs)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 0 {
		t.Fatalf("got %s", JS(bss))
	}

	for _, ineq := range []struct {
		v    string
		fact string
		ok   bool
	}{
		{"?<=n", `{"n":10}`, true},
		{"?<=n", `{"n":11}`, false},
		{"?>n", `{"n":11}`, true},
		{"?>n", `{"n":10}`, false},
		{"?>=n", `{"n":10}`, true},
		{"?>=n", `{"n":9}`, false},
		{"?!=n", `{"n":9}`, true},
		{"?!=n", `{"n":10}`, false},
	} {
		pattern := map[string]interface{}{"n": ineq.v}
		bss, err := Match(pattern, Dwimjs(ineq.fact), Bindings{ineq.v: 10})
		if err != nil {
			t.Fatal(err)
		}
		if ineq.ok && len(bss) != 1 {
			t.Fatalf("%s=10 should have matched %s", ineq.v, ineq.fact)
		}
		if !ineq.ok && len(bss) != 0 {
			t.Fatalf("%s=10 should not have matched %s", ineq.v, ineq.fact)
		}
	}

	// A "?n" already bound to something else rejects the fact.
	bs = Bindings{"?<n": 10, "?n": 4}
	bss, err = Match(Dwimjs(`{"n":"?<n"}`), Dwimjs(`{"n":3}`), bs)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 0 {
		t.Fatalf("got %s", JS(bss))
	}

	// Without an initial binding, "?<n" is just a funny variable
	// name.
	bss, err = Match(Dwimjs(`{"n":"?<n"}`), Dwimjs(`{"n":3}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 1 || bss[0]["?<n"] != float64(3) {
		t.Fatalf("got %s", JS(bss))
	}

	// Non-numeric facts get ordinary variable treatment, so the
	// (numeric) binding for "?<n" can't equal the fact.
	bss, err = Match(Dwimjs(`{"n":"?<n"}`), Dwimjs(`{"n":"three"}`), Bindings{"?<n": 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 0 {
		t.Fatalf("got %s", JS(bss))
	}
}

func TestMatchAbsent(t *testing.T) {
	bss, err := Matches(Absent, Absent)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 1 {
		t.Fatal("Absent should match Absent")
	}

	bss, err = Matches(Absent, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 0 {
		t.Fatal("Absent should not match null")
	}

	// A variable binds Absent like any other value.
	bss, err = Matches("?x", Absent)
	if err != nil {
		t.Fatal(err)
	}
	if len(bss) != 1 || !IsAbsent(bss[0]["?x"]) {
		t.Fatalf("got %s", JS(bss))
	}
}

func TestBindingsHelpers(t *testing.T) {
	bs := NewBindings()
	bs.Extend("?a", 1).Extend("?b", 2)

	clone := bs.Copy()
	clone.Remove("?a")
	if _, have := bs["?a"]; !have {
		t.Fatal("Copy should not share storage")
	}

	bs.DeleteExcept("?b")
	if _, have := bs["?a"]; have {
		t.Fatal("DeleteExcept kept ?a")
	}
	if _, have := bs["?b"]; !have {
		t.Fatal("DeleteExcept dropped ?b")
	}

	if _, err := bs.Extendm("?c", 3, "?d"); err == nil {
		t.Fatal("odd Extendm args should be an error")
	}
	if _, err := bs.Extendm(7, 3); err == nil {
		t.Fatal("non-string Extendm key should be an error")
	}
}
