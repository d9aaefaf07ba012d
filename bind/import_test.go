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
	"errors"
	"testing"

	"github.com/bindkit/bindkit/match"
	. "github.com/bindkit/bindkit/util/testutil"
)

func TestImportTerminal(t *testing.T) {
	ctx := context.Background()

	// A terminal descriptor behaves exactly like the pattern
	// itself.
	p := Import(Var("x"))
	bs, err := p.Bind(ctx, "tacos", match.NewBindings())
	if err != nil {
		t.Fatal(err)
	}
	if bs["?x"] != "tacos" {
		t.Fatalf("got %s", JS(bs))
	}

	p = Import(Literal("queso"))
	if _, err = p.Bind(ctx, "tacos", match.NewBindings()); !IsNoMatch(err) {
		t.Fatalf("wanted NoMatch, got %v", err)
	}
}

func TestImportFlat(t *testing.T) {
	ctx := context.Background()

	p := Import(map[string]interface{}{
		"a": Var("a"),
		"b": Var("b"),
	})

	bs, err := p.Bind(ctx, map[string]interface{}{
		"a": float64(1),
		"b": "two",
	}, match.NewBindings())
	if err != nil {
		t.Fatal(err)
	}
	if bs["?a"] != float64(1) || bs["?b"] != "two" {
		t.Fatalf("got %s", JS(bs))
	}
}

func TestImportNested(t *testing.T) {
	ctx := context.Background()

	p := Import(map[string]interface{}{
		"a": map[string]interface{}{
			"c": Var("c"),
		},
	})

	bs, err := p.Bind(ctx, Dwimjs(`{"a":{"c":5}}`), match.NewBindings())
	if err != nil {
		t.Fatal(err)
	}
	if bs["?c"] != float64(5) {
		t.Fatalf("got %s", JS(bs))
	}
}

func TestImportRequired(t *testing.T) {
	ctx := context.Background()

	// Even though the sub-descriptor for "b" would happily accept
	// Absent, the presence check comes first and must win.
	p := Import(map[string]interface{}{
		"a": Var("a"),
		"b": Default(Var("b"), Const("fallback")),
	})

	_, err := p.Bind(ctx, map[string]interface{}{
		"a": float64(1),
		"b": Absent,
	}, match.NewBindings())

	var rm *RequiredMissing
	if !errors.As(err, &rm) {
		t.Fatalf("wanted RequiredMissing, got %v", err)
	}
	if rm.Key != "b" {
		t.Fatalf(`wanted key "b", got %q`, rm.Key)
	}
	if IsNoMatch(err) {
		t.Fatal("a missing required field is not a NoMatch")
	}

	// A key that's missing entirely is just as required.
	_, err = p.Bind(ctx, map[string]interface{}{
		"a": float64(1),
	}, match.NewBindings())
	if !errors.As(err, &rm) || rm.Key != "b" {
		t.Fatalf("wanted RequiredMissing for b, got %v", err)
	}
}

func TestImportNotAContainer(t *testing.T) {
	ctx := context.Background()

	p := Import(map[string]interface{}{"a": Var("a")})
	if _, err := p.Bind(ctx, "not a map", match.NewBindings()); !IsNoMatch(err) {
		t.Fatalf("wanted NoMatch, got %v", err)
	}
}

func TestImportBadDescriptor(t *testing.T) {
	ctx := context.Background()

	_, err := Import(42).Bind(ctx, "x", match.NewBindings())
	var bad *BadDescriptor
	if !errors.As(err, &bad) {
		t.Fatalf("wanted BadDescriptor, got %v", err)
	}
}

func TestImportAtomicity(t *testing.T) {
	ctx := context.Background()

	p := Import(map[string]interface{}{
		"a": Var("a"),
		"z": Literal("never"),
	})

	bs := match.NewBindings().Extend("?keep", "me")
	_, err := p.Bind(ctx, Dwimjs(`{"a":1,"z":"nope"}`), bs)
	if err == nil {
		t.Fatal("expected a failure")
	}

	// The caller's bindings don't pick up partial results from
	// the failed application.
	if len(bs) != 1 || bs["?keep"] != "me" {
		t.Fatalf("caller's bindings were disturbed: %s", JS(bs))
	}
}

func TestImportLazyEntries(t *testing.T) {
	ctx := context.Background()

	forced := false
	v := map[string]interface{}{
		"a": Thunk(func(context.Context) (interface{}, error) {
			forced = true
			return "lazy", nil
		}),
	}

	bs, err := Import(map[string]interface{}{"a": Var("a")}).Bind(ctx, v, match.NewBindings())
	if err != nil {
		t.Fatal(err)
	}
	if !forced || bs["?a"] != "lazy" {
		t.Fatalf("got %s (forced=%v)", JS(bs), forced)
	}
}

func TestRequiredPattern(t *testing.T) {
	ctx := context.Background()

	p := Required(Var("x"))

	bs, err := p.Bind(ctx, "here", match.NewBindings())
	if err != nil {
		t.Fatal(err)
	}
	if bs["?x"] != "here" {
		t.Fatalf("got %s", JS(bs))
	}

	_, err = p.Bind(ctx, Absent, match.NewBindings())
	var rm *RequiredMissing
	if !errors.As(err, &rm) {
		t.Fatalf("wanted RequiredMissing, got %v", err)
	}
}

func TestOfType(t *testing.T) {
	ctx := context.Background()

	p := OfType(TagMap, Literal(map[string]interface{}{}))

	if _, err := p.Bind(ctx, map[string]interface{}{"a": 1.0}, match.NewBindings()); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Bind(ctx, "nope", match.NewBindings()); !IsNoMatch(err) {
		t.Fatalf("wanted NoMatch, got %v", err)
	}
}
