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

package goja

import (
	"context"
	"testing"
	"time"

	"github.com/bindkit/bindkit/match"
	"github.com/bindkit/bindkit/rules"
)

func TestGuardSimple(t *testing.T) {
	code := `return {likes:"chips"};`

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	i.Testing = true
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, nil, nil, code, compiled)
	if err != nil {
		t.Fatal(err)
	}
	x, have := exe.Bs["likes"]
	if !have {
		t.Fatalf("nothing liked in %#v", exe.Bs)
	}
	if s, is := x.(string); !is || s != "chips" {
		t.Fatalf("didn't want %#v", x)
	}
}

func TestGuardVeto(t *testing.T) {
	code := `return null;`

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, match.Bindings{"?x": 1}, nil, code, compiled)
	if err != nil {
		t.Fatal(err)
	}
	if exe.Bs != nil {
		t.Fatalf("a null result should veto; got %#v", exe.Bs)
	}
}

func TestGuardBindings(t *testing.T) {
	code := `
var bs = _.bindings;
bs["?bigger"] = bs["?n"] + 1;
return bs;
`

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, match.Bindings{"?n": float64(2)}, nil, code, compiled)
	if err != nil {
		t.Fatal(err)
	}
	if exe.Bs["?bigger"] != float64(3) {
		t.Fatalf("got %#v", exe.Bs)
	}
}

func TestGuardProps(t *testing.T) {
	code := `return {ruleset:_.props.rid};`

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, nil, rules.Props{"rid": "doorbell"}, code, compiled)
	if err != nil {
		t.Fatal(err)
	}
	if exe.Bs["ruleset"] != "doorbell" {
		t.Fatalf("got %#v", exe.Bs)
	}
}

func TestGuardOut(t *testing.T) {
	code := `_.out({alert:"doorbell"}); return {};`

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, nil, nil, code, compiled)
	if err != nil {
		t.Fatal(err)
	}
	if len(exe.Emitted) != 1 {
		t.Fatalf("emitted %#v", exe.Emitted)
	}
}

func TestGuardMatch(t *testing.T) {
	code := `
var bss = _.match({"wants":"?w"}, {"wants":"tacos"}, {});
if (bss.length != 1) {
  throw "no match";
}
return bss[0];
`

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, nil, nil, code, compiled)
	if err != nil {
		t.Fatal(err)
	}
	if exe.Bs["?w"] != "tacos" {
		t.Fatalf("got %#v", exe.Bs)
	}
}

func TestGuardTimeout(t *testing.T) {
	code := `for (;;) { sleep(10); } null;`

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	i.Testing = true
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = i.Exec(ctx, nil, nil, code, compiled); err == nil {
		t.Fatal("didn't timeout")
	} else if err.Error() != InterruptedMessage {
		t.Fatalf("surprised by \"%s\"", err.Error())
	}
}

func TestGuardRequires(t *testing.T) {
	i := NewInterpreter()
	i.LibraryProvider = MakeMapLibraryProvider(map[string]string{
		"greetings": `function greet(who) { return "hello " + who; }`,
	})

	src := map[string]interface{}{
		"requires": "greetings",
		"code":     `return {greeting: greet("world")};`,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	compiled, err := i.Compile(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, nil, nil, src, compiled)
	if err != nil {
		t.Fatal(err)
	}
	if exe.Bs["greeting"] != "hello world" {
		t.Fatalf("got %#v", exe.Bs)
	}
}

func TestGuardCronNext(t *testing.T) {
	code := `return {at: _.cronNext("0 0 * * *")};`

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	exe, err := i.Exec(ctx, nil, nil, code, compiled)
	if err != nil {
		t.Fatal(err)
	}
	if _, have := exe.Bs["at"]; !have {
		t.Fatalf("got %#v", exe.Bs)
	}
}
