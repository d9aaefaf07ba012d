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
)

func TestRecursiveFactorial(t *testing.T) {
	ctx := context.Background()

	fact := Recursive(func(ctx context.Context, self Func, args ...interface{}) (interface{}, error) {
		n := args[0].(int)
		if n == 0 {
			return 1, nil
		}
		smaller, err := self(ctx, n-1)
		if err != nil {
			return nil, err
		}
		return n * smaller.(int), nil
	})

	for _, c := range []struct{ n, want int }{{0, 1}, {1, 1}, {3, 6}, {10, 3628800}} {
		got, err := fact(ctx, c.n)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("fact(%d) = %v, wanted %d", c.n, got, c.want)
		}
	}
}

func TestRecursiveErrorPropagation(t *testing.T) {
	ctx := context.Background()

	boom := errors.New("boom")
	f := Recursive(func(ctx context.Context, self Func, args ...interface{}) (interface{}, error) {
		n := args[0].(int)
		if n == 0 {
			return nil, boom
		}
		return self(ctx, n-1)
	})

	// The error surfaces from deep in the recursion unchanged.
	if _, err := f(ctx, 5); err != boom {
		t.Fatalf("wanted boom, got %v", err)
	}
}
