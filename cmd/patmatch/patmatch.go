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

// Package main is a little command-line utility to invoke pattern matching.
//
//	patmatch -p '{"likes":"?liked"}' -m '{"likes":"tacos"}'
//
// With -w, checks that the wanted bindings appear in the result and
// prints "true" or "false".
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"runtime"
	"time"

	"github.com/bindkit/bindkit/match"
)

func main() {
	var (
		messageJS  = flag.String("m", "", "message in JSON")
		patternJS  = flag.String("p", "", "pattern in JSON")
		bindingsJS = flag.String("b", "{}", "initial bindings in JSON")
		wantJS     = flag.String("w", "", "wanted bindings in JSON")

		bench = flag.Int("bench", 0, "number of times to run (and report time)")

		verbose = flag.Bool("v", false, "verbosity")
	)

	flag.Parse()

	message := parse(*messageJS, "message")
	pattern := parse(*patternJS, "pattern")

	var bindings match.Bindings
	if *bindingsJS != "" {
		if err := json.Unmarshal([]byte(*bindingsJS), &bindings); err != nil {
			log.Fatalf("bad bindings: %s", err)
		}
	}

	var want []match.Bindings
	if *wantJS != "" {
		if err := json.Unmarshal([]byte(*wantJS), &want); err != nil {
			log.Fatalf("bad wanted bindings: %s", err)
		}
	}

	if 0 < *bench {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		allocs := stats.TotalAlloc
		then := time.Now()
		for i := 0; i < *bench; i++ {
			if _, err := match.Match(pattern, message, bindings); err != nil {
				log.Fatal(err)
			}
		}
		elapsed := time.Now().Sub(then)
		meanNanos := elapsed.Nanoseconds() / int64(*bench)

		runtime.ReadMemStats(&stats)
		allocated := (stats.TotalAlloc - allocs) / uint64(*bench)

		log.Printf("%d iterations, %d mean ns/Match, %d mean bytes allocated per Match", *bench, meanNanos, allocated)
	}

	bss, err := match.Match(pattern, message, bindings)
	if err != nil {
		log.Fatal(err)
	}

	if want != nil {
		// Check that each wanted Bindings appeared (exactly) in
		// what we got.
	WANTED:
		for _, wantedBs := range want {
			for _, haveBs := range bss {
				if sameBindings(wantedBs, haveBs, *verbose) {
					continue WANTED
				}
			}
			fmt.Printf("false\n")
			os.Exit(1)
		}
		fmt.Printf("true\n")
		return
	}

	bssJS, err := json.Marshal(&bss)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s\n", bssJS)
}

func parse(js, what string) interface{} {
	var x interface{}
	if js == "" {
		return x
	}
	if err := json.Unmarshal([]byte(js), &x); err != nil {
		log.Fatalf("bad %s: %s", what, err)
	}
	return x
}

// sameBindings checks that x and y have the same variables bound to
// the same values.
//
// Uses reflect.DeepEqual to do the hard work.
func sameBindings(x, y match.Bindings, verbose bool) bool {
	if len(x) != len(y) {
		return false
	}
	for p, bx := range x {
		by, have := y[p]
		if !have {
			return false
		}
		if !reflect.DeepEqual(bx, by) {
			if verbose {
				xjs, _ := json.Marshal(&bx)
				yjs, _ := json.Marshal(&by)
				fmt.Printf("disagreement at %s: %s != %s\n", p, xjs, yjs)
			}
			return false
		}
	}
	return true
}
