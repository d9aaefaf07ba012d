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

// Package main is an HTTP service that stores rulesets and applies
// them to messages.
//
//	bindsvc -c bindsvc.yaml
//
// See Config for the environment variables.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/bindkit/bindkit/interpreters"
	"github.com/bindkit/bindkit/storage"
	"github.com/bindkit/bindkit/storage/bolt"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC)
}

func main() {
	var (
		configFilename = flag.String("c", "", "optional YAML config filename")
	)

	flag.Parse()

	cfg, err := LoadConfig(*configFilename)
	if err != nil {
		log.Fatalf("config error: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var registry storage.Registry
	if cfg.BoltFile != "" {
		r := bolt.NewRegistry(cfg.BoltFile)
		r.Debug = cfg.Debug
		if err := r.Open(); err != nil {
			log.Fatalf("error opening %s: %s", cfg.BoltFile, err)
		}
		defer r.Close()
		registry = r
	} else {
		registry = storage.NewMemory()
	}

	s := NewService(registry, interpreters.Standard())
	s.Debug = cfg.Debug

	if cfg.RulesetDir != "" {
		if err := s.LoadDir(ctx, cfg.RulesetDir); err != nil {
			log.Fatalf("error loading %s: %s", cfg.RulesetDir, err)
		}
	}

	log.Printf("listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, s.Mux(cfg.FetchTimeout)))
}
