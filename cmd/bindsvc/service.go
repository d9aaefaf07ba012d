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

package main

import (
	"context"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bindkit/bindkit/rules"
	"github.com/bindkit/bindkit/storage"
)

// Service fronts a ruleset registry and applies compiled rulesets to
// messages.
//
// Compiled rulesets are cached; a Put or Rem invalidates the cache
// entry.
type Service struct {
	Registry     storage.Registry
	Interpreters rules.InterpretersMap
	Debug        bool

	sync.Mutex
	compiled map[string]*rules.Ruleset
}

func NewService(r storage.Registry, interpreters rules.InterpretersMap) *Service {
	return &Service{
		Registry:     r,
		Interpreters: interpreters,
		compiled:     make(map[string]*rules.Ruleset),
	}
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf(format, args...)
	}
}

// Ruleset gets the compiled ruleset with the given id, loading and
// compiling it if necessary.
func (s *Service) Ruleset(ctx context.Context, id string) (*rules.Ruleset, error) {
	s.Lock()
	rs, have := s.compiled[id]
	s.Unlock()
	if have {
		return rs, nil
	}

	rs, err := storage.Load(ctx, s.Registry, id, s.Interpreters)
	if err != nil {
		return nil, err
	}

	s.Lock()
	s.compiled[id] = rs
	s.Unlock()

	return rs, nil
}

// Put stores ruleset source and invalidates any cached compilation.
//
// The source is parsed and compiled first, so a bad ruleset is
// rejected instead of stored.
func (s *Service) Put(ctx context.Context, id string, source []byte) error {
	rs, err := rules.ParseRuleset(source)
	if err != nil {
		return err
	}
	if err := rs.Compile(ctx, s.Interpreters); err != nil {
		return err
	}

	if err := s.Registry.Put(ctx, id, source); err != nil {
		return err
	}

	s.Lock()
	delete(s.compiled, id)
	s.Unlock()

	s.logf("stored ruleset %s", id)
	return nil
}

// Rem removes a ruleset.
func (s *Service) Rem(ctx context.Context, id string) (bool, error) {
	had, err := s.Registry.Rem(ctx, id)
	if err != nil {
		return false, err
	}

	s.Lock()
	delete(s.compiled, id)
	s.Unlock()

	return had, nil
}

// Apply applies the ruleset with the given id to the message.
func (s *Service) Apply(ctx context.Context, id string, msg interface{}, props rules.Props) ([]*rules.Outcome, error) {
	rs, err := s.Ruleset(ctx, id)
	if err != nil {
		return nil, err
	}
	return rs.Apply(ctx, msg, props)
}

// LoadDir stores every .yaml, .yml, and .json file in the directory
// as a ruleset named by the file's base name.
func (s *Service) LoadDir(ctx context.Context, dir string) error {
	filenames, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return err
	}
	for _, filename := range filenames {
		ext := filepath.Ext(filename)
		switch ext {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		source, err := ioutil.ReadFile(filename)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(filepath.Base(filename), ext)
		if err := s.Put(ctx, id, source); err != nil {
			return err
		}
		s.logf("loaded ruleset %s from %s", id, filename)
	}
	return nil
}
