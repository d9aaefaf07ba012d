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

// Package storage provides registries of ruleset sources.
//
// A registry stores serialized rulesets (YAML or JSON), not compiled
// ones: guards compile against whatever interpreters the loading
// process has.
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/bindkit/bindkit/rules"
)

// NotFound is returned by Get for an unknown id.
var NotFound = errors.New("ruleset not found")

// Registry stores ruleset sources by id.
type Registry interface {
	// Put stores (or replaces) a ruleset source.
	Put(ctx context.Context, id string, source []byte) error

	// Get returns the stored source, or NotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// List returns the stored ids.
	List(ctx context.Context) ([]string, error)

	// Rem removes a ruleset.  Returns false if nothing was
	// there.
	Rem(ctx context.Context, id string) (bool, error)
}

// Load gets a ruleset from the registry, parses it, and compiles it
// with the given interpreters.
func Load(ctx context.Context, r Registry, id string, interpreters rules.InterpretersMap) (*rules.Ruleset, error) {
	source, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rs, err := rules.ParseRuleset(source)
	if err != nil {
		return nil, err
	}
	if rs.Name == "" {
		rs.Name = id
	}
	if err := rs.Compile(ctx, interpreters); err != nil {
		return nil, err
	}
	return rs, nil
}

// Memory is an in-process Registry.
//
// Not glamorous or efficient.
type Memory struct {
	sync.RWMutex
	sources map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		sources: make(map[string][]byte, 8),
	}
}

func (m *Memory) Put(ctx context.Context, id string, source []byte) error {
	m.Lock()
	defer m.Unlock()
	copied := make([]byte, len(source))
	copy(copied, source)
	m.sources[id] = copied
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()
	source, have := m.sources[id]
	if !have {
		return nil, NotFound
	}
	return source, nil
}

func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.RLock()
	defer m.RUnlock()
	ids := make([]string, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *Memory) Rem(ctx context.Context, id string) (bool, error) {
	m.Lock()
	defer m.Unlock()
	_, have := m.sources[id]
	delete(m.sources, id)
	return have, nil
}
