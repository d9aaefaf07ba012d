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

package rules

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"strings"

	// The standard YAML parser returns map[interface{}]interface{},
	// which is correct but inconvenient.  This fork returns
	// map[string]interface{}, which is what the matcher eats.
	"github.com/jsccast/yaml"
)

// ParseRuleset parses YAML (or JSON, which is YAML) into a Ruleset.
//
// Rules pick up their map keys as names if they don't declare their
// own.  The result still needs Compile()ing before use.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	if err := check(&rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// check rejects rulesets with no (or empty) rules and defaults rule
// names to their map keys.
func check(rs *Ruleset) error {
	if len(rs.Rules) == 0 {
		return errors.New("ruleset has no rules")
	}
	for name, r := range rs.Rules {
		if r == nil {
			return errors.New(`rule "` + name + `" is empty`)
		}
		if r.Name == "" {
			r.Name = name
		}
	}
	return nil
}

// ReadRuleset reads and parses a Ruleset from a file.  A filename
// ending in ".json" is parsed as JSON; everything else as YAML.
func ReadRuleset(filename string) (*Ruleset, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(filename, ".json") {
		var rs Ruleset
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, err
		}
		if err := check(&rs); err != nil {
			return nil, err
		}
		return &rs, nil
	}
	return ParseRuleset(data)
}
