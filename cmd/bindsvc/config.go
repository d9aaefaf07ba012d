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
	"io/ioutil"
	"time"

	"github.com/caarlos0/env/v11"
	yaml "gopkg.in/yaml.v2"
)

// Config for the service.
//
// Values come from an optional YAML config file, then from the
// environment, with the environment winning.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr" env:"BINDSVC_ADDR"`

	// BoltFile, if given, makes the ruleset registry persistent.
	BoltFile string `yaml:"boltFile" env:"BINDSVC_BOLT_FILE"`

	// RulesetDir is an optional directory of rulesets to load at
	// startup.
	RulesetDir string `yaml:"rulesetDir" env:"BINDSVC_RULESET_DIR"`

	// FetchTimeout bounds remote ruleset fetches.
	FetchTimeout time.Duration `yaml:"fetchTimeout" env:"BINDSVC_FETCH_TIMEOUT"`

	// Debug turns on some logging.
	Debug bool `yaml:"debug" env:"BINDSVC_DEBUG"`
}

// LoadConfig reads the (optional) YAML file and then the
// environment.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	if filename != "" {
		data, err := ioutil.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 10 * time.Second
	}

	return &cfg, nil
}
