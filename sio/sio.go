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

// Package sio couples a ruleset to message transports.
//
// A Couplings implementation provides channels of inbound messages
// and outbound results; Service pumps messages through a compiled
// Ruleset between them.
package sio

import (
	"context"
	"log"

	"github.com/bindkit/bindkit/rules"
)

// Result is what applying the ruleset to one inbound message
// produced.
type Result struct {
	// Ruleset is the name of the ruleset that was applied.
	Ruleset string `json:"ruleset,omitempty"`

	// Consumed is the inbound message.
	Consumed interface{} `json:"consumed,omitempty"`

	// Outcomes are the outcomes of the rules that matched.
	Outcomes []*rules.Outcome `json:"outcomes,omitempty"`

	// Error reports an evaluation error (as a string so a Result
	// can travel as JSON).
	Error string `json:"error,omitempty"`
}

// Couplings provide channels for message input and result output.
//
// For example, an implementation could couple a ruleset to an MQTT
// broker or to stdin/stdout.
type Couplings interface {
	// Start initializes the Couplings.
	Start(context.Context) error

	// IO returns the input and result channels.
	//
	// The Couplings close the input channel when the input is
	// exhausted.
	IO(context.Context) (chan interface{}, chan *Result, error)

	// Stop shuts down the Couplings.
	Stop(context.Context) error
}

// Service pumps messages from Couplings through a Ruleset.
type Service struct {
	// Ruleset must be compiled.
	Ruleset *rules.Ruleset

	// Props are passed to guard executions.
	Props rules.Props

	// StopOnError terminates the run on the first evaluation
	// error.  Otherwise errors are reported as Results and the
	// run continues.
	StopOnError bool
}

// Run consumes inbound messages until the input channel closes or the
// context is canceled.
func (s *Service) Run(ctx context.Context, c Couplings) error {
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := c.Stop(ctx); err != nil {
			log.Printf("sio.Service couplings stop error %s", err)
		}
	}()

	in, out, err := c.IO(ctx)
	if err != nil {
		return err
	}
	// Closing out tells the Couplings that no more Results are
	// coming.
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-in:
			if !ok {
				return nil
			}
			result := s.apply(ctx, msg)
			if result.Error != "" && s.StopOnError {
				out <- result
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- result:
			}
		}
	}
}

func (s *Service) apply(ctx context.Context, msg interface{}) *Result {
	result := &Result{
		Ruleset:  s.Ruleset.Name,
		Consumed: msg,
	}
	outcomes, err := s.Ruleset.Apply(ctx, msg, s.Props)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Outcomes = outcomes
	return result
}
