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

package sio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Stdio is a fairly simple Couplings that reads one JSON message per
// input line and writes outcomes as JSON lines.
type Stdio struct {
	// In is coupled to ruleset input.
	In io.Reader

	// Out is coupled to ruleset output.
	Out io.Writer

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "emit", "error").
	Tags bool

	// PadTags adds some padding to tags used in output.
	PadTags bool

	// EmittedOnly writes the messages a winning case emitted
	// instead of whole Results.
	EmittedOnly bool

	wg sync.WaitGroup
}

// NewStdio creates a new Stdio coupled to os.Stdin and os.Stdout.
func NewStdio() *Stdio {
	return &Stdio{
		In:  os.Stdin,
		Out: os.Stdout,
	}
}

// Start does nothing.
func (s *Stdio) Start(ctx context.Context) error {
	return nil
}

// Stop waits until IO is complete or was terminated via its context.
func (s *Stdio) Stop(ctx context.Context) error {
	s.wg.Wait()
	return nil
}

// IO returns channels for reading from stdin and writing to stdout.
//
// Input lines starting with '#' and blank lines are ignored.  An
// input line of "quit" terminates the input.
func (s *Stdio) IO(ctx context.Context) (chan interface{}, chan *Result, error) {
	in := make(chan interface{})
	out := make(chan *Result)

	printf := func(tag, format string, args ...interface{}) {
		if s.PadTags {
			tag = fmt.Sprintf("% 8s", tag)
		}
		if s.Tags {
			format = tag + " " + format
		}
		if s.Timestamps {
			ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
			format = ts + " " + format
		}

		fmt.Fprintf(s.Out, format, args...)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(in)
		stdin := bufio.NewReader(s.In)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				line, err := stdin.ReadString('\n')
				if err != nil && err != io.EOF {
					log.Printf("stdin error %s", err)
					return
				}
				if err == io.EOF && strings.TrimSpace(line) == "" {
					return
				}
				if strings.TrimSpace(line) == "quit" {
					return
				}
				if s.EchoInput {
					printf("input", "%s", line)
				}
				if strings.HasPrefix(line, "#") || len(strings.TrimSpace(line)) == 0 {
					if err == io.EOF {
						return
					}
					continue
				}

				var msg interface{}
				if jsErr := json.Unmarshal([]byte(line), &msg); jsErr != nil {
					fmt.Fprintf(os.Stderr, "bad input: %s\n", jsErr)
					continue
				}

				select {
				case <-ctx.Done():
					return
				case in <- msg:
				}
				if err == io.EOF {
					return
				}
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-out:
				if r == nil {
					return
				}
				if r.Error != "" {
					printf("error", "%s\n", r.Error)
					continue
				}
				if s.EmittedOnly {
					for _, o := range r.Outcomes {
						for _, msg := range o.Emitted {
							printf("emit", "%s\n", js(msg))
						}
					}
					continue
				}
				printf("result", "%s\n", js(r))
			}
		}
	}()

	return in, out, nil
}

func js(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}
