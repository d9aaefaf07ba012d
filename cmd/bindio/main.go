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

// Package main runs a ruleset against JSON messages from stdin,
// writing results to stdout.
//
//	bindio -r doorbell.yaml < messages.jsonl
//
// With -mqtt, couples the ruleset to an MQTT broker instead of
// stdio.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bindkit/bindkit/interpreters"
	"github.com/bindkit/bindkit/rules"
	"github.com/bindkit/bindkit/sio"
)

func main() {
	var (
		rulesetFilename = flag.String("r", "", "ruleset filename (YAML or JSON)")
		propsJS         = flag.String("props", "", "guard props in JSON")

		timestamps  = flag.Bool("ts", false, "print timestamps")
		echoInput   = flag.Bool("echo", false, "echo input lines")
		tags        = flag.Bool("tags", false, "tag output lines")
		padTags     = flag.Bool("pad", false, "pad output tags")
		emittedOnly = flag.Bool("emitted", false, "print emitted messages instead of whole results")

		brokerURL = flag.String("mqtt", "", "couple to this MQTT broker instead of stdio")
		subTopic  = flag.String("sub", "", "MQTT subscription topic")
		pubTopic  = flag.String("pub", "", "MQTT publication topic")
		clientID  = flag.String("client", "bindio", "MQTT client id")
	)

	flag.Parse()

	if *rulesetFilename == "" {
		log.Fatal("give a ruleset with -r")
	}

	rs, err := rules.ReadRuleset(*rulesetFilename)
	if err != nil {
		log.Fatalf("error reading %s: %s", *rulesetFilename, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rs.Compile(ctx, interpreters.Standard()); err != nil {
		log.Fatalf("error compiling %s: %s", rs.Name, err)
	}

	var props rules.Props
	if *propsJS != "" {
		if err := json.Unmarshal([]byte(*propsJS), &props); err != nil {
			log.Fatalf("bad props: %s", err)
		}
	}

	s := &sio.Service{
		Ruleset: rs,
		Props:   props,
	}

	var c sio.Couplings
	if *brokerURL != "" {
		c = &sio.MQTT{
			BrokerURL:   *brokerURL,
			ClientID:    *clientID,
			SubTopic:    *subTopic,
			PubTopic:    *pubTopic,
			EmittedOnly: *emittedOnly,
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()
	} else {
		stdio := sio.NewStdio()
		stdio.Timestamps = *timestamps
		stdio.EchoInput = *echoInput
		stdio.Tags = *tags
		stdio.PadTags = *padTags
		stdio.EmittedOnly = *emittedOnly
		c = stdio
	}

	if err := s.Run(ctx, c); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}
