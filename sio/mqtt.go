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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTT is a Couplings that subscribes to a topic for input messages
// and publishes Results to another topic.
//
// Message payloads are JSON.
type MQTT struct {
	// BrokerURL is something like "tcp://localhost:1883".
	BrokerURL string

	// ClientID defaults to "bindkit".
	ClientID string

	// Username and Password are optional.
	Username string
	Password string

	// SubTopic is the topic for inbound messages.
	SubTopic string

	// PubTopic is the topic for Results.  If empty, Results are
	// only logged.
	PubTopic string

	// QoS for both the subscription and publications.
	QoS byte

	// EmittedOnly publishes the messages a winning case emitted
	// instead of whole Results.
	EmittedOnly bool

	// Debug turns on some logging.
	Debug bool

	client mqtt.Client
	wg     sync.WaitGroup
}

func (c *MQTT) logf(format string, args ...interface{}) {
	if c.Debug {
		log.Printf(format, args...)
	}
}

// Start connects to the broker.
func (c *MQTT) Start(ctx context.Context) error {
	if c.BrokerURL == "" {
		return fmt.Errorf("no MQTT broker URL")
	}
	if c.SubTopic == "" {
		return fmt.Errorf("no MQTT subscription topic")
	}
	if c.ClientID == "" {
		c.ClientID = "bindkit"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(c.BrokerURL).
		SetClientID(c.ClientID)
	if c.Username != "" {
		opts = opts.SetUsername(c.Username)
	}
	if c.Password != "" {
		opts = opts.SetPassword(c.Password)
	}

	c.client = mqtt.NewClient(opts)
	if t := c.client.Connect(); t.Wait() && t.Error() != nil {
		return t.Error()
	}
	c.logf("MQTT connected to %s", c.BrokerURL)

	return nil
}

// Stop unsubscribes and disconnects.
func (c *MQTT) Stop(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if t := c.client.Unsubscribe(c.SubTopic); t.Wait() && t.Error() != nil {
		c.logf("MQTT unsubscribe error %s", t.Error())
	}
	c.client.Disconnect(250)
	c.wg.Wait()
	return nil
}

// IO subscribes to SubTopic and returns channels that route inbound
// payloads in and publish Results out.
func (c *MQTT) IO(ctx context.Context) (chan interface{}, chan *Result, error) {
	in := make(chan interface{})
	out := make(chan *Result)

	handler := func(client mqtt.Client, m mqtt.Message) {
		var msg interface{}
		if err := json.Unmarshal(m.Payload(), &msg); err != nil {
			log.Printf("MQTT bad payload on %s: %s", m.Topic(), err)
			return
		}
		select {
		case <-ctx.Done():
		case in <- msg:
		}
	}

	if t := c.client.Subscribe(c.SubTopic, c.QoS, handler); t.Wait() && t.Error() != nil {
		return nil, nil, t.Error()
	}
	c.logf("MQTT subscribed to %s", c.SubTopic)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-out:
				if r == nil {
					return
				}
				if c.PubTopic == "" {
					log.Printf("MQTT result %s", js(r))
					continue
				}
				if c.EmittedOnly {
					for _, o := range r.Outcomes {
						for _, msg := range o.Emitted {
							c.publish(js(msg))
						}
					}
					continue
				}
				c.publish(js(r))
			}
		}
	}()

	return in, out, nil
}

func (c *MQTT) publish(payload string) {
	if t := c.client.Publish(c.PubTopic, c.QoS, false, payload); t.Wait() && t.Error() != nil {
		log.Printf("MQTT publish error %s", t.Error())
	}
}
