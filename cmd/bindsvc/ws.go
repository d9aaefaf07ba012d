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
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{} // use default options

// handleWebsocket speaks ApplyRequests over a websocket.
//
// Each text message is an ApplyRequest; the reply is either an
// ApplyResponse or {"error": ...}.
func (s *Service) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error", err)
		return
	}
	defer c.Close()

	s.logf("websocket connection from %s", r.RemoteAddr)

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			s.logf("websocket read error %s", err)
			return
		}

		var reply interface{}

		var req ApplyRequest
		if err := json.Unmarshal(message, &req); err != nil {
			reply = map[string]interface{}{
				"error": "can't parse: " + err.Error(),
			}
		} else if resp, _, err := s.apply(r, &req); err != nil {
			reply = map[string]interface{}{
				"error": err.Error(),
			}
		} else {
			reply = resp
		}

		js, err := json.Marshal(&reply)
		if err != nil {
			log.Printf("websocket marshal error %v on %#v", err, reply)
			continue
		}
		if err := c.WriteMessage(mt, js); err != nil {
			s.logf("websocket write error %s", err)
			return
		}
	}
}
