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
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/bindkit/bindkit/rules"
	"github.com/bindkit/bindkit/storage"

	"golang.org/x/net/publicsuffix"
)

// ApplyRequest asks that a stored ruleset be applied to a message.
type ApplyRequest struct {
	Ruleset string      `json:"ruleset"`
	Message interface{} `json:"message"`
	Props   rules.Props `json:"props,omitempty"`
}

// ApplyResponse reports the outcomes.
type ApplyResponse struct {
	Ruleset  string           `json:"ruleset"`
	Outcomes []*rules.Outcome `json:"outcomes"`
}

// FetchRequest asks that a ruleset be fetched from a URL and stored
// under the given id.
type FetchRequest struct {
	Id  string `json:"id"`
	URL string `json:"url"`
}

// Mux returns the service's HTTP routes.
//
//	GET    /rulesets           list ruleset ids
//	PUT    /rulesets/{id}      store ruleset source (YAML or JSON)
//	GET    /rulesets/{id}      get ruleset source
//	DELETE /rulesets/{id}      remove a ruleset
//	POST   /rulesets/fetch     fetch a ruleset from a URL
//	POST   /apply              apply a ruleset to a message
//	GET    /ws                 websocket that speaks ApplyRequests
func (s *Service) Mux(fetchTimeout time.Duration) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/rulesets", s.handleList)
	mux.HandleFunc("/rulesets/fetch", s.handleFetch(fetchTimeout))
	mux.HandleFunc("/rulesets/", s.handleRuleset)
	mux.HandleFunc("/apply", s.handleApply)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return mux
}

func respond(w http.ResponseWriter, code int, x interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(&x); err != nil {
		// Too late for a nice response.
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}

func protest(w http.ResponseWriter, code int, err error) {
	respond(w, code, map[string]interface{}{
		"error": err.Error(),
	})
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		protest(w, http.StatusMethodNotAllowed, fmt.Errorf("%s not allowed", r.Method))
		return
	}
	ids, err := s.Registry.List(r.Context())
	if err != nil {
		protest(w, http.StatusInternalServerError, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"rulesets": ids,
	})
}

func (s *Service) handleRuleset(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/rulesets/")
	if id == "" || strings.Contains(id, "/") {
		protest(w, http.StatusBadRequest, fmt.Errorf("bad ruleset id %q", id))
		return
	}

	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		source, err := s.Registry.Get(ctx, id)
		if err == storage.NotFound {
			protest(w, http.StatusNotFound, fmt.Errorf("ruleset %q not found", id))
			return
		}
		if err != nil {
			protest(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write(source)

	case http.MethodPut, http.MethodPost:
		source, err := ioutil.ReadAll(r.Body)
		if err != nil {
			protest(w, http.StatusBadRequest, err)
			return
		}
		if err := s.Put(ctx, id, source); err != nil {
			protest(w, http.StatusBadRequest, err)
			return
		}
		respond(w, http.StatusOK, map[string]interface{}{
			"id": id,
		})

	case http.MethodDelete:
		had, err := s.Rem(ctx, id)
		if err != nil {
			protest(w, http.StatusInternalServerError, err)
			return
		}
		if !had {
			protest(w, http.StatusNotFound, fmt.Errorf("ruleset %q not found", id))
			return
		}
		respond(w, http.StatusOK, map[string]interface{}{
			"removed": id,
		})

	default:
		protest(w, http.StatusMethodNotAllowed, fmt.Errorf("%s not allowed", r.Method))
	}
}

// handleFetch gets ruleset source from a URL.
//
// The client keeps a real cookie jar in case the source sits behind
// something that wants a session.
func (s *Service) handleFetch(timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			protest(w, http.StatusMethodNotAllowed, fmt.Errorf("%s not allowed", r.Method))
			return
		}

		var req FetchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			protest(w, http.StatusBadRequest, err)
			return
		}
		if req.Id == "" || req.URL == "" {
			protest(w, http.StatusBadRequest, fmt.Errorf("need both id and url"))
			return
		}

		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			protest(w, http.StatusInternalServerError, err)
			return
		}
		client := &http.Client{
			Jar:     jar,
			Timeout: timeout,
		}

		resp, err := client.Get(req.URL)
		if err != nil {
			protest(w, http.StatusBadGateway, err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			protest(w, http.StatusBadGateway, fmt.Errorf("fetch returned %s", resp.Status))
			return
		}

		source, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			protest(w, http.StatusBadGateway, err)
			return
		}

		if err := s.Put(r.Context(), req.Id, source); err != nil {
			protest(w, http.StatusBadRequest, err)
			return
		}

		respond(w, http.StatusOK, map[string]interface{}{
			"id": req.Id,
		})
	}
}

func (s *Service) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		protest(w, http.StatusMethodNotAllowed, fmt.Errorf("%s not allowed", r.Method))
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		protest(w, http.StatusBadRequest, err)
		return
	}

	resp, code, err := s.apply(r, &req)
	if err != nil {
		protest(w, code, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (s *Service) apply(r *http.Request, req *ApplyRequest) (*ApplyResponse, int, error) {
	if req.Ruleset == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("no ruleset id")
	}

	outcomes, err := s.Apply(r.Context(), req.Ruleset, req.Message, req.Props)
	if err == storage.NotFound {
		return nil, http.StatusNotFound, fmt.Errorf("ruleset %q not found", req.Ruleset)
	}
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &ApplyResponse{
		Ruleset:  req.Ruleset,
		Outcomes: outcomes,
	}, http.StatusOK, nil
}
