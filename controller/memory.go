// Copyright (c) 2025 Reza Arani
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package lethu

import (
	"sync"
	"time"
)

// Exchange is one answered question of a session.
type Exchange struct {
	Question string
	Context  string
	Answer   string
	Language Language
	At       time.Time
}

// History keeps the most recent exchanges of a session in memory.
type History struct {
	mu        sync.Mutex
	limit     int
	exchanges []Exchange
}

// NewHistory creates a history holding at most limit exchanges. A limit of
// zero or less keeps 20.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 20
	}
	return &History{limit: limit}
}

// Add records an exchange, dropping the oldest one when full.
func (h *History) Add(e Exchange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e.At.IsZero() {
		e.At = time.Now()
	}
	h.exchanges = append(h.exchanges, e)
	if len(h.exchanges) > h.limit {
		h.exchanges = h.exchanges[len(h.exchanges)-h.limit:]
	}
}

// Last returns the most recent exchange.
func (h *History) Last() (Exchange, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.exchanges) == 0 {
		return Exchange{}, false
	}
	return h.exchanges[len(h.exchanges)-1], true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.exchanges)
}

func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exchanges = nil
}
