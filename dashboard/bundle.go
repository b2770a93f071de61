// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/data"
)

// ResultBundle is everything presentation needs for one submission. It is
// never modified after the pipeline returns it.
type ResultBundle struct {
	ID          uuid.UUID            `json:"id"`
	SessionID   string               `json:"sessionId,omitempty"`
	Generation  uint64               `json:"generation"`
	Raw         string               `json:"raw"`
	Tickers     []string             `json:"tickers"`
	Histories   []data.PriceHistory  `json:"histories"`
	Metrics     []data.MetricsRecord `json:"metrics"`
	Benchmarks  BenchmarkSet         `json:"benchmarks"`
	Averages    data.AverageRow      `json:"averages"`
	Errors      []string             `json:"errors"`
	StartedAt   time.Time            `json:"startedAt"`
	CompletedAt time.Time            `json:"completedAt"`
}

// HasErrors reports whether any entity failed to load
func (b *ResultBundle) HasErrors() bool {
	return len(b.Errors) > 0
}

// FailedEntirely is true when tickers were requested but none loaded
func (b *ResultBundle) FailedEntirely() bool {
	return len(b.Tickers) > 0 && len(b.Metrics) == 0 && len(b.Histories) == 0
}

// Submission describes a submission that has started fetching
type Submission struct {
	ID         uuid.UUID `json:"id"`
	SessionID  string    `json:"sessionId,omitempty"`
	Generation uint64    `json:"generation"`
	Raw        string    `json:"raw"`
	StartedAt  time.Time `json:"startedAt"`
}
