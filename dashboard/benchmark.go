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
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/data"
)

// BenchmarkID identifies a benchmark slot in the result bundle
type BenchmarkID string

const (
	BenchmarkSP500       BenchmarkID = "sp500"
	BenchmarkDowJones    BenchmarkID = "dowJones"
	BenchmarkNasdaq100   BenchmarkID = "nasdaq100"
	BenchmarkRussell2000 BenchmarkID = "russell2000"
)

// Benchmark maps an index onto the tradeable proxy used to measure it
type Benchmark struct {
	ID     BenchmarkID `json:"id" mapstructure:"id"`
	Name   string      `json:"name" mapstructure:"name"`
	Symbol string      `json:"symbol" mapstructure:"symbol"`
}

var DefaultBenchmarks = []Benchmark{
	{ID: BenchmarkSP500, Name: "S&P 500", Symbol: "SPY"},
	{ID: BenchmarkDowJones, Name: "Dow Jones", Symbol: "DIA"},
	{ID: BenchmarkNasdaq100, Name: "Nasdaq-100", Symbol: "QQQ"},
	{ID: BenchmarkRussell2000, Name: "Russell 2000", Symbol: "IWM"},
}

// BenchmarkSet holds one record per configured benchmark; a nil record means
// the fetch failed.
type BenchmarkSet map[BenchmarkID]*data.MetricsRecord

// BenchmarkFetcher fetches advanced stats for a fixed list of benchmarks
type BenchmarkFetcher struct {
	provider   Provider
	benchmarks []Benchmark
}

// NewBenchmarkFetcher creates a fetcher; an empty list uses DefaultBenchmarks
func NewBenchmarkFetcher(provider Provider, benchmarks []Benchmark) *BenchmarkFetcher {
	if len(benchmarks) == 0 {
		benchmarks = DefaultBenchmarks
	}
	return &BenchmarkFetcher{
		provider:   provider,
		benchmarks: benchmarks,
	}
}

func (f *BenchmarkFetcher) Benchmarks() []Benchmark {
	return f.benchmarks
}

// Fetch retrieves every benchmark concurrently. Failed benchmarks are nil in
// the set and produce one message each.
func (f *BenchmarkFetcher) Fetch(ctx context.Context) (BenchmarkSet, []string) {
	symbols := make([]string, len(f.benchmarks))
	for idx, bm := range f.benchmarks {
		symbols[idx] = bm.Symbol
	}

	outcomes := fanOut(ctx, symbols, f.fetchOne)

	set := make(BenchmarkSet, len(f.benchmarks))
	errs := []string{}
	for idx, bm := range f.benchmarks {
		outcome := outcomes[idx]
		if !outcome.OK() {
			log.Warn().Err(outcome.Err).Str("Benchmark", string(bm.ID)).Str("Symbol", bm.Symbol).Msg("cannot download benchmark data")
			set[bm.ID] = nil
			errs = append(errs, fmt.Sprintf("Error fetching benchmark %s (%s).", bm.Name, bm.Symbol))
			continue
		}
		rec := outcome.Value
		set[bm.ID] = &rec
	}

	return set, errs
}

func (f *BenchmarkFetcher) fetchOne(ctx context.Context, symbol string) FetchOutcome[data.MetricsRecord] {
	fundamentals, err := f.provider.GetFundamentals(ctx, symbol)
	if err != nil {
		return FetchOutcome[data.MetricsRecord]{Ticker: symbol, Err: err}
	}
	return FetchOutcome[data.MetricsRecord]{
		Ticker: symbol,
		Value:  data.ExtractMetrics(symbol, fundamentals, nil, nil),
	}
}

// BenchmarkSnapshot is a periodically refreshed benchmark set
type BenchmarkSnapshot struct {
	Benchmarks BenchmarkSet `json:"benchmarks"`
	Errors     []string     `json:"errors"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// BenchmarkWatcher keeps the most recent BenchmarkSnapshot
type BenchmarkWatcher struct {
	fetcher *BenchmarkFetcher
	latest  atomic.Pointer[BenchmarkSnapshot]
}

func NewBenchmarkWatcher(fetcher *BenchmarkFetcher) *BenchmarkWatcher {
	return &BenchmarkWatcher{fetcher: fetcher}
}

// Refresh fetches a new snapshot and publishes it
func (w *BenchmarkWatcher) Refresh(ctx context.Context) *BenchmarkSnapshot {
	set, errs := w.fetcher.Fetch(ctx)
	snapshot := &BenchmarkSnapshot{
		Benchmarks: set,
		Errors:     errs,
		UpdatedAt:  time.Now(),
	}
	w.latest.Store(snapshot)
	log.Info().Int("Failed", len(errs)).Msg("refreshed benchmark snapshot")
	return snapshot
}

// Latest returns the last snapshot or nil if Refresh never ran
func (w *BenchmarkWatcher) Latest() *BenchmarkSnapshot {
	return w.latest.Load()
}
