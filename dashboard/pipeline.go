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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/data"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/observability/opentelemetry"
)

const DefaultHistoryYears = 10

// State of a submission as it moves through the pipeline
type State string

const (
	StateIdle            State = "idle"
	StateFetching        State = "fetching"
	StateAggregating     State = "aggregating"
	StateReady           State = "ready"
	StateReadyWithErrors State = "readyWithErrors"
)

// Pipeline turns a raw ticker list into a ResultBundle
type Pipeline struct {
	provider     Provider
	benchmarks   *BenchmarkFetcher
	historyYears int
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithBenchmarks replaces the default benchmark list
func WithBenchmarks(benchmarks []Benchmark) Option {
	return func(p *Pipeline) {
		p.benchmarks = NewBenchmarkFetcher(p.provider, benchmarks)
	}
}

// WithHistoryYears sets the range of the charted price history
func WithHistoryYears(years int) Option {
	return func(p *Pipeline) {
		if years > 0 {
			p.historyYears = years
		}
	}
}

func NewPipeline(provider Provider, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider:     provider,
		historyYears: DefaultHistoryYears,
	}
	p.benchmarks = NewBenchmarkFetcher(provider, nil)

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Pipeline) BenchmarkFetcher() *BenchmarkFetcher {
	return p.benchmarks
}

// Run executes one submission end to end. It never fails: entity level
// failures are reported in ResultBundle.Errors.
func (p *Pipeline) Run(ctx context.Context, raw string) *ResultBundle {
	return p.run(ctx, Submission{ID: uuid.New(), Raw: raw, StartedAt: time.Now()}, nil)
}

func (p *Pipeline) run(ctx context.Context, sub Submission, transition func(State)) *ResultBundle {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "dashboard.Run")
	defer span.End()

	if transition == nil {
		transition = func(State) {}
	}

	subLog := log.With().Str("Raw", sub.Raw).Uint64("Generation", sub.Generation).Logger()

	transition(StateFetching)
	normalized := data.NormalizeTickers(sub.Raw)
	tickers := data.CompactTickers(normalized)
	if len(tickers) != len(normalized) {
		subLog.Debug().Int("Dropped", len(normalized)-len(tickers)).Msg("ignoring empty ticker segments")
	}

	span.SetAttributes(attribute.StringSlice("Tickers", tickers))

	var (
		histories     []FetchOutcome[data.PriceHistory]
		metrics       []FetchOutcome[data.MetricsRecord]
		benchmarks    BenchmarkSet
		benchmarkErrs []string
	)

	var g errgroup.Group
	g.Go(func() error {
		histories = fanOut(ctx, tickers, p.fetchHistory)
		return nil
	})
	g.Go(func() error {
		metrics = fanOut(ctx, tickers, p.fetchMetrics)
		return nil
	})
	g.Go(func() error {
		benchmarks, benchmarkErrs = p.benchmarks.Fetch(ctx)
		return nil
	})
	_ = g.Wait()

	transition(StateAggregating)

	bundle := &ResultBundle{
		ID:         sub.ID,
		SessionID:  sub.SessionID,
		Generation: sub.Generation,
		Raw:        sub.Raw,
		Tickers:    tickers,
		Histories:  make([]data.PriceHistory, 0, len(tickers)),
		Metrics:    make([]data.MetricsRecord, 0, len(tickers)),
		Benchmarks: benchmarks,
		Errors:     []string{},
		StartedAt:  sub.StartedAt,
	}

	for idx, ticker := range tickers {
		var failure error
		if histories[idx].OK() {
			bundle.Histories = append(bundle.Histories, histories[idx].Value)
		} else {
			failure = histories[idx].Err
		}
		if metrics[idx].OK() {
			bundle.Metrics = append(bundle.Metrics, metrics[idx].Value)
		} else {
			failure = metrics[idx].Err
		}
		if failure != nil {
			subLog.Warn().Err(failure).Str("Ticker", ticker).Msg("cannot download ticker data")
			bundle.Errors = append(bundle.Errors, FetchErrorMessage(ticker))
		}
	}
	bundle.Errors = append(bundle.Errors, benchmarkErrs...)

	bundle.Averages = data.Averages(bundle.Metrics)
	bundle.CompletedAt = time.Now()

	if bundle.HasErrors() {
		transition(StateReadyWithErrors)
	} else {
		transition(StateReady)
	}

	subLog.Info().Int("Tickers", len(tickers)).Int("Metrics", len(bundle.Metrics)).Int("Errors", len(bundle.Errors)).
		Dur("Elapsed", bundle.CompletedAt.Sub(sub.StartedAt)).Msg("submission complete")

	return bundle
}

// FetchErrorMessage is the user facing message for a ticker that failed to load
func FetchErrorMessage(ticker string) string {
	return fmt.Sprintf("Error fetching data for %s. Please check the ticker and try again.", ticker)
}

func (p *Pipeline) fetchHistory(ctx context.Context, ticker string) FetchOutcome[data.PriceHistory] {
	chart, err := p.provider.GetPriceHistory(ctx, ticker, p.historyYears)
	if err != nil {
		return FetchOutcome[data.PriceHistory]{Ticker: ticker, Err: err}
	}
	return FetchOutcome[data.PriceHistory]{Ticker: ticker, Value: data.ExtractHistory(ticker, chart)}
}

// fetchMetrics loads advanced stats, company info and the one year chart in
// sequence; any failure fails the ticker.
func (p *Pipeline) fetchMetrics(ctx context.Context, ticker string) FetchOutcome[data.MetricsRecord] {
	fundamentals, err := p.provider.GetFundamentals(ctx, ticker)
	if err != nil {
		return FetchOutcome[data.MetricsRecord]{Ticker: ticker, Err: err}
	}

	company, err := p.provider.GetCompanyInfo(ctx, ticker)
	if err != nil {
		return FetchOutcome[data.MetricsRecord]{Ticker: ticker, Err: err}
	}

	chart, err := p.provider.GetYearChart(ctx, ticker)
	if err != nil {
		return FetchOutcome[data.MetricsRecord]{Ticker: ticker, Err: err}
	}

	return FetchOutcome[data.MetricsRecord]{
		Ticker: ticker,
		Value:  data.ExtractMetrics(ticker, fundamentals, company, chart),
	}
}
