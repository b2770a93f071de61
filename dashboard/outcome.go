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

	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
)

// Provider is the market data source used by the pipeline. *iex.Client
// satisfies it.
type Provider interface {
	GetPriceHistory(ctx context.Context, ticker string, rangeYears int) (iex.Series, error)
	GetYearChart(ctx context.Context, ticker string) (iex.Series, error)
	GetFundamentals(ctx context.Context, ticker string) (iex.Object, error)
	GetCompanyInfo(ctx context.Context, ticker string) (iex.Object, error)
}

// FetchOutcome is the settled result of fetching one entity. Exactly one of
// Value or Err is meaningful.
type FetchOutcome[T any] struct {
	Ticker string
	Value  T
	Err    error
}

func (o FetchOutcome[T]) OK() bool {
	return o.Err == nil
}

type indexedOutcome[T any] struct {
	idx     int
	outcome FetchOutcome[T]
}

// fanOut runs fn for every key concurrently and waits for all of them to
// settle. Results keep the order of keys.
func fanOut[T any](ctx context.Context, keys []string, fn func(context.Context, string) FetchOutcome[T]) []FetchOutcome[T] {
	ch := make(chan indexedOutcome[T])
	for idx := range keys {
		go func(idx int, key string) {
			ch <- indexedOutcome[T]{idx: idx, outcome: fn(ctx, key)}
		}(idx, keys[idx])
	}

	res := make([]FetchOutcome[T], len(keys))
	for range keys {
		v := <-ch
		res[v.idx] = v.outcome
	}
	return res
}
