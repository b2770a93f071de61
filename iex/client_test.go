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

package iex_test

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
)

type memoryCache struct {
	lock  sync.Mutex
	items map[string][]byte
}

func (m *memoryCache) Get(key string) ([]byte, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *memoryCache) Set(key string, value []byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.items[key] = value
}

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		client *iex.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = iex.NewClient("TEST")
		httpmock.ActivateNonDefault(client.HTTPClient())
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Context("when the provider responds successfully", func() {
		It("decodes advanced stats keeping numbers exact", func() {
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/AAPL/advanced-stats?token=TEST",
				httpmock.NewStringResponder(200, `{"dividendYield": 0.0234, "peRatio": "12.5", "beta": null}`))

			obj, err := client.GetFundamentals(ctx, "AAPL")
			Expect(err).To(BeNil())
			Expect(obj["dividendYield"]).To(Equal(json.Number("0.0234")))
			Expect(obj["peRatio"]).To(Equal("12.5"))
			Expect(obj["beta"]).To(BeNil())
		})

		It("requests the ten year history range", func() {
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/MSFT/chart/1y?range=10y&token=TEST",
				httpmock.NewStringResponder(200, `[{"date": "2022-01-04", "close": 2}, {"date": "2022-01-03", "close": 1}]`))

			series, err := client.GetPriceHistory(ctx, "MSFT", 10)
			Expect(err).To(BeNil())
			Expect(series).To(HaveLen(2))
			Expect(series[0]["date"]).To(Equal("2022-01-04"))
		})

		It("reads company info", func() {
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/GS/company?token=TEST",
				httpmock.NewStringResponder(200, `{"companyName": "Goldman Sachs Group, Inc.", "sector": "Finance"}`))

			obj, err := client.GetCompanyInfo(ctx, "GS")
			Expect(err).To(BeNil())
			Expect(obj["sector"]).To(Equal("Finance"))
		})

		It("uses the configured base url", func() {
			client = iex.NewClient("TEST", iex.WithBaseURL("https://sandbox.iexapis.com/stable/"))
			httpmock.ActivateNonDefault(client.HTTPClient())
			httpmock.RegisterResponder("GET", "https://sandbox.iexapis.com/stable/stock/SPY/chart/1y?token=TEST",
				httpmock.NewStringResponder(200, `[]`))

			series, err := client.GetYearChart(ctx, "SPY")
			Expect(err).To(BeNil())
			Expect(series).To(BeEmpty())
		})
	})

	Context("when the request fails", func() {
		It("wraps non-2xx responses", func() {
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/ZZZZ/company?token=TEST",
				httpmock.NewStringResponder(404, `Unknown symbol`))

			_, err := client.GetCompanyInfo(ctx, "ZZZZ")
			Expect(errors.Is(err, iex.ErrUnexpectedStatus)).To(BeTrue())

			var reqErr *iex.RequestError
			Expect(errors.As(err, &reqErr)).To(BeTrue())
			Expect(reqErr.StatusCode).To(Equal(404))
			Expect(reqErr.Ticker).To(Equal("ZZZZ"))
			Expect(reqErr.Endpoint).To(Equal(iex.EndpointCompany))
		})

		It("wraps transport errors", func() {
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/AAPL/advanced-stats?token=TEST",
				httpmock.NewErrorResponder(errors.New("connection reset by peer")))

			_, err := client.GetFundamentals(ctx, "AAPL")
			var reqErr *iex.RequestError
			Expect(errors.As(err, &reqErr)).To(BeTrue())
			Expect(reqErr.StatusCode).To(Equal(0))
			Expect(err.Error()).To(ContainSubstring("connection reset by peer"))
		})

		It("reports malformed bodies", func() {
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/AAPL/chart/1y?token=TEST",
				httpmock.NewStringResponder(200, `{"not": "an array"}`))

			_, err := client.GetYearChart(ctx, "AAPL")
			Expect(errors.Is(err, iex.ErrMalformedResponse)).To(BeTrue())
		})

		It("never calls the provider for an empty ticker", func() {
			_, err := client.GetFundamentals(ctx, "")
			Expect(errors.Is(err, iex.ErrEmptyTicker)).To(BeTrue())
			Expect(httpmock.GetTotalCallCount()).To(Equal(0))
		})
	})

	Context("with a cache", func() {
		It("serves repeated requests from the cache", func() {
			cache := &memoryCache{items: make(map[string][]byte)}
			client = iex.NewClient("TEST", iex.WithCache(cache))
			httpmock.ActivateNonDefault(client.HTTPClient())
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/AAPL/company?token=TEST",
				httpmock.NewStringResponder(200, `{"sector": "Technology"}`))

			_, err := client.GetCompanyInfo(ctx, "AAPL")
			Expect(err).To(BeNil())
			obj, err := client.GetCompanyInfo(ctx, "AAPL")
			Expect(err).To(BeNil())
			Expect(obj["sector"]).To(Equal("Technology"))
			Expect(httpmock.GetTotalCallCount()).To(Equal(1))
			Expect(cache.items).To(HaveLen(1))
			for key := range cache.items {
				Expect(key).ToNot(ContainSubstring("TEST"))
			}
		})

		It("does not cache failures", func() {
			cache := &memoryCache{items: make(map[string][]byte)}
			client = iex.NewClient("TEST", iex.WithCache(cache))
			httpmock.ActivateNonDefault(client.HTTPClient())
			httpmock.RegisterResponder("GET", "https://cloud.iexapis.com/stable/stock/AAPL/company?token=TEST",
				httpmock.NewStringResponder(500, `oops`))

			_, err := client.GetCompanyInfo(ctx, "AAPL")
			Expect(err).ToNot(BeNil())
			Expect(cache.items).To(BeEmpty())
		})
	})
})
