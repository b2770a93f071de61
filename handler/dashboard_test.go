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

package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/handler"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/middleware"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/report"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/router"
)

var errUnknownSymbol = errors.New("unknown symbol")

type staticProvider struct {
	failing map[string]bool
}

func (p staticProvider) check(ticker string) error {
	if p.failing[ticker] {
		return &iex.RequestError{Ticker: ticker, StatusCode: http.StatusNotFound, Err: errUnknownSymbol}
	}
	return nil
}

func (p staticProvider) GetPriceHistory(_ context.Context, ticker string, _ int) (iex.Series, error) {
	if err := p.check(ticker); err != nil {
		return nil, err
	}
	return iex.Series{{"date": "2022-06-01", "close": json.Number("140.5")}}, nil
}

func (p staticProvider) GetYearChart(_ context.Context, ticker string) (iex.Series, error) {
	if err := p.check(ticker); err != nil {
		return nil, err
	}
	return iex.Series{}, nil
}

func (p staticProvider) GetFundamentals(_ context.Context, ticker string) (iex.Object, error) {
	if err := p.check(ticker); err != nil {
		return nil, err
	}
	return iex.Object{"peRatio": json.Number("21.4"), "beta": json.Number("1.1")}, nil
}

func (p staticProvider) GetCompanyInfo(_ context.Context, ticker string) (iex.Object, error) {
	if err := p.check(ticker); err != nil {
		return nil, err
	}
	return iex.Object{"companyName": "Apple Inc.", "sector": "Electronic Technology"}, nil
}

func decode(resp *http.Response, v interface{}) {
	body, err := io.ReadAll(resp.Body)
	Expect(err).ToNot(HaveOccurred())
	Expect(json.Unmarshal(body, v)).To(Succeed())
}

var _ = Describe("Dashboard API", func() {
	var (
		app      *fiber.App
		registry *dashboard.Registry
	)

	BeforeEach(func() {
		pipeline := dashboard.NewPipeline(staticProvider{failing: map[string]bool{"ZZZZ": true, "IWM": true}})
		registry = dashboard.NewRegistry(pipeline, dashboard.LogListener{})
		watcher := dashboard.NewBenchmarkWatcher(pipeline.BenchmarkFetcher())

		app = router.NewApp()
		router.SetupRoutes(app, registry, handler.NewDashboard(pipeline.BenchmarkFetcher().Benchmarks(), watcher))
	})

	It("answers ping", func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var ping handler.PingResponse
		decode(resp, &ping)
		Expect(ping.Status).To(Equal("success"))
	})

	It("runs a submission and assigns a session", func() {
		req := httptest.NewRequest(http.MethodPost, "/v1/dashboard", strings.NewReader(`{"tickers": "aapl, zzzz"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		Expect(resp.Header.Get(middleware.SessionHeader)).ToNot(BeEmpty())

		var view report.View
		decode(resp, &view)
		Expect(view.ChartTitle).To(Equal("Combined Stock Chart"))
		Expect(view.Rows).To(HaveLen(1))
		Expect(view.Rows[0].Label).To(Equal("AAPL"))
		Expect(view.Rows[0].Cells[1].Text).To(Equal("21.40"))
		Expect(view.Benchmarks).To(HaveLen(4))
		Expect(view.Errors).To(ContainElement(dashboard.FetchErrorMessage("ZZZZ")))
		Expect(view.Errors).To(HaveLen(2))
	})

	It("accepts form submissions", func() {
		req := httptest.NewRequest(http.MethodPost, "/v1/dashboard", strings.NewReader("tickers=MSFT"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

		resp, err := app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var view report.View
		decode(resp, &view)
		Expect(view.ChartTitle).To(Equal("Stock Chart"))
	})

	It("rejects an empty ticker list", func() {
		req := httptest.NewRequest(http.MethodPost, "/v1/dashboard", strings.NewReader(`{"tickers": "  "}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
	})

	It("returns 404 before the first submission", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		req.Header.Set(middleware.SessionHeader, "fresh")

		resp, err := app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		Expect(registry.Len()).To(Equal(0))
	})

	It("does not open sessions for anonymous reads", func() {
		for ii := 0; ii < 10; ii++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		}
		Expect(registry.Len()).To(Equal(0))
	})

	It("returns the latest view of a session", func() {
		req := httptest.NewRequest(http.MethodPost, "/v1/dashboard?tickers=AAPL", nil)
		req.Header.Set(middleware.SessionHeader, "abc")
		resp, err := app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		req = httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		req.Header.Set(middleware.SessionHeader, "abc")
		resp, err = app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var latest struct {
			State dashboard.State `json:"state"`
			View  report.View     `json:"view"`
		}
		decode(resp, &latest)
		Expect(latest.State).To(Equal(dashboard.StateReadyWithErrors))
		Expect(latest.View.Rows).To(HaveLen(1))
		Expect(latest.View.SessionID).To(Equal("abc"))
	})

	It("serves the benchmark snapshot", func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/benchmarks", nil))
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var snapshot dashboard.BenchmarkSnapshot
		decode(resp, &snapshot)
		Expect(snapshot.Benchmarks).To(HaveLen(4))
		Expect(snapshot.Benchmarks[dashboard.BenchmarkRussell2000]).To(BeNil())
		Expect(snapshot.Benchmarks[dashboard.BenchmarkSP500].PERatio.String()).To(Equal("21.40"))
		Expect(snapshot.Errors).To(HaveLen(1))
	})
})
