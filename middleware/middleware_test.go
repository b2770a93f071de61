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

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/middleware"
)

type emptyProvider struct{}

func (emptyProvider) GetPriceHistory(context.Context, string, int) (iex.Series, error) {
	return iex.Series{}, nil
}

func (emptyProvider) GetYearChart(context.Context, string) (iex.Series, error) {
	return iex.Series{}, nil
}

func (emptyProvider) GetFundamentals(context.Context, string) (iex.Object, error) {
	return iex.Object{}, nil
}

func (emptyProvider) GetCompanyInfo(context.Context, string) (iex.Object, error) {
	return iex.Object{}, nil
}

var _ = Describe("Middleware", func() {
	var (
		app      *fiber.App
		registry *dashboard.Registry
	)

	BeforeEach(func() {
		registry = dashboard.NewRegistry(dashboard.NewPipeline(emptyProvider{}))
		app = fiber.New()
		app.Use(middleware.NewLogger())
		app.Get("/session", middleware.Session(registry), func(c *fiber.Ctx) error {
			session, ok := middleware.SessionFrom(c)
			if !ok {
				return fiber.ErrInternalServerError
			}
			return c.SendString(session.ID)
		})
		app.Get("/lookup", middleware.LookupSession(registry), func(c *fiber.Ctx) error {
			if _, ok := middleware.SessionFrom(c); !ok {
				return fiber.ErrNotFound
			}
			return c.SendStatus(fiber.StatusNoContent)
		})
		app.Get("/fail", func(c *fiber.Ctx) error {
			return fiber.ErrTeapot
		})
	})

	It("reuses the session named in the request header", func() {
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set(middleware.SessionHeader, "abc")

		resp, err := app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		Expect(resp.Header.Get(middleware.SessionHeader)).To(Equal("abc"))

		_, ok := registry.Lookup("abc")
		Expect(ok).To(BeTrue())
	})

	It("creates a session when none is named", func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/session", nil))
		Expect(err).ToNot(HaveOccurred())

		id := resp.Header.Get(middleware.SessionHeader)
		Expect(id).ToNot(BeEmpty())
		_, ok := registry.Lookup(id)
		Expect(ok).To(BeTrue())
	})

	It("never creates sessions when looking them up", func() {
		for _, id := range []string{"", "unknown"} {
			req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
			if id != "" {
				req.Header.Set(middleware.SessionHeader, id)
			}
			resp, err := app.Test(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		}
		Expect(registry.Len()).To(Equal(0))
	})

	It("attaches known sessions on lookup", func() {
		registry.Open("abc")
		req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
		req.Header.Set(middleware.SessionHeader, "abc")

		resp, err := app.Test(req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
		Expect(resp.Header.Get(middleware.SessionHeader)).To(Equal("abc"))
	})

	It("passes handler errors through the error handler", func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusTeapot))
	})
})
