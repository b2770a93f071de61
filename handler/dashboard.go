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

package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/middleware"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/observability/opentelemetry"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/report"
)

type submitRequest struct {
	Tickers string `json:"tickers" form:"tickers"`
}

// Dashboard serves dashboard submissions and benchmark snapshots
type Dashboard struct {
	benchmarks []dashboard.Benchmark
	watcher    *dashboard.BenchmarkWatcher
}

func NewDashboard(benchmarks []dashboard.Benchmark, watcher *dashboard.BenchmarkWatcher) *Dashboard {
	return &Dashboard{
		benchmarks: benchmarks,
		watcher:    watcher,
	}
}

// Submit runs the pipeline for the posted ticker list and returns the view
func (h *Dashboard) Submit(c *fiber.Ctx) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(c.UserContext(), "Submit",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(opentelemetry.SpanAttributesFromFiber(c)...))
	defer span.End()

	session, ok := middleware.SessionFrom(c)
	if !ok {
		return fiber.ErrInternalServerError
	}

	req := submitRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Warn().Err(err).Str("Session", session.ID).Msg("cannot parse submission body")
			return fiber.ErrBadRequest
		}
	}
	if req.Tickers == "" {
		req.Tickers = c.Query("tickers")
	}
	if strings.TrimSpace(req.Tickers) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "tickers may not be empty")
	}

	span.SetAttributes(attribute.String("Session", session.ID), attribute.String("Tickers", req.Tickers))

	bundle, err := session.Submit(ctx, req.Tickers)
	if errors.Is(err, dashboard.ErrStaleSubmission) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	return c.JSON(report.NewView(bundle, h.benchmarks))
}

// Latest returns the view of the session's most recent submission
func (h *Dashboard) Latest(c *fiber.Ctx) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return fiber.ErrNotFound
	}

	bundle := session.Latest()
	if bundle == nil {
		return fiber.ErrNotFound
	}

	return c.JSON(fiber.Map{
		"state": session.State(),
		"view":  report.NewView(bundle, h.benchmarks),
	})
}

// Benchmarks returns the scheduled benchmark snapshot, fetching one if the
// scheduler has not run yet.
func (h *Dashboard) Benchmarks(c *fiber.Ctx) error {
	snapshot := h.watcher.Latest()
	if snapshot == nil {
		snapshot = h.watcher.Refresh(c.UserContext())
	}
	return c.JSON(snapshot)
}
