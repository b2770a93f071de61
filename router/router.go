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

package router

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/handler"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/middleware"
)

// NewApp creates a fiber app that encodes JSON with goccy/go-json
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "theportfolio",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
	})
}

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, registry *dashboard.Registry, h *handler.Dashboard) {
	api := app.Group("/v1")
	api.Get("/", handler.Ping)
	api.Get("/ping", handler.Ping)

	api.Get("/benchmarks", h.Benchmarks)

	board := api.Group("/dashboard")
	board.Get("/", middleware.LookupSession(registry), h.Latest)
	board.Post("/", middleware.Session(registry), h.Submit)
}
