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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/handler"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/messenger"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/middleware"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/observability/opentelemetry"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/router"
)

func init() {
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindEnv("server.port", "PORT")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	serveCmd.Flags().String("cors-origins", "http://localhost:3000", "Comma separated list of origins allowed to call the API")
	viper.BindPFlag("server.cors_origins", serveCmd.Flags().Lookup("cors-origins"))

	serveCmd.Flags().Duration("session-idle", 30*time.Minute, "Close dashboard sessions unused for this long")
	viper.BindPFlag("server.session_idle", serveCmd.Flags().Lookup("session-idle"))

	serveCmd.Flags().String("session-sweep", "5m", "Interval between idle session sweeps")
	viper.BindPFlag("server.session_sweep", serveCmd.Flags().Lookup("session-sweep"))

	serveCmd.Flags().String("nats-server", "", "NATS server to publish submission events to, blank disables")
	viper.BindEnv("nats.server", "NATS_SERVER")
	viper.BindPFlag("nats.server", serveCmd.Flags().Lookup("nats-server"))

	serveCmd.Flags().String("nats-subject", "theportfolio.submission", "Subject prefix of submission events")
	viper.BindPFlag("nats.subject", serveCmd.Flags().Lookup("nats-subject"))

	serveCmd.Flags().String("otlp-endpoint", "", "OTLP trace collector, blank disables tracing")
	viper.BindEnv("otlp.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	viper.BindPFlag("otlp.endpoint", serveCmd.Flags().Lookup("otlp-endpoint"))

	serveCmd.Flags().String("benchmarks-refresh", "1h", "Interval between benchmark snapshot refreshes")
	viper.BindPFlag("benchmarks.refresh", serveCmd.Flags().Lookup("benchmarks-refresh"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API server",
	Long:  `Run HTTP server that accepts ticker submissions and serves dashboard views`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile output file")
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				log.Fatal().Err(err).Msg("could not start cpu profile")
			}
			defer pprof.StopCPUProfile()
		}

		shutdownTracing, err := opentelemetry.Setup()
		if err != nil {
			log.Fatal().Err(err).Msg("could not setup tracing")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Error().Err(err).Msg("could not flush traces")
			}
		}()

		client, cache := newClient()
		defer cache.Close()
		pipeline := newPipeline(client)

		listeners := []dashboard.Listener{dashboard.LogListener{}}
		conn, err := messenger.Connect()
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to NATS")
		}
		if conn != nil {
			defer conn.Close()
			listeners = append(listeners, messenger.NewPublisher(conn, viper.GetString("nats.subject")))
		}

		registry := dashboard.NewRegistry(pipeline, listeners...)
		watcher := dashboard.NewBenchmarkWatcher(pipeline.BenchmarkFetcher())

		// refresh benchmarks on a schedule; gocron runs the first refresh immediately
		tz, err := time.LoadLocation("America/New_York")
		if err != nil {
			log.Fatal().Err(err).Msg("could not load timezone")
		}
		scheduler := gocron.NewScheduler(tz)
		if _, err := scheduler.Every(viper.GetString("benchmarks.refresh")).Do(func() {
			watcher.Refresh(context.Background())
		}); err != nil {
			log.Fatal().Err(err).Str("Interval", viper.GetString("benchmarks.refresh")).Msg("could not schedule benchmark refresh")
		}
		idle := viper.GetDuration("server.session_idle")
		if _, err := scheduler.Every(viper.GetString("server.session_sweep")).WaitForSchedule().Do(func() {
			registry.ExpireIdle(idle)
		}); err != nil {
			log.Fatal().Err(err).Str("Interval", viper.GetString("server.session_sweep")).Msg("could not schedule session sweep")
		}
				scheduler.StartAsync()
		defer scheduler.Stop()

		app := router.NewApp()

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown server")
			}
		}()

		app.Use(cors.New(cors.Config{
			AllowOrigins:  viper.GetString("server.cors_origins"),
			AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.SessionHeader,
			AllowMethods:  "GET,POST,HEAD",
			ExposeHeaders: middleware.SessionHeader,
		}))
		app.Use(middleware.NewLogger())

		router.SetupRoutes(app, registry, handler.NewDashboard(pipeline.BenchmarkFetcher().Benchmarks(), watcher))

		log.Info().Int("Port", viper.GetInt("server.port")).Msg("starting server")
		if err := app.Listen(fmt.Sprintf(":%d", viper.GetInt("server.port"))); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}
