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
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/report"
)

var fetchJSON bool

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the dashboard view as JSON")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch TICKERS...",
	Short: "Fetch and print the dashboard for a list of tickers",
	Long: `Run a single submission and print the resulting dashboard. Tickers may be
given as separate arguments or as one comma separated list, e.g. "AAPL, msft".`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, cache := newClient()
		defer cache.Close()
		pipeline := newPipeline(client)

		bundle := pipeline.Run(context.Background(), strings.Join(args, ","))
		view := report.NewView(bundle, pipeline.BenchmarkFetcher().Benchmarks())

		if fetchJSON {
			out, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("could not serialize view")
			}
			fmt.Println(string(out))
			return
		}

		if err := report.WriteTable(os.Stdout, view); err != nil {
			log.Fatal().Err(err).Msg("could not write table")
		}
		if bundle.FailedEntirely() {
			os.Exit(1)
		}
	},
}
