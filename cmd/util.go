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
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/common"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
)

// newClient builds the IEX client from the iex.* and cache.* settings. The
// returned cache must be closed by the caller.
func newClient() (*iex.Client, *common.Cache) {
	token := viper.GetString("iex.token")
	if token == "" {
		log.Fatal().Msg("iex.token is required; set IEX_TOKEN or --iex-token")
	}

	opts := []iex.ClientOption{
		iex.WithBaseURL(viper.GetString("iex.base_url")),
		iex.WithHTTPClient(&http.Client{Timeout: viper.GetDuration("iex.timeout")}),
	}

	cache, err := common.NewCache(common.CacheConfigFromViper())
	if err != nil {
		log.Fatal().Err(err).Msg("could not create response cache")
	}
	if cache.Enabled() {
		opts = append(opts, iex.WithCache(cache))
	}

	return iex.NewClient(token, opts...), cache
}

// configuredBenchmarks reads the benchmarks.list override, nil keeps the defaults
func configuredBenchmarks() []dashboard.Benchmark {
	var benchmarks []dashboard.Benchmark
	if err := viper.UnmarshalKey("benchmarks.list", &benchmarks); err != nil {
		log.Fatal().Err(err).Msg("could not parse benchmarks.list")
	}
	return benchmarks
}

func newPipeline(provider dashboard.Provider) *dashboard.Pipeline {
	return dashboard.NewPipeline(provider,
		dashboard.WithBenchmarks(configuredBenchmarks()),
		dashboard.WithHistoryYears(viper.GetInt("iex.history_years")),
	)
}
