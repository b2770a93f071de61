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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/common"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
)

var Profile bool

func bindFlag(key, env string) {
	if env != "" {
		viper.BindEnv(key, env)
	}
	viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flagName(key)))
}

func init() {
	flags := rootCmd.PersistentFlags()

	// IEX Cloud
	flags.String("iex-token", "", "IEX Cloud API token")
	bindFlag("iex.token", "IEX_TOKEN")

	flags.String("iex-base-url", iex.DefaultBaseURL, "IEX Cloud base URL")
	bindFlag("iex.base_url", "IEX_BASE_URL")

	flags.Int("iex-history-years", 10, "Years of price history to chart")
	bindFlag("iex.history_years", "")

	flags.Duration("iex-timeout", iex.DefaultTimeout, "Timeout for a single IEX Cloud request")
	bindFlag("iex.timeout", "")

	// Cache
	flags.Int("cache-local-size", 0, "Number of provider responses kept in memory, 0 disables")
	bindFlag("cache.local_size", "")

	flags.Bool("cache-redis", false, "Also cache provider responses in redis")
	bindFlag("cache.redis", "")

	flags.String("cache-redis-url", "redis://localhost:6379/0", "Redis connection string")
	bindFlag("cache.redis_url", "REDIS_URL")

	flags.Duration("cache-ttl", 0, "Expiry of redis cache entries, 0 never expires")
	bindFlag("cache.ttl", "")

	// Logging configuration
	flags.String("log-level", "warning", "Logging level")
	bindFlag("log.level", "THEPORTFOLIO_LOG_LEVEL")

	flags.Bool("log-report-caller", false, "Log function name that called log statement")
	bindFlag("log.report_caller", "")

	flags.String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	bindFlag("log.output", "THEPORTFOLIO_LOG_OUTPUT")

	flags.Bool("log-pretty", false, "Write human readable logs")
	bindFlag("log.pretty", "")

	flags.BoolVar(&Profile, "cpu-profile", false, "Run pprof and save in profile.out")
}

// flagName turns a config key such as iex.base_url into iex-base-url
func flagName(key string) string {
	out := []byte(key)
	for idx, ch := range out {
		if ch == '.' || ch == '_' {
			out[idx] = '-'
		}
	}
	return string(out)
}

var rootCmd = &cobra.Command{
	Use:     common.ProgramName,
	Version: common.CurrentVersion.String(),
	Short:   "Portfolio dashboard data service",
	Long:    `Fetch price history, fundamentals and benchmark data from IEX Cloud and aggregate it into a portfolio dashboard.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
