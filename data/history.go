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

package data

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
)

const DateFormat = "2006-01-02"

// ExtractHistory converts a newest-first provider chart into an ascending
// PriceHistory. Entries without a parseable date or close are skipped.
func ExtractHistory(ticker string, chart iex.Series) PriceHistory {
	subLog := log.With().Str("Ticker", ticker).Logger()

	points := make([]PricePoint, 0, len(chart))
	for idx := len(chart) - 1; idx >= 0; idx-- {
		entry := chart[idx]

		dateStr, _ := entry["date"].(string)
		dt, err := time.Parse(DateFormat, dateStr)
		if err != nil {
			subLog.Debug().Int("Index", idx).Str("Date", dateStr).Msg("skipping chart entry with invalid date")
			continue
		}

		closePrice := ParseValue(entry["close"])
		if !closePrice.Valid {
			subLog.Debug().Int("Index", idx).Str("Date", dateStr).Msg("skipping chart entry with invalid close")
			continue
		}

		points = append(points, PricePoint{
			Date:  dt,
			Close: closePrice.Decimal,
		})
	}

	return PriceHistory{
		Ticker: ticker,
		Points: points,
	}
}
