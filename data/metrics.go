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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/iex"
)

// WeeksAgoOffset is the number of entries back from the end of the one year
// chart used as the 52-weeks-ago price.
const WeeksAgoOffset = 52

type fieldSource struct {
	field   Field
	key     string
	percent bool
}

// advanced-stats keys mapped onto record fields
var fundamentalSources = []fieldSource{
	{FieldMarketCap, "marketcap", false},
	{FieldPERatio, "peRatio", false},
	{FieldBeta, "beta", false},
	{FieldDividendYieldPct, "dividendYield", true},
	{FieldEPSTTM, "ttmEPS", false},
	{FieldWeek52High, "week52high", false},
	{FieldWeek52Low, "week52low", false},
	{FieldProfitMarginPct, "profitMargin", false},
	{FieldRevenue, "revenue", false},
	{FieldMaxChangePct, "maxChangePercent", true},
	{FieldYear5ChangePct, "year5ChangePercent", true},
	{FieldYear1ChangePct, "year1ChangePercent", true},
	{FieldMonth6ChangePct, "month6ChangePercent", true},
	{FieldDay5ChangePct, "day5ChangePercent", true},
}

// ExtractMetrics builds the canonical record for ticker from the advanced stats,
// company and one year chart responses. company and chart may be nil.
func ExtractMetrics(ticker string, fundamentals, company iex.Object, chart iex.Series) MetricsRecord {
	subLog := log.With().Str("Ticker", ticker).Logger()

	rec := MetricsRecord{
		Ticker:      ticker,
		CompanyName: stringField(company, "companyName"),
		Sector:      stringField(company, "sector"),
	}

	for _, src := range fundamentalSources {
		raw := fundamentals[src.key]
		v := ParseValue(raw)
		if !v.Valid {
			subLog.Debug().Str("Field", string(src.field)).Interface("Raw", raw).Msg("metric not available")
		}
		if src.percent {
			v = v.Percent()
		} else {
			v = v.Round(2)
		}
		rec.Set(src.field, v)
	}

	rec.PriceApprox52WeeksAgo = PriceWeeksAgo(chart)

	return rec
}

// PriceWeeksAgo returns the close WeeksAgoOffset entries before the end of
// chart. Short series and non-numeric closes yield zero, not NotAvailable.
func PriceWeeksAgo(chart iex.Series) Value {
	zero := NewValue(decimal.Zero)
	if len(chart) < WeeksAgoOffset {
		return zero
	}
	v := ParseValue(chart[len(chart)-WeeksAgoOffset]["close"])
	if !v.Valid {
		return zero
	}
	return v.Round(2)
}

func stringField(obj iex.Object, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
