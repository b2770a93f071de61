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
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field names a numeric column of a MetricsRecord
type Field string

const (
	FieldMarketCap             Field = "marketCap"
	FieldPERatio               Field = "peRatio"
	FieldBeta                  Field = "beta"
	FieldDividendYieldPct      Field = "dividendYieldPct"
	FieldEPSTTM                Field = "epsTTM"
	FieldWeek52High            Field = "week52High"
	FieldWeek52Low             Field = "week52Low"
	FieldPriceApprox52WeeksAgo Field = "priceApprox52WeeksAgo"
	FieldProfitMarginPct       Field = "profitMarginPct"
	FieldRevenue               Field = "revenue"
	FieldMaxChangePct          Field = "maxChangePct"
	FieldYear5ChangePct        Field = "year5ChangePct"
	FieldYear1ChangePct        Field = "year1ChangePct"
	FieldMonth6ChangePct       Field = "month6ChangePct"
	FieldDay5ChangePct         Field = "day5ChangePct"
)

// NumericFields lists every numeric field in display order
var NumericFields = []Field{
	FieldMarketCap,
	FieldPERatio,
	FieldBeta,
	FieldDividendYieldPct,
	FieldEPSTTM,
	FieldWeek52High,
	FieldWeek52Low,
	FieldPriceApprox52WeeksAgo,
	FieldProfitMarginPct,
	FieldRevenue,
	FieldMaxChangePct,
	FieldYear5ChangePct,
	FieldYear1ChangePct,
	FieldMonth6ChangePct,
	FieldDay5ChangePct,
}

// IsPercent reports whether values of the field are stored as percentages.
// profitMarginPct keeps the provider's unscaled ratio and is not one.
func (f Field) IsPercent() bool {
	return f != FieldProfitMarginPct && strings.HasSuffix(string(f), "Pct")
}

// IsCurrency reports whether values of the field are whole-dollar amounts
func (f Field) IsCurrency() bool {
	return f == FieldMarketCap || f == FieldRevenue
}

// MetricsRecord is the canonical per-ticker (or per-benchmark) snapshot.
type MetricsRecord struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
	Sector      string `json:"sector"`

	MarketCap             Value `json:"marketCap"`
	PERatio               Value `json:"peRatio"`
	Beta                  Value `json:"beta"`
	DividendYieldPct      Value `json:"dividendYieldPct"`
	EPSTTM                Value `json:"epsTTM"`
	Week52High            Value `json:"week52High"`
	Week52Low             Value `json:"week52Low"`
	PriceApprox52WeeksAgo Value `json:"priceApprox52WeeksAgo"`
	ProfitMarginPct       Value `json:"profitMarginPct"`
	Revenue               Value `json:"revenue"`
	MaxChangePct          Value `json:"maxChangePct"`
	Year5ChangePct        Value `json:"year5ChangePct"`
	Year1ChangePct        Value `json:"year1ChangePct"`
	Month6ChangePct       Value `json:"month6ChangePct"`
	Day5ChangePct         Value `json:"day5ChangePct"`
}

// Get returns the value stored for field; unknown fields are NotAvailable
func (r *MetricsRecord) Get(field Field) Value {
	if p := r.slot(field); p != nil {
		return *p
	}
	return NotAvailable
}

// Set stores v for field. Unknown fields are ignored.
func (r *MetricsRecord) Set(field Field, v Value) {
	if p := r.slot(field); p != nil {
		*p = v
	}
}

func (r *MetricsRecord) slot(field Field) *Value {
	switch field {
	case FieldMarketCap:
		return &r.MarketCap
	case FieldPERatio:
		return &r.PERatio
	case FieldBeta:
		return &r.Beta
	case FieldDividendYieldPct:
		return &r.DividendYieldPct
	case FieldEPSTTM:
		return &r.EPSTTM
	case FieldWeek52High:
		return &r.Week52High
	case FieldWeek52Low:
		return &r.Week52Low
	case FieldPriceApprox52WeeksAgo:
		return &r.PriceApprox52WeeksAgo
	case FieldProfitMarginPct:
		return &r.ProfitMarginPct
	case FieldRevenue:
		return &r.Revenue
	case FieldMaxChangePct:
		return &r.MaxChangePct
	case FieldYear5ChangePct:
		return &r.Year5ChangePct
	case FieldYear1ChangePct:
		return &r.Year1ChangePct
	case FieldMonth6ChangePct:
		return &r.Month6ChangePct
	case FieldDay5ChangePct:
		return &r.Day5ChangePct
	default:
		return nil
	}
}

// AverageRow holds the cross-sectional average of every numeric field
type AverageRow map[Field]Value

// Get returns the average for field, NotAvailable when it was never computed
func (a AverageRow) Get(field Field) Value {
	if v, ok := a[field]; ok {
		return v
	}
	return NotAvailable
}

// PricePoint is a single daily close
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// PriceHistory is an ascending series of closes. Ticker is empty for benchmarks.
type PriceHistory struct {
	Ticker string       `json:"ticker"`
	Points []PricePoint `json:"points"`
}

// Last returns the most recent close
func (h PriceHistory) Last() Value {
	if len(h.Points) == 0 {
		return NotAvailable
	}
	return NewValue(h.Points[len(h.Points)-1].Close)
}
