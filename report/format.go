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

package report

import (
	"github.com/shopspring/decimal"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/data"
)

// Tone is a display hint attached to a formatted value
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneRisk     Tone = "risk"
)

var (
	billion  = decimal.New(1, 9)
	betaLow  = decimal.RequireFromString("0.6")
	betaHigh = decimal.RequireFromString("1.5")
)

// FormatValue renders v the way the dashboard displays field
func FormatValue(field data.Field, v data.Value) string {
	switch {
	case !v.Valid:
		return data.NotAvailableText
	case field.IsCurrency():
		return FormatBillions(v)
	case field.IsPercent():
		return FormatPercent(v)
	default:
		return v.String()
	}
}

// FormatBillions abbreviates a dollar amount in billions. Amounts under one
// billion keep a single decimal place.
func FormatBillions(v data.Value) string {
	if !v.Valid {
		return data.NotAvailableText
	}
	places := int32(0)
	if v.Decimal.LessThan(billion) {
		places = 1
	}
	return "$" + v.Decimal.Div(billion).StringFixed(places) + "B"
}

// FormatPercent renders an already scaled percentage with a "%" suffix
func FormatPercent(v data.Value) string {
	if !v.Valid {
		return data.NotAvailableText
	}
	return v.String() + "%"
}

// BetaTone flags betas outside [0.6, 1.5] as risky
func BetaTone(v data.Value) Tone {
	if !v.Valid {
		return ToneNeutral
	}
	if v.Decimal.LessThan(betaLow) || v.Decimal.GreaterThan(betaHigh) {
		return ToneRisk
	}
	return TonePositive
}

// ChangeTone colors a change by its sign
func ChangeTone(v data.Value) Tone {
	if !v.Valid {
		return ToneNeutral
	}
	switch v.Decimal.Sign() {
	case 1:
		return TonePositive
	case -1:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// ToneFor picks the tone of a metric cell
func ToneFor(field data.Field, v data.Value) Tone {
	switch {
	case field == data.FieldBeta:
		return BetaTone(v)
	case field.IsPercent() && field != data.FieldDividendYieldPct:
		return ChangeTone(v)
	default:
		return ToneNeutral
	}
}

// ChartTitle names the price chart for the submitted tickers
func ChartTitle(tickers []string) string {
	if len(tickers) == 1 {
		return "Stock Chart"
	}
	return "Combined Stock Chart"
}
