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
)

// Average computes the mean of field over the records that have a valid value
// for it, rounded to two places. Each field is filtered independently.
func Average(records []MetricsRecord, field Field) Value {
	sum := decimal.Zero
	count := 0
	for idx := range records {
		v := records[idx].Get(field)
		if !v.Valid {
			continue
		}
		sum = sum.Add(v.Decimal)
		count++
	}

	if count == 0 {
		log.Debug().Str("Field", string(field)).Msg("no valid data found for field")
		return NotAvailable
	}

	return NewValue(sum.Div(decimal.NewFromInt(int64(count))).Round(2))
}

// Averages computes Average for every numeric field
func Averages(records []MetricsRecord) AverageRow {
	row := make(AverageRow, len(NumericFields))
	for _, field := range NumericFields {
		row[field] = Average(records, field)
	}
	return row
}

// PercentChange returns (current - base) / base * 100 rounded to two places.
// A zero base is NotAvailable.
func PercentChange(current, base Value) Value {
	if !current.Valid || !base.Valid || base.Decimal.IsZero() {
		return NotAvailable
	}
	return NewValue(current.Decimal.Sub(base.Decimal).Div(base.Decimal).Mul(decimal.NewFromInt(100)).Round(2))
}
