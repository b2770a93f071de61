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
	"time"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/dashboard"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/data"
)

// AverageLabel labels the cross-sectional average row
const AverageLabel = "Average"

// Column is one metric column of the dashboard table
type Column struct {
	Field data.Field `json:"field"`
	Title string     `json:"title"`
}

var Columns = []Column{
	{data.FieldMarketCap, "Market Cap"},
	{data.FieldPERatio, "P/E Ratio"},
	{data.FieldBeta, "Beta"},
	{data.FieldDividendYieldPct, "Dividend Yield"},
	{data.FieldEPSTTM, "EPS (TTM)"},
	{data.FieldWeek52High, "52 Week High"},
	{data.FieldWeek52Low, "52 Week Low"},
	{data.FieldPriceApprox52WeeksAgo, "Price ~52 Weeks Ago"},
	{data.FieldProfitMarginPct, "Profit Margin"},
	{data.FieldRevenue, "Revenue"},
	{data.FieldMaxChangePct, "Max Change"},
	{data.FieldYear5ChangePct, "5 Year Change"},
	{data.FieldYear1ChangePct, "1 Year Change"},
	{data.FieldMonth6ChangePct, "6 Month Change"},
	{data.FieldDay5ChangePct, "5 Day Change"},
}

// Cell is a formatted value
type Cell struct {
	Text  string     `json:"text"`
	Tone  Tone       `json:"tone"`
	Value data.Value `json:"value"`
}

// Row is one line of the dashboard table
type Row struct {
	Label        string `json:"label"`
	CompanyName  string `json:"companyName,omitempty"`
	Sector       string `json:"sector,omitempty"`
	Cells        []Cell `json:"cells"`
	Week52Change Cell   `json:"week52Change"`
}

// View is the presentation model of a ResultBundle
type View struct {
	ID          string              `json:"id"`
	SessionID   string              `json:"sessionId,omitempty"`
	Generation  uint64              `json:"generation"`
	ChartTitle  string              `json:"chartTitle"`
	Columns     []Column            `json:"columns"`
	Rows        []Row               `json:"rows"`
	Average     Row                 `json:"average"`
	Benchmarks  []Row               `json:"benchmarks"`
	Histories   []data.PriceHistory `json:"histories"`
	Errors      []string            `json:"errors"`
	CompletedAt time.Time           `json:"completedAt"`
}

// NewView formats bundle for display. Benchmark rows follow the order of
// benchmarks; a benchmark that failed to load renders as N/A.
func NewView(bundle *dashboard.ResultBundle, benchmarks []dashboard.Benchmark) *View {
	lastClose := make(map[string]data.Value, len(bundle.Histories))
	for _, h := range bundle.Histories {
		lastClose[h.Ticker] = h.Last()
	}

	view := &View{
		ID:          bundle.ID.String(),
		SessionID:   bundle.SessionID,
		Generation:  bundle.Generation,
		ChartTitle:  ChartTitle(bundle.Tickers),
		Columns:     Columns,
		Rows:        make([]Row, 0, len(bundle.Metrics)),
		Benchmarks:  make([]Row, 0, len(benchmarks)),
		Histories:   bundle.Histories,
		Errors:      bundle.Errors,
		CompletedAt: bundle.CompletedAt,
	}

	for idx := range bundle.Metrics {
		rec := &bundle.Metrics[idx]
		row := recordRow(rec.Ticker, rec)
		row.CompanyName = rec.CompanyName
		row.Sector = rec.Sector
		current, ok := lastClose[rec.Ticker]
		if !ok {
			current = data.NotAvailable
		}
		row.Week52Change = changeCell(data.PercentChange(current, rec.PriceApprox52WeeksAgo))
		view.Rows = append(view.Rows, row)
	}

	view.Average = Row{Label: AverageLabel, Cells: make([]Cell, 0, len(Columns)), Week52Change: changeCell(data.NotAvailable)}
	for _, col := range Columns {
		view.Average.Cells = append(view.Average.Cells, cell(col.Field, bundle.Averages.Get(col.Field)))
	}

	for _, bm := range benchmarks {
		rec := bundle.Benchmarks[bm.ID]
		if rec == nil {
			rec = &data.MetricsRecord{Ticker: bm.Symbol}
		}
		row := recordRow(bm.Name, rec)
		row.Week52Change = changeCell(data.NotAvailable)
		view.Benchmarks = append(view.Benchmarks, row)
	}

	return view
}

func recordRow(label string, rec *data.MetricsRecord) Row {
	row := Row{Label: label, Cells: make([]Cell, 0, len(Columns))}
	for _, col := range Columns {
		row.Cells = append(row.Cells, cell(col.Field, rec.Get(col.Field)))
	}
	return row
}

func cell(field data.Field, v data.Value) Cell {
	return Cell{Text: FormatValue(field, v), Tone: ToneFor(field, v), Value: v}
}

func changeCell(v data.Value) Cell {
	return Cell{Text: FormatPercent(v), Tone: ChangeTone(v), Value: v}
}
