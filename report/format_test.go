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

package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/data"
	"github.com/winstonnagel/software-engineering-portfolio-web-app/report"
)

var _ = Describe("Format", func() {
	DescribeTable("FormatBillions",
		func(raw interface{}, expected string) {
			Expect(report.FormatBillions(data.ParseValue(raw))).To(Equal(expected))
		},
		Entry("under a billion keeps one decimal", 250000000.0, "$0.3B"),
		Entry("at a billion drops decimals", 1000000000.0, "$1B"),
		Entry("large cap", 2450000000000.0, "$2450B"),
		Entry("rounds to whole billions", 2600000000.0, "$3B"),
		Entry("sentinel", nil, "N/A"),
	)

	DescribeTable("FormatValue",
		func(field data.Field, raw interface{}, expected string) {
			Expect(report.FormatValue(field, data.ParseValue(raw))).To(Equal(expected))
		},
		Entry("percent field", data.FieldDividendYieldPct, "2.34", "2.34%"),
		Entry("profit margin stays a plain ratio", data.FieldProfitMarginPct, "0.2531", "0.25"),
		Entry("currency field", data.FieldRevenue, 394330000000.0, "$394B"),
		Entry("plain field", data.FieldPERatio, "28.5", "28.50"),
		Entry("sentinel percent", data.FieldYear1ChangePct, nil, "N/A"),
		Entry("sentinel plain", data.FieldBeta, "abc", "N/A"),
	)

	DescribeTable("BetaTone",
		func(raw interface{}, expected report.Tone) {
			Expect(report.BetaTone(data.ParseValue(raw))).To(Equal(expected))
		},
		Entry("low beta", "0.5", report.ToneRisk),
		Entry("high beta", "1.6", report.ToneRisk),
		Entry("lower bound", "0.6", report.TonePositive),
		Entry("upper bound", "1.5", report.TonePositive),
		Entry("market beta", "1", report.TonePositive),
		Entry("sentinel", nil, report.ToneNeutral),
	)

	DescribeTable("ChangeTone",
		func(raw interface{}, expected report.Tone) {
			Expect(report.ChangeTone(data.ParseValue(raw))).To(Equal(expected))
		},
		Entry("gain", "3.2", report.TonePositive),
		Entry("loss", "-0.01", report.ToneNegative),
		Entry("flat", "0", report.ToneNeutral),
		Entry("sentinel", nil, report.ToneNeutral),
	)

	It("titles the chart by ticker count", func() {
		Expect(report.ChartTitle([]string{"AAPL"})).To(Equal("Stock Chart"))
		Expect(report.ChartTitle([]string{"AAPL", "MSFT"})).To(Equal("Combined Stock Chart"))
		Expect(report.ChartTitle([]string{"AAPL", "AAPL"})).To(Equal("Combined Stock Chart"))
	})
})
