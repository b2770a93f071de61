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
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteTable prints view as an ASCII table followed by any fetch errors
func WriteTable(w io.Writer, view *View) error {
	header := make([]string, 0, len(view.Columns)+2)
	header = append(header, "Ticker")
	for _, col := range view.Columns {
		header = append(header, col.Title)
	}
	header = append(header, "52 Week Change")

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	if len(view.Rows) == 0 {
		table.Append(blankRow("<NO DATA>", len(header)))
	}
	for _, row := range view.Rows {
		table.Append(tableRow(row))
	}
	table.Append(tableRow(view.Average))
	for _, row := range view.Benchmarks {
		table.Append(tableRow(row))
	}

	if _, err := fmt.Fprintln(w, view.ChartTitle); err != nil {
		return err
	}
	table.Render()

	for _, msg := range view.Errors {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}

func tableRow(row Row) []string {
	out := make([]string, 0, len(row.Cells)+2)
	out = append(out, row.Label)
	for _, c := range row.Cells {
		out = append(out, c.Text)
	}
	return append(out, row.Week52Change.Text)
}

func blankRow(label string, width int) []string {
	out := make([]string, width)
	out[0] = label
	return out
}
