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

import "strings"

// NormalizeTickers splits a comma separated list, trimming and upper-casing
// each entry. Empty segments and duplicates are kept.
func NormalizeTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	for ii := range parts {
		parts[ii] = strings.ToUpper(strings.TrimSpace(parts[ii]))
	}
	return parts
}

// CompactTickers drops empty entries, preserving order and duplicates
func CompactTickers(tickers []string) []string {
	res := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		if ticker != "" {
			res = append(res, ticker)
		}
	}
	return res
}
