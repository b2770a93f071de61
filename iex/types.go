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

package iex

const (
	EndpointChart         = "chart"
	EndpointAdvancedStats = "advanced-stats"
	EndpointCompany       = "company"
)

// Object is a single provider JSON object. Numbers are decoded as json.Number so
// that callers decide how to coerce them.
type Object map[string]interface{}

// Series is a provider JSON array of objects, e.g. a price chart.
type Series []Object

// Cache stores raw response bodies keyed by a token-free request hash.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}
