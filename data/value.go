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
	"bytes"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const NotAvailableText = "N/A"

// Value is a metric that is either a finite decimal or not available. The zero
// value is not available.
type Value struct {
	Decimal decimal.Decimal
	Valid   bool
}

var NotAvailable = Value{}

// NewValue returns a valid value holding d
func NewValue(d decimal.Decimal) Value {
	return Value{Decimal: d, Valid: true}
}

// NewValueFromFloat returns a valid value for finite f and NotAvailable otherwise
func NewValueFromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NotAvailable
	}
	return NewValue(decimal.NewFromFloat(f))
}

// ParseValue coerces a decoded JSON value into a Value. Anything that is not a
// finite number (or a string holding one) is NotAvailable.
func ParseValue(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return NotAvailable
	case json.Number:
		return parseString(string(v))
	case float64:
		return NewValueFromFloat(v)
	case float32:
		return NewValueFromFloat(float64(v))
	case int:
		return NewValue(decimal.NewFromInt(int64(v)))
	case int64:
		return NewValue(decimal.NewFromInt(v))
	case string:
		return parseString(v)
	case decimal.Decimal:
		return NewValue(v)
	case Value:
		return v
	default:
		return NotAvailable
	}
}

func parseString(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return NotAvailable
	}
	return NewValue(d)
}

// Round returns v rounded to places decimal places
func (v Value) Round(places int32) Value {
	if !v.Valid {
		return v
	}
	return NewValue(v.Decimal.Round(places))
}

// Percent converts a fraction into a percentage rounded to two places
func (v Value) Percent() Value {
	if !v.Valid {
		return v
	}
	return NewValue(v.Decimal.Mul(decimal.NewFromInt(100)).Round(2))
}

// Equal reports whether both values are NotAvailable or hold the same decimal
func (v Value) Equal(other Value) bool {
	if v.Valid != other.Valid {
		return false
	}
	return !v.Valid || v.Decimal.Equal(other.Decimal)
}

// String formats the value with two decimals, or N/A
func (v Value) String() string {
	if !v.Valid {
		return NotAvailableText
	}
	return v.Decimal.StringFixed(2)
}

// MarshalJSON writes a bare number, or the quoted N/A text for NotAvailable
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte(`"` + NotAvailableText + `"`), nil
	}
	return []byte(v.Decimal.String()), nil
}

// UnmarshalJSON accepts a number, a numeric string, null or "N/A"
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`"`+NotAvailableText+`"`)) {
		*v = NotAvailable
		return nil
	}
	*v = parseString(strings.Trim(string(b), `"`))
	return nil
}
