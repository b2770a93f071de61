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

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTicker       = errors.New("ticker is empty")
	ErrMalformedResponse = errors.New("malformed response body")
	ErrUnexpectedStatus  = errors.New("unexpected HTTP status code")
)

// RequestError describes a single failed call against the provider. It is the
// only error type returned by Client methods.
type RequestError struct {
	Ticker     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %v (status %d)", e.Ticker, e.Endpoint, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Ticker, e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
