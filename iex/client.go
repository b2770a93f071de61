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
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/observability/opentelemetry"
)

const (
	DefaultBaseURL = "https://cloud.iexapis.com/stable"
	DefaultTimeout = 30 * time.Second
)

// Client issues single-attempt GET requests against the IEX cloud API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      Cache
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCache enables response caching.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a client authenticating every request with token
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HTTPClient returns the underlying http client
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// GetPriceHistory returns the daily chart for ticker covering rangeYears years.
// The provider returns points newest first.
func (c *Client) GetPriceHistory(ctx context.Context, ticker string, rangeYears int) (Series, error) {
	params := url.Values{}
	params.Set("range", fmt.Sprintf("%dy", rangeYears))
	series := Series{}
	if err := c.get(ctx, ticker, EndpointChart, "chart/1y", params, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetYearChart returns the one year daily chart for ticker
func (c *Client) GetYearChart(ctx context.Context, ticker string) (Series, error) {
	series := Series{}
	if err := c.get(ctx, ticker, EndpointChart, "chart/1y", nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetFundamentals returns the advanced statistics object for ticker
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (Object, error) {
	obj := Object{}
	if err := c.get(ctx, ticker, EndpointAdvancedStats, EndpointAdvancedStats, nil, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// GetCompanyInfo returns the company object (sector, companyName) for ticker
func (c *Client) GetCompanyInfo(ctx context.Context, ticker string) (Object, error) {
	obj := Object{}
	if err := c.get(ctx, ticker, EndpointCompany, EndpointCompany, nil, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *Client) get(ctx context.Context, ticker, endpoint, path string, params url.Values, result interface{}) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "iex."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	subLog := log.With().Str("Ticker", ticker).Str("Endpoint", endpoint).Logger()

	if ticker == "" {
		span.SetStatus(codes.Error, ErrEmptyTicker.Error())
		return &RequestError{Ticker: ticker, Endpoint: endpoint, Err: ErrEmptyTicker}
	}

	if params == nil {
		params = url.Values{}
	}

	publicURL := fmt.Sprintf("%s/stock/%s/%s", c.baseURL, url.PathEscape(ticker), path)
	if len(params) > 0 {
		publicURL = publicURL + "?" + params.Encode()
	}

	span.SetAttributes(
		attribute.String("Url", publicURL),
		attribute.String("Ticker", ticker),
	)

	cacheKey := hashKey(publicURL)
	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			subLog.Debug().Bool("Cached", true).Msg("load data from iex")
			if err := decode(body, result); err != nil {
				subLog.Warn().Err(err).Msg("cached iex body could not be decoded")
			} else {
				return nil
			}
		}
	}

	params.Set("token", c.token)
	reqURL := fmt.Sprintf("%s/stock/%s/%s?%s", c.baseURL, url.PathEscape(ticker), path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "could not build request")
		return &RequestError{Ticker: ticker, Endpoint: endpoint, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		msg := "iex http request failed"
		span.SetStatus(codes.Error, msg)
		subLog.Warn().Err(err).Str("Url", publicURL).Msg(msg)
		return &RequestError{Ticker: ticker, Endpoint: endpoint, Err: err}
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		msg := "could not read iex body"
		span.SetStatus(codes.Error, msg)
		subLog.Warn().Err(err).Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
		return &RequestError{Ticker: ticker, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetAttributes(attribute.Int("StatusCode", resp.StatusCode))
		msg := "iex returned invalid response code"
		span.SetStatus(codes.Error, msg)
		subLog.Warn().Int("HTTPResponseStatusCode", resp.StatusCode).Bytes("Body", body).Msg(msg)
		return &RequestError{Ticker: ticker, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if err := decode(body, result); err != nil {
		span.RecordError(err)
		msg := "could not unmarshal json"
		span.SetStatus(codes.Error, msg)
		subLog.Warn().Err(err).Bytes("Body", body).Msg(msg)
		return &RequestError{Ticker: ticker, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, body)
	}

	return nil
}

func decode(body []byte, result interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(result)
}

// hashKey is computed over the token-free URL.
func hashKey(publicURL string) string {
	sum := blake3.Sum256([]byte(publicURL))
	return "iex:" + hex.EncodeToString(sum[:])
}
