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

package common_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/winstonnagel/software-engineering-portfolio-web-app/common"
)

var _ = Describe("Cache", func() {
	body := []byte(`[{"date": "2022-06-01", "close": 148.71}, {"date": "2022-06-02", "close": 151.21}]`)

	It("round trips values through lz4", func() {
		compressed, err := common.Compress(bytes.Repeat(body, 20))
		Expect(err).ToNot(HaveOccurred())
		Expect(len(compressed)).To(BeNumerically("<", len(body)*20))

		decompressed, err := common.Decompress(compressed)
		Expect(err).ToNot(HaveOccurred())
		Expect(decompressed).To(Equal(bytes.Repeat(body, 20)))
	})

	It("stores and retrieves from the local tier", func() {
		cache, err := common.NewCache(common.CacheConfig{LocalSize: 2})
		Expect(err).ToNot(HaveOccurred())
		Expect(cache.Enabled()).To(BeTrue())

		cache.Set("iex:a", body)
		got, ok := cache.Get("iex:a")
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(body))

		_, ok = cache.Get("iex:missing")
		Expect(ok).To(BeFalse())
	})

	It("evicts the least recently used entry", func() {
		cache, err := common.NewCache(common.CacheConfig{LocalSize: 2})
		Expect(err).ToNot(HaveOccurred())

		cache.Set("a", []byte("1"))
		cache.Set("b", []byte("2"))
		cache.Set("c", []byte("3"))

		Expect(cache.Len()).To(Equal(2))
		_, ok := cache.Get("a")
		Expect(ok).To(BeFalse())
	})

	It("expires local entries after the ttl", func() {
		cache, err := common.NewCache(common.CacheConfig{LocalSize: 2, TTL: 20 * time.Millisecond})
		Expect(err).ToNot(HaveOccurred())

		cache.Set("iex:a", body)
		_, ok := cache.Get("iex:a")
		Expect(ok).To(BeTrue())

		time.Sleep(40 * time.Millisecond)
		_, ok = cache.Get("iex:a")
		Expect(ok).To(BeFalse())
		Expect(cache.Len()).To(Equal(0))
	})

	It("keeps local entries without a ttl", func() {
		cache, err := common.NewCache(common.CacheConfig{LocalSize: 2})
		Expect(err).ToNot(HaveOccurred())

		cache.Set("iex:a", body)
		time.Sleep(10 * time.Millisecond)
		_, ok := cache.Get("iex:a")
		Expect(ok).To(BeTrue())
	})

	It("is a no-op when no tier is configured", func() {
		cache, err := common.NewCache(common.CacheConfig{})
		Expect(err).ToNot(HaveOccurred())
		Expect(cache.Enabled()).To(BeFalse())

		cache.Set("a", body)
		_, ok := cache.Get("a")
		Expect(ok).To(BeFalse())
		Expect(cache.Close()).To(Succeed())
	})

	It("rejects an invalid redis url", func() {
		_, err := common.NewCache(common.CacheConfig{RedisURL: "ftp://localhost"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Version", func() {
	It("appends the suffix to pre-release versions", func() {
		Expect(common.Version{Major: 1, Minor: 2, Patch: 3}.String()).To(Equal("1.2.3"))
		Expect(common.Version{Major: 1, Minor: 2, Patch: 3, Suffix: "dev"}.String()).To(HavePrefix("1.2.3-dev"))
	})

	It("names the program in the build string", func() {
		Expect(common.BuildVersionString()).To(HavePrefix(common.ProgramName + " v"))
	})
})
