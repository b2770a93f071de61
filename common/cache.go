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

package common

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// CacheConfig selects the cache tiers. A LocalSize of zero disables the in
// process tier and an empty RedisURL disables the shared tier.
type CacheConfig struct {
	LocalSize int
	RedisURL  string
	TTL       time.Duration
}

// Cache stores lz4 compressed response bodies in an LRU and, optionally, redis.
// A positive TTL expires entries in both tiers.
type Cache struct {
	local *lru.Cache
	rdb   *redis.Client
	ttl   time.Duration
}

// CacheConfigFromViper reads the cache.* settings
func CacheConfigFromViper() CacheConfig {
	cfg := CacheConfig{
		LocalSize: viper.GetInt("cache.local_size"),
		TTL:       viper.GetDuration("cache.ttl"),
	}
	if viper.GetBool("cache.redis") {
		cfg.RedisURL = viper.GetString("cache.redis_url")
	}
	return cfg
}

type localEntry struct {
	body   []byte
	stored time.Time
}

func NewCache(cfg CacheConfig) (*Cache, error) {
	c := &Cache{ttl: cfg.TTL}

	if cfg.LocalSize > 0 {
		local, err := lru.New(cfg.LocalSize)
		if err != nil {
			log.Error().Err(err).Int("Size", cfg.LocalSize).Msg("could not create LRU cache")
			return nil, err
		}
		c.local = local
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error().Err(err).Msg("could not parse redis URL")
			return nil, err
		}
		c.rdb = redis.NewClient(opt)
	}

	return c, nil
}

// Enabled reports whether any tier is configured
func (c *Cache) Enabled() bool {
	return c.local != nil || c.rdb != nil
}

func (c *Cache) Get(key string) ([]byte, bool) {
	var compressed []byte

	if c.local != nil {
		if v, ok := c.local.Get(key); ok {
			entry := v.(localEntry)
			if c.ttl > 0 && time.Since(entry.stored) > c.ttl {
				c.local.Remove(key)
			} else {
				compressed = entry.body
			}
		}
	}

	if compressed == nil && c.rdb != nil {
		val, err := c.rdb.GetEx(context.Background(), key, c.ttl).Bytes()
		if err != nil {
			if err != redis.Nil {
				log.Warn().Err(err).Str("Key", key).Msg("redis get failed")
			}
			return nil, false
		}
		compressed = val
		if c.local != nil {
			c.local.Add(key, localEntry{body: val, stored: time.Now()})
		}
	}

	if compressed == nil {
		return nil, false
	}

	body, err := Decompress(compressed)
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not decompress cached value")
		return nil, false
	}
	return body, true
}

func (c *Cache) Set(key string, value []byte) {
	if !c.Enabled() {
		return
	}

	compressed, err := Compress(value)
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not compress value")
		return
	}

	if c.local != nil {
		c.local.Add(key, localEntry{body: compressed, stored: time.Now()})
	}

	if c.rdb != nil {
		if err := c.rdb.Set(context.Background(), key, compressed, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("Key", key).Msg("redis set failed")
		}
	}
}

// Len is the number of entries in the in process tier
func (c *Cache) Len() int {
	if c.local == nil {
		return 0
	}
	return c.local.Len()
}

func (c *Cache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
