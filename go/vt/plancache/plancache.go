/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package plancache keeps compiled plans keyed by the catalog version and
// the canonical form of the query they were compiled from. A new catalog
// version never reuses plans compiled against an older one.
package plancache

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"

	"vitess.io/polystore/go/stats"
	"vitess.io/polystore/go/vt/catalog"
	"vitess.io/polystore/go/vt/engine"
	"vitess.io/polystore/go/vt/log"
	"vitess.io/polystore/go/vt/querytree"
)

var cacheLookups = stats.NewCountersWithSingleLabel("PlanCacheLookups", "Plan cache lookups by outcome", "Outcome", "hit", "miss", "bypass")

// CompileFunc compiles a query against a snapshot.
type CompileFunc func(snapshot catalog.Snapshot, query *querytree.Query) (*engine.Plan, error)

// Config is the configuration of a plan cache.
type Config struct {
	// Enabled turns caching on. A disabled cache compiles every query.
	Enabled bool
	// TTL is how long a plan stays cached after it was compiled.
	TTL time.Duration
	// CleanupInterval is how often expired plans are removed.
	CleanupInterval time.Duration
}

// DefaultConfig caches plans for ten minutes.
func DefaultConfig() Config {
	return Config{Enabled: true, TTL: 10 * time.Minute, CleanupInterval: time.Minute}
}

// Cache is a plan cache. It is safe for concurrent use. Cached plans are
// shared between callers and must not be modified.
type Cache struct {
	plans   *cache.Cache
	enabled bool
}

// New creates a plan cache.
func New(cfg Config) *Cache {
	if !cfg.Enabled {
		return &Cache{}
	}
	if cfg.TTL <= 0 {
		log.Warningf("plan cache TTL (%v) must be positive, plans will not expire", cfg.TTL)
		cfg.TTL = cache.NoExpiration
	}
	return &Cache{plans: cache.New(cfg.TTL, cfg.CleanupInterval), enabled: true}
}

// Key returns the cache key of query compiled against the catalog version.
func Key(version int64, query *querytree.Query) string {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatInt(version, 10))
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(query.String())
	return strconv.FormatUint(d.Sum64(), 16)
}

// GetOrCompile returns the cached plan of query for the version of
// snapshot, compiling and caching it on a miss. Failed compilations are
// not cached.
func (c *Cache) GetOrCompile(snapshot catalog.Snapshot, query *querytree.Query, compile CompileFunc) (*engine.Plan, error) {
	if !c.enabled || query == nil || snapshot == nil {
		cacheLookups.Add("bypass", 1)
		return compile(snapshot, query)
	}

	key := Key(snapshot.Version(), query)
	if plan, ok := c.plans.Get(key); ok {
		cacheLookups.Add("hit", 1)
		return plan.(*engine.Plan), nil
	}
	cacheLookups.Add("miss", 1)
	plan, err := compile(snapshot, query)
	if err != nil {
		return nil, err
	}
	c.plans.SetDefault(key, plan)
	return plan, nil
}

// Len returns the number of cached plans, expired ones included until the
// next cleanup.
func (c *Cache) Len() int {
	if !c.enabled {
		return 0
	}
	return c.plans.ItemCount()
}

// Clear drops every cached plan.
func (c *Cache) Clear() {
	if c.enabled {
		c.plans.Flush()
	}
}
