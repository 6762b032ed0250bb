// Copyright 2024 The Prometheus Authors
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

// Package resourceinventory wraps a discovery.Discoverer with a
// short-lived, deduplicated cache: concurrent discovery calls for the same
// (namespace, region, role, search tags) share one in-flight discovery call
// and its result.
package resourceinventory

import (
	"context"
	"sort"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"github.com/metricscrape/cwscraper/pkg/model"
)

// Discoverer is the subset of discovery.Discoverer this package depends on,
// declared locally to avoid an import cycle.
type Discoverer interface {
	Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error)
}

// CachingDiscoverer memoises Discover results for ttl, deduplicating
// concurrent identical calls with singleflight.
type CachingDiscoverer struct {
	inner Discoverer
	cache *ttlcache.Cache[string, []*model.TaggedResource]
	group singleflight.Group
}

// NewCachingDiscoverer wraps inner with a result cache whose entries expire
// after ttl. ttl <= 0
// disables caching (singleflight dedup still applies).
func NewCachingDiscoverer(inner Discoverer, ttl time.Duration) *CachingDiscoverer {
	var cache *ttlcache.Cache[string, []*model.TaggedResource]
	if ttl > 0 {
		cache = ttlcache.New[string, []*model.TaggedResource](
			ttlcache.WithTTL[string, []*model.TaggedResource](ttl),
		)
		go cache.Start()
	}
	return &CachingDiscoverer{inner: inner, cache: cache}
}

func (c *CachingDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	key := job.Namespace + "|" + region + "|" + role
	tagNames := make([]string, 0, len(job.SearchTags))
	for name := range job.SearchTags {
		tagNames = append(tagNames, name)
	}
	sort.Strings(tagNames)
	for _, name := range tagNames {
		key += "|" + name + "=" + job.SearchTags[name].String()
	}

	if c.cache != nil {
		if item := c.cache.Get(key); item != nil {
			return item.Value(), nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.inner.Discover(ctx, job, region, role)
	})
	if err != nil {
		return nil, err
	}

	resources, _ := v.([]*model.TaggedResource)
	if c.cache != nil {
		c.cache.Set(key, resources, ttlcache.DefaultTTL)
	}
	return resources, nil
}
