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

// Package discovery implements the per-namespace resource discovery
// strategies: the tagging-API default, and the namespace-specific
// enumerators the tagging API can't serve on its own.
package discovery

import (
	"context"

	"github.com/grafana/regexp"

	"github.com/metricscrape/cwscraper/pkg/model"
)

// Discoverer enumerates the resources visible to one (region, role) pair for
// a discovery job. Implementations must apply the job's SearchTags predicate
// themselves (see MatchesSearchTags) so every strategy behaves identically
// with respect to tag filtering.
type Discoverer interface {
	Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error)
}

// MatchesSearchTags reports whether a resource's tags satisfy every
// (name, regex) pair in searchTags. A tag the resource doesn't carry is
// matched against the empty string, mirroring the tagging API's own
// client-side filter.
func MatchesSearchTags(tags map[string]string, searchTags map[string]*regexp.Regexp) bool {
	for name, re := range searchTags {
		if !re.MatchString(tags[name]) {
			return false
		}
	}
	return true
}

// Registry dispatches a discovery job to the right Discoverer by namespace,
// falling back to the tagging-API default for anything not listed. This
// mirrors the reference scraper's DISCOVERY_FILTERS table.
type Registry struct {
	defaultDiscoverer Discoverer
	byNamespace       map[string]Discoverer
}

func NewRegistry(defaultDiscoverer Discoverer, byNamespace map[string]Discoverer) *Registry {
	return &Registry{defaultDiscoverer: defaultDiscoverer, byNamespace: byNamespace}
}

func (r *Registry) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	if d, ok := r.byNamespace[job.Namespace]; ok {
		return d.Discover(ctx, job, region, role)
	}
	return r.defaultDiscoverer.Discover(ctx, job, region, role)
}
