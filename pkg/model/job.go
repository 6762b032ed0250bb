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

package model

import "github.com/grafana/regexp"

// DiscoveryJob is a scrape unit whose resources are found via the tagging API
// or a namespace-specific discovery strategy.
type DiscoveryJob struct {
	Namespace           string
	Metrics             []*MetricRequest
	Regions             []string
	Roles               []string
	CustomTags          map[string]string
	SearchTags          map[string]*regexp.Regexp
	SearchDimensions    map[string]*regexp.Regexp
	DimensionsExact     bool
	RecentlyActiveOnly  bool
	LinkedAccounts      bool

	// From the Service catalogue entry.
	DimensionsRegexps   []DimensionsRegexp
	ResourceTypeFilters []string

	// From global discovery config.
	ExportedTags []string
}

// ShardKey is a (region, role) pair identifying one Executor shard.
type ShardKey struct {
	Region string
	Role   string
}

// Shards computes the Cartesian product of this job's regions and roles,
// defaulting a missing region to defaultRegion and a missing role to "".
func (j *DiscoveryJob) Shards(defaultRegion string) []ShardKey {
	return cartesianShards(j.Regions, j.Roles, defaultRegion)
}

// StaticJob targets a fixed {namespace, dimensions} resource with its own
// metrics list; it has no discovery or association step.
type StaticJob struct {
	Namespace  string
	Metrics    []*MetricRequest
	Regions    []string
	Roles      []string
	CustomTags map[string]string
	Dimensions map[string]string
}

// Shards computes the Cartesian product of this job's regions and roles,
// defaulting a missing region to defaultRegion and a missing role to "".
func (j *StaticJob) Shards(defaultRegion string) []ShardKey {
	return cartesianShards(j.Regions, j.Roles, defaultRegion)
}

func cartesianShards(regions, roles []string, defaultRegion string) []ShardKey {
	rs := regions
	if len(rs) == 0 {
		rs = []string{defaultRegion}
	}
	as := roles
	if len(as) == 0 {
		as = []string{""}
	}
	out := make([]ShardKey, 0, len(rs)*len(as))
	for _, r := range rs {
		for _, a := range as {
			out = append(out, ShardKey{Region: r, Role: a})
		}
	}
	return out
}
