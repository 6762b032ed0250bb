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

// Package model holds the data types shared across the discovery, association,
// enumeration, fetch and emission stages of the scrape pipeline.
package model

import (
	"sort"
	"time"

	"github.com/grafana/regexp"
)

// DimensionsRegexp is a single ARN-extracting regex belonging to a Service
// catalogue entry. DimensionsNames holds the regex's named capture groups in
// the order CloudWatch expects them as dimension names.
type DimensionsRegexp struct {
	Regexp          *regexp.Regexp
	DimensionsNames []string
}

// Service is a catalogue entry: an alias/namespace pair plus the resource-type
// filters and ARN regexes used to discover and associate its resources.
type Service struct {
	Alias                string
	Namespace            string
	ResourceTypeFilters  []string
	DimensionsRegexps    []DimensionsRegexp
}

// TaggedResource is a discovered AWS resource together with its tags. Mapped
// is set exactly once, by the Associator, to guarantee a resource is bound to
// at most one dimensions-regexp bucket.
type TaggedResource struct {
	Namespace string
	ARN       string
	Tags      map[string]string
	Mapped    bool
}

// MetricTags projects the resource's tags down to the exported-tag key set,
// filling in an empty string for any exported tag the resource doesn't carry.
func (r *TaggedResource) MetricTags(exportedTags []string) map[string]string {
	if len(exportedTags) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(exportedTags))
	for _, tag := range exportedTags {
		out[tag] = r.Tags[tag]
	}
	return out
}

// Dimension is a single (name, value) pair qualifying a CloudWatch metric.
type Dimension struct {
	Name  string
	Value string
}

// Metric is a CloudWatch metric as returned by ListMetrics: a namespace,
// name, and its set of dimensions.
type Metric struct {
	Namespace  string
	MetricName string
	Dimensions []Dimension
}

// DimensionNames returns the set of dimension names on this metric.
func (m *Metric) DimensionNames() map[string]struct{} {
	names := make(map[string]struct{}, len(m.Dimensions))
	for _, d := range m.Dimensions {
		names[d.Name] = struct{}{}
	}
	return names
}

// MetricRequest is one requested metric within a job.
type MetricRequest struct {
	Name             string
	Statistics       []string
	Period           int64
	Length           int64
	Delay            int64
	NilToZero        bool
	AddCloudwatchTimestamp bool
	Unit             string
	SearchDimensions map[string]*regexp.Regexp
	MergeDimensions  bool
	DimensionsExact  *bool
}

// JitterConfig bounds an optional random startup delay applied before a
// shard's first client-acquire call when running in periodic mode.
type JitterConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// RunStats aggregates the number of scraped metrics per (namespace, name)
// across every shard in a single executor pass.
type RunStats struct {
	Namespace           string
	MetricName          string
	ResourcesDiscovered int
	MetricsRequested    int
	MessagesSent        int
}

// PeriodDelayLength buckets CloudwatchMetricTasks that share a fetch window.
type PeriodDelayLength struct {
	Period int64
	Delay  int64
	Length int64
}

// PeriodDelay identifies a fetch/emit pass once discovery buckets have been
// merged by keeping only the longest Length seen per (Period, Delay).
type PeriodDelay struct {
	Period int64
	Delay  int64
}

// sortedPairs renders a string-to-string map as a canonical, sorted slice of
// (key, value) pairs, used to build task signatures.
func sortedPairs(m map[string]string) []KV {
	out := make([]KV, 0, len(m))
	for k, v := range m {
		out = append(out, KV{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// KV is a single canonicalised (key, value) pair.
type KV struct {
	Key   string
	Value string
}
