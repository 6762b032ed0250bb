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

// Package associator maps ListMetrics output back to the tagged resources a
// job discovered, using the ordered ARN regexes of a Service catalogue entry.
package associator

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/grafana/regexp"
	prom_model "github.com/prometheus/common/model"

	"github.com/metricscrape/cwscraper/pkg/model"
)

var amazonMQBrokerSuffix = regexp.MustCompile("-[0-9]+$")

// Associator answers metric-to-resource lookups for one (job, region, role)
// discovery pass. It is built once from the discovered resources and never
// mutated afterwards.
type Associator struct {
	buckets []*bucket

	logger       *slog.Logger
	debugEnabled bool
}

type bucket struct {
	dimensions []string
	byKey      map[uint64]*model.TaggedResource
}

// New builds an Associator from a service's ordered ARN regexes and the
// resources a discovery pass found. Each resource is bound to at most one
// bucket: the first regex (in catalogue order) whose pattern matches its ARN.
func New(logger *slog.Logger, dimensionsRegexps []model.DimensionsRegexp, resources []*model.TaggedResource) Associator {
	assoc := Associator{
		logger:       logger,
		debugEnabled: logger.Handler().Enabled(context.Background(), slog.LevelDebug),
	}

	for _, dr := range dimensionsRegexps {
		b := &bucket{
			dimensions: dr.DimensionsNames,
			byKey:      map[uint64]*model.TaggedResource{},
		}

		for _, r := range resources {
			if r.Mapped {
				continue
			}

			match := dr.Regexp.FindStringSubmatch(r.ARN)
			if match == nil {
				continue
			}

			labels := make(map[string]string, len(match))
			for i := 1; i < len(match); i++ {
				labels[dr.DimensionsNames[i-1]] = match[i]
			}
			signature := prom_model.LabelsToSignature(labels)
			b.byKey[signature] = r
			r.Mapped = true
		}

		if len(b.byKey) > 0 {
			assoc.buckets = append(assoc.buckets, b)
		}
	}

	// Buckets with more dimensions are more specific: a metric carrying
	// extra dimensions beyond a bucket's set should still prefer the
	// bucket that explains the most of them.
	slices.SortStableFunc(assoc.buckets, func(a, b *bucket) int {
		return -1 * cmp.Compare(len(a.dimensions), len(b.dimensions))
	})

	return assoc
}

// Associate finds the resource bound to the given metric's dimensions. The
// second return value reports whether the metric should be dropped: true
// means a bucket matched the metric's dimension set but no entry in that
// bucket's index matched the metric's dimension values.
func (assoc Associator) Associate(metric *model.Metric) (*model.TaggedResource, bool) {
	logger := assoc.logger.With("metric_name", metric.MetricName)

	if len(metric.Dimensions) == 0 {
		return nil, false
	}

	dimensionNames := make([]string, 0, len(metric.Dimensions))
	for _, d := range metric.Dimensions {
		dimensionNames = append(dimensionNames, d.Name)
	}

	bucketFound := false
	for _, b := range assoc.buckets {
		if !containsAll(dimensionNames, b.dimensions) {
			continue
		}
		bucketFound = true

		dimFixApplied := false
		tryFixup := true
		for dimFixApplied || tryFixup {
			labels, applied := buildLabels(metric, b, tryFixup)
			dimFixApplied = applied
			signature := prom_model.LabelsToSignature(labels)

			if resource, ok := b.byKey[signature]; ok {
				logger.Debug("resource matched", "signature", signature)
				return resource, false
			}
			tryFixup = false
		}
	}

	return nil, bucketFound
}

func buildLabels(metric *model.Metric, b *bucket, tryFixup bool) (map[string]string, bool) {
	labels := make(map[string]string, len(metric.Dimensions))
	applied := false
	for _, bucketDim := range b.dimensions {
		for _, d := range metric.Dimensions {
			if tryFixup {
				d, applied = fixDimension(metric.Namespace, d)
			}
			if bucketDim == d.Name {
				labels[d.Name] = d.Value
			}
		}
	}
	return labels, applied
}

// fixDimension normalises a metric dimension value for the handful of
// namespaces whose CloudWatch dimension values don't line up directly with
// the discovered resource's ARN-captured value.
func fixDimension(namespace string, dim model.Dimension) (model.Dimension, bool) {
	if namespace == "AWS/AmazonMQ" && dim.Name == "Broker" {
		if amazonMQBrokerSuffix.MatchString(dim.Value) {
			dim.Value = amazonMQBrokerSuffix.ReplaceAllString(dim.Value, "")
			return dim, true
		}
	}

	if namespace == "AWS/SageMaker" && (dim.Name == "EndpointName" || dim.Name == "InferenceComponentName") {
		dim.Value = strings.ToLower(dim.Value)
		return dim, true
	}

	return dim, false
}

func containsAll(a, b []string) bool {
	for _, e := range b {
		if !slices.Contains(a, e) {
			return false
		}
	}
	return true
}
