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

import (
	"fmt"
	"strings"
	"time"
)

// Signature is the canonical identity tuple used for task de-duplication and
// message grouping: (namespace, metric name, sorted dimensions, sorted tags).
type Signature string

// TaskResult holds the parallel timestamp/value lists CloudWatch returns for
// one CloudwatchMetricTask. Later GetMetricData pages append to both lists,
// preserving CloudWatch's own ordering.
type TaskResult struct {
	Timestamps []time.Time
	Values     []float64
	StatusCode string
	Messages   []string
}

// CloudwatchMetricTask is a single scheduled metric fetch: one statistic of
// one metric, bound (or not) to a discovered resource.
type CloudwatchMetricTask struct {
	Namespace          string
	MetricName         string
	ResourceName       string
	Dimensions         map[string]string
	Statistic          string
	NilToZero          bool
	AddCloudwatchTimestamp bool
	Unit               string
	Tags               map[string]string
	Result             *TaskResult

	// GetMetricDataQueryID is the task's id within the current GetMetricData
	// batch ("m<index>"); it is purely local to one batch call.
	GetMetricDataQueryID string
}

// Signature computes the canonical identity tuple for this task. Two tasks
// with the same signature belong in the same emitted message.
func (t *CloudwatchMetricTask) Signature() Signature {
	var sb strings.Builder
	sb.WriteString(t.Namespace)
	sb.WriteByte('\x1f')
	sb.WriteString(t.MetricName)
	sb.WriteByte('\x1f')
	for _, kv := range sortedPairs(t.Dimensions) {
		fmt.Fprintf(&sb, "%s=%s\x1e", kv.Key, kv.Value)
	}
	sb.WriteByte('\x1f')
	for _, kv := range sortedPairs(t.Tags) {
		fmt.Fprintf(&sb, "%s=%s\x1e", kv.Key, kv.Value)
	}
	return Signature(sb.String())
}

// StatShortname maps a CloudWatch statistic name to the abbreviated key used
// inside an emitted message's "value" map. Unknown statistics (extended
// percentiles) are lowercased as-is.
func (t *CloudwatchMetricTask) StatShortname() string {
	switch strings.ToLower(t.Statistic) {
	case "samplecount":
		return "count"
	case "average":
		return "avg"
	case "sum":
		return "sum"
	case "minimum":
		return "min"
	case "maximum":
		return "max"
	default:
		return strings.ToLower(t.Statistic)
	}
}

// Timestamp returns the task's representative timestamp as epoch seconds, or
// nil if add-cw-timestamp is unset or no datapoint was returned.
func (t *CloudwatchMetricTask) Timestamp() *float64 {
	if t.Result == nil || !t.AddCloudwatchTimestamp || len(t.Result.Timestamps) == 0 {
		return nil
	}
	ts := float64(t.Result.Timestamps[0].Unix())
	return &ts
}

// Value aggregates the task's result values per the statistic's aggregation
// rule: Sum/SampleCount sum, Minimum takes the min, Maximum takes the max,
// everything else (including the single-value case) takes the first value.
// With no values at all, it returns 0 when NilToZero is set, else nil.
func (t *CloudwatchMetricTask) Value() *float64 {
	if t.Result == nil || len(t.Result.Values) == 0 {
		if t.NilToZero {
			zero := 0.0
			return &zero
		}
		return nil
	}

	values := t.Result.Values
	if len(values) == 1 || !isAggregatedStatistic(t.Statistic) {
		v := values[0]
		return &v
	}

	switch t.Statistic {
	case "Sum", "SampleCount":
		var sum float64
		for _, v := range values {
			sum += v
		}
		return &sum
	case "Minimum":
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return &min
	case "Maximum":
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return &max
	}
	v := values[0]
	return &v
}

func isAggregatedStatistic(stat string) bool {
	switch stat {
	case "Sum", "Minimum", "Maximum", "SampleCount":
		return true
	default:
		return false
	}
}

// MetricStats is a per-(namespace, metric name) count of emitted tasks,
// aggregated across the discovery and static paths of one shard.
type MetricStats struct {
	Namespace  string
	MetricName string
	Count      int
}
