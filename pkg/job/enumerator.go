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

package job

import (
	"context"

	"github.com/grafana/regexp"

	"github.com/metricscrape/cwscraper/pkg/associator"
	"github.com/metricscrape/cwscraper/pkg/clients/cloudwatch"
	"github.com/metricscrape/cwscraper/pkg/model"
)

var globalResource = &model.TaggedResource{ARN: "global", Tags: map[string]string{}}

// EnumerateJob pages ListMetrics for every MetricRequest in job, filters and
// associates each returned metric, and buckets the resulting tasks by
// (period, delay, length).
func EnumerateJob(ctx context.Context, cw cloudwatch.Client, assoc associator.Associator, job *model.DiscoveryJob) (map[model.PeriodDelayLength][]*model.CloudwatchMetricTask, error) {
	buckets := make(map[model.PeriodDelayLength][]*model.CloudwatchMetricTask)

	for _, mr := range job.Metrics {
		var pageErr error
		err := cw.ListMetrics(ctx, job.Namespace, mr.Name, job.RecentlyActiveOnly, job.LinkedAccounts, func(page []*model.Metric) {
			if pageErr != nil {
				return
			}
			for _, metric := range page {
				tasks, err := enumerateMetric(assoc, job, mr, metric)
				if err != nil {
					pageErr = err
					return
				}
				key := model.PeriodDelayLength{Period: mr.Period, Delay: mr.Delay, Length: mr.Length}
				buckets[key] = append(buckets[key], tasks...)
			}
		})
		if err != nil {
			return nil, &TransientAWSError{Namespace: job.Namespace, Op: "ListMetrics", Err: err}
		}
		if pageErr != nil {
			return nil, pageErr
		}
	}

	return buckets, nil
}

func enumerateMetric(assoc associator.Associator, job *model.DiscoveryJob, mr *model.MetricRequest, metric *model.Metric) ([]*model.CloudwatchMetricTask, error) {
	exact := job.DimensionsExact
	if mr.DimensionsExact != nil {
		exact = *mr.DimensionsExact
	}

	searchDims := effectiveSearchDimensions(job.SearchDimensions, mr)

	if exact {
		names := metric.DimensionNames()
		if len(names) != len(searchDims) {
			return nil, nil
		}
		for name := range searchDims {
			if _, ok := names[name]; !ok {
				return nil, nil
			}
		}
	}

	if len(searchDims) > 0 {
		values := make(map[string]string, len(metric.Dimensions))
		for _, d := range metric.Dimensions {
			values[d.Name] = d.Value
		}
		for name, re := range searchDims {
			if !re.MatchString(values[name]) {
				return nil, nil
			}
		}
	}

	resource, skip := assoc.Associate(metric)
	if skip {
		return nil, nil
	}
	if resource == nil {
		resource = globalResource
	}

	tags := resource.MetricTags(job.ExportedTags)
	for k, v := range job.CustomTags {
		tags[k] = v
	}

	dims := make(map[string]string, len(metric.Dimensions))
	for _, d := range metric.Dimensions {
		dims[d.Name] = d.Value
	}

	tasks := make([]*model.CloudwatchMetricTask, 0, len(mr.Statistics))
	for _, stat := range mr.Statistics {
		tasks = append(tasks, &model.CloudwatchMetricTask{
			Namespace:              job.Namespace,
			MetricName:             mr.Name,
			ResourceName:           resource.ARN,
			Dimensions:             dims,
			Statistic:              stat,
			NilToZero:              mr.NilToZero,
			AddCloudwatchTimestamp: mr.AddCloudwatchTimestamp,
			Unit:                   mr.Unit,
			Tags:                   tags,
		})
	}
	return tasks, nil
}

// effectiveSearchDimensions resolves a metric's effective search-dimension
// map: the metric's own map replaces the job's unless merge_dimensions is
// set, in which case the metric's entries overlay a copy of the job's.
func effectiveSearchDimensions(jobDims map[string]*regexp.Regexp, mr *model.MetricRequest) map[string]*regexp.Regexp {
	if len(mr.SearchDimensions) == 0 {
		return jobDims
	}
	if !mr.MergeDimensions {
		return mr.SearchDimensions
	}

	merged := make(map[string]*regexp.Regexp, len(jobDims)+len(mr.SearchDimensions))
	for k, v := range jobDims {
		merged[k] = v
	}
	for k, v := range mr.SearchDimensions {
		merged[k] = v
	}
	return merged
}
