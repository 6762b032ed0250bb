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
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/grafana/regexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metricscrape/cwscraper/pkg/associator"
	"github.com/metricscrape/cwscraper/pkg/model"
)

func TestEffectiveSearchDimensions(t *testing.T) {
	jobDims := map[string]*regexp.Regexp{"QueueName": regexp.MustCompile("^prod-")}
	metricDims := map[string]*regexp.Regexp{"ConsumerGroup": regexp.MustCompile("^x-")}

	t.Run("no metric-level dimensions keeps the job's map", func(t *testing.T) {
		mr := &model.MetricRequest{}
		got := effectiveSearchDimensions(jobDims, mr)
		assert.Equal(t, jobDims, got)
	})

	t.Run("metric-level dimensions replace the job's map when merge_dimensions is false", func(t *testing.T) {
		mr := &model.MetricRequest{SearchDimensions: metricDims}
		got := effectiveSearchDimensions(jobDims, mr)
		assert.Equal(t, metricDims, got)
	})

	t.Run("merge_dimensions overlays the metric's map onto a copy of the job's", func(t *testing.T) {
		mr := &model.MetricRequest{SearchDimensions: metricDims, MergeDimensions: true}
		got := effectiveSearchDimensions(jobDims, mr)
		assert.Len(t, got, 2)
		assert.Equal(t, jobDims["QueueName"], got["QueueName"])
		assert.Equal(t, metricDims["ConsumerGroup"], got["ConsumerGroup"])
		_, stillPresent := jobDims["ConsumerGroup"]
		assert.False(t, stillPresent)
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type listMetricsClient struct {
	pages [][]*model.Metric
}

func (c *listMetricsClient) ListMetrics(_ context.Context, _, _ string, _, _ bool, fn func([]*model.Metric)) error {
	for _, page := range c.pages {
		fn(page)
	}
	return nil
}

func (c *listMetricsClient) GetMetricData(context.Context, []*model.CloudwatchMetricTask, int64, time.Time, time.Time) error {
	return nil
}

func (c *listMetricsClient) GetMetricStatistics(context.Context, string, string, []model.Dimension, []string, int64, time.Time, time.Time) ([]types.Datapoint, error) {
	return nil, nil
}

func TestEnumerateMetric(t *testing.T) {
	resource := &model.TaggedResource{ARN: "arn:aws:sqs:us-east-1:1:prod-orders", Tags: map[string]string{"team": "payments"}}
	dimsRegexps := []model.DimensionsRegexp{
		{Regexp: regexp.MustCompile(`:([^:]+)$`), DimensionsNames: []string{"QueueName"}},
	}
	assoc := associator.New(testLogger(), dimsRegexps, []*model.TaggedResource{resource})

	job := &model.DiscoveryJob{
		Namespace:    "AWS/SQS",
		ExportedTags: []string{"team"},
		CustomTags:   map[string]string{"source": "cwscrape"},
	}
	mr := &model.MetricRequest{Name: "NumberOfMessagesSent", Statistics: []string{"Sum", "Average"}}
	metric := &model.Metric{
		Namespace:  "AWS/SQS",
		MetricName: "NumberOfMessagesSent",
		Dimensions: []model.Dimension{{Name: "QueueName", Value: "prod-orders"}},
	}

	t.Run("emits one task per requested statistic", func(t *testing.T) {
		tasks, err := enumerateMetric(assoc, job, mr, metric)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "payments", tasks[0].Tags["team"])
		assert.Equal(t, "cwscrape", tasks[0].Tags["source"])
		assert.Equal(t, "arn:aws:sqs:us-east-1:1:prod-orders", tasks[0].ResourceName)
		assert.Equal(t, "prod-orders", tasks[0].Dimensions["QueueName"])
	})

	t.Run("exact dimension matching drops metrics with extra dimensions", func(t *testing.T) {
		exactJob := &model.DiscoveryJob{Namespace: "AWS/SQS", DimensionsExact: true, SearchDimensions: map[string]*regexp.Regexp{}}
		extra := &model.Metric{
			Namespace:  "AWS/SQS",
			MetricName: "NumberOfMessagesSent",
			Dimensions: []model.Dimension{{Name: "QueueName", Value: "prod-orders"}, {Name: "Extra", Value: "x"}},
		}
		tasks, err := enumerateMetric(assoc, exactJob, mr, extra)
		require.NoError(t, err)
		assert.Nil(t, tasks)
	})

	t.Run("a search-dimension regex that doesn't match drops the metric", func(t *testing.T) {
		filteredJob := &model.DiscoveryJob{
			Namespace:        "AWS/SQS",
			SearchDimensions: map[string]*regexp.Regexp{"QueueName": regexp.MustCompile("^staging-")},
		}
		tasks, err := enumerateMetric(assoc, filteredJob, mr, metric)
		require.NoError(t, err)
		assert.Nil(t, tasks)
	})

	t.Run("an unbound metric falls back to the synthetic global resource", func(t *testing.T) {
		emptyAssoc := associator.New(testLogger(), dimsRegexps, nil)
		unbound := &model.Metric{
			Namespace:  "AWS/SQS",
			MetricName: "NumberOfMessagesSent",
			Dimensions: []model.Dimension{{Name: "QueueName", Value: "unknown-queue"}},
		}
		tasks, err := enumerateMetric(emptyAssoc, job, mr, unbound)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "global", tasks[0].ResourceName)
	})
}

func TestEnumerateJob(t *testing.T) {
	resource := &model.TaggedResource{ARN: "arn:aws:sqs:us-east-1:1:prod-orders", Tags: map[string]string{}}
	dimsRegexps := []model.DimensionsRegexp{
		{Regexp: regexp.MustCompile(`:([^:]+)$`), DimensionsNames: []string{"QueueName"}},
	}
	assoc := associator.New(testLogger(), dimsRegexps, []*model.TaggedResource{resource})

	cw := &listMetricsClient{pages: [][]*model.Metric{
		{
			{Namespace: "AWS/SQS", MetricName: "NumberOfMessagesSent", Dimensions: []model.Dimension{{Name: "QueueName", Value: "prod-orders"}}},
		},
	}}

	job := &model.DiscoveryJob{
		Namespace: "AWS/SQS",
		Metrics: []*model.MetricRequest{
			{Name: "NumberOfMessagesSent", Statistics: []string{"Sum"}, Period: 60, Delay: 0, Length: 300},
			{Name: "NumberOfMessagesSent", Statistics: []string{"Average"}, Period: 300, Delay: 60, Length: 300},
		},
	}

	buckets, err := EnumerateJob(context.Background(), cw, assoc, job)
	require.NoError(t, err)
	assert.Len(t, buckets, 2)
	assert.Len(t, buckets[model.PeriodDelayLength{Period: 60, Delay: 0, Length: 300}], 1)
	assert.Len(t, buckets[model.PeriodDelayLength{Period: 300, Delay: 60, Length: 300}], 1)
}
