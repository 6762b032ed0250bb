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

// Package cloudwatch wraps the CloudWatch API calls the scrape pipeline
// needs: paged metric enumeration, batched metric-data fetch, and the
// single-metric statistics call used by static jobs.
package cloudwatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/metricscrape/cwscraper/pkg/model"
)

// Client is the CloudWatch surface the scrape pipeline depends on.
type Client interface {
	// ListMetrics pages through ListMetrics for one (namespace, metric name)
	// pair, invoking fn once per page. linkedAccounts, when true, includes
	// metrics from accounts linked to the caller via CloudWatch cross-account
	// observability.
	ListMetrics(ctx context.Context, namespace, metricName string, recentlyActiveOnly, linkedAccounts bool, fn func(page []*model.Metric)) error

	// GetMetricData fetches values for a batch of tasks sharing one time
	// window and period, mutating each task's Result in place. Each task
	// supplies its own namespace and metric name, so one batch may span
	// several namespaces. len(tasks) must be <=300.
	GetMetricData(ctx context.Context, tasks []*model.CloudwatchMetricTask, period int64, start, end time.Time) error

	// GetMetricStatistics fetches datapoints for one static-job metric.
	GetMetricStatistics(ctx context.Context, namespace, metricName string, dimensions []model.Dimension, statistics []string, period int64, start, end time.Time) ([]types.Datapoint, error)
}

type client struct {
	logger *slog.Logger
	api    *cloudwatch.Client
}

func NewClient(logger *slog.Logger, api *cloudwatch.Client) Client {
	return &client{logger: logger, api: api}
}

func (c *client) ListMetrics(ctx context.Context, namespace, metricName string, recentlyActiveOnly, linkedAccounts bool, fn func(page []*model.Metric)) error {
	input := &cloudwatch.ListMetricsInput{
		Namespace:             aws.String(namespace),
		MetricName:            aws.String(metricName),
		IncludeLinkedAccounts: aws.Bool(linkedAccounts),
	}
	if recentlyActiveOnly {
		input.RecentlyActive = types.RecentlyActivePt3h
	}

	paginator := cloudwatch.NewListMetricsPaginator(c.api, input, func(o *cloudwatch.ListMetricsPaginatorOptions) {
		o.StopOnDuplicateToken = true
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			c.logger.Error("ListMetrics failed", "namespace", namespace, "metric", metricName, "err", err)
			return err
		}
		fn(toModelMetrics(page.Metrics))
	}
	return nil
}

func toModelMetrics(in []types.Metric) []*model.Metric {
	out := make([]*model.Metric, 0, len(in))
	for _, m := range in {
		dims := make([]model.Dimension, 0, len(m.Dimensions))
		for _, d := range m.Dimensions {
			dims = append(dims, model.Dimension{Name: aws.ToString(d.Name), Value: aws.ToString(d.Value)})
		}
		out = append(out, &model.Metric{
			Namespace:  aws.ToString(m.Namespace),
			MetricName: aws.ToString(m.MetricName),
			Dimensions: dims,
		})
	}
	return out
}

// GetMetricData assigns each task a local query id ("m<index>"), builds one
// GetMetricData call, and appends every page's datapoints onto the task's
// result in the order CloudWatch returns them: a later page's values are
// concatenated, never overwritten, so multi-page results accumulate rather
// than losing all but the last datapoint.
func (c *client) GetMetricData(ctx context.Context, tasks []*model.CloudwatchMetricTask, period int64, start, end time.Time) error {
	byID := make(map[string]*model.CloudwatchMetricTask, len(tasks))
	queries := make([]types.MetricDataQuery, 0, len(tasks))
	for i, t := range tasks {
		id := queryID(i)
		t.GetMetricDataQueryID = id
		byID[id] = t

		dims := make([]types.Dimension, 0, len(t.Dimensions))
		for name, value := range t.Dimensions {
			dims = append(dims, types.Dimension{Name: aws.String(name), Value: aws.String(value)})
		}

		queries = append(queries, types.MetricDataQuery{
			Id: aws.String(id),
			MetricStat: &types.MetricStat{
				Metric: &types.Metric{
					Namespace:  aws.String(t.Namespace),
					MetricName: aws.String(t.MetricName),
					Dimensions: dims,
				},
				Period: aws.Int32(int32(period)),
				Stat:   aws.String(t.Statistic),
			},
			ReturnData: aws.Bool(true),
		})

		t.Result = &model.TaskResult{}
	}

	input := &cloudwatch.GetMetricDataInput{
		StartTime:         &start,
		EndTime:           &end,
		MetricDataQueries: queries,
		ScanBy:            types.ScanByTimestampDescending,
	}

	paginator := cloudwatch.NewGetMetricDataPaginator(c.api, input, func(o *cloudwatch.GetMetricDataPaginatorOptions) {
		o.StopOnDuplicateToken = true
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			c.logger.Error("GetMetricData failed", "err", err)
			return err
		}
		for _, result := range page.MetricDataResults {
			task, ok := byID[aws.ToString(result.Id)]
			if !ok {
				continue
			}
			task.Result.Values = append(task.Result.Values, result.Values...)
			task.Result.Timestamps = append(task.Result.Timestamps, result.Timestamps...)
			if result.StatusCode != "" {
				task.Result.StatusCode = string(result.StatusCode)
			}
			task.Result.Messages = append(task.Result.Messages, messagesToStrings(result.Messages)...)
		}
	}
	return nil
}

func messagesToStrings(in []types.MessageData) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		out = append(out, aws.ToString(m.Value))
	}
	return out
}

func (c *client) GetMetricStatistics(ctx context.Context, namespace, metricName string, dimensions []model.Dimension, statistics []string, period int64, start, end time.Time) ([]types.Datapoint, error) {
	dims := make([]types.Dimension, 0, len(dimensions))
	for _, d := range dimensions {
		dims = append(dims, types.Dimension{Name: aws.String(d.Name), Value: aws.String(d.Value)})
	}

	stats := make([]types.Statistic, 0, len(statistics))
	for _, s := range statistics {
		stats = append(stats, types.Statistic(s))
	}

	out, err := c.api.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String(metricName),
		Dimensions: dims,
		StartTime:  &start,
		EndTime:    &end,
		Period:     aws.Int32(int32(period)),
		Statistics: stats,
	})
	if err != nil {
		c.logger.Error("GetMetricStatistics failed", "namespace", namespace, "metric", metricName, "err", err)
		return nil, err
	}
	return out.Datapoints, nil
}

func queryID(i int) string {
	return fmt.Sprintf("m%d", i)
}
