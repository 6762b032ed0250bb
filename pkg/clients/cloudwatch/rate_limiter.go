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

package cloudwatch

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"golang.org/x/time/rate"

	"github.com/metricscrape/cwscraper/pkg/model"
)

const (
	listMetricsCall         = "ListMetrics"
	getMetricDataCall       = "GetMetricData"
	getMetricStatisticsCall = "GetMetricStatistics"
)

// ConcurrencyLimiter caps the number of in-flight calls for a given
// operation name, acting as a per-API counting semaphore.
type ConcurrencyLimiter interface {
	Acquire(op string)
	Release(op string)
}

// semaphoreLimiter is a ConcurrencyLimiter backed by one buffered channel per
// operation.
type semaphoreLimiter struct {
	sems map[string]chan struct{}
}

// NewSemaphoreLimiter builds a ConcurrencyLimiter with one semaphore of size
// max per named operation.
func NewSemaphoreLimiter(max int) ConcurrencyLimiter {
	ops := []string{listMetricsCall, getMetricDataCall, getMetricStatisticsCall}
	sems := make(map[string]chan struct{}, len(ops))
	for _, op := range ops {
		sems[op] = make(chan struct{}, max)
	}
	return &semaphoreLimiter{sems: sems}
}

func (s *semaphoreLimiter) Acquire(op string) {
	if sem, ok := s.sems[op]; ok {
		sem <- struct{}{}
	}
}

func (s *semaphoreLimiter) Release(op string) {
	if sem, ok := s.sems[op]; ok {
		<-sem
	}
}

type limitedConcurrencyClient struct {
	client  Client
	limiter ConcurrencyLimiter
}

// NewLimitedConcurrencyClient wraps client so every call holds one limiter
// slot for its whole duration. A paged ListMetrics or GetMetricData call
// keeps its slot across all of its pages; the slot is not released and
// re-acquired between pages.
func NewLimitedConcurrencyClient(client Client, limiter ConcurrencyLimiter) Client {
	return &limitedConcurrencyClient{client: client, limiter: limiter}
}

func (c *limitedConcurrencyClient) ListMetrics(ctx context.Context, namespace, metricName string, recentlyActiveOnly, linkedAccounts bool, fn func(page []*model.Metric)) error {
	c.limiter.Acquire(listMetricsCall)
	defer c.limiter.Release(listMetricsCall)
	return c.client.ListMetrics(ctx, namespace, metricName, recentlyActiveOnly, linkedAccounts, fn)
}

func (c *limitedConcurrencyClient) GetMetricData(ctx context.Context, tasks []*model.CloudwatchMetricTask, period int64, start, end time.Time) error {
	c.limiter.Acquire(getMetricDataCall)
	defer c.limiter.Release(getMetricDataCall)
	return c.client.GetMetricData(ctx, tasks, period, start, end)
}

func (c *limitedConcurrencyClient) GetMetricStatistics(ctx context.Context, namespace, metricName string, dimensions []model.Dimension, statistics []string, period int64, start, end time.Time) ([]types.Datapoint, error) {
	c.limiter.Acquire(getMetricStatisticsCall)
	defer c.limiter.Release(getMetricStatisticsCall)
	return c.client.GetMetricStatistics(ctx, namespace, metricName, dimensions, statistics, period, start, end)
}

// RateLimit is a requests-per-duration configuration for one API.
type RateLimit struct {
	Count    int
	Duration time.Duration
}

// NewAPIRateLimiter builds a token-bucket limiter from a RateLimit, or
// returns nil (no limiting) if rl is nil.
func NewAPIRateLimiter(rl *RateLimit) *rate.Limiter {
	if rl == nil {
		return nil
	}
	perSecond := float64(rl.Count) / rl.Duration.Seconds()
	return rate.NewLimiter(rate.Limit(perSecond), rl.Count)
}

// rateLimitedClient adds a per-API token-bucket wait in front of an inner
// Client, independent of the concurrency semaphore above.
type rateLimitedClient struct {
	client   Client
	limiters map[string]*rate.Limiter
}

// NewRateLimitedClient wraps client with per-operation rate limiters. Nil
// entries in limiters mean "no limit for that operation".
func NewRateLimitedClient(client Client, limiters map[string]*rate.Limiter) Client {
	if len(limiters) == 0 {
		return client
	}
	return &rateLimitedClient{client: client, limiters: limiters}
}

func (c *rateLimitedClient) wait(ctx context.Context, op string) error {
	limiter, ok := c.limiters[op]
	if !ok || limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func (c *rateLimitedClient) ListMetrics(ctx context.Context, namespace, metricName string, recentlyActiveOnly, linkedAccounts bool, fn func(page []*model.Metric)) error {
	if err := c.wait(ctx, listMetricsCall); err != nil {
		return err
	}
	return c.client.ListMetrics(ctx, namespace, metricName, recentlyActiveOnly, linkedAccounts, fn)
}

func (c *rateLimitedClient) GetMetricData(ctx context.Context, tasks []*model.CloudwatchMetricTask, period int64, start, end time.Time) error {
	if err := c.wait(ctx, getMetricDataCall); err != nil {
		return err
	}
	return c.client.GetMetricData(ctx, tasks, period, start, end)
}

func (c *rateLimitedClient) GetMetricStatistics(ctx context.Context, namespace, metricName string, dimensions []model.Dimension, statistics []string, period int64, start, end time.Time) ([]types.Datapoint, error) {
	if err := c.wait(ctx, getMetricStatisticsCall); err != nil {
		return nil, err
	}
	return c.client.GetMetricStatistics(ctx, namespace, metricName, dimensions, statistics, period, start, end)
}
