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

// Package job implements the scrape pipeline's run loop: resource
// discovery, metric enumeration, value fetch, and message emission, sharded
// across (region, role) pairs and aggregated into RunStats.
package job

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"golang.org/x/sync/errgroup"

	"github.com/metricscrape/cwscraper/pkg/associator"
	"github.com/metricscrape/cwscraper/pkg/clients/account"
	"github.com/metricscrape/cwscraper/pkg/clients/cloudwatch"
	"github.com/metricscrape/cwscraper/pkg/clients/factory"
	"github.com/metricscrape/cwscraper/pkg/model"
)

// Discoverer is the resource-discovery dependency the Executor fans out to;
// satisfied by a discovery.Registry, optionally wrapped in a
// resourceinventory.CachingDiscoverer.
type Discoverer interface {
	Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error)
}

// Executor runs a full scrape pass: every discovery and static job, sharded
// by (region, role), executed in parallel with join-all-errors semantics.
type Executor struct {
	logger        *slog.Logger
	factory       *factory.CachingFactory
	discoverer    Discoverer
	queue         QueueSender
	defaultRegion string
	concurrency   map[string]int
	jitter        *model.JitterConfig
}

// New builds an Executor. concurrency maps an API concurrency-knob name
// (e.g. "METRICS_API_CONCURRENCY") to its configured limit; a missing entry
// falls back to defaultConcurrency. jitter, if non-nil, delays each shard's
// first client-acquire call by a random amount in [MinDelay, MaxDelay] --
// intended for the periodic CLI entry point, not the one-shot Lambda path.
func New(logger *slog.Logger, f *factory.CachingFactory, discoverer Discoverer, queue QueueSender, defaultRegion string, concurrency map[string]int, jitter *model.JitterConfig) *Executor {
	return &Executor{
		logger:        logger,
		factory:       f,
		discoverer:    discoverer,
		queue:         queue,
		defaultRegion: defaultRegion,
		concurrency:   concurrency,
		jitter:        jitter,
	}
}

const defaultConcurrency = 5

func (ex *Executor) concurrencyFor(knob string) int {
	if n, ok := ex.concurrency[knob]; ok && n > 0 {
		return n
	}
	return defaultConcurrency
}

// Run executes every discovery and static job across all the (region, role)
// shards they target, and returns the aggregate per-metric counts. Every
// shard runs to completion regardless of sibling failures; the first error
// encountered across all shards is returned once every shard has finished.
func (ex *Executor) Run(ctx context.Context, discoveryJobs []*model.DiscoveryJob, staticJobs []*model.StaticJob) ([]model.RunStats, error) {
	shardSet := map[model.ShardKey]struct{}{}
	for _, j := range discoveryJobs {
		for _, sk := range j.Shards(ex.defaultRegion) {
			shardSet[sk] = struct{}{}
		}
	}
	for _, j := range staticJobs {
		for _, sk := range j.Shards(ex.defaultRegion) {
			shardSet[sk] = struct{}{}
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		allStats []model.RunStats
	)

	for sk := range shardSet {
		sk := sk
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := ex.runShard(ctx, sk, discoveryJobs, staticJobs)

			mu.Lock()
			defer mu.Unlock()
			allStats = append(allStats, stats...)
			if err != nil {
				ex.logger.Error("shard failed", "region", sk.Region, "role", sk.Role, "err", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}()
	}
	wg.Wait()

	return mergeRunStats(allStats), firstErr
}

type mergedBucket struct {
	length int64
	tasks  []*model.CloudwatchMetricTask
}

func (ex *Executor) runShard(ctx context.Context, sk model.ShardKey, discoveryJobs []*model.DiscoveryJob, staticJobs []*model.StaticJob) ([]model.RunStats, error) {
	if ex.jitter != nil {
		if d := calculateJitter(ex.jitter); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}
	}

	cwAPI, err := ex.factory.CloudWatch(ctx, sk.Region, sk.Role)
	if err != nil {
		return nil, &AuthError{Region: sk.Region, Role: sk.Role, Err: err}
	}
	var cwClient cloudwatch.Client = cloudwatch.NewClient(ex.logger, cwAPI)
	cwClient = cloudwatch.NewLimitedConcurrencyClient(cwClient, cloudwatch.NewSemaphoreLimiter(ex.concurrencyFor("METRICS_API_CONCURRENCY")))

	labels, err := ex.resolveContextLabels(ctx, sk)
	if err != nil {
		return nil, err
	}

	statsAcc := newStatsAccumulator()

	jobsHere := jobsForShard(discoveryJobs, sk, ex.defaultRegion)
	if len(jobsHere) > 0 {
		if err := ex.runDiscoveryJobs(ctx, sk, cwClient, jobsHere, statsAcc, labels); err != nil {
			return statsAcc.list(), err
		}
	}

	staticHere := staticJobsForShard(staticJobs, sk, ex.defaultRegion)
	for _, sj := range staticHere {
		if err := ex.runStaticJob(ctx, cwClient, sj, statsAcc, labels); err != nil {
			return statsAcc.list(), err
		}
	}

	return statsAcc.list(), nil
}

func (ex *Executor) resolveContextLabels(ctx context.Context, sk model.ShardKey) (ContextLabels, error) {
	stsAPI, err := ex.factory.STS(ctx, sk.Region, sk.Role)
	if err != nil {
		return ContextLabels{}, &AuthError{Region: sk.Region, Role: sk.Role, Err: err}
	}
	iamAPI, err := ex.factory.IAM(ctx, sk.Role)
	if err != nil {
		return ContextLabels{}, &AuthError{Region: sk.Region, Role: sk.Role, Err: err}
	}

	resolver := account.New(ex.logger)
	return ContextLabels{
		Region:       sk.Region,
		AccountID:    resolver.AccountID(ctx, stsAPI),
		AccountAlias: resolver.AccountAlias(ctx, iamAPI),
	}, nil
}

func (ex *Executor) runDiscoveryJobs(ctx context.Context, sk model.ShardKey, cwClient cloudwatch.Client, jobs []*model.DiscoveryJob, statsAcc *statsAccumulator, labels ContextLabels) error {
	type jobResult struct {
		namespace string
		resources int
		buckets   map[model.PeriodDelayLength][]*model.CloudwatchMetricTask
	}
	results := make([]jobResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, dj := range jobs {
		i, dj := i, dj
		g.Go(func() error {
			resources, err := ex.discoverer.Discover(gctx, dj, sk.Region, sk.Role)
			if err != nil {
				return &TransientAWSError{Namespace: dj.Namespace, Region: sk.Region, Op: "Discover", Err: err}
			}

			assoc := associator.New(ex.logger, dj.DimensionsRegexps, resources)
			buckets, err := EnumerateJob(gctx, cwClient, assoc, dj)
			if err != nil {
				return err
			}

			results[i] = jobResult{namespace: dj.Namespace, resources: len(resources), buckets: buckets}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := map[model.PeriodDelay]*mergedBucket{}
	resourcesByNamespace := map[string]int{}
	for _, r := range results {
		resourcesByNamespace[r.namespace] = r.resources
		for pdl, tasks := range r.buckets {
			pd := model.PeriodDelay{Period: pdl.Period, Delay: pdl.Delay}
			mb, ok := merged[pd]
			if !ok {
				mb = &mergedBucket{length: pdl.Length}
				merged[pd] = mb
			}
			if pdl.Length > mb.length {
				mb.length = pdl.Length
			}
			mb.tasks = append(mb.tasks, tasks...)
		}
	}

	now := time.Now()
	g2, gctx2 := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for pd, mb := range merged {
		pd, mb := pd, mb
		g2.Go(func() error {
			start, end := fetchWindow(now, pd.Period, pd.Delay, mb.length)
			if err := FetchBucket(gctx2, cwClient, mb.tasks[0].Namespace, mb.tasks, pd.Period, start, end, ex.concurrencyFor("METRICS_API_CONCURRENCY")); err != nil {
				return err
			}

			if _, err := EmitTasks(gctx2, ex.queue, labels, mb.tasks); err != nil {
				return err
			}

			mu.Lock()
			statsAcc.addFetched(mb.tasks)
			for ns, n := range resourcesByNamespace {
				statsAcc.setResourcesDiscovered(ns, n)
			}
			mu.Unlock()
			return nil
		})
	}
	return g2.Wait()
}

func (ex *Executor) runStaticJob(ctx context.Context, cwClient cloudwatch.Client, sj *model.StaticJob, statsAcc *statsAccumulator, labels ContextLabels) error {
	dims := make([]model.Dimension, 0, len(sj.Dimensions))
	for name, value := range sj.Dimensions {
		dims = append(dims, model.Dimension{Name: name, Value: value})
	}

	for _, mr := range sj.Metrics {
		now := time.Now()
		start, end := fetchWindow(now, mr.Period, mr.Delay, mr.Length)

		datapoints, err := cwClient.GetMetricStatistics(ctx, sj.Namespace, mr.Name, dims, mr.Statistics, mr.Period, start, end)
		if err != nil {
			return &TransientAWSError{Namespace: sj.Namespace, Op: "GetMetricStatistics", Err: err}
		}
		sort.Slice(datapoints, func(i, j int) bool {
			return datapoints[i].Timestamp.Before(*datapoints[j].Timestamp)
		})

		tags := map[string]string{}
		for k, v := range sj.CustomTags {
			tags[k] = v
		}

		tasks := make([]*model.CloudwatchMetricTask, 0, len(mr.Statistics))
		for _, stat := range mr.Statistics {
			task := &model.CloudwatchMetricTask{
				Namespace:              sj.Namespace,
				MetricName:             mr.Name,
				Dimensions:             sj.Dimensions,
				Statistic:              stat,
				NilToZero:              mr.NilToZero,
				AddCloudwatchTimestamp: mr.AddCloudwatchTimestamp,
				Unit:                   mr.Unit,
				Tags:                   tags,
				Result:                 &model.TaskResult{},
			}
			for _, dp := range datapoints {
				v, ok := datapointValue(dp, stat)
				if !ok {
					continue
				}
				task.Result.Values = append(task.Result.Values, v)
				if dp.Timestamp != nil {
					task.Result.Timestamps = append(task.Result.Timestamps, *dp.Timestamp)
				}
			}
			tasks = append(tasks, task)
		}

		if _, err := EmitTasks(ctx, ex.queue, labels, tasks); err != nil {
			return err
		}

		statsAcc.addFetched(tasks)
		statsAcc.setResourcesDiscovered(sj.Namespace, 1)
	}
	return nil
}

func datapointValue(dp types.Datapoint, stat string) (float64, bool) {
	switch stat {
	case "Average":
		if dp.Average != nil {
			return *dp.Average, true
		}
	case "Sum":
		if dp.Sum != nil {
			return *dp.Sum, true
		}
	case "Minimum":
		if dp.Minimum != nil {
			return *dp.Minimum, true
		}
	case "Maximum":
		if dp.Maximum != nil {
			return *dp.Maximum, true
		}
	case "SampleCount":
		if dp.SampleCount != nil {
			return *dp.SampleCount, true
		}
	}
	return 0, false
}

func jobsForShard(jobs []*model.DiscoveryJob, sk model.ShardKey, defaultRegion string) []*model.DiscoveryJob {
	var out []*model.DiscoveryJob
	for _, j := range jobs {
		for _, s := range j.Shards(defaultRegion) {
			if s == sk {
				out = append(out, j)
				break
			}
		}
	}
	return out
}

func staticJobsForShard(jobs []*model.StaticJob, sk model.ShardKey, defaultRegion string) []*model.StaticJob {
	var out []*model.StaticJob
	for _, j := range jobs {
		for _, s := range j.Shards(defaultRegion) {
			if s == sk {
				out = append(out, j)
				break
			}
		}
	}
	return out
}

// statsAccumulator aggregates per-(namespace, metric name) counts under a
// single mutex, shared across a shard's concurrent fetch/emit passes.
type statsAccumulator struct {
	mu   sync.Mutex
	byNS map[[2]string]*model.RunStats
}

func newStatsAccumulator() *statsAccumulator {
	return &statsAccumulator{byNS: map[[2]string]*model.RunStats{}}
}

func (s *statsAccumulator) entry(namespace, metricName string) *model.RunStats {
	key := [2]string{namespace, metricName}
	rs, ok := s.byNS[key]
	if !ok {
		rs = &model.RunStats{Namespace: namespace, MetricName: metricName}
		s.byNS[key] = rs
	}
	return rs
}

func (s *statsAccumulator) addFetched(tasks []*model.CloudwatchMetricTask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tasks {
		s.entry(t.Namespace, t.MetricName).MetricsRequested++
	}

	for _, group := range groupBySignature(tasks) {
		first := group[0]
		s.entry(first.Namespace, first.MetricName).MessagesSent++
	}
}

func (s *statsAccumulator) setResourcesDiscovered(namespace string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rs := range s.byNS {
		if key[0] == namespace {
			rs.ResourcesDiscovered = n
		}
	}
}

func (s *statsAccumulator) list() []model.RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.RunStats, 0, len(s.byNS))
	for _, rs := range s.byNS {
		out = append(out, *rs)
	}
	return out
}

func mergeRunStats(in []model.RunStats) []model.RunStats {
	byKey := map[[2]string]*model.RunStats{}
	order := make([][2]string, 0)
	for _, rs := range in {
		key := [2]string{rs.Namespace, rs.MetricName}
		existing, ok := byKey[key]
		if !ok {
			v := rs
			byKey[key] = &v
			order = append(order, key)
			continue
		}
		existing.ResourcesDiscovered += rs.ResourcesDiscovered
		existing.MetricsRequested += rs.MetricsRequested
		existing.MessagesSent += rs.MessagesSent
	}

	out := make([]model.RunStats, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
