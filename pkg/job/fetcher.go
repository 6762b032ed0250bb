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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/metricscrape/cwscraper/pkg/clients/cloudwatch"
	"github.com/metricscrape/cwscraper/pkg/model"
)

// maxGetMetricDataBatch is the largest number of queries CloudWatch accepts
// in a single GetMetricData call.
const maxGetMetricDataBatch = 300

// FetchBucket fetches values for every task in tasks, all sharing the given
// period and time window, splitting into <=300-task batches dispatched with
// bounded concurrency. Each task's Result is populated in place; one failed
// batch aborts the whole fetch (TransientAWSError), but does not corrupt the
// results of batches that already completed.
func FetchBucket(ctx context.Context, cw cloudwatch.Client, namespace string, tasks []*model.CloudwatchMetricTask, period int64, start, end time.Time, concurrency int) error {
	batches := chunkTasks(tasks, maxGetMetricDataBatch)

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			if err := cw.GetMetricData(ctx, batch, period, start, end); err != nil {
				return &TransientAWSError{Namespace: namespace, Op: "GetMetricData", Err: err}
			}
			return nil
		})
	}

	return g.Wait()
}

// chunkTasks splits tasks into ceil(len(tasks)/max) batches of
// ceil(len(tasks)/numBatches) tasks (the last may be shorter), each no larger
// than max, so a 301-task input yields batches of 151 and 150 rather than
// one near-empty trailing batch.
func chunkTasks(tasks []*model.CloudwatchMetricTask, max int) [][]*model.CloudwatchMetricTask {
	total := len(tasks)
	if total == 0 {
		return nil
	}
	if total <= max {
		return [][]*model.CloudwatchMetricTask{tasks}
	}

	numBatches := (total + max - 1) / max
	batchSize := (total + numBatches - 1) / numBatches

	out := make([][]*model.CloudwatchMetricTask, 0, numBatches)
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		out = append(out, tasks[start:end])
	}
	return out
}
