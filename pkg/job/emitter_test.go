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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metricscrape/cwscraper/pkg/model"
)

func taskWith(namespace, metric, stat string, dims map[string]string, value float64, ts time.Time) *model.CloudwatchMetricTask {
	return &model.CloudwatchMetricTask{
		Namespace:              namespace,
		MetricName:             metric,
		Statistic:              stat,
		Dimensions:             dims,
		Tags:                   map[string]string{"env": "prod"},
		AddCloudwatchTimestamp: true,
		Result: &model.TaskResult{
			Values:     []float64{value},
			Timestamps: []time.Time{ts},
		},
	}
}

func TestGroupBySignature(t *testing.T) {
	dims := map[string]string{"BucketName": "b1"}
	t1 := taskWith("AWS/S3", "NumberOfObjects", "Average", dims, 1, time.Unix(100, 0))
	t2 := taskWith("AWS/S3", "NumberOfObjects", "Sum", dims, 2, time.Unix(100, 0))
	t3 := taskWith("AWS/S3", "BucketSizeBytes", "Average", dims, 3, time.Unix(100, 0))

	groups := groupBySignature([]*model.CloudwatchMetricTask{t1, t2, t3})
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 1)
}

func TestBuildMessage(t *testing.T) {
	t.Run("merges stats and keeps the max timestamp", func(t *testing.T) {
		dims := map[string]string{"BucketName": "b1"}
		avg := taskWith("AWS/S3", "NumberOfObjects", "Average", dims, 1, time.Unix(100, 0))
		sum := taskWith("AWS/S3", "NumberOfObjects", "Sum", dims, 2, time.Unix(200, 0))

		msg, err := buildMessage(ContextLabels{Region: "us-east-1"}, []*model.CloudwatchMetricTask{avg, sum})
		require.NoError(t, err)
		require.NotNil(t, msg.Value["avg"])
		require.NotNil(t, msg.Value["sum"])
		assert.Equal(t, 1.0, *msg.Value["avg"])
		assert.Equal(t, 2.0, *msg.Value["sum"])
		require.NotNil(t, msg.Timestamp)
		assert.Equal(t, float64(200), *msg.Timestamp)
	})

	t.Run("duplicate shortname within a group is an error", func(t *testing.T) {
		dims := map[string]string{"BucketName": "b1"}
		a := taskWith("AWS/S3", "NumberOfObjects", "Average", dims, 1, time.Unix(100, 0))
		b := taskWith("AWS/S3", "NumberOfObjects", "Average", dims, 2, time.Unix(100, 0))

		_, err := buildMessage(ContextLabels{}, []*model.CloudwatchMetricTask{a, b})
		require.Error(t, err)
		var dupErr *DuplicateStatError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "avg", dupErr.Shortname)
	})

	t.Run("nil-to-zero tasks with no datapoints report zero, not omitted", func(t *testing.T) {
		task := &model.CloudwatchMetricTask{
			Namespace:  "AWS/S3",
			MetricName: "NumberOfObjects",
			Statistic:  "Average",
			NilToZero:  true,
			Result:     &model.TaskResult{},
		}
		msg, err := buildMessage(ContextLabels{}, []*model.CloudwatchMetricTask{task})
		require.NoError(t, err)
		require.NotNil(t, msg.Value["avg"])
		assert.Equal(t, 0.0, *msg.Value["avg"])
		assert.Nil(t, msg.Timestamp)
	})
}

type fakeQueueSender struct {
	sent [][]byte
	fail bool
}

func (f *fakeQueueSender) SendBatch(_ context.Context, bodies [][]byte) error {
	if f.fail {
		return assert.AnError
	}
	f.sent = append(f.sent, bodies...)
	return nil
}

func TestEmitTasks(t *testing.T) {
	t.Run("sends one message per signature group", func(t *testing.T) {
		dims := map[string]string{"BucketName": "b1"}
		avg := taskWith("AWS/S3", "NumberOfObjects", "Average", dims, 1, time.Unix(100, 0))
		other := taskWith("AWS/S3", "BucketSizeBytes", "Average", dims, 2, time.Unix(100, 0))

		queue := &fakeQueueSender{}
		n, err := EmitTasks(context.Background(), queue, ContextLabels{Region: "us-east-1"}, []*model.CloudwatchMetricTask{avg, other})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		require.Len(t, queue.sent, 2)

		var decoded message
		require.NoError(t, json.Unmarshal(queue.sent[0], &decoded))
		assert.Equal(t, "us-east-1", decoded.Region)
	})

	t.Run("no tasks sends nothing", func(t *testing.T) {
		queue := &fakeQueueSender{}
		n, err := EmitTasks(context.Background(), queue, ContextLabels{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Nil(t, queue.sent)
	})

	t.Run("a queue failure is wrapped as QueueSendError", func(t *testing.T) {
		dims := map[string]string{"BucketName": "b1"}
		avg := taskWith("AWS/S3", "NumberOfObjects", "Average", dims, 1, time.Unix(100, 0))

		queue := &fakeQueueSender{fail: true}
		_, err := EmitTasks(context.Background(), queue, ContextLabels{}, []*model.CloudwatchMetricTask{avg})
		require.Error(t, err)
		var sendErr *QueueSendError
		require.ErrorAs(t, err, &sendErr)
	})
}
