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
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metricscrape/cwscraper/pkg/model"
)

func TestJobsForShard(t *testing.T) {
	useast := &model.DiscoveryJob{Namespace: "AWS/S3", Regions: []string{"us-east-1"}}
	euwest := &model.DiscoveryJob{Namespace: "AWS/EC2", Regions: []string{"eu-west-1"}}
	both := []*model.DiscoveryJob{useast, euwest}

	got := jobsForShard(both, model.ShardKey{Region: "us-east-1"}, "us-east-1")
	require.Len(t, got, 1)
	assert.Same(t, useast, got[0])
}

func TestStaticJobsForShard(t *testing.T) {
	sj := &model.StaticJob{Namespace: "AWS/Billing", Regions: []string{"us-east-1"}, Roles: []string{"readonly"}}
	got := staticJobsForShard([]*model.StaticJob{sj}, model.ShardKey{Region: "us-east-1", Role: "readonly"}, "us-east-1")
	require.Len(t, got, 1)
	assert.Same(t, sj, got[0])

	assert.Empty(t, staticJobsForShard([]*model.StaticJob{sj}, model.ShardKey{Region: "us-east-1", Role: "other"}, "us-east-1"))
}

func TestStatsAccumulator(t *testing.T) {
	acc := newStatsAccumulator()

	dims := map[string]string{"BucketName": "b1"}
	t1 := &model.CloudwatchMetricTask{Namespace: "AWS/S3", MetricName: "NumberOfObjects", Statistic: "Average", Dimensions: dims}
	t2 := &model.CloudwatchMetricTask{Namespace: "AWS/S3", MetricName: "NumberOfObjects", Statistic: "Sum", Dimensions: dims}

	acc.addFetched([]*model.CloudwatchMetricTask{t1, t2})
	acc.setResourcesDiscovered("AWS/S3", 3)

	list := acc.list()
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].MetricsRequested)
	assert.Equal(t, 1, list[0].MessagesSent)
	assert.Equal(t, 3, list[0].ResourcesDiscovered)
}

func TestMergeRunStats(t *testing.T) {
	in := []model.RunStats{
		{Namespace: "AWS/S3", MetricName: "NumberOfObjects", ResourcesDiscovered: 2, MetricsRequested: 3, MessagesSent: 1},
		{Namespace: "AWS/S3", MetricName: "NumberOfObjects", ResourcesDiscovered: 5, MetricsRequested: 1, MessagesSent: 1},
		{Namespace: "AWS/EC2", MetricName: "CPUUtilization", ResourcesDiscovered: 1, MetricsRequested: 1, MessagesSent: 1},
	}

	out := mergeRunStats(in)
	require.Len(t, out, 2)
	assert.Equal(t, model.RunStats{Namespace: "AWS/S3", MetricName: "NumberOfObjects", ResourcesDiscovered: 7, MetricsRequested: 4, MessagesSent: 2}, out[0])
	assert.Equal(t, "AWS/EC2", out[1].Namespace)
}

func TestDatapointValue(t *testing.T) {
	dp := types.Datapoint{
		Average: aws.Float64(1.5),
		Sum:     aws.Float64(10),
	}

	v, ok := datapointValue(dp, "Average")
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = datapointValue(dp, "Sum")
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	_, ok = datapointValue(dp, "Minimum")
	assert.False(t, ok)
}
