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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `{
  "default-region": "us-east-1",
  "discovery": {
    "exported_tags": ["project"],
    "jobs": [
      {
        "type": "AWS/S3",
        "regions": ["eu-west-2"],
        "search_tags": {"project": "^od.*"},
        "metrics": [
          {"name": "NumberOfObjects", "stats": ["Average"], "period": 86400, "length": 86400}
        ]
      }
    ]
  },
  "static": {
    "jobs": [
      {
        "type": "AWS/EC2",
        "regions": ["us-east-1"],
        "dimensions": {"InstanceId": "i-0123456789abcdef0"},
        "metrics": [
          {"name": "CPUUtilization", "stats": ["Average"]}
        ]
      }
    ]
  }
}`

func TestLoadScrapeConfig(t *testing.T) {
	cfg, err := LoadScrapeConfig([]byte(validConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Discovery.Jobs, 1)
	require.Len(t, cfg.Static.Jobs, 1)
}

func TestLoadScrapeConfig_MalformedJSON(t *testing.T) {
	_, err := LoadScrapeConfig([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed scrape config")
}

func TestScrapeConfig_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		config   string
		errorMsg string
	}{
		{
			name: "unknown service",
			config: `{"discovery":{"jobs":[{"type":"AWS/FancyNewNamespace","metrics":[{"name":"m","stats":["Average"]}]}]}}`,
			errorMsg: "unknown service",
		},
		{
			name:     "empty discovery type",
			config:   `{"discovery":{"jobs":[{"metrics":[{"name":"m","stats":["Average"]}]}]}}`,
			errorMsg: "type must not be empty",
		},
		{
			name:     "invalid search_tags regex",
			config:   `{"discovery":{"jobs":[{"type":"AWS/S3","search_tags":{"project":"("},"metrics":[{"name":"m","stats":["Average"]}]}]}}`,
			errorMsg: "search_tags",
		},
		{
			name:     "metric with no stats",
			config:   `{"discovery":{"jobs":[{"type":"AWS/S3","metrics":[{"name":"m","stats":[]}]}]}}`,
			errorMsg: "stats must not be empty",
		},
		{
			name:     "static job with no dimensions",
			config:   `{"static":{"jobs":[{"type":"AWS/EC2","dimensions":{},"metrics":[{"name":"m","stats":["Average"]}]}]}}`,
			errorMsg: "dimensions must not be empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScrapeConfig([]byte(tc.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorMsg)
		})
	}
}

func TestScrapeConfig_ToJobs(t *testing.T) {
	cfg, err := LoadScrapeConfig([]byte(validConfig))
	require.NoError(t, err)

	discoveryJobs, staticJobs, err := cfg.ToJobs()
	require.NoError(t, err)
	require.Len(t, discoveryJobs, 1)
	require.Len(t, staticJobs, 1)

	job := discoveryJobs[0]
	assert.Equal(t, "AWS/S3", job.Namespace)
	assert.Equal(t, []string{"project"}, job.ExportedTags)
	require.Len(t, job.Metrics, 1)
	assert.Equal(t, int64(86400), job.Metrics[0].Period)
	assert.Equal(t, int64(86400), job.Metrics[0].Length)
	assert.True(t, job.Metrics[0].AddCloudwatchTimestamp)
	assert.True(t, job.Metrics[0].MergeDimensions)
	require.Contains(t, job.SearchTags, "project")
	assert.True(t, job.SearchTags["project"].MatchString("odin"))
	assert.False(t, job.SearchTags["project"].MatchString("another"))

	staticJob := staticJobs[0]
	assert.Equal(t, "AWS/EC2", staticJob.Namespace)
	assert.Equal(t, "i-0123456789abcdef0", staticJob.Dimensions["InstanceId"])
}

func TestScrapeConfig_ToJobs_Defaults(t *testing.T) {
	const minimal = `{"discovery":{"jobs":[{"type":"s3","metrics":[{"name":"NumberOfObjects","stats":["Average"]}]}]}}`
	cfg, err := LoadScrapeConfig([]byte(minimal))
	require.NoError(t, err)

	discoveryJobs, _, err := cfg.ToJobs()
	require.NoError(t, err)
	require.Len(t, discoveryJobs, 1)

	// The job was declared by alias ("s3"); ToJobs resolves it to the
	// canonical namespace.
	assert.Equal(t, "AWS/S3", discoveryJobs[0].Namespace)

	m := discoveryJobs[0].Metrics[0]
	assert.Equal(t, int64(60), m.Period)
	assert.Equal(t, int64(60), m.Length)
	assert.Equal(t, int64(0), m.Delay)
	assert.True(t, m.AddCloudwatchTimestamp)
	assert.True(t, m.MergeDimensions)
}

func TestJitterConfig_ToModel(t *testing.T) {
	j := &JitterConfig{MinDelay: "1s", MaxDelay: "5s"}
	out, err := j.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "1s", out.MinDelay.String())
	assert.Equal(t, "5s", out.MaxDelay.String())

	var nilJitter *JitterConfig
	out, err = nilJitter.ToModel()
	require.NoError(t, err)
	assert.Zero(t, out.MinDelay)
	assert.Zero(t, out.MaxDelay)

	_, err = (&JitterConfig{MinDelay: "nope"}).ToModel()
	require.Error(t, err)
}

func TestLoadCLIConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
queueURL: https://sqs.us-east-1.amazonaws.com/123456789012/metrics
queueRegion: us-east-1
logLevel: debug
concurrency:
  METRICS_API_CONCURRENCY: 10
jitter:
  minDelay: 0s
  maxDelay: 10s
`), 0o600))

	cfg, err := LoadCLIConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123456789012/metrics", cfg.QueueURL)
	assert.Equal(t, "us-east-1", cfg.QueueRegion)
	assert.Equal(t, 10, cfg.Concurrency["METRICS_API_CONCURRENCY"])
	require.NotNil(t, cfg.Jitter)
	assert.Equal(t, "10s", cfg.Jitter.MaxDelay)
}

func TestLoadCLIConfig_MissingFile(t *testing.T) {
	_, err := LoadCLIConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "reading cli config"))
}
