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

package factory

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReload(t *testing.T) {
	t.Run("no change is a no-op", func(t *testing.T) {
		f := New(aws.Config{Region: "us-east-1"}, "", nil)
		reloaded, err := f.Reload(aws.Config{Region: "us-east-1"})
		require.NoError(t, err)
		assert.False(t, reloaded)
		assert.False(t, f.Cleared())
	})

	t.Run("a region change clears the cache", func(t *testing.T) {
		f := New(aws.Config{Region: "us-east-1"}, "", nil)

		// Populate the cache so we can observe it being dropped.
		ctx := context.Background()
		_, err := f.STS(ctx, "us-east-1", "")
		require.NoError(t, err)
		require.Len(t, f.clients, 1)

		reloaded, err := f.Reload(aws.Config{Region: "eu-west-1"})
		require.NoError(t, err)
		assert.True(t, reloaded)
		assert.Empty(t, f.clients)
		assert.Empty(t, f.sessions)
		assert.True(t, f.Cleared())
		assert.False(t, f.Cleared(), "Cleared consumes the flag on read")
	})

	t.Run("a credentials provider change clears the cache", func(t *testing.T) {
		f := New(aws.Config{Region: "us-east-1"}, "", nil)
		newCfg := aws.Config{
			Region:      "us-east-1",
			Credentials: credentials.NewStaticCredentialsProvider("AKIA", "secret", ""),
		}

		reloaded, err := f.Reload(newCfg)
		require.NoError(t, err)
		assert.True(t, reloaded)
	})
}

func TestBuildSemaphores(t *testing.T) {
	sems := buildSemaphores(map[string]int{"STS_API_CONCURRENCY": 2})

	assert.Equal(t, 2, cap(sems["sts"]), "explicit override wins")
	assert.Equal(t, defaultClientConcurrency, cap(sems["ec2"]), "no knob configured falls back to the default")
	assert.Equal(t, supportAppConcurrency, cap(sems["iam"]), "iam has no knob and always uses supportAppConcurrency")
}

func TestBuildSemaphoresIgnoresNonPositiveOverride(t *testing.T) {
	sems := buildSemaphores(map[string]int{"EC2_API_CONCURRENCY": 0})
	assert.Equal(t, defaultClientConcurrency, cap(sems["ec2"]))
}
