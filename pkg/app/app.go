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

// Package app wires the scrape pipeline's components into one runnable
// pass, shared by the CLI and Lambda entry points. The Service Catalogue is
// built once per process; Run builds a new Client Factory on every call, so
// sessions and clients are cached only for the duration of one pass.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/metricscrape/cwscraper/pkg/clients/discovery"
	"github.com/metricscrape/cwscraper/pkg/clients/factory"
	"github.com/metricscrape/cwscraper/pkg/clients/sqsclient"
	"github.com/metricscrape/cwscraper/pkg/clients/tagging"
	"github.com/metricscrape/cwscraper/pkg/config"
	"github.com/metricscrape/cwscraper/pkg/job"
	"github.com/metricscrape/cwscraper/pkg/model"
	"github.com/metricscrape/cwscraper/pkg/resourceinventory"
)

// concurrencyEnvVars lists every per-API concurrency knob §6 defines.
// METRICS_API_CONCURRENCY gates the CloudWatch client via the executor's own
// semaphore; every other entry gates its matching factory-issued client
// through CachingFactory's SDK middleware (see knobForKind).
var concurrencyEnvVars = []string{
	"METRICS_API_CONCURRENCY",
	"STS_API_CONCURRENCY",
	"TAGGING_API_CONCURRENCY",
	"APIGATEWAY_API_CONCURRENCY",
	"APIGATEWAYV2_API_CONCURRENCY",
	"AUTOSCALING_API_CONCURRENCY",
	"DMS_API_CONCURRENCY",
	"EC2_API_CONCURRENCY",
	"PROMETHEUS_API_CONCURRENCY",
	"SHIELD_API_CONCURRENCY",
}

// discoveryCacheTTL bounds how long a discovery result is reused. Discovery
// runs once per job per shard, before the (period, delay) fetch passes, so
// within one Run the cache is shared only by discovery jobs with the same
// namespace and search tags in the same shard.
const discoveryCacheTTL = time.Minute

// Params configures one scrape pass. CLIConfigPath is optional; when empty, only
// environment-sourced configuration (SCRAPE_CONFIG, QUEUE_*, concurrency
// knobs) is used.
type Params struct {
	CLIConfigPath string
}

// Run loads configuration from the environment (and, optionally, a YAML
// CLIConfig file), builds the client factory and discovery registry, and
// executes one full Executor pass. It returns the aggregate RunStats.
func Run(ctx context.Context, logger *slog.Logger, params Params) ([]model.RunStats, error) {
	cliCfg := &config.CLIConfig{}
	if params.CLIConfigPath != "" {
		loaded, err := config.LoadCLIConfig(params.CLIConfigPath)
		if err != nil {
			return nil, &config.Error{Msg: fmt.Sprintf("loading cli config: %v", err)}
		}
		cliCfg = loaded
	}

	scrapeCfg, err := config.LoadScrapeConfig([]byte(os.Getenv("SCRAPE_CONFIG")))
	if err != nil {
		return nil, &config.Error{Msg: fmt.Sprintf("loading scrape config: %v", err)}
	}

	discoveryJobs, staticJobs, err := scrapeCfg.ToJobs()
	if err != nil {
		return nil, &config.Error{Msg: fmt.Sprintf("resolving jobs: %v", err)}
	}

	defaultRegion := scrapeCfg.DefaultRegion
	if defaultRegion == "" {
		defaultRegion = os.Getenv("AWS_REGION")
	}

	baseCfg, err := factory.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, &job.AuthError{Region: defaultRegion, Err: err}
	}
	if defaultRegion != "" {
		baseCfg.Region = defaultRegion
	}

	concurrency := mergeConcurrency(cliCfg.Concurrency)

	clientFactory := factory.New(baseCfg, scrapeCfg.StsRegion, concurrency)

	taggingDiscoverer := tagging.New(clientFactory)
	registry := discovery.NewRegistry(taggingDiscoverer, map[string]discovery.Discoverer{
		"AWS/ApiGateway":    discovery.NewAPIGatewayDiscoverer(clientFactory, taggingDiscoverer),
		"AWS/AutoScaling":   discovery.NewAutoScalingDiscoverer(clientFactory),
		"AWS/DMS":           discovery.NewDMSDiscoverer(clientFactory, taggingDiscoverer),
		"AWS/EC2Spot":       discovery.NewEC2SpotDiscoverer(clientFactory),
		"AWS/TransitGateway": discovery.NewTransitGatewayDiscoverer(clientFactory),
		"AWS/Prometheus":    discovery.NewPrometheusDiscoverer(clientFactory),
		"AWS/StorageGateway": discovery.NewStorageGatewayDiscoverer(clientFactory),
		"AWS/DDoSProtection": discovery.NewShieldDiscoverer(clientFactory),
	})
	cachedDiscoverer := resourceinventory.NewCachingDiscoverer(registry, discoveryCacheTTL)

	queueURL := firstNonEmpty(os.Getenv("QUEUE_URL"), cliCfg.QueueURL)
	if queueURL == "" {
		return nil, &config.Error{Msg: "QUEUE_URL is required"}
	}
	queueRegion := firstNonEmpty(os.Getenv("QUEUE_REGION"), cliCfg.QueueRegion, defaultRegion)
	queueRole := firstNonEmpty(os.Getenv("QUEUE_ROLE"), cliCfg.QueueRole)

	sqsAPI, err := clientFactory.SQS(ctx, queueRegion, queueRole)
	if err != nil {
		return nil, &job.AuthError{Region: queueRegion, Role: queueRole, Err: err}
	}
	queue := sqsclient.New(logger, sqsAPI, queueURL)

	jitter, err := cliCfg.Jitter.ToModel()
	if err != nil {
		return nil, &config.Error{Msg: fmt.Sprintf("parsing jitter: %v", err)}
	}
	var jitterCfg *model.JitterConfig
	if jitter.MinDelay != 0 || jitter.MaxDelay != 0 {
		jitterCfg = &jitter
	}

	executor := job.New(logger, clientFactory, cachedDiscoverer, queue, defaultRegion, concurrency, jitterCfg)
	return executor.Run(ctx, discoveryJobs, staticJobs)
}

func mergeConcurrency(fromFile map[string]int) map[string]int {
	out := make(map[string]int, len(concurrencyEnvVars))
	for k, v := range fromFile {
		out[k] = v
	}
	for _, name := range concurrencyEnvVars {
		if raw := os.Getenv(name); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				out[name] = n
			}
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
