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

// Command cwscrape runs one CloudWatch scrape pass for local, ECS, or cron
// use: discover resources, enumerate and fetch their metrics, and emit the
// results to a queue.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/common/promslog"
	"github.com/urfave/cli/v2"

	"github.com/metricscrape/cwscraper/pkg/app"
	"github.com/metricscrape/cwscraper/pkg/config"
)

func main() {
	cliApp := &cli.App{
		Name:  "cwscrape",
		Usage: "scrape CloudWatch metrics for configured AWS resources and emit them to a queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML CLIConfig file (queue/role/concurrency/jitter/log settings)",
				EnvVars: []string{"CWSCRAPE_CONFIG"},
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx := context.Background()
	configPath := c.String("config")

	logger := buildLogger(configPath)

	stats, err := app.Run(ctx, logger, app.Params{CLIConfigPath: configPath})
	if err != nil {
		logger.Error("scrape pass failed", logAttr(err))
		return cli.Exit("scrape pass failed", 1)
	}

	for _, s := range stats {
		logger.Info("scrape stats",
			"namespace", s.Namespace,
			"metric_name", s.MetricName,
			"resources_discovered", s.ResourcesDiscovered,
			"metrics_requested", s.MetricsRequested,
			"messages_sent", s.MessagesSent,
		)
	}
	return nil
}

// buildLogger reads log level/format from the CLIConfig file when present,
// defaulting to info level and logfmt output.
func buildLogger(configPath string) *slog.Logger {
	logLevel, logFormat := "info", "logfmt"

	if configPath != "" {
		if cliCfg, err := config.LoadCLIConfig(configPath); err == nil {
			if cliCfg.LogLevel != "" {
				logLevel = cliCfg.LogLevel
			}
			if cliCfg.LogFormat != "" {
				logFormat = cliCfg.LogFormat
			}
		}
	}

	var level promslog.AllowedLevel
	_ = level.Set(logLevel)
	var format promslog.AllowedFormat
	_ = format.Set(logFormat)

	return promslog.New(&promslog.Config{Level: &level, Format: &format})
}

// logAttr renders an error for a structured log line, using its LogValue
// implementation when the taxonomy error types in pkg/job and pkg/config
// provide one.
func logAttr(err error) slog.Attr {
	return slog.Any("err", err)
}
