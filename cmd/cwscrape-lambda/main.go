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

// Command cwscrape-lambda wraps the scrape pipeline as a Lambda handler,
// reading the same environment variables as cmd/cwscrape and returning the
// aggregate RunStats as its JSON response.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/metricscrape/cwscraper/pkg/app"
	"github.com/metricscrape/cwscraper/pkg/model"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func handle(ctx context.Context) ([]model.RunStats, error) {
	stats, err := app.Run(ctx, logger, app.Params{})
	if err != nil {
		logger.Error("scrape pass failed", "err", err)
		return nil, err
	}
	return stats, nil
}

func main() {
	lambda.Start(handle)
}
