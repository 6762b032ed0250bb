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

// Package sqsclient sends emitted scrape messages to the downstream queue.
package sqsclient

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const batchSize = 10

// Client sends JSON message bodies to one SQS queue in batches of 10,
// draining the input slice sequentially. It is safe for concurrent use: the
// underlying SDK client is safe for concurrent SendMessageBatch calls.
type Client struct {
	logger   *slog.Logger
	sqsAPI   *sqs.Client
	queueURL string
}

func New(logger *slog.Logger, sqsAPI *sqs.Client, queueURL string) *Client {
	return &Client{logger: logger, sqsAPI: sqsAPI, queueURL: queueURL}
}

// SendBatch sends bodies to the queue, batching by 10 and returning the
// first send error encountered. Batches already sent are not rolled back.
func (c *Client) SendBatch(ctx context.Context, bodies [][]byte) error {
	for start := 0; start < len(bodies); start += batchSize {
		end := start + batchSize
		if end > len(bodies) {
			end = len(bodies)
		}

		entries := make([]types.SendMessageBatchRequestEntry, 0, end-start)
		for i, body := range bodies[start:end] {
			entries = append(entries, types.SendMessageBatchRequestEntry{
				Id:          aws.String(strconv.Itoa(i)),
				MessageBody: aws.String(string(body)),
			})
		}

		out, err := c.sqsAPI.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
			QueueUrl: aws.String(c.queueURL),
			Entries:  entries,
		})
		if err != nil {
			return fmt.Errorf("send message batch: %w", err)
		}
		for _, failed := range out.Failed {
			c.logger.Error("message failed to send", "id", aws.ToString(failed.Id), "code", aws.ToString(failed.Code), "message", aws.ToString(failed.Message))
		}
	}
	return nil
}
