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
	"fmt"

	"github.com/metricscrape/cwscraper/pkg/model"
)

// ContextLabels are the per-shard identity fields seeded onto every emitted
// message. AccountID and AccountAlias are omitted from the JSON body when
// empty (best-effort lookups that may legitimately fail).
type ContextLabels struct {
	Region       string
	AccountID    string
	AccountAlias string
}

// QueueSender is the subset of sqsclient.Client the emitter depends on.
type QueueSender interface {
	SendBatch(ctx context.Context, bodies [][]byte) error
}

type message struct {
	Region       string             `json:"region"`
	AccountID    string             `json:"account_id,omitempty"`
	AccountAlias string             `json:"account_alias,omitempty"`
	Namespace    string             `json:"namespace"`
	MetricName   string             `json:"metric_name"`
	Dimensions   map[string]string  `json:"dimensions"`
	Tags         map[string]string  `json:"tags"`
	Value        map[string]*float64 `json:"value"`
	Timestamp    *float64           `json:"timestamp,omitempty"`
}

// EmitTasks groups tasks by signature, builds one message per group, and
// sends them to the queue in batches of 10. It returns the number of
// messages sent.
func EmitTasks(ctx context.Context, queue QueueSender, labels ContextLabels, tasks []*model.CloudwatchMetricTask) (int, error) {
	groups := groupBySignature(tasks)

	bodies := make([][]byte, 0, len(groups))
	for _, group := range groups {
		msg, err := buildMessage(labels, group)
		if err != nil {
			return 0, err
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return 0, fmt.Errorf("marshal message: %w", err)
		}
		bodies = append(bodies, body)
	}

	if len(bodies) == 0 {
		return 0, nil
	}

	if err := queue.SendBatch(ctx, bodies); err != nil {
		return 0, &QueueSendError{Err: err}
	}
	return len(bodies), nil
}

func groupBySignature(tasks []*model.CloudwatchMetricTask) [][]*model.CloudwatchMetricTask {
	order := make([]model.Signature, 0)
	byKey := make(map[model.Signature][]*model.CloudwatchMetricTask)
	for _, t := range tasks {
		sig := t.Signature()
		if _, ok := byKey[sig]; !ok {
			order = append(order, sig)
		}
		byKey[sig] = append(byKey[sig], t)
	}

	out := make([][]*model.CloudwatchMetricTask, 0, len(order))
	for _, sig := range order {
		out = append(out, byKey[sig])
	}
	return out
}

func buildMessage(labels ContextLabels, group []*model.CloudwatchMetricTask) (*message, error) {
	first := group[0]
	msg := &message{
		Region:       labels.Region,
		AccountID:    labels.AccountID,
		AccountAlias: labels.AccountAlias,
		Namespace:    first.Namespace,
		MetricName:   first.MetricName,
		Dimensions:   first.Dimensions,
		Tags:         first.Tags,
		Value:        make(map[string]*float64, len(group)),
	}

	var maxTimestamp *float64
	for _, t := range group {
		shortname := t.StatShortname()
		if _, dup := msg.Value[shortname]; dup {
			return nil, &DuplicateStatError{Namespace: t.Namespace, MetricName: t.MetricName, Shortname: shortname}
		}
		msg.Value[shortname] = t.Value()

		if ts := t.Timestamp(); ts != nil {
			if maxTimestamp == nil || *ts > *maxTimestamp {
				maxTimestamp = ts
			}
		}
	}
	msg.Timestamp = maxTimestamp

	return msg, nil
}
