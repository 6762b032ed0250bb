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
	"fmt"
	"log/slog"
)

// AuthError reports a failed session or client acquisition: assume-role via
// STS, or building a regional client from it. Unlike the tolerant
// best-effort account-id/alias lookups in pkg/clients/account, this is fatal
// to the owning shard.
type AuthError struct {
	Region string
	Role   string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: region=%s role=%s: %v", e.Region, e.Role, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("region", e.Region),
		slog.String("role", e.Role),
		slog.Any("err", e.Err),
	)
}

// TransientAWSError wraps a failed list/get/describe call from a discovery,
// enumeration, or fetch step. It aborts the owning shard; sibling shards are
// unaffected.
type TransientAWSError struct {
	Namespace string
	Region    string
	Op        string
	Err       error
}

func (e *TransientAWSError) Error() string {
	return fmt.Sprintf("%s failed: namespace=%s region=%s: %v", e.Op, e.Namespace, e.Region, e.Err)
}

func (e *TransientAWSError) Unwrap() error { return e.Err }

func (e *TransientAWSError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("op", e.Op),
		slog.String("namespace", e.Namespace),
		slog.String("region", e.Region),
		slog.Any("err", e.Err),
	)
}

// AssociationAmbiguityError records that two resources mapped to the same
// dimension signature within one bucket. The associator tolerates this
// (last write wins); the error type exists so callers that want to surface
// it as a diagnostic can do so without changing binding behaviour.
type AssociationAmbiguityError struct {
	Namespace string
	Signature uint64
}

func (e *AssociationAmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous association: namespace=%s signature=%d", e.Namespace, e.Signature)
}

func (e *AssociationAmbiguityError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("namespace", e.Namespace),
		slog.Uint64("signature", e.Signature),
	)
}

// DuplicateStatError reports that an emitted message's task group carried
// two tasks with the same stat shortname. This is a programmer error in job
// construction (two MetricRequests requesting the same statistic), not a
// recoverable runtime condition.
type DuplicateStatError struct {
	Namespace  string
	MetricName string
	Shortname  string
}

func (e *DuplicateStatError) Error() string {
	return fmt.Sprintf("duplicate stat %q for %s/%s", e.Shortname, e.Namespace, e.MetricName)
}

func (e *DuplicateStatError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("namespace", e.Namespace),
		slog.String("metric_name", e.MetricName),
		slog.String("shortname", e.Shortname),
	)
}

// QueueSendError wraps a failed SendMessageBatch call. Batches already sent
// before the failure are not rolled back.
type QueueSendError struct {
	QueueURL string
	Err      error
}

func (e *QueueSendError) Error() string {
	return fmt.Sprintf("queue send failed: %s: %v", e.QueueURL, e.Err)
}

func (e *QueueSendError) Unwrap() error { return e.Err }

func (e *QueueSendError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("queue_url", e.QueueURL),
		slog.Any("err", e.Err),
	)
}
