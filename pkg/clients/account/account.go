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

// Package account resolves the two identity labels attached to every emitted
// message: the caller's account id (via STS) and its friendly alias (via
// IAM). Both lookups are best-effort and memoised per shard.
package account

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Resolver memoises the account id and alias for one shard. It is not safe
// to share across shards that use different credentials.
type Resolver struct {
	logger *slog.Logger

	mu      sync.Mutex
	idDone  bool
	id      string
	aliasDone bool
	alias   string
}

func New(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// AccountID returns the caller's account id via STS GetCallerIdentity. A
// failure is logged and swallowed to "", matching the reference scraper's
// policy of treating identity labels as best-effort.
func (r *Resolver) AccountID(ctx context.Context, client *sts.Client) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idDone {
		return r.id
	}
	r.idDone = true

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		r.logger.Debug("failed to resolve account id", "err", err)
		return ""
	}
	if out.Account != nil {
		r.id = *out.Account
	}
	return r.id
}

// AccountAlias returns the caller's account alias. The reference scraper
// calls a "support-app" GetAccountAlias operation that has no real AWS SDK
// v2 equivalent; IAM's ListAccountAliases is the real operation that serves
// the same purpose, and is likewise always called against us-east-1.
func (r *Resolver) AccountAlias(ctx context.Context, client *iam.Client) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aliasDone {
		return r.alias
	}
	r.aliasDone = true

	out, err := client.ListAccountAliases(ctx, &iam.ListAccountAliasesInput{})
	if err != nil {
		r.logger.Debug("failed to resolve account alias", "err", err)
		return ""
	}
	if len(out.AccountAliases) > 0 {
		r.alias = out.AccountAliases[0]
	}
	return r.alias
}
