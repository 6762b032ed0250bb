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

package discovery

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/shield"

	"github.com/metricscrape/cwscraper/pkg/model"
)

type ShieldFactory interface {
	Shield(ctx context.Context, region, role string) (*shield.Client, error)
}

// ShieldDiscoverer enumerates Shield protections. Each resource's ARN is the
// protected resource's ARN, so that the associator's generic catch-all regex
// can bind it; the protection's own ARN is carried as the ProtectionArn tag.
type ShieldDiscoverer struct {
	factory ShieldFactory
}

func NewShieldDiscoverer(factory ShieldFactory) *ShieldDiscoverer {
	return &ShieldDiscoverer{factory: factory}
}

func (d *ShieldDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	client, err := d.factory.Shield(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("shield client: %w", err)
	}

	var out []*model.TaggedResource
	var token *string
	for {
		page, err := client.ListProtections(ctx, &shield.ListProtectionsInput{NextToken: token})
		if err != nil {
			return nil, fmt.Errorf("list protections: %w", err)
		}
		for _, p := range page.Protections {
			if p.ResourceArn == nil {
				continue
			}
			tags := map[string]string{"ProtectionArn": aws.ToString(p.ProtectionArn)}
			if !MatchesSearchTags(tags, job.SearchTags) {
				continue
			}
			out = append(out, &model.TaggedResource{
				Namespace: job.Namespace,
				ARN:       *p.ResourceArn,
				Tags:      tags,
			})
		}
		if page.NextToken == nil {
			break
		}
		token = page.NextToken
	}
	return out, nil
}
