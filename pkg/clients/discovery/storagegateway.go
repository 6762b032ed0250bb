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
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/storagegateway"

	"github.com/metricscrape/cwscraper/pkg/model"
)

type StorageGatewayFactory interface {
	StorageGateway(ctx context.Context, region, role string) (*storagegateway.Client, error)
}

// StorageGatewayDiscoverer enumerates gateways and rewrites each ARN to
// "{GatewayId}/{GatewayName}", the reverse-ordered composite dimension pair
// this namespace's catalogue regex expects.
type StorageGatewayDiscoverer struct {
	factory StorageGatewayFactory
}

func NewStorageGatewayDiscoverer(factory StorageGatewayFactory) *StorageGatewayDiscoverer {
	return &StorageGatewayDiscoverer{factory: factory}
}

func (d *StorageGatewayDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	client, err := d.factory.StorageGateway(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("storagegateway client: %w", err)
	}

	var out []*model.TaggedResource
	paginator := storagegateway.NewListGatewaysPaginator(client, &storagegateway.ListGatewaysInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list gateways: %w", err)
		}
		for _, gw := range page.Gateways {
			if gw.GatewayARN == nil || gw.GatewayId == nil {
				continue
			}

			tagsOut, err := client.ListTagsForResource(ctx, &storagegateway.ListTagsForResourceInput{
				ResourceARN: gw.GatewayARN,
			})
			var tags map[string]string
			if err != nil {
				tags = map[string]string{}
			} else {
				tags = make(map[string]string, len(tagsOut.Tags))
				for _, t := range tagsOut.Tags {
					if t.Key == nil {
						continue
					}
					v := ""
					if t.Value != nil {
						v = *t.Value
					}
					tags[*t.Key] = v
				}
			}
			if !MatchesSearchTags(tags, job.SearchTags) {
				continue
			}

			name := ""
			if gw.GatewayName != nil {
				name = *gw.GatewayName
			}
			out = append(out, &model.TaggedResource{
				Namespace: job.Namespace,
				ARN:       strings.Join([]string{*gw.GatewayId, name}, "/"),
				Tags:      tags,
			})
		}
	}
	return out, nil
}
