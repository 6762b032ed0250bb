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

// Package tagging implements the default resource discovery strategy: the
// Resource Groups Tagging API, filtered by a job's resource-type filters and
// search-tags.
package tagging

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	rgtatypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"

	"github.com/metricscrape/cwscraper/pkg/clients/discovery"
	"github.com/metricscrape/cwscraper/pkg/model"
)

// Factory builds a region/role-scoped tagging API client.
type Factory interface {
	Tagging(ctx context.Context, region, role string) (*resourcegroupstaggingapi.Client, error)
}

type Discoverer struct {
	factory Factory
}

func New(factory Factory) *Discoverer {
	return &Discoverer{factory: factory}
}

func (d *Discoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	client, err := d.factory.Tagging(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("tagging client: %w", err)
	}

	input := &resourcegroupstaggingapi.GetResourcesInput{}
	if len(job.ResourceTypeFilters) > 0 {
		input.ResourceTypeFilters = job.ResourceTypeFilters
	}

	var out []*model.TaggedResource
	paginator := resourcegroupstaggingapi.NewGetResourcesPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("get resources: %w", err)
		}
		for _, m := range page.ResourceTagMappingList {
			if m.ResourceARN == nil {
				continue
			}
			tags := tagsToMap(m.Tags)
			if !discovery.MatchesSearchTags(tags, job.SearchTags) {
				continue
			}
			out = append(out, &model.TaggedResource{
				Namespace: job.Namespace,
				ARN:       *m.ResourceARN,
				Tags:      tags,
			})
		}
	}
	return out, nil
}

func tagsToMap(tags []rgtatypes.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key == nil {
			continue
		}
		v := ""
		if t.Value != nil {
			v = *t.Value
		}
		out[*t.Key] = v
	}
	return out
}
