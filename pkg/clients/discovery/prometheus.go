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

	"github.com/aws/aws-sdk-go-v2/service/amp"

	"github.com/metricscrape/cwscraper/pkg/model"
)

type PrometheusFactory interface {
	Prometheus(ctx context.Context, region, role string) (*amp.Client, error)
}

// PrometheusDiscoverer enumerates Amazon Managed Prometheus workspaces.
type PrometheusDiscoverer struct {
	factory PrometheusFactory
}

func NewPrometheusDiscoverer(factory PrometheusFactory) *PrometheusDiscoverer {
	return &PrometheusDiscoverer{factory: factory}
}

func (d *PrometheusDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	client, err := d.factory.Prometheus(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("amp client: %w", err)
	}

	var out []*model.TaggedResource
	paginator := amp.NewListWorkspacesPaginator(client, &amp.ListWorkspacesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list workspaces: %w", err)
		}
		for _, ws := range page.Workspaces {
			if ws.Arn == nil {
				continue
			}
			tags := make(map[string]string, len(ws.Tags))
			for k, v := range ws.Tags {
				tags[k] = v
			}
			if !MatchesSearchTags(tags, job.SearchTags) {
				continue
			}
			out = append(out, &model.TaggedResource{
				Namespace: job.Namespace,
				ARN:       *ws.Arn,
				Tags:      tags,
			})
		}
	}
	return out, nil
}
