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

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"

	"github.com/metricscrape/cwscraper/pkg/model"
)

type AutoScalingFactory interface {
	AutoScaling(ctx context.Context, region, role string) (*autoscaling.Client, error)
}

// AutoScalingDiscoverer ignores the tagging API entirely: auto scaling
// groups carry their tags inline on the DescribeAutoScalingGroups response.
type AutoScalingDiscoverer struct {
	factory AutoScalingFactory
}

func NewAutoScalingDiscoverer(factory AutoScalingFactory) *AutoScalingDiscoverer {
	return &AutoScalingDiscoverer{factory: factory}
}

func (d *AutoScalingDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	client, err := d.factory.AutoScaling(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("autoscaling client: %w", err)
	}

	var out []*model.TaggedResource
	paginator := autoscaling.NewDescribeAutoScalingGroupsPaginator(client, &autoscaling.DescribeAutoScalingGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe auto scaling groups: %w", err)
		}
		for _, asg := range page.AutoScalingGroups {
			if asg.AutoScalingGroupARN == nil {
				continue
			}
			tags := make(map[string]string, len(asg.Tags))
			for _, t := range asg.Tags {
				if t.Key == nil {
					continue
				}
				v := ""
				if t.Value != nil {
					v = *t.Value
				}
				tags[*t.Key] = v
			}
			if !MatchesSearchTags(tags, job.SearchTags) {
				continue
			}
			out = append(out, &model.TaggedResource{
				Namespace: job.Namespace,
				ARN:       *asg.AutoScalingGroupARN,
				Tags:      tags,
			})
		}
	}
	return out, nil
}
