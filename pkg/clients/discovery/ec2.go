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

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/metricscrape/cwscraper/pkg/model"
)

type EC2Factory interface {
	EC2(ctx context.Context, region, role string) (*ec2.Client, error)
}

// EC2SpotDiscoverer enumerates spot fleet requests directly: CloudWatch's
// AWS/EC2Spot namespace has no resource-groups-tagging coverage.
type EC2SpotDiscoverer struct {
	factory EC2Factory
}

func NewEC2SpotDiscoverer(factory EC2Factory) *EC2SpotDiscoverer {
	return &EC2SpotDiscoverer{factory: factory}
}

func (d *EC2SpotDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	client, err := d.factory.EC2(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("ec2 client: %w", err)
	}

	var out []*model.TaggedResource
	paginator := ec2.NewDescribeSpotFleetRequestsPaginator(client, &ec2.DescribeSpotFleetRequestsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe spot fleet requests: %w", err)
		}
		for _, req := range page.SpotFleetRequestConfigs {
			if req.SpotFleetRequestId == nil {
				continue
			}
			tags := map[string]string{}
			if !MatchesSearchTags(tags, job.SearchTags) {
				continue
			}
			out = append(out, &model.TaggedResource{
				Namespace: job.Namespace,
				ARN:       *req.SpotFleetRequestId,
				Tags:      tags,
			})
		}
	}
	return out, nil
}

// TransitGatewayDiscoverer enumerates transit gateway attachments directly,
// synthesising an ARN of "{TransitGatewayId}/{TransitGatewayAttachmentId}"
// to match the composite dimension pair CloudWatch reports.
type TransitGatewayDiscoverer struct {
	factory EC2Factory
}

func NewTransitGatewayDiscoverer(factory EC2Factory) *TransitGatewayDiscoverer {
	return &TransitGatewayDiscoverer{factory: factory}
}

func (d *TransitGatewayDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	client, err := d.factory.EC2(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("ec2 client: %w", err)
	}

	var out []*model.TaggedResource
	paginator := ec2.NewDescribeTransitGatewayAttachmentsPaginator(client, &ec2.DescribeTransitGatewayAttachmentsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe transit gateway attachments: %w", err)
		}
		for _, att := range page.TransitGatewayAttachments {
			if att.TransitGatewayId == nil || att.TransitGatewayAttachmentId == nil {
				continue
			}
			tags := map[string]string{}
			if !MatchesSearchTags(tags, job.SearchTags) {
				continue
			}
			out = append(out, &model.TaggedResource{
				Namespace: job.Namespace,
				ARN:       *att.TransitGatewayId + "/" + *att.TransitGatewayAttachmentId,
				Tags:      tags,
			})
		}
	}
	return out, nil
}
