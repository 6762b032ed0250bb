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

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"

	"github.com/metricscrape/cwscraper/pkg/model"
)

// APIGatewayFactory builds region/role-scoped API Gateway v1 and v2 clients.
type APIGatewayFactory interface {
	APIGateway(ctx context.Context, region, role string) (*apigateway.Client, error)
	APIGatewayV2(ctx context.Context, region, role string) (*apigatewayv2.Client, error)
}

// APIGatewayDiscoverer rewrites tagged REST API ARNs from their opaque id to
// their human-readable name, since that's what CloudWatch's ApiName
// dimension carries. HTTP/WebSocket (v2) APIs keep their id-based ARN as-is.
type APIGatewayDiscoverer struct {
	factory APIGatewayFactory
	tagging Discoverer
}

func NewAPIGatewayDiscoverer(factory APIGatewayFactory, tagging Discoverer) *APIGatewayDiscoverer {
	return &APIGatewayDiscoverer{factory: factory, tagging: tagging}
}

func (d *APIGatewayDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	tagged, err := d.tagging.Discover(ctx, job, region, role)
	if err != nil {
		return nil, err
	}

	v1Client, err := d.factory.APIGateway(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("apigateway client: %w", err)
	}
	idToName, err := restAPINamesByID(ctx, v1Client)
	if err != nil {
		return nil, fmt.Errorf("get rest apis: %w", err)
	}

	var out []*model.TaggedResource
	for _, r := range tagged {
		if prefix, id, suffix, ok := splitRestAPIArn(r.ARN); ok {
			name, known := idToName[id]
			if !known {
				continue
			}
			rewritten := *r
			rewritten.ARN = prefix + name + suffix
			out = append(out, &rewritten)
			continue
		}
		if isV2APIArn(r.ARN) {
			out = append(out, r)
			continue
		}
		// Neither a v1 restapis/{id} nor a v2 apis/{id} ARN: drop it.
	}
	return out, nil
}

func restAPINamesByID(ctx context.Context, client *apigateway.Client) (map[string]string, error) {
	out := make(map[string]string)
	paginator := apigateway.NewGetRestApisPaginator(client, &apigateway.GetRestApisInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, api := range page.Items {
			if api.Id != nil && api.Name != nil {
				out[*api.Id] = *api.Name
			}
		}
	}
	return out, nil
}

const restAPIsMarker = "/restapis/"

// splitRestAPIArn splits an ARN ending in /restapis/{id} or
// /restapis/{id}/stages/{stage} into the text before and after the {id}
// segment, so callers can rewrite just that segment without a blind
// substring replace (an id that happens to recur elsewhere in the ARN, e.g.
// inside a stage name, must not be touched).
func splitRestAPIArn(arn string) (prefix, id, suffix string, ok bool) {
	idx := strings.Index(arn, restAPIsMarker)
	if idx < 0 {
		return "", "", "", false
	}
	rest := arn[idx+len(restAPIsMarker):]
	id, tail, _ := strings.Cut(rest, "/")
	if id == "" {
		return "", "", "", false
	}
	prefix = arn[:idx+len(restAPIsMarker)]
	if tail != "" {
		suffix = "/" + tail
	}
	return prefix, id, suffix, true
}

func isV2APIArn(arn string) bool {
	return strings.Contains(arn, "/apis/")
}
