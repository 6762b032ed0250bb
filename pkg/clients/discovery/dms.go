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

	"github.com/aws/aws-sdk-go-v2/service/databasemigrationservice"

	"github.com/metricscrape/cwscraper/pkg/model"
)

type DMSFactory interface {
	DMS(ctx context.Context, region, role string) (*databasemigrationservice.Client, error)
}

// DMSDiscoverer rewrites each tagged replication-instance or
// replication-task ARN by appending the owning instance's id, since
// CloudWatch's DMS metrics are keyed on the (instance, task) pair rather
// than either ARN alone.
type DMSDiscoverer struct {
	factory DMSFactory
	tagging Discoverer
}

func NewDMSDiscoverer(factory DMSFactory, tagging Discoverer) *DMSDiscoverer {
	return &DMSDiscoverer{factory: factory, tagging: tagging}
}

func (d *DMSDiscoverer) Discover(ctx context.Context, job *model.DiscoveryJob, region, role string) ([]*model.TaggedResource, error) {
	tagged, err := d.tagging.Discover(ctx, job, region, role)
	if err != nil {
		return nil, err
	}

	client, err := d.factory.DMS(ctx, region, role)
	if err != nil {
		return nil, fmt.Errorf("dms client: %w", err)
	}

	arnToInstanceID, err := dmsReplicationInstanceIDs(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("describe replication instances: %w", err)
	}

	if err := dmsAddTaskInstanceIDs(ctx, client, arnToInstanceID); err != nil {
		return nil, fmt.Errorf("describe replication tasks: %w", err)
	}

	var out []*model.TaggedResource
	for _, r := range tagged {
		id, ok := arnToInstanceID[r.ARN]
		if !ok {
			continue
		}
		rewritten := *r
		rewritten.ARN = r.ARN + "/" + id
		out = append(out, &rewritten)
	}
	return out, nil
}

func dmsReplicationInstanceIDs(ctx context.Context, client *databasemigrationservice.Client) (map[string]string, error) {
	out := make(map[string]string)
	paginator := databasemigrationservice.NewDescribeReplicationInstancesPaginator(client, &databasemigrationservice.DescribeReplicationInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, inst := range page.ReplicationInstances {
			if inst.ReplicationInstanceArn != nil && inst.ReplicationInstanceIdentifier != nil {
				out[*inst.ReplicationInstanceArn] = *inst.ReplicationInstanceIdentifier
			}
		}
	}
	return out, nil
}

// dmsAddTaskInstanceIDs adds, for every replication task, an entry keyed by
// the task's own ARN pointing at its instance's id, alongside the existing
// instance-ARN entries arnToInstanceID already carries -- a tagged resource
// can be either the instance or one of its tasks, and both ARN shapes must
// resolve to the same instance id.
func dmsAddTaskInstanceIDs(ctx context.Context, client *databasemigrationservice.Client, arnToInstanceID map[string]string) error {
	paginator := databasemigrationservice.NewDescribeReplicationTasksPaginator(client, &databasemigrationservice.DescribeReplicationTasksInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, task := range page.ReplicationTasks {
			if task.ReplicationInstanceArn == nil || task.ReplicationTaskArn == nil {
				continue
			}
			id, ok := arnToInstanceID[*task.ReplicationInstanceArn]
			if !ok {
				continue
			}
			arnToInstanceID[*task.ReplicationTaskArn] = id
		}
	}
	return nil
}
