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

package associator

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metricscrape/cwscraper/pkg/catalogue"
	"github.com/metricscrape/cwscraper/pkg/model"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func regexpsFor(t *testing.T, namespace string) []model.DimensionsRegexp {
	t.Helper()
	svc, err := catalogue.Default().Lookup(namespace)
	require.NoError(t, err)
	return svc.DimensionsRegexps
}

func TestAssociate_Cassandra(t *testing.T) {
	keyspaceTable := &model.TaggedResource{
		ARN:       "arn:aws:cassandra:eu-west-1:123456789012:/keyspace/my_keyspace/table/my_table",
		Namespace: "AWS/Cassandra",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/Cassandra"), []*model.TaggedResource{keyspaceTable})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "BillableTableSizeInBytes",
		Namespace:  "AWS/Cassandra",
		Dimensions: []model.Dimension{
			{Name: "Keyspace", Value: "my_keyspace"},
			{Name: "TableName", Value: "my_table"},
		},
	})
	require.False(t, skip)
	require.Equal(t, keyspaceTable, res)
}

func TestAssociate_ClientVPN(t *testing.T) {
	endpoint := &model.TaggedResource{
		ARN:       "arn:aws:ec2:eu-central-1:075055617227:client-vpn-endpoint/cvpn-endpoint-0c9e5bd20be71e296",
		Namespace: "AWS/ClientVPN",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/ClientVPN"), []*model.TaggedResource{endpoint})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "CrlDaysToExpiry",
		Namespace:  "AWS/ClientVPN",
		Dimensions: []model.Dimension{
			{Name: "Endpoint", Value: "cvpn-endpoint-0c9e5bd20be71e296"},
		},
	})
	require.False(t, skip)
	require.Equal(t, endpoint, res)
}

func TestAssociate_DDoSProtection(t *testing.T) {
	protected1 := &model.TaggedResource{
		ARN:       "arn:aws:ec2:us-east-1:123456789012:instance/i-abc123",
		Namespace: "AWS/DDoSProtection",
	}
	protected2 := &model.TaggedResource{
		ARN:       "arn:aws:ec2:us-east-1:123456789012:instance/i-def456",
		Namespace: "AWS/DDoSProtection",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/DDoSProtection"), []*model.TaggedResource{protected1, protected2})
	res, skip := assoc.Associate(&model.Metric{
		Namespace:  "AWS/DDoSProtection",
		MetricName: "CPUUtilization",
		Dimensions: []model.Dimension{
			{Name: "ResourceArn", Value: "arn:aws:ec2:us-east-1:123456789012:instance/i-abc123"},
		},
	})
	require.False(t, skip)
	require.Equal(t, protected1, res)
}

func TestAssociate_DX(t *testing.T) {
	vif := &model.TaggedResource{
		ARN:       "arn:aws:directconnect::012345678901:dxvif/dxvif-abc123",
		Namespace: "AWS/DX",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/DX"), []*model.TaggedResource{vif})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "VirtualInterfaceBpsIngress",
		Namespace:  "AWS/DX",
		Dimensions: []model.Dimension{
			{Name: "ConnectionId", Value: "dxlag-abc123"},
			{Name: "VirtualInterfaceId", Value: "dxvif-abc123"},
		},
	})
	require.False(t, skip)
	require.Equal(t, vif, res)
}

func TestAssociate_KMS(t *testing.T) {
	key := &model.TaggedResource{
		ARN:       "arn:aws:kms:us-east-2:123456789012:key/12345678-1234-1234-1234-123456789012",
		Namespace: "AWS/KMS",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/KMS"), []*model.TaggedResource{key})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "SecondsUntilKeyMaterialExpiration",
		Namespace:  "AWS/KMS",
		Dimensions: []model.Dimension{
			{Name: "KeyId", Value: "12345678-1234-1234-1234-123456789012"},
		},
	})
	require.False(t, skip)
	require.Equal(t, key, res)
}

func TestAssociate_ElastiCache(t *testing.T) {
	cluster := &model.TaggedResource{
		ARN:       "arn:aws:elasticache:us-east-1:123456789012:cluster:my-cluster-001",
		Namespace: "AWS/ElastiCache",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/ElastiCache"), []*model.TaggedResource{cluster})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "CPUUtilization",
		Namespace:  "AWS/ElastiCache",
		Dimensions: []model.Dimension{
			{Name: "CacheClusterId", Value: "my-cluster-001"},
		},
	})
	require.False(t, skip)
	require.Equal(t, cluster, res)
}

func TestAssociate_MemoryDB(t *testing.T) {
	cluster := &model.TaggedResource{
		ARN:       "arn:aws:memorydb:us-east-1:123456789012:cluster/my-memorydb-cluster",
		Namespace: "AWS/MemoryDB",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/MemoryDB"), []*model.TaggedResource{cluster})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "DatabaseMemoryUsagePercentage",
		Namespace:  "AWS/MemoryDB",
		Dimensions: []model.Dimension{
			{Name: "ClusterName", Value: "my-memorydb-cluster"},
		},
	})
	require.False(t, skip)
	require.Equal(t, cluster, res)
}

func TestAssociate_Logs(t *testing.T) {
	logGroup := &model.TaggedResource{
		ARN:       "arn:aws:logs:us-east-1:123456789012:log-group:/my/log/group",
		Namespace: "AWS/Logs",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/Logs"), []*model.TaggedResource{logGroup})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "IncomingBytes",
		Namespace:  "AWS/Logs",
		Dimensions: []model.Dimension{
			{Name: "LogGroupName", Value: "/my/log/group"},
		},
	})
	require.False(t, skip)
	require.Equal(t, logGroup, res)
}

func TestAssociate_EC2Instance(t *testing.T) {
	instance := &model.TaggedResource{
		ARN:       "arn:aws:ec2:us-east-1:123456789012:instance/i-0123456789abcdef0",
		Namespace: "AWS/EC2",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/EC2"), []*model.TaggedResource{instance})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "CPUUtilization",
		Namespace:  "AWS/EC2",
		Dimensions: []model.Dimension{
			{Name: "InstanceId", Value: "i-0123456789abcdef0"},
		},
	})
	require.False(t, skip)
	require.Equal(t, instance, res)
}

func TestAssociate_MQ_ActiveMQStandbySuffix(t *testing.T) {
	rabbitMQBroker := &model.TaggedResource{
		ARN:       "arn:aws:mq:us-east-2:123456789012:broker:rabbitmq-broker:b-000-111-222-333",
		Namespace: "AWS/AmazonMQ",
	}
	activeMQBroker := &model.TaggedResource{
		ARN:       "arn:aws:mq:us-east-2:123456789012:broker:activemq-broker:b-000-111-222-333",
		Namespace: "AWS/AmazonMQ",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/AmazonMQ"), []*model.TaggedResource{rabbitMQBroker})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "ProducerCount",
		Namespace:  "AWS/AmazonMQ",
		Dimensions: []model.Dimension{
			{Name: "Broker", Value: "rabbitmq-broker"},
		},
	})
	require.False(t, skip)
	require.Equal(t, rabbitMQBroker, res)

	// ActiveMQ's active/standby mode reports a Broker dimension with a
	// numeric suffix (brokername-1) that doesn't appear in the ARN.
	assoc = New(nopLogger(), regexpsFor(t, "AWS/AmazonMQ"), []*model.TaggedResource{activeMQBroker})
	res, skip = assoc.Associate(&model.Metric{
		MetricName: "ProducerCount",
		Namespace:  "AWS/AmazonMQ",
		Dimensions: []model.Dimension{
			{Name: "Broker", Value: "activemq-broker-1"},
		},
	})
	require.False(t, skip)
	require.Equal(t, activeMQBroker, res)
}

func TestAssociate_SageMakerEndpointNameCaseFixup(t *testing.T) {
	endpoint := &model.TaggedResource{
		ARN:       "arn:aws:sagemaker:us-east-1:123456789012:endpoint/my-endpoint",
		Namespace: "AWS/SageMaker",
	}

	assoc := New(nopLogger(), regexpsFor(t, "AWS/SageMaker"), []*model.TaggedResource{endpoint})
	res, skip := assoc.Associate(&model.Metric{
		MetricName: "Invocations",
		Namespace:  "AWS/SageMaker",
		Dimensions: []model.Dimension{
			// CloudWatch reports mixed-case endpoint names; the ARN always
			// lowercases them.
			{Name: "EndpointName", Value: "My-Endpoint"},
		},
	})
	require.False(t, skip)
	require.Equal(t, endpoint, res)
}
