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

package catalogue

// servicesConf is the full service table: every AWS namespace this scraper
// knows how to discover and associate, keyed by both its short alias and its
// CloudWatch namespace.
var servicesConf = []rawEntry{
	{alias: "cwagent", namespace: "CWAgent"},
	{alias: "usage", namespace: "AWS/Usage"},
	{alias: "acm", namespace: "AWS/CertificateManager", resourceTypeFilters: []string{"acm:certificate"}},
	{
		alias: "acm-pca", namespace: "AWS/ACMPrivateCA",
		resourceTypeFilters: []string{"acm-pca:certificate-authority"},
		arnPatterns:         []string{`(?P<PrivateCAArn>.*)`},
	},
	{alias: "airflow", namespace: "AmazonMWAA", resourceTypeFilters: []string{"airflow"}},
	{alias: "mwaa", namespace: "AWS/MWAA"},
	{
		alias: "alb", namespace: "AWS/ApplicationELB",
		resourceTypeFilters: []string{"elasticloadbalancing:loadbalancer/app", "elasticloadbalancing:targetgroup"},
		arnPatterns: []string{
			`:(?P<TargetGroup>targetgroup/.+)`,
			`:loadbalancer/(?P<LoadBalancer>.+)$`,
		},
	},
	{
		alias: "appstream", namespace: "AWS/AppStream",
		resourceTypeFilters: []string{"appstream"},
		arnPatterns:         []string{`:fleet/(?P<FleetName>[^/]+)`},
	},
	{alias: "backup", namespace: "AWS/Backup", resourceTypeFilters: []string{"backup"}},
	{
		alias: "apigateway", namespace: "AWS/ApiGateway",
		resourceTypeFilters: []string{"apigateway"},
		arnPatterns: []string{
			`/restapis/(?P<ApiName>[^/]+)$`,
			`/restapis/(?P<ApiName>[^/]+)/stages/(?P<Stage>[^/]+)$`,
			`/apis/(?P<ApiId>[^/]+)$`,
			`/apis/(?P<ApiId>[^/]+)/stages/(?P<Stage>[^/]+)$`,
			`/apis/(?P<ApiId>[^/]+)/routes/(?P<Route>[^/]+)$`,
		},
	},
	{
		alias: "mq", namespace: "AWS/AmazonMQ",
		resourceTypeFilters: []string{"mq"},
		arnPatterns:         []string{`broker:(?P<Broker>[^:]+)`},
	},
	{alias: "apprunner", namespace: "AWS/AppRunner"},
	{
		alias: "appsync", namespace: "AWS/AppSync",
		resourceTypeFilters: []string{"appsync"},
		arnPatterns:         []string{`apis/(?P<GraphQLAPIId>[^/]+)`},
	},
	{
		alias: "athena", namespace: "AWS/Athena",
		resourceTypeFilters: []string{"athena"},
		arnPatterns:         []string{`workgroup/(?P<WorkGroup>[^/]+)`},
	},
	{
		alias: "asg", namespace: "AWS/AutoScaling",
		arnPatterns: []string{`autoScalingGroupName/(?P<AutoScalingGroupName>[^/]+)`},
	},
	{
		alias: "beanstalk", namespace: "AWS/ElasticBeanstalk",
		resourceTypeFilters: []string{"elasticbeanstalk:environment"},
	},
	{alias: "billing", namespace: "AWS/Billing"},
	{
		alias: "cassandra", namespace: "AWS/Cassandra",
		resourceTypeFilters: []string{"cassandra"},
		arnPatterns:         []string{`:/keyspace/(?P<Keyspace>[^/]+)/table/(?P<TableName>[^/]+)`},
	},
	{
		alias: "cloudfront", namespace: "AWS/CloudFront",
		resourceTypeFilters: []string{"cloudfront:distribution"},
		arnPatterns:         []string{`distribution/(?P<DistributionId>[^/]+)`},
	},
	{
		alias: "cognito-idp", namespace: "AWS/Cognito",
		resourceTypeFilters: []string{"cognito-idp:userpool"},
		arnPatterns:         []string{`userpool/(?P<UserPool>[^/]+)`},
	},
	{
		alias: "datasync", namespace: "AWS/DataSync",
		resourceTypeFilters: []string{"datasync:task", "datasync:agent"},
		arnPatterns:         []string{`:task/(?P<TaskId>[^/]+)`, `:agent/(?P<AgentId>[^/]+)`},
	},
	{
		alias: "ds", namespace: "AWS/DirectoryService",
		resourceTypeFilters: []string{"ds:directory"},
		arnPatterns:         []string{`:directory/(?P<Directory_ID>[^/]+)`},
	},
	{
		alias: "dms", namespace: "AWS/DMS",
		resourceTypeFilters: []string{"dms"},
		arnPatterns: []string{
			`rep:[^/]+/(?P<ReplicationInstanceIdentifier>[^/]+)`,
			`task:(?P<ReplicationTaskIdentifier>[^/]+)/(?P<ReplicationInstanceIdentifier>[^/]+)`,
		},
	},
	{
		alias: "shield", namespace: "AWS/DDoSProtection",
		resourceTypeFilters: []string{"shield:protection"},
		arnPatterns:         []string{`(?P<ResourceArn>.+)`},
	},
	{
		alias: "docdb", namespace: "AWS/DocDB",
		resourceTypeFilters: []string{"rds:db", "rds:cluster"},
		arnPatterns: []string{
			`cluster:(?P<DBClusterIdentifier>[^/]+)`,
			`db:(?P<DBInstanceIdentifier>[^/]+)`,
		},
	},
	{
		alias: "dx", namespace: "AWS/DX",
		resourceTypeFilters: []string{"directconnect"},
		arnPatterns: []string{
			`:dxcon/(?P<ConnectionId>[^/]+)`,
			`:dxlag/(?P<LagId>[^/]+)`,
			`:dxvif/(?P<VirtualInterfaceId>[^/]+)`,
		},
	},
	{
		alias: "dynamodb", namespace: "AWS/DynamoDB",
		resourceTypeFilters: []string{"dynamodb:table"},
		arnPatterns:         []string{`:table/(?P<TableName>[^/]+)`},
	},
	{
		alias: "ebs", namespace: "AWS/EBS",
		resourceTypeFilters: []string{"ec2:volume"},
		arnPatterns:         []string{`volume/(?P<VolumeId>[^/]+)`},
	},
	{
		alias: "ec", namespace: "AWS/ElastiCache",
		resourceTypeFilters: []string{"elasticache:cluster", "elasticache:serverlesscache"},
		arnPatterns: []string{
			`cluster:(?P<CacheClusterId>[^/]+)`,
			`serverlesscache:(?P<clusterId>[^/]+)`,
		},
	},
	{
		alias: "memorydb", namespace: "AWS/MemoryDB",
		resourceTypeFilters: []string{"memorydb:cluster"},
		arnPatterns:         []string{`cluster/(?P<ClusterName>[^/]+)`},
	},
	{
		alias: "ec2", namespace: "AWS/EC2",
		resourceTypeFilters: []string{"ec2:instance"},
		arnPatterns:         []string{`instance/(?P<InstanceId>[^/]+)`},
	},
	{alias: "ec2Spot", namespace: "AWS/EC2Spot", arnPatterns: []string{`(?P<FleetRequestId>.*)`}},
	{
		alias: "ec2CapacityReservations", namespace: "AWS/EC2CapacityReservations",
		// The trailing capture group is empty on purpose: carried over
		// unchanged from the system this catalogue replaces. Fixing it
		// would change which resources this namespace associates.
		arnPatterns: []string{`:capacity-reservation/(?P<CapacityReservationId>)$`},
	},
	{
		alias: "ecs-svc", namespace: "AWS/ECS",
		resourceTypeFilters: []string{"ecs:cluster", "ecs:service"},
		arnPatterns: []string{
			`:cluster/(?P<ClusterName>[^/]+)$`,
			`:service/(?P<ClusterName>[^/]+)/(?P<ServiceName>[^/]+)$`,
		},
	},
	{
		alias: "ecs-containerinsights", namespace: "ECS/ContainerInsights",
		resourceTypeFilters: []string{"ecs:cluster", "ecs:service"},
		arnPatterns: []string{
			`:cluster/(?P<ClusterName>[^/]+)$`,
			`:service/(?P<ClusterName>[^/]+)/(?P<ServiceName>[^/]+)$`,
		},
	},
	{
		alias: "containerinsights", namespace: "ContainerInsights",
		resourceTypeFilters: []string{"eks:cluster"},
		arnPatterns:         []string{`:cluster/(?P<ClusterName>[^/]+)$`},
	},
	{
		alias: "efs", namespace: "AWS/EFS",
		resourceTypeFilters: []string{"elasticfilesystem:file-system"},
		arnPatterns:         []string{`file-system/(?P<FileSystemId>[^/]+)`},
	},
	{
		alias: "elb", namespace: "AWS/ELB",
		resourceTypeFilters: []string{"elasticloadbalancing:loadbalancer"},
		arnPatterns:         []string{`:loadbalancer/(?P<LoadBalancerName>.+)$`},
	},
	{
		alias: "emr", namespace: "AWS/ElasticMapReduce",
		resourceTypeFilters: []string{"elasticmapreduce:cluster"},
		arnPatterns:         []string{`cluster/(?P<JobFlowId>[^/]+)`},
	},
	{
		alias: "emr-serverless", namespace: "AWS/EMRServerless",
		resourceTypeFilters: []string{"emr-serverless:applications"},
		arnPatterns:         []string{`applications/(?P<ApplicationId>[^/]+)`},
	},
	{
		alias: "es", namespace: "AWS/ES",
		resourceTypeFilters: []string{"es:domain"},
		arnPatterns:         []string{`:domain/(?P<DomainName>[^/]+)`},
	},
	{
		alias: "firehose", namespace: "AWS/Firehose",
		resourceTypeFilters: []string{"firehose"},
		arnPatterns:         []string{`:deliverystream/(?P<DeliveryStreamName>[^/]+)`},
	},
	{
		alias: "fsx", namespace: "AWS/FSx",
		resourceTypeFilters: []string{"fsx:file-system"},
		arnPatterns:         []string{`file-system/(?P<FileSystemId>[^/]+)`},
	},
	{
		alias: "gamelift", namespace: "AWS/GameLift",
		resourceTypeFilters: []string{"gamelift"},
		arnPatterns:         []string{`:fleet/(?P<FleetId>[^/]+)`},
	},
	{
		alias: "gwlb", namespace: "AWS/GatewayELB",
		resourceTypeFilters: []string{"elasticloadbalancing:loadbalancer"},
		arnPatterns: []string{
			`:(?P<TargetGroup>targetgroup/.+)`,
			`:loadbalancer/(?P<LoadBalancer>.+)$`,
		},
	},
	{
		alias: "ga", namespace: "AWS/GlobalAccelerator",
		resourceTypeFilters: []string{"globalaccelerator"},
		arnPatterns: []string{
			`accelerator/(?P<Accelerator>[^/]+)$`,
			`accelerator/(?P<Accelerator>[^/]+)/listener/(?P<Listener>[^/]+)$`,
			`accelerator/(?P<Accelerator>[^/]+)/listener/(?P<Listener>[^/]+)/endpoint-group/(?P<EndpointGroup>[^/]+)$`,
		},
	},
	{
		alias: "glue", namespace: "Glue",
		resourceTypeFilters: []string{"glue:job"},
		arnPatterns:         []string{`:job/(?P<JobName>[^/]+)`},
	},
	{
		alias: "iot", namespace: "AWS/IoT",
		resourceTypeFilters: []string{"iot:rule", "iot:provisioningtemplate"},
		arnPatterns: []string{
			`:rule/(?P<RuleName>[^/]+)`,
			`:provisioningtemplate/(?P<TemplateName>[^/]+)`,
		},
	},
	{
		alias: "kafka", namespace: "AWS/Kafka",
		resourceTypeFilters: []string{"kafka:cluster"},
		arnPatterns:         []string{`:cluster/(?P<Cluster_Name>[^/]+)`},
	},
	{
		alias: "kafkaconnect", namespace: "AWS/KafkaConnect",
		resourceTypeFilters: []string{"kafka:cluster"},
		arnPatterns:         []string{`:connector/(?P<Connector_Name>[^/]+)`},
	},
	{
		alias: "kinesis", namespace: "AWS/Kinesis",
		resourceTypeFilters: []string{"kinesis:stream"},
		arnPatterns:         []string{`:stream/(?P<StreamName>[^/]+)`},
	},
	{
		alias: "kinesis-analytics", namespace: "AWS/KinesisAnalytics",
		resourceTypeFilters: []string{"kinesisanalytics:application"},
		arnPatterns:         []string{`:application/(?P<Application>[^/]+)`},
	},
	{
		alias: "kms", namespace: "AWS/KMS",
		resourceTypeFilters: []string{"kms:key"},
		arnPatterns:         []string{`:key/(?P<KeyId>[^/]+)`},
	},
	{
		alias: "lambda", namespace: "AWS/Lambda",
		resourceTypeFilters: []string{"lambda:function"},
		arnPatterns:         []string{`:function:(?P<FunctionName>[^/]+)`},
	},
	{
		alias: "lambdainsights", namespace: "LambdaInsights",
		resourceTypeFilters: []string{"lambda:function"},
		arnPatterns:         []string{`:function:(?P<FunctionName>[^/]+)`},
	},
	{
		alias: "logs", namespace: "AWS/Logs",
		resourceTypeFilters: []string{"logs:log-group"},
		arnPatterns:         []string{`:log-group:(?P<LogGroupName>.+)`},
	},
	{
		alias: "mediaconnect", namespace: "AWS/MediaConnect",
		resourceTypeFilters: []string{"mediaconnect:flow", "mediaconnect:source", "mediaconnect:output"},
		arnPatterns: []string{
			`^(?P<FlowARN>.*:flow:.*)$`,
			`^(?P<SourceARN>.*:source:.*)$`,
			`^(?P<OutputARN>.*:output:.*)$`,
		},
	},
	{
		alias: "mediaconvert", namespace: "AWS/MediaConvert",
		resourceTypeFilters: []string{"mediaconvert"},
		arnPatterns:         []string{`(?P<Queue>.*:.*:mediaconvert:.*:queues/.*)$`},
	},
	{
		alias: "mediapackage", namespace: "AWS/MediaPackage",
		resourceTypeFilters: []string{"mediapackage", "mediapackagev2", "mediapackage-vod"},
		arnPatterns: []string{
			`:channels/(?P<IngestEndpoint>.+)$`,
			`:packaging-configurations/(?P<PackagingConfiguration>.+)$`,
		},
	},
	{
		alias: "medialive", namespace: "AWS/MediaLive",
		resourceTypeFilters: []string{"medialive:channel"},
		arnPatterns:         []string{`:channel:(?P<ChannelId>.+)$`},
	},
	{
		alias: "mediatailor", namespace: "AWS/MediaTailor",
		resourceTypeFilters: []string{"mediatailor:playbackConfiguration"},
		arnPatterns:         []string{`playbackConfiguration/(?P<ConfigurationName>[^/]+)`},
	},
	{
		alias: "neptune", namespace: "AWS/Neptune",
		resourceTypeFilters: []string{"rds:db", "rds:cluster"},
		arnPatterns: []string{
			`:cluster:(?P<DBClusterIdentifier>[^/]+)`,
			`:db:(?P<DBInstanceIdentifier>[^/]+)`,
		},
	},
	{
		alias: "nfw", namespace: "AWS/NetworkFirewall",
		resourceTypeFilters: []string{"network-firewall:firewall"},
		arnPatterns:         []string{`firewall/(?P<FirewallName>[^/]+)`},
	},
	{
		alias: "ngw", namespace: "AWS/NATGateway",
		resourceTypeFilters: []string{"ec2:natgateway"},
		arnPatterns:         []string{`natgateway/(?P<NatGatewayId>[^/]+)`},
	},
	{
		alias: "nlb", namespace: "AWS/NetworkELB",
		resourceTypeFilters: []string{"elasticloadbalancing:loadbalancer/net", "elasticloadbalancing:targetgroup"},
		arnPatterns: []string{
			`:(?P<TargetGroup>targetgroup/.+)`,
			`:loadbalancer/(?P<LoadBalancer>.+)$`,
		},
	},
	{
		alias: "vpc-endpoint", namespace: "AWS/PrivateLinkEndpoints",
		resourceTypeFilters: []string{"ec2:vpc-endpoint"},
		arnPatterns:         []string{`:vpc-endpoint/(?P<VPC_Endpoint_Id>.+)`},
	},
	{
		alias: "vpc-endpoint-service", namespace: "AWS/PrivateLinkServices",
		resourceTypeFilters: []string{"ec2:vpc-endpoint-service"},
		arnPatterns:         []string{`:vpc-endpoint-service/(?P<Service_Id>.+)`},
	},
	{alias: "amp", namespace: "AWS/Prometheus"},
	{
		alias: "qldb", namespace: "AWS/QLDB",
		resourceTypeFilters: []string{"qldb"},
		arnPatterns:         []string{`:ledger/(?P<LedgerName>[^/]+)`},
	},
	{alias: "quicksight", namespace: "AWS/QuickSight"},
	{
		alias: "rds", namespace: "AWS/RDS",
		resourceTypeFilters: []string{"rds:db", "rds:cluster", "rds:db-proxy"},
		arnPatterns: []string{
			`:cluster:(?P<DBClusterIdentifier>[^/]+)`,
			`:db:(?P<DBInstanceIdentifier>[^/]+)`,
			`:db-proxy:(?P<ProxyIdentifier>[^/]+)`,
		},
	},
	{
		alias: "redshift", namespace: "AWS/Redshift-Serverless",
		resourceTypeFilters: []string{"redshift-serverless:workgroup", "redshift-serverless:namespace"},
	},
	{
		alias: "route53-resolver", namespace: "AWS/Route53Resolver",
		resourceTypeFilters: []string{"route53resolver"},
		arnPatterns:         []string{`:resolver-endpoint/(?P<EndpointId>[^/]+)`},
	},
	{
		alias: "route53", namespace: "AWS/Route53",
		resourceTypeFilters: []string{"route53"},
		arnPatterns:         []string{`:healthcheck/(?P<HealthCheckId>[^/]+)`},
	},
	{alias: "rum", namespace: "AWS/RUM"},
	{
		alias: "s3", namespace: "AWS/S3",
		resourceTypeFilters: []string{"s3"},
		arnPatterns:         []string{`(?P<BucketName>[^:]+)$`},
	},
	{alias: "scheduler", namespace: "AWS/Scheduler"},
	{alias: "ecr", namespace: "AWS/ECR"},
	{alias: "timestream", namespace: "AWS/Timestream"},
	{alias: "secretsmanager", namespace: "AWS/SecretsManager"},
	{alias: "ses", namespace: "AWS/SES"},
	{
		alias: "sfn", namespace: "AWS/States",
		resourceTypeFilters: []string{"states"},
		arnPatterns:         []string{`(?P<StateMachineArn>.*)`},
	},
	{
		alias: "sns", namespace: "AWS/SNS",
		resourceTypeFilters: []string{"sns"},
		arnPatterns:         []string{`(?P<TopicName>[^:]+)$`},
	},
	{
		alias: "sqs", namespace: "AWS/SQS",
		resourceTypeFilters: []string{"sqs"},
		arnPatterns:         []string{`(?P<QueueName>[^:]+)$`},
	},
	{
		alias: "storagegateway", namespace: "AWS/StorageGateway",
		resourceTypeFilters: []string{"storagegateway"},
		arnPatterns: []string{
			`:gateway/(?P<GatewayId>[^:]+)$`,
			`:share/(?P<ShareId>[^:]+)$`,
			`^(?P<GatewayId>[^:/]+)/(?P<GatewayName>[^:]+)$`,
		},
	},
	{alias: "transfer", namespace: "AWS/Transfer"},
	{
		alias: "tgw", namespace: "AWS/TransitGateway",
		resourceTypeFilters: []string{"ec2:transit-gateway"},
		arnPatterns: []string{
			`:transit-gateway/(?P<TransitGateway>[^/]+)`,
			`(?P<TransitGateway>[^/]+)/(?P<TransitGatewayAttachment>[^/]+)`,
		},
	},
	{alias: "trustedadvisor", namespace: "AWS/TrustedAdvisor"},
	{
		alias: "vpn", namespace: "AWS/VPN",
		resourceTypeFilters: []string{"ec2:vpn-connection"},
		arnPatterns:         []string{`:vpn-connection/(?P<VpnId>[^/]+)`},
	},
	{
		alias: "clientvpn", namespace: "AWS/ClientVPN",
		resourceTypeFilters: []string{"ec2:client-vpn-endpoint"},
		arnPatterns:         []string{`:client-vpn-endpoint/(?P<Endpoint>[^/]+)`},
	},
	{
		alias: "wafv2", namespace: "AWS/WAFV2",
		resourceTypeFilters: []string{"wafv2"},
		arnPatterns:         []string{`/webacl/(?P<WebACL>[^/]+)`},
	},
	{
		alias: "workspaces", namespace: "AWS/WorkSpaces",
		resourceTypeFilters: []string{"workspaces:workspace", "workspaces:directory"},
		arnPatterns: []string{
			`:workspace/(?P<WorkspaceId>[^/]+)$`,
			`:directory/(?P<DirectoryId>[^/]+)$`,
		},
	},
	{
		alias: "aoss", namespace: "AWS/AOSS",
		resourceTypeFilters: []string{"aoss:collection"},
		arnPatterns:         []string{`:collection/(?P<CollectionId>[^/]+)`},
	},
	{
		alias: "sagemaker", namespace: "AWS/SageMaker",
		resourceTypeFilters: []string{"sagemaker:endpoint", "sagemaker:inference-component"},
		arnPatterns: []string{
			`:endpoint/(?P<EndpointName>[^/]+)$`,
			`:inference-component/(?P<InferenceComponentName>[^/]+)$`,
		},
	},
	{
		alias: "sagemaker-endpoints", namespace: "/aws/sagemaker/Endpoints",
		resourceTypeFilters: []string{"sagemaker:endpoint"},
		arnPatterns:         []string{`:endpoint/(?P<EndpointName>[^/]+)$`},
	},
	{
		alias: "sagemaker-inference-components", namespace: "/aws/sagemaker/InferenceComponents",
		resourceTypeFilters: []string{"sagemaker:inference-component"},
		arnPatterns:         []string{`:inference-component/(?P<InferenceComponentName>[^/]+)$`},
	},
	{
		alias: "sagemaker-training", namespace: "/aws/sagemaker/TrainingJobs",
		resourceTypeFilters: []string{"sagemaker:training-job"},
	},
	{
		alias: "sagemaker-processing", namespace: "/aws/sagemaker/ProcessingJobs",
		resourceTypeFilters: []string{"sagemaker:processing-job"},
	},
	{
		alias: "sagemaker-transform", namespace: "/aws/sagemaker/TransformJobs",
		resourceTypeFilters: []string{"sagemaker:transform-job"},
	},
	{
		alias: "sagemaker-inf-rec", namespace: "/aws/sagemaker/InferenceRecommendationsJobs",
		resourceTypeFilters: []string{"sagemaker:inference-recommendations-job"},
		arnPatterns:         []string{`:inference-recommendations-job/(?P<JobName>[^/]+)`},
	},
	{
		alias: "sagemaker-model-building-pipeline", namespace: "AWS/Sagemaker/ModelBuildingPipeline",
		resourceTypeFilters: []string{"sagemaker:pipeline"},
		arnPatterns:         []string{`:pipeline/(?P<PipelineName>[^/]+)`},
	},
	{
		alias: "ipam", namespace: "AWS/IPAM",
		resourceTypeFilters: []string{"ec2:ipam-pool"},
		arnPatterns:         []string{`:ipam-pool/(?P<IpamPoolId>[^/]+)$`},
	},
	{alias: "bedrock", namespace: "AWS/Bedrock"},
	{
		alias: "event-rule", namespace: "AWS/Events",
		resourceTypeFilters: []string{"events"},
		arnPatterns: []string{
			`:rule/(?P<EventBusName>[^/]+)/(?P<RuleName>[^/]+)$`,
			`:rule/aws.partner/(?P<EventBusName>.+)/(?P<RuleName>[^/]+)$`,
		},
	},
	{
		alias: "vpc-lattice", namespace: "AWS/VpcLattice",
		resourceTypeFilters: []string{"vpc-lattice:service"},
		arnPatterns:         []string{`:service/(?P<Service>[^/]+)$`},
	},
	{
		alias: "networkmanager", namespace: "AWS/Network Manager",
		resourceTypeFilters: []string{"networkmanager:core-network"},
		arnPatterns:         []string{`:core-network/(?P<CoreNetwork>[^/]+)$`},
	},
}
