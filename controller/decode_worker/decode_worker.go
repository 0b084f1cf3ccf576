package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// decode_worker is a Lambda that starts or stops the EC2 instance running
// the decode worker loop based on how many jobs are waiting in the SQS
// queue, instead of polling an S3 ingestion bucket for new files.
//
//	{
//	  "operation": "start", or "stop", or "start_asap"/"stop_asap",
//	  "instance_id": "i-0b22222aa0f43d1a5",
//	  "queue_url": "https://sqs.us-west-2.amazonaws.com/.../lexdecoder_jobs"
//	}
func handler(ctx context.Context, event map[string]any) error {
	fmt.Println("Starting decode_worker lambda handler", event)
	operation := event["operation"].(string)
	instanceId := event["instance_id"].(string)
	queueUrl := event["queue_url"].(string)

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-west-2"))
	if err != nil {
		return fmt.Errorf("error loading AWS config: %v", err)
	}
	ec2Client := ec2.NewFromConfig(cfg)
	if operation == "start_asap" {
		return startServer(ctx, ec2Client, instanceId)
	}
	if operation == "stop_asap" {
		return stopServer(ctx, ec2Client, instanceId)
	}

	statusOutput, err := ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceId},
	})
	if err != nil {
		return fmt.Errorf("error describing instance: %v", err)
	}
	if len(statusOutput.Reservations) == 0 || len(statusOutput.Reservations[0].Instances) == 0 {
		return fmt.Errorf("instance %s not found", instanceId)
	}
	instance := statusOutput.Reservations[0].Instances[0]
	if instance.State == nil {
		return fmt.Errorf("instance state is nil")
	}
	serverState := instance.State.Name
	if serverState != "running" && serverState != "stopped" {
		return nil
	}
	depth, err := queueDepth(ctx, cfg, queueUrl)
	if err != nil {
		return fmt.Errorf("error reading queue depth: %v", err)
	}
	if operation == "start" && serverState == "stopped" && depth > 0 {
		return startServer(ctx, ec2Client, instanceId)
	}
	if operation == "stop" && serverState == "running" && depth == 0 {
		return stopServer(ctx, ec2Client, instanceId)
	}
	return nil
}

func queueDepth(ctx context.Context, cfg aws.Config, queueUrl string) (int, error) {
	client := sqs.NewFromConfig(cfg)
	result, err := client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueUrl),
		AttributeNames: []sqstypes.QueueAttributeName{sqstypes.QueueAttributeNameApproximateNumberOfMessages},
	})
	if err != nil {
		return 0, err
	}
	var depth int
	fmt.Sscanf(result.Attributes[string(sqstypes.QueueAttributeNameApproximateNumberOfMessages)], "%d", &depth)
	return depth, nil
}

func startServer(ctx context.Context, client *ec2.Client, instanceId string) error {
	_, err := client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceId},
	})
	if err != nil {
		return fmt.Errorf("error starting instance: %v", err)
	}
	return nil
}

func stopServer(ctx context.Context, client *ec2.Client, instanceId string) error {
	_, err := client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceId},
	})
	if err != nil {
		return fmt.Errorf("error stopping instance %s: %v", instanceId, err)
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
