package main

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const SNSTopic = "lexdecoder_jobs"

func main() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		panic(err)
	}
	client := sns.NewFromConfig(cfg)
	input := &sns.CreateTopicInput{
		Name: aws.String(SNSTopic),
	}
	result, err := client.CreateTopic(ctx, input)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Created topic: %s\n", *result.TopicArn)
}
