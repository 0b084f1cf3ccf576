package main

import (
	"context"
	"testing"
)

func TestStopHandler(t *testing.T) {
	err := startStopTest("stop")
	if err != nil {
		t.Errorf("Handler returned error: %v", err)
	}
}

func startStopTest(operation string) error {
	ctx := context.Background()
	event := make(map[string]any)
	event["operation"] = operation
	event["instance_id"] = "i-0b22222aa0f43d1a5"
	event["queue_url"] = "https://sqs.us-west-2.amazonaws.com/123456789012/lexdecoder_jobs"
	return handler(ctx, event)
}
