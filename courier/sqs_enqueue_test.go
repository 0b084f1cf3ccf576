package courier

import (
	"context"
	"fmt"
	"testing"
)

type Msg struct {
	Name    string
	Content string
}

func TestSQSEnqueue(t *testing.T) {
	ctx := context.Background()
	sqsURL := "https://sqs.us-west-2.amazonaws.com/123456789012/lexdecoder_jobs"
	var m = Msg{Name: "testName", Content: "testContent"}
	msgId, status := SQSEnqueue(ctx, sqsURL, m)
	if status != nil {
		t.Fatal(status)
	}
	fmt.Println("MessageId", msgId)
}

/*
aws sqs receive-message \
    --queue-url https://sqs.us-west-2.amazonaws.com/123456789012/lexdecoder_jobs \
    --max-number-of-messages 1

aws sqs delete-message \
   --queue-url https://sqs.us-west-2.amazonaws.com/123456789012/lexdecoder_jobs \
   --receipt-handle "AQEBwJnKyrHigUMZj6rYigCgxlaS3SLy0a..."
*/
