package logger

import (
	"context"
	"testing"
)

func TestError(t *testing.T) {
	ctx := WithRequest(context.Background(), "job-42")
	status := Error(ctx, 500, nil, "something broke")
	if status.Status != 500 {
		t.Error("Status should be 500, it is:", status.Status)
	}
	if status.Request != "job-42" {
		t.Error("Request should be job-42, it is:", status.Request)
	}
	if status.Message != "something broke" {
		t.Error("Message should be 'something broke', it is:", status.Message)
	}
}

func TestErrorNoErr(t *testing.T) {
	status := ErrorNoErr(context.Background(), 400, "bad request", "field")
	if status.Status != 400 {
		t.Error("Status should be 400, it is:", status.Status)
	}
}

func TestExecErrorIgnoresPlainLine(t *testing.T) {
	status := ExecError(context.Background(), 500, "starting up")
	if status != nil {
		t.Error("Plain diagnostic line should not produce a Status")
	}
}

func TestExecErrorCatchesTraceback(t *testing.T) {
	status := ExecError(context.Background(), 500, "Traceback (most recent call last):")
	if status == nil {
		t.Error("Traceback line should produce a Status")
	}
}
