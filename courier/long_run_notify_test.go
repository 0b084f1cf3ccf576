package courier

import (
	"context"
	"testing"
	"time"

	"github.com/faithcomesbyhearing/lexdecoder/config"
	log "github.com/faithcomesbyhearing/lexdecoder/logger"
)

func TestLongRunNotify(t *testing.T) {
	ctx := context.Background()
	log.SetOutput("stdout")
	req := config.Request{
		Username:    "Sam_I_Am",
		DatasetName: "Test_Dataset",
		Notify:      config.NotifySettings{Email: "test@example.com", SQSQueue: "lexdecoder_jobs"},
		Decoder:     config.DecoderSettings{BeamSize: 50, BeamSizeToken: 50},
	}
	LongRunNotify(ctx, req)
	time.Sleep(1 * time.Minute)
}
