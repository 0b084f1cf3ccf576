package courier

import (
	"context"
	"strconv"
	"time"

	"github.com/faithcomesbyhearing/lexdecoder/config"
	log "github.com/faithcomesbyhearing/lexdecoder/logger"
)

// LongRunNotify estimates how long a decode should take from its settings
// and, if it is still running past that estimate, emails req.Notify.Email.
// A job dispatched through SQS (a worker pulling jobs off a queue) is
// expected to queue for a while before it starts, so its threshold is
// relaxed rather than tightened. The timer is not cancelled when the decode
// finishes: the email goes out once the threshold passes unless the process
// has exited first.
func LongRunNotify(ctx context.Context, req config.Request) {
	estimateMin := estimateRunMinutes(req)
	if req.Notify.SQSQueue != `` {
		estimateMin *= 2.0
	}
	log.Info(ctx, "Process will email if runs over", strconv.FormatFloat(estimateMin, 'g', 0, 64),
		"minutes.")
	threshold := time.Duration(estimateMin*60.0) * time.Second

	done := make(chan struct{})
	go func() {
		select {
		case <-time.After(threshold):
			if req.Notify.Email == `` {
				return
			}
			msg := "username: " + req.Username + "\n" +
				"dataset_name: " + req.DatasetName + "\n" +
				"Has been running for " + strconv.FormatFloat(estimateMin, 'f', 1, 64) + " minutes."
			_ = GoMailSendMail(ctx, []string{req.Notify.Email}, "lexdecoder: Long Running Job", msg, nil)
		case <-done:
			// Nothing closes done, so this branch does not fire.
		}
	}()
}

// estimateRunMinutes scales a base cost by the two settings that most affect
// wall-clock: beam width (more candidates scored per frame) and an external
// LM subprocess (a round trip per Score call instead of a map lookup).
func estimateRunMinutes(req config.Request) float64 {
	estimate := 1.0 + float64(req.Decoder.BeamSize)*float64(req.Decoder.BeamSizeToken)/200.0
	if req.LM.ExternalScript != `` {
		estimate *= 3.0
	}
	return estimate
}
