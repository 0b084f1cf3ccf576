package courier

import (
	"context"
	"github.com/faithcomesbyhearing/lexdecoder/db"
	log "github.com/faithcomesbyhearing/lexdecoder/logger"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const runBucketTest = `is_new: yes
dataset_name: MyProject
bible_id: ENGWEB
username: GaryNTest
email: test@example.com
output_file: abc/my_project.csv
`

func TestCourier(t *testing.T) {
	ctx := context.Background()
	start := time.Now()
	b := NewCourier(ctx, []byte(runBucketTest))
	b.IsUnitTest = true
	if b.username != "GaryNTest" {
		t.Error("Username should be GaryNTest, it is: ", b.username)
	}
	if len(b.username) != 9 {
		t.Error("Username should be 9 characters")
	}
	if b.dataset != "MyProject" {
		t.Error("Project should be MyProject, it is:", b.dataset)
	}
	b.AddLogFile(os.Getenv("LEXDECODER_LOG_FILE"))
	database1, status := db.NewerDBAdapter(ctx, true, b.username, "TestCourier1")
	if status != nil {
		t.Fatal(status)
	}
	b.AddDatabase(database1)
	database2, status := db.NewerDBAdapter(ctx, true, b.username, "TestCourier2")
	if status != nil {
		t.Fatal(status)
	}
	b.AddDatabase(database2)
	outputPath := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(outputPath, []byte("the quick brown fox"), 0644); err != nil {
		t.Fatal(err)
	}
	b.AddOutput(outputPath)
	status = b.PersistToBucket()
	if status != nil {
		t.Fatal(status)
	}
	duration := time.Since(start)
	status = b.Notification(status, duration)
	status = log.ErrorNoErr(ctx, 400, "Test Error")
	status = b.Notification(status, duration)
}
