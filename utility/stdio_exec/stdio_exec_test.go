package stdio_exec

import (
	"context"
	"fmt"
	"os"
	"testing"
)

func TestStdioExec(t *testing.T) {
	ctx := context.Background()
	scorerPath := os.Getenv(`LEXDECODER_SCORER_EXE`)
	stdio1, status := NewStdioExec(ctx, scorerPath)
	//defer stdio1.Close()
	result, status2 := stdio1.Process("abc")
	fmt.Println("result:", result, status, status2)
	stdio1.Close()
}
