package eval

import (
	"context"
	"encoding/binary"
	"math"
	"os"

	log "github.com/faithcomesbyhearing/lexdecoder/logger"
)

// LoadEmissions reads a row-major T*width big-endian float64 emissions file,
// the same wire encoding utility/stdio_exec uses for its length-prefixed
// byte payloads. T is derived from the file size.
func LoadEmissions(ctx context.Context, path string, width int) ([]float64, int, *log.Status) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, log.Error(ctx, 500, err, "Error reading emissions file", path)
	}
	const floatSize = 8
	if len(raw)%(width*floatSize) != 0 {
		return nil, 0, log.ErrorNoErr(ctx, 400, "Emissions file size is not a multiple of width*8 bytes", path)
	}
	t := len(raw) / (width * floatSize)
	values := make([]float64, t*width)
	for i := range values {
		bits := binary.BigEndian.Uint64(raw[i*floatSize : i*floatSize+floatSize])
		values[i] = math.Float64frombits(bits)
	}
	return values, t, nil
}
