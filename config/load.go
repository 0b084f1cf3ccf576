package config

import (
	"context"
	"os"

	log "github.com/faithcomesbyhearing/lexdecoder/logger"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a Request from a YAML file, then validates it.
func Load(ctx context.Context, path string) (*Request, *log.Status) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, log.Error(ctx, 500, err, "Error reading request file", path)
	}
	return Parse(ctx, content)
}

// Parse unmarshals and validates request YAML already read into memory.
func Parse(ctx context.Context, content []byte) (*Request, *log.Status) {
	var req Request
	if err := yaml.Unmarshal(content, &req); err != nil {
		return nil, log.Error(ctx, 400, err, "Error parsing request YAML")
	}
	if status := Validate(&req); status != nil {
		return nil, status
	}
	return &req, nil
}
