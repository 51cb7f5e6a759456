package memwatch

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// NvidiaSMISampler reads device memory usage via the nvidia-smi binary.
type NvidiaSMISampler struct {
	// Bin overrides the binary path; empty means "nvidia-smi" on PATH.
	Bin string
	// Device selects the GPU index.
	Device int
}

// UsagePercent queries used and total memory for the configured device and
// returns used/total as a percentage.
func (s *NvidiaSMISampler) UsagePercent(ctx context.Context) (float64, error) {
	bin := s.Bin
	if bin == "" {
		bin = "nvidia-smi"
	}
	cmd := exec.CommandContext(ctx, bin,
		"--query-gpu=memory.used,memory.total",
		"--format=csv,noheader,nounits",
		"-i", strconv.Itoa(s.Device),
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("nvidia-smi: %w", err)
	}
	return parseSMIMemory(string(out))
}

func parseSMIMemory(out string) (float64, error) {
	fields := strings.Split(strings.TrimSpace(out), ",")
	if len(fields) != 2 {
		return 0, fmt.Errorf("unexpected nvidia-smi output: %q", out)
	}
	used, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse used: %w", err)
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse total: %w", err)
	}
	if total <= 0 {
		return 0, fmt.Errorf("non-positive total memory: %v", total)
	}
	return used / total * 100, nil
}
