// Package gpu provides a static lookup of per-device tuning profiles.
// Profiles map a detected device name to batch sizes, precision flags, and
// memory thresholds; they are data, not a scheduling concern.
package gpu

import (
	"strings"
	"time"
)

// Profile carries the tunables for one device class.
type Profile struct {
	Name                   string        `json:"gpu_name"`
	VRAMGB                 int           `json:"vram_gb"`
	ComputeCapability      float64       `json:"compute_capability"`
	MaxTextTokensPerLine   int           `json:"max_text_tokens_per_sentence"`
	SentencesBucketMaxSize int           `json:"sentences_bucket_max_size"`
	AutoregressiveBatch    int           `json:"autoregressive_batch_size"`
	UseFP16                bool          `json:"use_fp16"`
	UseBF16                bool          `json:"use_bf16"`
	MemoryThresholdPct     float64       `json:"gpu_memory_threshold"`
	MemoryForceGCPct       float64       `json:"gpu_memory_force_gc_threshold"`
	MemoryCheckInterval    time.Duration `json:"-"`
	MaxMelTokens           int           `json:"max_mel_tokens"`
	UseDeepSpeed           bool          `json:"use_deepspeed"`
	UseCUDAKernel          bool          `json:"use_cuda_kernel"`
	TensorParallel         bool          `json:"tensor_parallel"`
	OptimizeForSpeed       bool          `json:"optimize_for_speed"`
	MemoryEfficient        bool          `json:"memory_efficient"`
}

var (
	rtx5090 = Profile{Name: "RTX 5090", VRAMGB: 32, ComputeCapability: 8.9, MaxTextTokensPerLine: 80, SentencesBucketMaxSize: 8, AutoregressiveBatch: 2, UseFP16: true, UseBF16: true, MemoryThresholdPct: 85, MemoryForceGCPct: 95, MemoryCheckInterval: 30 * time.Second, MaxMelTokens: 800, UseDeepSpeed: true, UseCUDAKernel: true, OptimizeForSpeed: true}
	rtx4090 = Profile{Name: "RTX 4090", VRAMGB: 24, ComputeCapability: 8.9, MaxTextTokensPerLine: 90, SentencesBucketMaxSize: 6, AutoregressiveBatch: 1, UseFP16: true, UseBF16: true, MemoryThresholdPct: 85, MemoryForceGCPct: 95, MemoryCheckInterval: 45 * time.Second, MaxMelTokens: 700, UseDeepSpeed: true, UseCUDAKernel: true, OptimizeForSpeed: true}
	rtx3090 = Profile{Name: "RTX 3090", VRAMGB: 24, ComputeCapability: 8.6, MaxTextTokensPerLine: 100, SentencesBucketMaxSize: 5, AutoregressiveBatch: 1, UseFP16: true, MemoryThresholdPct: 80, MemoryForceGCPct: 90, MemoryCheckInterval: time.Minute, MaxMelTokens: 650, UseDeepSpeed: true, UseCUDAKernel: true, OptimizeForSpeed: true}
	rtx3080 = Profile{Name: "RTX 3080", VRAMGB: 12, ComputeCapability: 8.6, MaxTextTokensPerLine: 120, SentencesBucketMaxSize: 4, AutoregressiveBatch: 1, UseFP16: true, MemoryThresholdPct: 75, MemoryForceGCPct: 85, MemoryCheckInterval: time.Minute, MaxMelTokens: 600, UseDeepSpeed: true, UseCUDAKernel: true, MemoryEfficient: true}
	teslaP4 = Profile{Name: "Tesla P4", VRAMGB: 8, ComputeCapability: 6.1, MaxTextTokensPerLine: 120, SentencesBucketMaxSize: 4, AutoregressiveBatch: 1, MemoryThresholdPct: 70, MemoryForceGCPct: 80, MemoryCheckInterval: time.Minute, MaxMelTokens: 500, MemoryEfficient: true}
	v100    = Profile{Name: "V100", VRAMGB: 32, ComputeCapability: 7.0, MaxTextTokensPerLine: 100, SentencesBucketMaxSize: 6, AutoregressiveBatch: 1, UseFP16: true, MemoryThresholdPct: 80, MemoryForceGCPct: 90, MemoryCheckInterval: time.Minute, MaxMelTokens: 700, UseDeepSpeed: true, UseCUDAKernel: true, OptimizeForSpeed: true}
	a100    = Profile{Name: "A100", VRAMGB: 80, ComputeCapability: 8.0, MaxTextTokensPerLine: 70, SentencesBucketMaxSize: 10, AutoregressiveBatch: 3, UseFP16: true, UseBF16: true, MemoryThresholdPct: 85, MemoryForceGCPct: 95, MemoryCheckInterval: 30 * time.Second, MaxMelTokens: 1000, UseDeepSpeed: true, UseCUDAKernel: true, TensorParallel: true, OptimizeForSpeed: true}
	h100    = Profile{Name: "H100", VRAMGB: 80, ComputeCapability: 9.0, MaxTextTokensPerLine: 60, SentencesBucketMaxSize: 12, AutoregressiveBatch: 4, UseFP16: true, UseBF16: true, MemoryThresholdPct: 90, MemoryForceGCPct: 95, MemoryCheckInterval: 30 * time.Second, MaxMelTokens: 1200, UseDeepSpeed: true, UseCUDAKernel: true, TensorParallel: true, OptimizeForSpeed: true}

	// fallback applies to GPUs absent from the table.
	fallback = Profile{Name: "Unknown GPU", VRAMGB: 8, ComputeCapability: 6.0, MaxTextTokensPerLine: 120, SentencesBucketMaxSize: 4, AutoregressiveBatch: 1, UseFP16: true, MemoryThresholdPct: 80, MemoryForceGCPct: 90, MemoryCheckInterval: time.Minute, MaxMelTokens: 600, UseDeepSpeed: true, UseCUDAKernel: true, MemoryEfficient: true}

	// cpu applies when no GPU is present at all.
	cpu = Profile{Name: "CPU", MaxTextTokensPerLine: 150, SentencesBucketMaxSize: 1, AutoregressiveBatch: 1, MaxMelTokens: 600, MemoryEfficient: true}
)

// matchers are checked in order; first substring hit wins.
var matchers = []struct {
	substrings []string
	profile    Profile
}{
	{[]string{"RTX 5090", "5090"}, rtx5090},
	{[]string{"RTX 4090", "4090"}, rtx4090},
	{[]string{"RTX 3090", "3090"}, rtx3090},
	{[]string{"RTX 3080", "3080"}, rtx3080},
	{[]string{"Tesla P4", "P4"}, teslaP4},
	{[]string{"V100"}, v100},
	{[]string{"A100"}, a100},
	{[]string{"H100"}, h100},
}

// Lookup maps a detected device name to its profile. An empty name means
// no GPU and yields the CPU profile; unrecognized names get the fallback.
func Lookup(deviceName string) Profile {
	if strings.TrimSpace(deviceName) == "" {
		return cpu
	}
	for _, m := range matchers {
		for _, sub := range m.substrings {
			if strings.Contains(deviceName, sub) {
				return m.profile
			}
		}
	}
	return fallback
}
