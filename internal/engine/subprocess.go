package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ttsd/pkg/types"
)

// SubprocessConfig configures the external synthesis command.
type SubprocessConfig struct {
	// Command is the synthesis binary, e.g. "indextts-infer".
	Command string
	// Args are base arguments prepended before the per-request flags.
	Args []string
	// OutputsDir receives generated wav files.
	OutputsDir string
}

// Subprocess runs one external synthesis process per job. Not safe for
// concurrent use; the scheduler serializes calls into it.
type Subprocess struct {
	cfg SubprocessConfig
	log zerolog.Logger
}

// NewSubprocess constructs a subprocess-backed engine. A nil logger
// disables engine logging.
func NewSubprocess(cfg SubprocessConfig, log *zerolog.Logger) *Subprocess {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Subprocess{cfg: cfg, log: l}
}

// Synthesize execs the configured command and returns the output wav path.
func (e *Subprocess) Synthesize(ctx context.Context, input types.SynthesisInput) (string, error) {
	if input.ReferenceAudio == "" {
		return "", fmt.Errorf("reference audio is required")
	}
	if err := os.MkdirAll(e.cfg.OutputsDir, 0o755); err != nil {
		return "", fmt.Errorf("create outputs dir: %w", err)
	}
	outPath := filepath.Join(e.cfg.OutputsDir,
		fmt.Sprintf("task_%s_%d.wav", uuid.NewString()[:8], time.Now().Unix()))

	args := append([]string(nil), e.cfg.Args...)
	args = append(args,
		"--reference-audio", input.ReferenceAudio,
		"--text", input.Text,
		"--output", outPath,
	)
	if input.EmoAudio != "" {
		args = append(args, "--emo-audio", input.EmoAudio)
	}
	if input.EmoAlpha != 0 {
		args = append(args, "--emo-alpha", strconv.FormatFloat(input.EmoAlpha, 'f', 2, 64))
	}
	if input.InferMode != "" {
		args = append(args, "--infer-mode", input.InferMode)
	}
	args = append(args, extraArgs(input.Parameters)...)

	// #nosec G204 -- the command comes from server config, not the request
	cmd := exec.CommandContext(ctx, e.cfg.Command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w - output: %s", e.cfg.Command, err, string(out))
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("synthesis produced no output at %s", outPath)
	}
	e.log.Debug().Str("output", outPath).Msg("synthesis finished")
	return outPath, nil
}

// Clean asks the engine runtime to trim its allocator caches. Invoked by
// the memory monitor, never concurrently with a Synthesize call of the same
// process (the engine binary serializes maintenance internally).
func (e *Subprocess) Clean(ctx context.Context, force bool) error {
	args := append([]string(nil), e.cfg.Args...)
	args = append(args, "--clean-cache")
	if force {
		args = append(args, "--force")
	}
	cmd := exec.CommandContext(ctx, e.cfg.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s --clean-cache failed: %w - output: %s", e.cfg.Command, err, string(out))
	}
	return nil
}

// extraArgs turns the opaque parameter map into deterministic --key value
// pairs, sorted so repeated runs exec identical command lines.
func extraArgs(params map[string]any) []string {
	if len(params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, "--"+k, fmt.Sprint(params[k]))
	}
	return args
}
