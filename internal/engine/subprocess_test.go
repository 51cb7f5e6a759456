package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttsd/pkg/types"
)

// fakeInferScript writes a shell script that logs its argv and, unless told
// to fail, creates the file named after --output.
func fakeInferScript(t *testing.T, fail bool) (cmd, argvLog string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	dir := t.TempDir()
	argvLog = filepath.Join(dir, "argv.log")
	script := filepath.Join(dir, "fake-infer.sh")

	body := `#!/bin/sh
printf '%s\n' "$@" > ` + argvLog + `
`
	if fail {
		body += "echo synthesis exploded >&2\nexit 3\n"
	} else {
		body += `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output" ]; then out="$2"; fi
  shift
done
if [ -n "$out" ]; then printf 'RIFF' > "$out"; fi
`
	}
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script, argvLog
}

func readArgv(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func TestSynthesizeHappyPath(t *testing.T) {
	cmd, argvLog := fakeInferScript(t, false)
	outputs := t.TempDir()
	eng := NewSubprocess(SubprocessConfig{Command: cmd, Args: []string{"--device", "cpu"}, OutputsDir: outputs}, nil)

	out, err := eng.Synthesize(context.Background(), types.SynthesisInput{
		Text:           "hello",
		ReferenceAudio: "/voices/ref.wav",
	})
	require.NoError(t, err)
	assert.FileExists(t, out)
	assert.True(t, strings.HasPrefix(filepath.Base(out), "task_"))
	assert.True(t, strings.HasSuffix(out, ".wav"))

	argv := readArgv(t, argvLog)
	// Base args come first, then the fixed per-request flags.
	assert.Equal(t, []string{"--device", "cpu"}, argv[:2])
	assert.Contains(t, argv, "--reference-audio")
	assert.Contains(t, argv, "/voices/ref.wav")
	assert.Contains(t, argv, "--text")
	assert.Contains(t, argv, "hello")
	assert.NotContains(t, argv, "--emo-audio")
}

func TestSynthesizeOptionalFlags(t *testing.T) {
	cmd, argvLog := fakeInferScript(t, false)
	eng := NewSubprocess(SubprocessConfig{Command: cmd, OutputsDir: t.TempDir()}, nil)

	_, err := eng.Synthesize(context.Background(), types.SynthesisInput{
		Text:           "hi",
		ReferenceAudio: "/voices/ref.wav",
		EmoAudio:       "/voices/emo.wav",
		EmoAlpha:       0.75,
		InferMode:      "batch",
	})
	require.NoError(t, err)

	argv := readArgv(t, argvLog)
	assert.Contains(t, argv, "--emo-audio")
	assert.Contains(t, argv, "/voices/emo.wav")
	assert.Contains(t, argv, "--emo-alpha")
	assert.Contains(t, argv, "0.75")
	assert.Contains(t, argv, "--infer-mode")
	assert.Contains(t, argv, "batch")
}

func TestSynthesizeMissingReference(t *testing.T) {
	eng := NewSubprocess(SubprocessConfig{Command: "true", OutputsDir: t.TempDir()}, nil)
	_, err := eng.Synthesize(context.Background(), types.SynthesisInput{Text: "hi"})
	assert.ErrorContains(t, err, "reference audio")
}

func TestSynthesizeCommandFailure(t *testing.T) {
	cmd, _ := fakeInferScript(t, true)
	eng := NewSubprocess(SubprocessConfig{Command: cmd, OutputsDir: t.TempDir()}, nil)

	_, err := eng.Synthesize(context.Background(), types.SynthesisInput{
		Text:           "hi",
		ReferenceAudio: "/voices/ref.wav",
	})
	require.Error(t, err)
	// The captured process output is folded into the error for diagnosis.
	assert.Contains(t, err.Error(), "synthesis exploded")
}

func TestSynthesizeNoOutputProduced(t *testing.T) {
	// "true" exits 0 without writing the output file.
	eng := NewSubprocess(SubprocessConfig{Command: "true", OutputsDir: t.TempDir()}, nil)
	_, err := eng.Synthesize(context.Background(), types.SynthesisInput{
		Text:           "hi",
		ReferenceAudio: "/voices/ref.wav",
	})
	assert.ErrorContains(t, err, "no output")
}

func TestCleanPassesForce(t *testing.T) {
	cmd, argvLog := fakeInferScript(t, false)
	eng := NewSubprocess(SubprocessConfig{Command: cmd, OutputsDir: t.TempDir()}, nil)

	require.NoError(t, eng.Clean(context.Background(), false))
	assert.Equal(t, []string{"--clean-cache"}, readArgv(t, argvLog))

	require.NoError(t, eng.Clean(context.Background(), true))
	assert.Equal(t, []string{"--clean-cache", "--force"}, readArgv(t, argvLog))
}

func TestExtraArgsDeterministic(t *testing.T) {
	params := map[string]any{
		"top-p":       0.8,
		"temperature": 1,
		"max-tokens":  600,
	}
	want := []string{"--max-tokens", "600", "--temperature", "1", "--top-p", "0.8"}
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, extraArgs(params))
	}
	assert.Nil(t, extraArgs(nil))
}

func TestFuncAdapter(t *testing.T) {
	called := false
	var e Engine = Func(func(ctx context.Context, in types.SynthesisInput) (string, error) {
		called = true
		return "/outputs/x.wav", nil
	})
	out, err := e.Synthesize(context.Background(), types.SynthesisInput{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "/outputs/x.wav", out)
}
