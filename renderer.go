package prerender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultRendererCommand is the mermaid-cli binary invoked when no command
// is configured.
const DefaultRendererCommand = "mmdc"

// Renderer is the external rendering capability: given an input file with
// raw diagram source, produce the output image file or fail with diagnostic
// text. Injecting it keeps the executor testable without subprocesses.
type Renderer interface {
	Render(ctx context.Context, inputPath, outputPath string) error
}

// CommandRunner abstracts subprocess execution to enable testing without
// real processes.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// RenderError wraps an external renderer failure together with the
// diagnostic text captured from its standard streams.
type RenderError struct {
	Command    string
	Diagnostic string
	Err        error
}

func (e *RenderError) Error() string {
	if d := strings.TrimSpace(e.Diagnostic); d != "" {
		return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, d)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// MermaidCLI renders diagrams by invoking the mermaid-cli binary with a
// file-in/file-out contract.
type MermaidCLI struct {
	Command    string        // binary name or path, defaults to "mmdc"
	Theme      string        // renderer theme, empty means renderer default
	ConfigFile string        // optional base style-config file path
	ExtraArgs  []string      // appended verbatim to the invocation
	Timeout    time.Duration // per-invocation timeout, 0 disables
	Runner     CommandRunner // defaults to ExecRunner
}

// Render invokes the renderer for one input/output pair. The renderer must
// either produce the output file and exit zero, or exit non-zero with
// diagnostics on its standard streams; non-zero exits surface as a
// RenderError carrying the captured diagnostics.
func (m *MermaidCLI) Render(ctx context.Context, inputPath, outputPath string) error {
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	command := m.Command
	if command == "" {
		command = DefaultRendererCommand
	}
	runner := m.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}

	args := []string{"-i", inputPath, "-o", outputPath}
	if m.Theme != "" {
		args = append(args, "-t", m.Theme)
	}
	if m.ConfigFile != "" {
		args = append(args, "--configFile", m.ConfigFile)
	}
	args = append(args, m.ExtraArgs...)

	stdout, stderr, err := runner.Run(ctx, command, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrRendererNotFound, command)
		}
		return &RenderError{
			Command:    command,
			Diagnostic: strings.TrimSpace(stderr + "\n" + stdout),
			Err:        err,
		}
	}
	return nil
}
