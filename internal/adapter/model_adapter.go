package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	m "mutok.dev/pkg/mutok/internal/model"
)

// ErrInvalidModelDescriptor is returned for an empty model descriptor.
var ErrInvalidModelDescriptor = errors.New("invalid model descriptor")

// ModelAdapter abstracts the trained model that judges and scores mutated files.
type ModelAdapter interface {
	// IsOkay reports whether the model considers the file acceptable.
	IsOkay(ctx context.Context, path m.Path) (bool, error)

	// Detect returns the model's ranked defect locations for the file, best first.
	Detect(ctx context.Context, path m.Path) ([]m.Detection, error)
}

// CommandModelAdapter drives a model through an external command.
//
// The descriptor is a command line; "check FILE" and "detect FILE" are
// appended to it. check exits 0 for an acceptable file and 1 for a rejected
// one. detect prints a YAML list of {position, score} on stdout.
type CommandModelAdapter struct {
	command []string
	timeout time.Duration
}

// NewCommandModelAdapter parses descriptor into a CommandModelAdapter with a
// default 30s timeout per invocation.
func NewCommandModelAdapter(descriptor string) (*CommandModelAdapter, error) {
	command := strings.Fields(descriptor)
	if len(command) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidModelDescriptor, descriptor)
	}

	return &CommandModelAdapter{
		command: command,
		timeout: 30 * time.Second,
	}, nil
}

// Descriptor returns the command line the adapter runs.
func (a *CommandModelAdapter) Descriptor() string {
	return strings.Join(a.command, " ")
}

// IsOkay implements ModelAdapter.
func (a *CommandModelAdapter) IsOkay(ctx context.Context, path m.Path) (bool, error) {
	output, err := a.run(ctx, "check", path)
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}

	return false, fmt.Errorf("model check failed: %w: %s", err, output)
}

// Detect implements ModelAdapter.
func (a *CommandModelAdapter) Detect(ctx context.Context, path m.Path) ([]m.Detection, error) {
	output, err := a.run(ctx, "detect", path)
	if err != nil {
		return nil, fmt.Errorf("model detect failed: %w: %s", err, output)
	}

	var detections []m.Detection
	if err := yaml.Unmarshal([]byte(output), &detections); err != nil {
		return nil, fmt.Errorf("failed to parse detections: %w", err)
	}

	return detections, nil
}

func (a *CommandModelAdapter) run(ctx context.Context, verb string, path m.Path) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := append(append([]string{}, a.command[1:]...), verb, string(path))

	// #nosec G204 - the command comes from the operator's own model descriptor
	cmd := exec.CommandContext(ctx, a.command[0], args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String() + stderr.String(), err
	}

	return stdout.String(), nil
}
