package adb

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/olusolaa/pkgutils/internal/errors"
)

// CommandRunner runs a shell command on the device and returns its output.
type CommandRunner interface {
	Shell(ctx context.Context, args ...string) (string, error)
}

type execRunner struct {
	binary string
	serial string
}

func NewExecRunner(binary, serial string) CommandRunner {
	if binary == "" {
		binary = "adb"
	}
	return &execRunner{binary: binary, serial: serial}
}

func (r *execRunner) Shell(ctx context.Context, args ...string) (string, error) {
	full := make([]string, 0, len(args)+3)
	if r.serial != "" {
		full = append(full, "-s", r.serial)
	}
	full = append(full, "shell")
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, r.binary, full...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), errors.Wrap(err, errors.CodeDeviceCommandError, "adb shell command failed: "+out.String())
	}
	return out.String(), nil
}
