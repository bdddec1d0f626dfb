// Package exiftool constructs and runs the external metadata-tagging tool's
// invocations. Arguments are always structured argv slices — never a shell
// command string — so metadata values containing quotes or spaces cannot
// break out of their parameter.
//
// The tool's internal geotagging algorithm is its own business; this
// package's contract is correct parameters in, exit status out.
package exiftool

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
)

// offsetPattern matches the signed H:M:S clock-offset strings the geotag
// call accepts, e.g. "-0:0:0" or "+1:30:05".
var offsetPattern = regexp.MustCompile(`^[+-]?\d{1,2}:\d{1,2}:\d{1,2}$`)

// DefaultOffset means no clock offset between camera and GPS log.
const DefaultOffset = "-0:0:0"

// ValidateOffset checks that offset is a signed H:M:S string.
func ValidateOffset(offset string) error {
	if !offsetPattern.MatchString(offset) {
		return fmt.Errorf("clock offset %q is not a signed H:M:S string", offset)
	}
	return nil
}

// Runner executes one external command and waits for it.
// The production implementation is ExecRunner; tests substitute
// function-field doubles that record argv.
type Runner interface {
	Run(ctx context.Context, program string, args []string) error
}

// ExecRunner runs commands via os/exec, blocking until exit.
// A non-zero exit is returned as an error carrying the tool's stderr, so
// the operator sees the tool's own diagnostics.
type ExecRunner struct {
	log *slog.Logger
}

// NewExecRunner constructs an ExecRunner.
func NewExecRunner(log *slog.Logger) ExecRunner {
	return ExecRunner{log: log}
}

// Run executes program with args. No timeout: long tagging runs over large
// folders are awaited indefinitely unless ctx is cancelled.
func (r ExecRunner) Run(ctx context.Context, program string, args []string) error {
	r.log.Info("exiftool: invoking", "program", program, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := stderr.String(); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", program, err, msg)
		}
		return fmt.Errorf("%s failed: %w", program, err)
	}
	return nil
}
