package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Runner executes an external program with stdin attached.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// execRunner runs programs installed on the host.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	began := time.Now()
	err := cmd.Run()
	logger := slog.With("program", name, "input_bytes", len(stdin), "elapsed", time.Since(began))

	switch {
	case err == nil:
		logger.Debug("Program finished", "output_bytes", stdout.Len())
		return stdout.Bytes(), stderr.Bytes(), nil
	case errors.Is(err, exec.ErrNotFound):
		err = fmt.Errorf("%s is not installed or not on PATH: %w", name, err)
	case ctx.Err() != nil:
		// a killed process reports "signal: killed"; the context says why
		err = ctx.Err()
	}
	logger.Error("Program failed", "error", err, "stderr", truncate(stderr.String(), 8<<10))
	return stdout.Bytes(), stderr.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
