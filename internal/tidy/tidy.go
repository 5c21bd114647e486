package tidy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"maqamat/internal/config"
	"maqamat/internal/logging"
	"maqamat/internal/services"
)

const (
	stage            = "tidy"
	exitWarnings     = 1
	defaultTimeout   = 30 * time.Second
	maxOutputInError = 512
)

// commandRunner executes name with args and returns the combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Runner invokes tidy on rendered pages.
type Runner struct {
	binary  string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
	run     commandRunner
}

// New constructs a runner from the tidy configuration section.
func New(cfg config.Tidy, logger *slog.Logger) *Runner {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Runner{
		binary:  strings.TrimSpace(cfg.Binary),
		args:    append([]string(nil), cfg.Args...),
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "tidy"),
		run:     defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (r *Runner) WithCommandRunner(fn commandRunner) {
	if r != nil && fn != nil {
		r.run = fn
	}
}

// Tidy rewrites the page at path in place.
func (r *Runner) Tidy(ctx context.Context, path string) error {
	if r == nil {
		return errors.New("tidy runner not initialized")
	}
	if r.binary == "" {
		return services.Wrap(services.ErrConfiguration, stage, "tidy page", "Tidy binary not configured", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return services.Wrap(services.ErrNotFound, stage, "tidy page", "Page to tidy not found", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string(nil), r.args...), path)
	r.logger.Debug("executing tidy",
		logging.String(logging.FieldPath, path),
		logging.String("binary", r.binary),
		logging.Int("arg_count", len(args)),
	)

	output, err := r.run(runCtx, r.binary, args...)
	if err == nil {
		return nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, stage, "tidy page",
			fmt.Sprintf("Tidy exceeded %s", r.timeout), err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitWarnings {
		r.logger.Info("tidy reported warnings",
			logging.String(logging.FieldPath, path),
			logging.String("output", truncate(output)),
		)
		return nil
	}
	return services.Wrap(services.ErrExternalTool, stage, "tidy page",
		fmt.Sprintf("Tidy failed: %s", truncate(output)), err)
}

func truncate(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > maxOutputInError {
		return text[:maxOutputInError] + "…"
	}
	return text
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
