package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

var (
	// ErrEmptyCommand is returned when a step has no command to execute.
	ErrEmptyCommand = errors.New("step command must not be empty")
)

// Step is one delegated command in the deployment sequence.
type Step struct {
	Name string
	Argv []string
	Dir  string
}

// StepError reports which step failed and wraps the underlying command error.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step.Name, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code to propagate to the operator: the failing
// command's own exit code when it ran and exited non-zero, 1 otherwise.
func (e *StepError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// Runner executes a single step.
type Runner interface {
	Run(ctx context.Context, step Step) error
}

// Sequencer executes deployment steps in order, aborting on the first failure.
type Sequencer struct {
	runner Runner
	logger *zap.Logger
}

// NewSequencer constructs a Sequencer. A nil runner defaults to subprocess
// execution.
func NewSequencer(runner Runner, logger *zap.Logger) *Sequencer {
	if runner == nil {
		runner = &execRunner{}
	}
	return &Sequencer{runner: runner, logger: logger}
}

// Run executes the steps in order. It returns a *StepError for the first step
// whose command exits non-zero; later steps are not executed. There is no
// rollback: side effects of completed steps remain in place.
func (s *Sequencer) Run(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		s.logger.Info("running deployment step",
			zap.Int("index", i+1),
			zap.Int("total", len(steps)),
			zap.String("step", step.Name),
			zap.Strings("argv", step.Argv),
		)

		if err := s.runner.Run(ctx, step); err != nil {
			s.logger.Error("deployment step failed",
				zap.String("step", step.Name),
				zap.Error(err),
			)
			return &StepError{Step: step, Err: err}
		}
	}

	s.logger.Info("deployment complete", zap.Int("steps", len(steps)))
	return nil
}

// execRunner runs a step as a subprocess with stdio wired through, so the
// operator sees the delegated tool's native output.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, step Step) error {
	if len(step.Argv) == 0 {
		return ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...)
	cmd.Dir = step.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
