package deploy

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"go.uber.org/zap/zaptest"
)

type fakeRunner struct {
	ran    []string
	failAt string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, step Step) error {
	if step.Name == f.failAt {
		return f.err
	}
	f.ran = append(f.ran, step.Name)
	return nil
}

func TestSequencerRunsAllStepsInOrder(t *testing.T) {
	runner := &fakeRunner{}
	seq := NewSequencer(runner, zaptest.NewLogger(t))

	if err := seq.Run(context.Background(), DefaultPlan().Steps()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []string{StepSourceSync, StepInstallDeps, StepCollectStatic, StepMigrate}
	if len(runner.ran) != len(want) {
		t.Fatalf("expected %d steps, ran %v", len(want), runner.ran)
	}
	for i, name := range want {
		if runner.ran[i] != name {
			t.Fatalf("expected step %d to be %s, got %s", i, name, runner.ran[i])
		}
	}
}

func TestSequencerAbortsOnFirstFailure(t *testing.T) {
	runner := &fakeRunner{failAt: StepInstallDeps, err: errors.New("exit status 1")}
	seq := NewSequencer(runner, zaptest.NewLogger(t))

	err := seq.Run(context.Background(), DefaultPlan().Steps())
	if err == nil {
		t.Fatalf("expected error when a step fails")
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if stepErr.Step.Name != StepInstallDeps {
		t.Fatalf("expected failing step %s, got %s", StepInstallDeps, stepErr.Step.Name)
	}

	if want := []string{StepSourceSync}; len(runner.ran) != 1 || runner.ran[0] != want[0] {
		t.Fatalf("expected only %v to have run, got %v", want, runner.ran)
	}
}

func TestStepErrorExitCode(t *testing.T) {
	t.Run("defaults to one", func(t *testing.T) {
		err := &StepError{Step: Step{Name: StepSourceSync}, Err: errors.New("not found")}
		if got := err.ExitCode(); got != 1 {
			t.Fatalf("expected exit code 1, got %d", got)
		}
	})

	t.Run("propagates command exit code", func(t *testing.T) {
		cmd := exec.Command("sh", "-c", "exit 3")
		runErr := cmd.Run()
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			t.Skip("sh unavailable")
		}
		err := &StepError{Step: Step{Name: StepMigrate}, Err: runErr}
		if got := err.ExitCode(); got != 3 {
			t.Fatalf("expected exit code 3, got %d", got)
		}
	})
}

func TestExecRunnerRejectsEmptyCommand(t *testing.T) {
	runner := &execRunner{}
	if err := runner.Run(context.Background(), Step{Name: StepSourceSync}); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
}
