package main

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/pgrishin/sitectl/internal/deploy"
)

func TestExitCode(t *testing.T) {
	t.Run("plain error maps to one", func(t *testing.T) {
		if got := exitCode(errors.New("boom")); got != 1 {
			t.Fatalf("expected exit code 1, got %d", got)
		}
	})

	t.Run("step error without exit status maps to one", func(t *testing.T) {
		err := &deploy.StepError{
			Step: deploy.Step{Name: deploy.StepSourceSync},
			Err:  errors.New("executable not found"),
		}
		if got := exitCode(err); got != 1 {
			t.Fatalf("expected exit code 1, got %d", got)
		}
	})

	t.Run("step error propagates command exit code", func(t *testing.T) {
		cmd := exec.CommandContext(context.Background(), "sh", "-c", "exit 7")
		runErr := cmd.Run()
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			t.Skip("sh unavailable")
		}
		err := &deploy.StepError{
			Step: deploy.Step{Name: deploy.StepMigrate},
			Err:  runErr,
		}
		if got := exitCode(err); got != 7 {
			t.Fatalf("expected exit code 7, got %d", got)
		}
	})
}
