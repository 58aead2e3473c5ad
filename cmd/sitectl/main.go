package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/pgrishin/sitectl/internal/application"
	"github.com/pgrishin/sitectl/internal/config"
	"github.com/pgrishin/sitectl/internal/deploy"
	"github.com/pgrishin/sitectl/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("sitectl", "Deploys and serves the site: pulls source, installs dependencies, collects static assets, applies migrations, and fronts the result over HTTP")
	envFile := kingpinApp.Flag("env-file", "Path to a KEY=VALUE environment definition file (default .env)").String()

	deployCmd := kingpinApp.Command("deploy", "Run the deployment sequence and exit")
	planFile := deployCmd.Flag("plan", "Path to a YAML deployment plan overriding step commands").String()

	serveCmd := kingpinApp.Command("serve", "Serve the deployed site over HTTP")
	port := serveCmd.Flag("port", "HTTP port exposed by the server").String()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		EnvFile: *envFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case deployCmd.FullCommand():
		runDeploy(*planFile, logger)
	case serveCmd.FullCommand():
		runServe(cfg, logger)
	}
}

// runDeploy executes the four deployment steps and exits non-zero on the
// first failure, propagating the failing command's exit code.
func runDeploy(planFile string, logger *zap.Logger) {
	plan := deploy.DefaultPlan()
	if planFile != "" {
		var err error
		plan, err = deploy.LoadPlan(planFile)
		if err != nil {
			logger.Fatal("failed to load deployment plan", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sequencer := deploy.NewSequencer(nil, logger)
	if err := sequencer.Run(ctx, plan.Steps()); err != nil {
		_ = logger.Sync()
		os.Exit(exitCode(err))
	}
}

// exitCode maps a deployment failure to the process exit status.
func exitCode(err error) int {
	var stepErr *deploy.StepError
	if errors.As(err, &stepErr) {
		return stepErr.ExitCode()
	}
	return 1
}

func runServe(cfg config.Settings, logger *zap.Logger) {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
