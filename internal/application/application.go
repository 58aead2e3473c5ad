package application

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pgrishin/sitectl/internal/api"
	"github.com/pgrishin/sitectl/internal/config"
)

// staticRoot is the directory the deploy sequence collects static assets
// into, relative to the project root.
const staticRoot = "staticfiles"

// App encapsulates the serve command's dependencies and HTTP server.
type App struct {
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application from the resolved settings.
func New(cfg config.Settings, logger *zap.Logger) (*App, error) {
	signer := api.NewSigner(cfg.SecretKey)
	handler := api.NewHandler(signer)

	staticDir, err := resolveProjectPath(staticRoot)
	if err != nil {
		// The site may not have been deployed yet; serve without assets.
		logger.Warn("static directory not found, serving without assets",
			zap.String("dir", staticRoot))
		staticDir = ""
	}

	router := api.NewRouter(handler, logger,
		api.WithAllowedHosts(cfg.AllowedHosts),
		api.WithDebug(cfg.Debug),
		api.WithStaticDir(staticDir),
	)

	return &App{
		handler: handler,
		router:  router,
		logger:  logger,
		server:  NewServer(cfg, router),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided settings.
func NewServer(cfg config.Settings, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// resolveProjectPath locates a file or directory relative to the project root
// by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
