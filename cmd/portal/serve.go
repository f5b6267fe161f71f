package portal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/docportal/docportal/internal/api"
	"github.com/docportal/docportal/internal/api/handlers"
	"github.com/docportal/docportal/pkg/analyzer"
	"github.com/docportal/docportal/pkg/chunker"
	"github.com/docportal/docportal/pkg/comparator"
	"github.com/docportal/docportal/pkg/index"
	"github.com/docportal/docportal/pkg/loader"
	applog "github.com/docportal/docportal/pkg/log"
	"github.com/docportal/docportal/pkg/prompt"
	"github.com/docportal/docportal/pkg/providers"
	"github.com/docportal/docportal/pkg/session"
)

var (
	port  int
	host  string
	debug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port == 0 {
			port = cfg.Server.Port
		}
		if host == "" {
			host = cfg.Server.Host
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := applog.New(level)

		gateway, err := providers.New(cfg)
		if err != nil {
			return fmt.Errorf("initializing provider gateway: %w", err)
		}

		prompts := prompt.NewManager()
		deps := &handlers.Deps{
			Cfg:        cfg,
			Logger:     logger,
			Gateway:    gateway,
			Loader:     loader.New(applog.WithModule(logger, "loader")),
			Chunker:    chunker.New(),
			Sessions:   session.NewManager(applog.WithModule(logger, "session")),
			Locks:      session.NewLocks(),
			Indexes:    index.NewManager(gateway, applog.WithModule(logger, "index")),
			Prompts:    prompts,
			Analyzer:   analyzer.New(gateway, prompts, applog.WithModule(logger, "analyzer")),
			Comparator: comparator.New(gateway, prompts, applog.WithModule(logger, "comparator")),
		}

		gin.SetMode(gin.ReleaseMode)
		router := api.NewRouter(deps)

		server := &http.Server{
			Addr:    fmt.Sprintf("%s:%d", host, port),
			Handler: router,
		}

		go func() {
			logger.Info("document portal listening", "addr", server.Addr, "provider", cfg.Provider.Default)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("server stopped", "error", err)
				os.Exit(1)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	serveCmd.Flags().StringVar(&host, "host", "", "host to bind")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}
