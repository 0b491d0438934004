package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chatstory/storymcp/internal/config"
	"github.com/chatstory/storymcp/internal/core"
	"github.com/chatstory/storymcp/internal/db"
	httpsvr "github.com/chatstory/storymcp/internal/http"
	mcpsvr "github.com/chatstory/storymcp/internal/mcp"
	"github.com/chatstory/storymcp/internal/storyapi"
	"github.com/chatstory/storymcp/internal/telemetry"
)

var (
	version   = ""
	gitCommit = ""
	buildTime = ""
)

func main() {
	// stdout carries the stdio transport; logs go to stderr.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	lvl, _ := cfg.SlogLevel()
	level.Set(lvl)
	logger.Info("profile loaded", "profile", cfg.Profile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		logger.Error("tracing setup failed", "err", err)
		os.Exit(1)
	}

	token := storyapi.InspectToken(cfg.APIKey, time.Now())
	switch {
	case token.Format == "none":
		logger.Warn("CHATSTORYAI_API_KEY is not set; authenticated tools will fail upstream")
	case token.Expired:
		logger.Warn("API token is expired", "subject", token.Subject, "expired_at", token.ExpiresAt)
	}

	api, err := storyapi.NewClient(storyapi.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIKey,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("story api client init failed", "err", err)
		os.Exit(1)
	}

	var database *db.DB
	var audit *core.AuditService
	var toolCalls httpsvr.ToolCallReader
	if cfg.DatabaseURL != "" {
		database, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		defer database.Close()
		audit = core.NewAuditService(database)
		toolCalls = database
	}

	policy := core.NewPolicy(cfg.ToolAllowlist, cfg.IsReadOnly())

	logger.Info("effective config",
		"profile", cfg.Profile,
		"api_url", api.BaseURL(),
		"token_format", token.Format,
		"request_timeout", cfg.RequestTimeout.String(),
		"transport", cfg.Transport,
		"http_addr", cfg.HTTPAddr,
		"ops_enabled", cfg.ServeOps(),
		"read_only", policy.ReadOnly(),
		"tool_allowlist", policy.AllowedTools(),
		"audit_enabled", audit != nil,
		"tracing_enabled", cfg.OTelEnabled && cfg.OTelEndpoint != "",
	)

	server := mcpsvr.NewServer(mcpsvr.Deps{
		API:       api,
		Dialogues: core.NewDialogueService(api, logger),
		Policy:    policy,
		Audit:     audit,
		Logger:    logger,
	}, version)

	errCh := make(chan error, 2)

	var httpServer *httpsvr.Server
	opts := httpsvr.Options{
		Logger:    logger,
		Build:     httpsvr.BuildInfo{Version: version, GitCommit: gitCommit, BuildTime: buildTime},
		ToolCalls: toolCalls,
	}
	if cfg.Transport == config.TransportHTTP {
		opts.MCP = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	} else {
		go func() { errCh <- server.Run(ctx, &mcp.StdioTransport{}) }()
	}
	if cfg.ServeOps() {
		httpServer = httpsvr.NewServer(cfg.HTTPAddr, opts)
		go func() { errCh <- httpServer.ListenAndServe() }()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "err", err)
		} else {
			logger.Info("mcp session ended")
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	var steps []shutdownStep
	if httpServer != nil {
		steps = append(steps, shutdownStep{name: "http server", fn: httpServer.Shutdown})
	}
	steps = append(steps, shutdownStep{name: "tracing", fn: shutdownTracing})
	shutdown(shutdownCtx, logger, steps)
}

type shutdownStep struct {
	name string
	fn   func(context.Context) error
}

// shutdown runs every step in order. A failed step is logged and the rest
// still run.
func shutdown(ctx context.Context, logger *slog.Logger, steps []shutdownStep) {
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			logger.Warn(step.name+" shutdown failed", "err", err)
		}
	}
	logger.Info("shutdown complete")
}
