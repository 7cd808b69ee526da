// go_transcript — YouTube transcript extraction MCP server.
//
// Exposes two MCP tools (get_transcript, resolve_video) plus a small
// REST API for the web front end. No YouTube API key needed: the
// access key and transcript params are scraped from the watch page per
// request.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcriptserver"
)

var (
	version  = "dev"
	mcpPort  = env.Str("MCP_PORT", "8893")
	restAddr = env.Str("REST_ADDR", ":8080")
)

func main() {
	initEngine()

	slog.Info("starting go_transcript",
		slog.String("mcp_port", mcpPort),
		slog.String("rest_addr", restAddr),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_transcript",
		Version: version,
	}, nil)

	transcriptserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 2))

	go func() {
		srv := &http.Server{
			Addr:         restAddr,
			Handler:      transcriptserver.NewRouter(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		}
		if err := srv.ListenAndServe(); err != nil {
			slog.Error("rest server failed", slog.Any("error", err))
		}
	}()

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_transcript",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 10*time.Second),
		LanguageChain:        env.List("LANGUAGE_CHAIN", ""),
		CacheTTL:             env.Duration("CACHE_TTL", 15*time.Minute),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient:           engine.NewFetchClient(env.Duration("FETCH_TIMEOUT", 10*time.Second)),
		Limiter:              rate.NewLimiter(rate.Limit(env.Float("RATE_LIMIT_RPS", 4)), env.Int("RATE_LIMIT_BURST", 8)),
	}

	bc, err := engine.NewBrowserClient(int(c.FetchTimeout / time.Second))
	if err != nil {
		slog.Warn("browser client init failed, using plain HTTP for page fetches", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("browser client initialized")
	}

	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""), c.CacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
