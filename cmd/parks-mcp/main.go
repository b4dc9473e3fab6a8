package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/parks-mcp/internal/common"
	"github.com/bobmcallan/parks-mcp/internal/config"
	httpserver "github.com/bobmcallan/parks-mcp/internal/server"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (default when no port is given)")
	port := flag.String("port", "", "Serve MCP over streamable HTTP on this port")
	configFile := flag.String("config", "parks-mcp.toml", "Path to config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(config.GetFullVersion())
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("version", config.GetVersion()).
		Str("name", cfg.Server.Name).
		Msg("starting parks-mcp")

	// Missing credentials warn and continue; affected tools degrade or
	// surface auth errors per call.
	for _, warning := range cfg.CredentialWarnings() {
		logger.Warn().Msg(warning)
	}

	services := newServices(cfg, logger)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		config.GetVersion(),
		server.WithToolCapabilities(true),
	)
	newRegistry(services).register(mcpServer)

	// Stdio transport unless a port was asked for on the command line.
	if *stdio || *port == "" {
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	streamable := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)
	srv := httpserver.New(cfg.Server.Port, cfg.Server.Name, config.GetVersion(), streamable, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}
}
