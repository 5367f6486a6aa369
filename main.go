package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-keywords/pkg/keywords"
	"github.com/athapong/aio-keywords/pkg/metrics"
	"github.com/athapong/aio-keywords/pkg/nlp"
	"github.com/athapong/aio-keywords/tools"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	configFile := flag.String("config", "", "Path to a YAML extraction config (default: AIO_KEYWORDS_CONFIG)")
	enableSSE := flag.Bool("sse", false, "Enable SSE server")
	sseAddr := flag.String("sse-addr", ":8080", "Address for SSE server to listen on")
	sseBasePath := flag.String("sse-base-path", "/mcp", "Base path for SSE endpoints")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus metrics endpoint (default: AIO_KEYWORDS_METRICS_ADDR)")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(*envFile); err != nil {
		logger.WithError(err).Warnf("Error loading env file %s", *envFile)
	}
	if level, err := logrus.ParseLevel(envOr("AIO_KEYWORDS_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	cfg := keywords.DefaultConfig()
	if path := flagOrEnv(*configFile, "AIO_KEYWORDS_CONFIG"); path != "" {
		loaded, err := keywords.LoadConfig(path)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load extraction config")
		}
		cfg = loaded
	}

	engine := nlp.NewProseEngine(nlp.WithProseLogger(logger))
	extractor, err := keywords.New(cfg, engine, keywords.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create keyword extractor")
	}

	mcpServer := server.NewMCPServer(
		"aio-keywords",
		"1.0.0",
		server.WithLogging(),
		server.WithToolCapabilities(false),
	)
	tools.RegisterKeywordTool(mcpServer, extractor)

	if addr := flagOrEnv(*metricsAddr, "AIO_KEYWORDS_METRICS_ADDR"); addr != "" {
		go serveMetrics(addr, logger)
	}

	if !*enableSSE && os.Getenv("ENABLE_SSE") != "true" {
		if err := server.ServeStdio(mcpServer); err != nil {
			panic(fmt.Sprintf("Server error: %v", err))
		}
		return
	}

	sseServer := server.NewSSEServer(
		mcpServer,
		server.WithBasePath(*sseBasePath),
		server.WithKeepAlive(true),
	)

	go func() {
		logger.Infof("Starting SSE server on %s with base path %s", *sseAddr, *sseBasePath)
		if err := sseServer.Start(*sseAddr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start SSE server")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infof("Received signal %v, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sseServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Error during SSE server shutdown")
	}
	logger.Info("SSE server shutdown complete")
}

func serveMetrics(addr string, logger *logrus.Logger) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			metrics.UpdateSystemMetrics()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Infof("Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithError(err).Error("Metrics server stopped")
	}
}

func flagOrEnv(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
