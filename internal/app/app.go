package app

import (
	"context"
	"fmt"
	"log"
	nethttp "net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/cors"

	server "crowdcast/server"
	servernet "crowdcast/server/internal/net"
	"crowdcast/server/internal/telemetry"
	"crowdcast/server/logging"
	loggingSinks "crowdcast/server/logging/sinks"
)

// Config is loaded from the environment at startup.
type Config struct {
	Port            int           `env:"PORT" envDefault:"3001"`
	ClientDir       string        `env:"CLIENT_DIR" envDefault:"public"`
	PublicURL       string        `env:"PUBLIC_URL"`
	Personality     string        `env:"PERSONALITY" envDefault:"hype"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"30s"`
	LogSinks        []string      `env:"LOG_SINKS" envSeparator:"," envDefault:"console"`
	LogJSONPath     string        `env:"LOG_JSON_PATH"`
}

// Run wires the hub, logging router, and HTTP server together and blocks
// until the listener fails or ctx is cancelled.
func Run(ctx context.Context) error {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if err := server.ValidateCatalogs(); err != nil {
		return fmt.Errorf("validate catalogs: %w", err)
	}

	telemetryLogger := telemetry.WrapLogger(log.Default())

	logConfig := logging.DefaultConfig()
	logConfig.EnabledSinks = cfg.LogSinks
	sinks := map[string]logging.Sink{
		"console": loggingSinks.NewConsoleSink(log.Writer(), logConfig.Console),
	}
	if logConfig.HasSink("json") {
		if cfg.LogJSONPath == "" {
			return fmt.Errorf("json sink enabled without LOG_JSON_PATH")
		}
		logConfig.JSON.FilePath = cfg.LogJSONPath
		jsonSink, err := loggingSinks.NewJSONSink(logConfig.JSON)
		if err != nil {
			return fmt.Errorf("construct json sink: %w", err)
		}
		sinks["json"] = jsonSink
	}

	router := logging.NewRouter(logConfig, logging.SystemClock{}, sinks)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			telemetryLogger.Printf("failed to close logging router: %v", err)
		}
	}()

	hubCfg := server.DefaultHubConfig()
	hubCfg.Publisher = router
	hubCfg.Logger = telemetryLogger
	hubCfg.CleanupInterval = cfg.CleanupInterval
	if personality, ok := server.ParsePersonality(cfg.Personality); ok {
		hubCfg.Personality = personality
	} else {
		telemetryLogger.Printf("unknown PERSONALITY=%q, using default", cfg.Personality)
	}

	hub := server.NewHubWithConfig(hubCfg)
	stop := make(chan struct{})
	go hub.RunCleanup(stop)
	defer close(stop)
	defer hub.Close()

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir:   cfg.ClientDir,
		PublicURL:   cfg.PublicURL,
		Logger:      telemetryLogger,
		RouterStats: router.Stats,
	})

	srv := &nethttp.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: cors.AllowAll().Handler(handler),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	telemetryLogger.Printf("server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
