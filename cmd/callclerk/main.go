// Command callclerk runs the voice scheduling assistant server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/callclerk/callclerk"
	"github.com/callclerk/callclerk/calendar"
	"github.com/callclerk/callclerk/calstore"
	"github.com/callclerk/callclerk/calstore/sqlite"
	"github.com/callclerk/callclerk/config"
	"github.com/callclerk/callclerk/logging"
	"github.com/callclerk/callclerk/model"
	"github.com/callclerk/callclerk/model/anthropic"
	"github.com/callclerk/callclerk/model/openai"
	"github.com/callclerk/callclerk/server"
	"github.com/callclerk/callclerk/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewSlogLogger(logLevel(cfg.LogLevel), cfg.LogFormat, false)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.Timezone, err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	sessions := session.NewInMemoryStore(func(o *session.InMemoryStoreOptions) {
		o.IdleTimeout = cfg.SessionIdleTimeout
	})
	defer sessions.Close()

	assistant := callclerk.New(func(o *callclerk.Options) {
		o.Model = buildModel(cfg)
		o.Store = store
		o.Sessions = sessions
		o.Location = loc
		o.Logger = logger.WithComponent("assistant")
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(assistant, func(o *server.Options) { o.Logger = logger.WithComponent("server") }).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server.listening", "addr", cfg.Addr, "store", cfg.StoreDriver, "model", cfg.ModelProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("server.shutting_down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server.shutdown_failed", "error", err.Error())
	}
}

func openStore(cfg config.Config) (calendar.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return calstore.NewMemoryStore(), func() {}, nil
	case "sqlite":
		s, err := sqlite.Open(cfg.StorePath, func(o *sqlite.Options) {
			o.BusyTimeout = 5 * time.Second
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := calstore.OpenFile(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func buildModel(cfg config.Config) model.Model {
	switch cfg.ModelProvider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		})
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
		})
	default:
		return model.NewMockModel("mock", "mock")
	}
}

func logLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}
