package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/theaterparty/server/internal/controller"
	"github.com/theaterparty/server/internal/repository"
	"github.com/theaterparty/server/internal/repository/connection/inmemory"
	storeinmemory "github.com/theaterparty/server/internal/repository/inmemory"
	storeredis "github.com/theaterparty/server/internal/repository/redis"
	"github.com/theaterparty/server/internal/theater"
	"github.com/theaterparty/server/pkg/ctxlogger"
	"github.com/theaterparty/server/pkg/redisclient"
	"github.com/theaterparty/server/pkg/videometa"
)

type AppConfig struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	LogLevel      string `json:"log_level"`
	Storage       string `json:"storage"`
	RedisPort     int    `json:"redis_port"`
	RedisHost     string `json:"redis_host"`
	RedisPassword string `json:"-"`
	HistoryWindow int    `json:"history_window"`
	AvatarPrefix  string `json:"avatar_prefix"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Storage != "redis" && cfg.Storage != "memory" {
		return fmt.Errorf("storage must be redis or memory, got %q", cfg.Storage)
	}
	if cfg.HistoryWindow < 0 {
		return fmt.Errorf("history window must not be negative")
	}
	return nil
}

type playlistAndMessageStore interface {
	repository.PlaylistStore
	repository.MessageStore
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	var store playlistAndMessageStore
	if cfg.Storage == "redis" {
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Port:     cfg.RedisPort,
			Host:     cfg.RedisHost,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		store = storeredis.NewRepo(rc)
	} else {
		store = storeinmemory.NewRepo()
	}

	theaterCfg := theater.DefaultConfig()
	if cfg.HistoryWindow > 0 {
		theaterCfg.HistoryWindow = cfg.HistoryWindow
	}
	if cfg.AvatarPrefix != "" {
		theaterCfg.AvatarPathPrefix = cfg.AvatarPrefix
	}
	theaterSvc := theater.NewTheater(store, store, theaterCfg, logger)

	connectionRepo := inmemory.NewRepo()
	controller := controller.NewController(theaterSvc, connectionRepo, videometa.New(), logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.Mux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
