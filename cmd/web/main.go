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

	"go.uber.org/zap"

	"github.com/minaorangina/napoleon/config"
	"github.com/minaorangina/napoleon/internal/logger"
	"github.com/minaorangina/napoleon/internal/schedule"
	"github.com/minaorangina/napoleon/registry"
	"github.com/minaorangina/napoleon/room"
	"github.com/minaorangina/napoleon/server"
)

const (
	wheelSize       = 64
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	wheel := schedule.New(cfg.TimerTick, wheelSize)
	defer wheel.Stop()

	reg := registry.New(registry.Options{
		Room: room.Options{
			Settings:    cfg.GameSettings(),
			MinPlayers:  cfg.MinPlayers,
			TrickDelay:  cfg.TrickDelay,
			MailboxSize: cfg.MailboxSize,
			Scheduler:   wheel,
		},
		RoomKeyLength: cfg.RoomKeyLength,
		MailboxSize:   cfg.MailboxSize,
	}, log)
	go reg.Listen()
	defer reg.Stop()

	s := server.NewServer(reg, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", zap.Error(err))
	}
}
