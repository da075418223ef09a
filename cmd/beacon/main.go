// Command beacon runs a Dragonfly server with the beacon plugin enabled.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/c3kay/beacon"
	"github.com/df-mc/dragonfly/server"
)

func main() {
	s, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: s.LogLevel}))
	slog.SetDefault(log)

	conf, err := server.DefaultConfig().Config(log)
	if err != nil {
		log.Error("beacon: invalid server config", "error", err)
		os.Exit(1)
	}
	srv := conf.New()

	plugin := beacon.NewBuilder().
		ConfigPath(s.ConfigPath).
		RegistryPath(s.RegistryPath).
		Operators(s.Operators...).
		Logger(log).
		Init(srv.World(), srv.Nether(), srv.End())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The effect loop runs world transactions, so it stops before the worlds close.
	go func() {
		<-ctx.Done()
		if err := plugin.Close(); err != nil {
			log.Error("beacon: failed to disable plugin", "error", err)
		}
		if err := srv.Close(); err != nil {
			log.Error("beacon: failed to close server", "error", err)
		}
	}()

	srv.Listen()
	for p := range srv.Accept() {
		p.Handle(plugin.NewHandler())
	}
}
