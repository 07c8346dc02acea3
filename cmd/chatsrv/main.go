package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/wtask/relaychat/internal/chat"
)

func main() {
	level := slog.LevelInfo
	if Config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("app", BinaryName, "version", Version)
	logger.Info("started", "config", fmt.Sprintf("%+v", Config))

	server, err := chat.NewServer(
		chat.WithCapacity(Config.Capacity),
		chat.WithMaxNameLen(Config.MaxNameLen),
		chat.WithFrameSize(Config.FrameSize),
		chat.WithWriteTimeout(Config.WriteTimeout),
		chat.WithLogger(logger),
	)
	if err != nil {
		logger.Error("can't create chat server", "err", err)
		os.Exit(1)
	}

	node := net.JoinHostPort(Config.IPAddress, fmt.Sprintf("%d", Config.Port))
	listener, err := net.Listen("tcp", node)
	if err != nil {
		logger.Error("unable to listen TCP", "addr", node, "err", err)
		os.Exit(1)
	}
	logger.Info("listen", "addr", listener.Addr().String())

	failed := make(chan error, 2)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, chat.ErrServerClosed) {
			failed <- err
		}
	}()

	if Config.WebsocketAddress != "" {
		wsListener, err := net.Listen("tcp", Config.WebsocketAddress)
		if err != nil {
			logger.Error("unable to listen websocket gateway", "addr", Config.WebsocketAddress, "err", err)
			server.Shutdown(Config.ShutdownTimeout)
			os.Exit(1)
		}
		logger.Info("websocket gateway", "addr", wsListener.Addr().String())
		go func() {
			if err := server.ServeWebsocket(wsListener); err != nil && !errors.Is(err, chat.ErrServerClosed) {
				failed <- err
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	code := 0
	select {
	case s := <-sig:
		logger.Info("got stop signal", "signal", s.String())
	case err := <-failed:
		logger.Error("serve failed", "err", err)
		code = 1
	}
	logger.Info("chat server stopped", "elapsed", server.Shutdown(Config.ShutdownTimeout))
	os.Exit(code)
}
