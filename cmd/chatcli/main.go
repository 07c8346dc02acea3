package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wtask/relaychat/internal/chat/client"
	"github.com/wtask/relaychat/internal/chat/history"
	"github.com/wtask/relaychat/internal/chat/transport"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.DiscardHandler)
	if Config.LogFile != "" {
		f, err := os.OpenFile(Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to open log file:", err)
			return 1
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})).
			With("app", BinaryName, "version", Version)
	}

	transcript, err := history.NewStack(Config.History)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	events := newFeed(64)
	defer events.close()
	options := []client.Option{
		client.WithNotifier(events.hooks()),
		client.WithStagingDir(Config.StagingDir),
		client.WithLogger(logger),
	}

	ctx, cancel := context.WithTimeout(context.Background(), Config.DialTimeout)
	defer cancel()
	server := net.JoinHostPort(Config.IPAddress, strconv.Itoa(Config.Port))
	var e *client.Engine
	if Config.WebsocketURL != "" {
		server = Config.WebsocketURL
		conn, err := transport.DialWebsocket(ctx, Config.WebsocketURL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to connect:", err)
			return 1
		}
		e, err = client.Open(conn, Config.Name, options...)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to join:", err)
			return 1
		}
	} else {
		e, err = client.Connect(ctx, Config.IPAddress, Config.Port, Config.Name, options...)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to join:", err)
			return 1
		}
	}

	out := newOutbox(events.status)
	go out.run()
	p := tea.NewProgram(newModel(e, events, out, server, transcript), tea.WithAltScreen())
	_, err = p.Run()
	out.close()
	// engine goroutines may wait on the feed, release them before closing
	events.close()
	e.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
