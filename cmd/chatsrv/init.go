package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wtask/relaychat/internal/chat/broker"
	"github.com/wtask/relaychat/internal/chat/protocol"
	"github.com/wtask/relaychat/pkg/semver"
)

type (
	// Configuration - server configuration
	Configuration struct {
		// IPAddress - bind the address
		IPAddress string
		// Port - bind the port
		Port uint
		// Capacity - max number of simultaneously connected participants
		Capacity int
		// MaxNameLen - max length of display name in bytes
		MaxNameLen int
		// FrameSize - size of single read from participant
		FrameSize int
		// WebsocketAddress - listen address of websocket gateway, empty to disable
		WebsocketAddress string
		// WriteTimeout - deadline of single write to participant, 0 means no deadline
		WriteTimeout time.Duration
		// ShutdownTimeout - max period to wait for sessions on stop
		ShutdownTimeout time.Duration
		// Debug - enables debug logging
		Debug bool
	}
)

var (
	// Config - current configuration of the server
	Config = Configuration{
		Port:            8080,
		Capacity:        broker.DefaultCapacity,
		MaxNameLen:      protocol.DefaultMaxNameLen,
		FrameSize:       protocol.DefaultFrameSize,
		ShutdownTimeout: 10 * time.Second,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = semver.V{Major: 1}.String()
)

func init() {
	out := flag.CommandLine.Output()
	printUsage := func() {
		fmt.Fprintf(out, "Launch chat relay server over TCP\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.IPAddress, "ip", "", "Listen address")
	flag.UintVar(&Config.Port, "port", Config.Port, "Listen port")
	flag.IntVar(&Config.Capacity, "capacity", Config.Capacity, "Max number of connected participants")
	flag.IntVar(&Config.MaxNameLen, "name-len", Config.MaxNameLen, "Max length of display name in bytes")
	flag.IntVar(&Config.FrameSize, "frame-size", Config.FrameSize, "Size of single read from participant in bytes")
	flag.StringVar(&Config.WebsocketAddress, "ws", "", "Listen address of websocket gateway, for example :8081")
	flag.DurationVar(&Config.WriteTimeout, "write-timeout", 0, "Deadline of single write to participant, 0 disables it")
	flag.DurationVar(&Config.ShutdownTimeout, "shutdown-timeout", Config.ShutdownTimeout, "Max period to wait for sessions on stop")
	flag.BoolVar(&Config.Debug, "debug", false, "Enable debug logging")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	switch {
	case Config.Port == 0 || Config.Port > 65535:
		printError("port value should be in range 1..65535")
		os.Exit(1)
	case Config.Capacity < 1:
		printError("capacity value should be greater 0")
		os.Exit(1)
	case Config.MaxNameLen < 1:
		printError("name-len value should be greater 0")
		os.Exit(1)
	case Config.FrameSize <= protocol.ChunkTagLen:
		printError(fmt.Sprintf("frame-size value should be greater %d", protocol.ChunkTagLen))
		os.Exit(1)
	case Config.WriteTimeout < 0:
		printError("write-timeout value should not be negative")
		os.Exit(1)
	}

	fmt.Fprint(out, "Chat relay server is launching, press Ctrl-C to stop...\n")
}
