package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wtask/relaychat/pkg/semver"
)

type (
	// Configuration - client configuration
	Configuration struct {
		// IPAddress - relay server address
		IPAddress string
		// Port - relay server port
		Port int
		// Name - display name
		Name string
		// StagingDir - directory of incoming files
		StagingDir string
		// WebsocketURL - connect over websocket gateway instead of TCP when set
		WebsocketURL string
		// History - max number of transcript lines kept on screen
		History int
		// LogFile - path of log file, empty disables logging
		LogFile string
		// DialTimeout - max period to establish connection
		DialTimeout time.Duration
	}
)

var (
	// Config - current configuration of the client
	Config = Configuration{
		IPAddress:   "127.0.0.1",
		Port:        8080,
		StagingDir:  ".",
		History:     500,
		DialTimeout: 5 * time.Second,
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = semver.V{Major: 1}.String()
)

func init() {
	out := flag.CommandLine.Output()
	printUsage := func() {
		fmt.Fprintf(out, "Join chat relay server\n\n\t%s -name <name> [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.IPAddress, "ip", Config.IPAddress, "Server address")
	flag.IntVar(&Config.Port, "port", Config.Port, "Server port")
	flag.StringVar(&Config.Name, "name", "", "Display name, required")
	flag.StringVar(&Config.StagingDir, "dir", Config.StagingDir, "Directory of incoming files")
	flag.StringVar(&Config.WebsocketURL, "ws", "", "Websocket gateway URL, for example ws://127.0.0.1:8081/")
	flag.IntVar(&Config.History, "history", Config.History, "Max number of transcript lines")
	flag.StringVar(&Config.LogFile, "log", "", "Log file path")
	flag.DurationVar(&Config.DialTimeout, "dial-timeout", Config.DialTimeout, "Max period to establish connection")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	switch {
	case strings.TrimSpace(Config.Name) == "":
		printError("name is required")
		os.Exit(1)
	case Config.Port < 1 || Config.Port > 65535:
		printError("port value should be in range 1..65535")
		os.Exit(1)
	case Config.History < 1:
		printError("history value should be greater 0")
		os.Exit(1)
	}
	if st, err := os.Stat(Config.StagingDir); err != nil || !st.IsDir() {
		printError(fmt.Sprintf("dir %q is not a directory", Config.StagingDir))
		os.Exit(1)
	}
}
