// Package `chatcli` implements terminal client of chat relay server.
//
// Type text and press Enter to send it to all participants. Commands:
//
//	/file <path>         send file to all participants
//	/save <name> [dest]  copy completely received file from staging directory
//	/files               list received files
//	/quit                leave the chat
//
// Launch client with command:
//
//	go run . -name alice -port 8080
package main
