// Package `chatsrv` implements relay server application for chat and file sharing over TCP.
//
// Every frame received from a participant is broadcast to all others:
// text is stamped with sender name, file frames are relayed as is.
// Optional websocket gateway accepts the same frames as binary messages.
//
// To compile chat server locally, run from package directory:
//
//	go install .
//
// Or quickly launch server with command:
//
//	go run . -port 8080 -ws :8081
package main
