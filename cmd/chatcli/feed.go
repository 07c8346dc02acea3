package main

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wtask/relaychat/internal/chat/client"
	"github.com/wtask/relaychat/internal/chat/history"
)

type (
	// entryMsg - transcript line produced by engine.
	entryMsg history.Entry
	// fileMsg - name of completely received file.
	fileMsg string
)

// feed - carries engine events into UI loop.
// Engine goroutines block on it until UI takes the event or the feed is closed.
type feed struct {
	events chan tea.Msg
	quit   chan struct{}
	once   sync.Once
}

func newFeed(size int) *feed {
	return &feed{events: make(chan tea.Msg, size), quit: make(chan struct{})}
}

func (f *feed) send(msg tea.Msg) {
	select {
	case f.events <- msg:
	case <-f.quit:
	}
}

// wait - UI command taking next event, it must be re-armed after every received event.
func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.events:
			return msg
		case <-f.quit:
			return nil
		}
	}
}

func (f *feed) close() {
	f.once.Do(func() { close(f.quit) })
}

// status - reports local status line through the feed.
func (f *feed) status(text string) {
	f.send(entryMsg{Time: time.Now(), Kind: history.System, Body: text})
}

// hooks - engine notifier writing into the feed.
func (f *feed) hooks() client.Hooks {
	return client.Hooks{
		SystemEvent: f.status,
		IncomingChat: func(sender, body string, own bool) {
			kind := history.Chat
			if own {
				kind = history.Own
			}
			f.send(entryMsg{Time: time.Now(), Kind: kind, Sender: sender, Body: body})
		},
		IncomingFile: func(name string) {
			f.send(fileMsg(name))
		},
	}
}
