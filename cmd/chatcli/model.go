package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wtask/relaychat/internal/chat/client"
	"github.com/wtask/relaychat/internal/chat/history"
)

// engine - part of client.Engine used by UI.
type engine interface {
	Name() string
	SendText(body string) error
	SendFile(path string) (string, error)
	StagingPath(name string) (string, error)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ownStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	senderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	systemStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("11"))
)

type model struct {
	engine     engine
	feed       *feed
	out        *outbox
	server     string
	transcript *history.Stack
	// received - names of completely received files, only Update touches it
	received map[string]bool

	input    textinput.Model
	viewport viewport.Model
	ready    bool
}

func newModel(e engine, f *feed, out *outbox, server string, transcript *history.Stack) model {
	ti := textinput.New()
	ti.Placeholder = "Type message or /help (Enter to send, Ctrl+C to exit)"
	ti.Prompt = "> "
	ti.Focus()
	return model{
		engine:     e,
		feed:       f,
		out:        out,
		server:     server,
		transcript: transcript,
		received:   map[string]bool{},
		input:      ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.feed.wait())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		m.input, tiCmd = m.input.Update(msg)
	case tea.WindowSizeMsg:
		height := msg.Height - 2
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = msg.Width, height
		}
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.refresh()
	case entryMsg:
		m.push(history.Entry(msg))
		return m, m.feed.wait()
	case fileMsg:
		name := string(msg)
		m.received[name] = true
		m.system(fmt.Sprintf("file %s received, type /save %s to keep it", name, name))
		return m, m.feed.wait()
	}

	if m.ready {
		m.viewport, vpCmd = m.viewport.Update(msg)
	}
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m model) View() string {
	if !m.ready {
		return "connecting..."
	}
	header := headerStyle.Render(fmt.Sprintf("relaychat %s@%s", m.engine.Name(), m.server))
	return header + "\n" + m.viewport.View() + "\n" + m.input.View()
}

// submit - executes input line. Engine calls go through the outbox,
// because engine reports own text back through the feed.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	c, err := parseCommand(line)
	if err != nil {
		m.system(err.Error())
		return m, nil
	}
	switch c.kind {
	case cmdText:
		m.out.push(m.sendText(c.text))
	case cmdFile:
		m.out.push(m.sendFile(c.args[0]))
	case cmdSave:
		if !m.received[c.args[0]] {
			m.system(fmt.Sprintf("file %s was not received", c.args[0]))
			return m, nil
		}
		m.out.push(m.save(c.args[0], c.args[1]))
	case cmdFiles:
		m.system(m.listFiles())
	case cmdHelp:
		m.system(helpText)
	case cmdQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) sendText(text string) func() string {
	e := m.engine
	return func() string {
		if err := e.SendText(text); err != nil {
			return fmt.Sprintf("message was not sent: %v", err)
		}
		return ""
	}
}

func (m model) sendFile(path string) func() string {
	e := m.engine
	return func() string {
		if _, err := e.SendFile(path); err != nil {
			return fmt.Sprintf("file was not sent: %v", err)
		}
		return fmt.Sprintf("sending file %s", path)
	}
}

func (m model) save(name, dest string) func() string {
	e := m.engine
	return func() string {
		staged, err := e.StagingPath(name)
		if err == nil {
			err = client.SaveReceived(staged, dest)
		}
		if err != nil {
			return fmt.Sprintf("file %s was not saved: %v", name, err)
		}
		return fmt.Sprintf("file %s saved to %s", name, dest)
	}
}

func (m model) listFiles() string {
	if len(m.received) == 0 {
		return "no files received"
	}
	names := make([]string, 0, len(m.received))
	for name := range m.received {
		names = append(names, name)
	}
	sort.Strings(names)
	return "received files: " + strings.Join(names, ", ")
}

func (m *model) system(text string) {
	m.push(history.Entry{Time: time.Now(), Kind: history.System, Body: text})
}

func (m *model) push(e history.Entry) {
	m.transcript.Push(e)
	m.refresh()
}

func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(render(m.transcript.Tail(m.transcript.Len())))
	m.viewport.GotoBottom()
}

func render(entries []history.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		ts := timeStyle.Render(e.Time.Format(time.TimeOnly))
		switch e.Kind {
		case history.System:
			lines = append(lines, ts+" "+systemStyle.Render("* "+e.Body))
		case history.Own:
			lines = append(lines, ts+" "+ownStyle.Render(e.Sender+":")+" "+e.Body)
		default:
			lines = append(lines, ts+" "+senderStyle.Render(e.Sender+":")+" "+e.Body)
		}
	}
	return strings.Join(lines, "\n")
}
