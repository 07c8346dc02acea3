package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wtask/relaychat/internal/chat/history"
)

type fakeEngine struct {
	dir   string
	texts []string
	files []string
	err   error
}

func (f *fakeEngine) Name() string { return "alice" }

func (f *fakeEngine) SendText(body string) error {
	f.texts = append(f.texts, body)
	return f.err
}

func (f *fakeEngine) SendFile(path string) (string, error) {
	f.files = append(f.files, path)
	return "id", f.err
}

func (f *fakeEngine) StagingPath(name string) (string, error) {
	return filepath.Join(f.dir, "temp_"+filepath.Base(name)), nil
}

func newTestModel(test *testing.T, e *fakeEngine) model {
	test.Helper()
	transcript, _ := history.NewStack(10)
	f := newFeed(16)
	m := newModel(e, f, newOutbox(f.status), "127.0.0.1:8080", transcript)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(model)
}

// enter - submits line and runs queued engine calls.
func enter(test *testing.T, m model, line string) (model, tea.Msg) {
	test.Helper()
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	m.out.flush()
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

// status - takes next status line reported through the feed.
func status(test *testing.T, m model) string {
	test.Helper()
	select {
	case msg := <-m.feed.events:
		e, ok := msg.(entryMsg)
		if !ok || e.Kind != history.System {
			test.Fatalf("Unexpected feed message %#v", msg)
		}
		return e.Body
	default:
		test.Fatal("There is no status line")
	}
	return ""
}

func lastBody(m model) string {
	tail := m.transcript.Tail(1)
	if len(tail) == 0 {
		return ""
	}
	return tail[0].Body
}

func TestModel_SendText(test *testing.T) {
	e := &fakeEngine{}
	m := newTestModel(test, e)

	m, msg := enter(test, m, "hello")
	if msg != nil {
		test.Error("Unexpected message", msg)
	}
	if len(e.texts) != 1 || e.texts[0] != "hello" {
		test.Error("Unexpected sent texts", e.texts)
	}
	if m.input.Value() != "" {
		test.Error("Input was not reset")
	}

	e.err = errors.New("broken pipe")
	m, _ = enter(test, m, "again")
	if line := status(test, m); !strings.Contains(line, "message was not sent") || !strings.Contains(line, "broken pipe") {
		test.Error("Unexpected status", line)
	}
}

func TestModel_SendOrder(test *testing.T) {
	e := &fakeEngine{}
	m := newTestModel(test, e)

	lines := []string{"one", "two", "three", "four"}
	for _, line := range lines {
		m.input.SetValue(line)
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(model)
	}
	if len(e.texts) != 0 {
		test.Error("Engine was called before outbox run", e.texts)
	}
	m.out.flush()
	if !reflect.DeepEqual(e.texts, lines) {
		test.Error("Unexpected send order", e.texts)
	}
}

func TestOutbox_Run(test *testing.T) {
	reported := make(chan string, 4)
	o := newOutbox(func(text string) { reported <- text })
	go o.run()
	defer o.close()

	order := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		n := i
		o.push(func() string {
			order <- n
			if n == 3 {
				return "done"
			}
			return ""
		})
	}
	select {
	case text := <-reported:
		if text != "done" {
			test.Error("Unexpected report", text)
		}
	case <-time.After(time.Second):
		test.Fatal("Outbox did not run jobs")
	}
	for i := 1; i <= 3; i++ {
		if n := <-order; n != i {
			test.Errorf("Expected job %d, actual %d", i, n)
		}
	}
	o.close()
}

func TestModel_Events(test *testing.T) {
	m := newTestModel(test, &fakeEngine{})

	updated, cmd := m.Update(entryMsg{Time: time.Now(), Kind: history.Chat, Sender: "bob", Body: "hi"})
	m = updated.(model)
	if cmd == nil {
		test.Error("Feed was not re-armed")
	}
	if tail := m.transcript.Tail(1); tail[0].Sender != "bob" || tail[0].Body != "hi" {
		test.Error("Unexpected transcript", tail)
	}
	if view := m.View(); !strings.Contains(view, "hi") || !strings.Contains(view, "alice@127.0.0.1:8080") {
		test.Error("Unexpected view", view)
	}

	updated, _ = m.Update(fileMsg("report.pdf"))
	m = updated.(model)
	if !m.received["report.pdf"] {
		test.Error("File was not marked as received")
	}
	m, _ = enter(test, m, "/files")
	if body := lastBody(m); body != "received files: report.pdf" {
		test.Error("Unexpected files line", body)
	}
}

func TestModel_FileAndSave(test *testing.T) {
	dir := test.TempDir()
	e := &fakeEngine{dir: dir}
	m := newTestModel(test, e)

	m, _ = enter(test, m, "/file /tmp/report.pdf")
	if len(e.files) != 1 || e.files[0] != "/tmp/report.pdf" {
		test.Error("Unexpected sent files", e.files)
	}
	if line := status(test, m); line != "sending file /tmp/report.pdf" {
		test.Error("Unexpected status", line)
	}

	m, _ = enter(test, m, "/save report.pdf")
	if body := lastBody(m); body != "file report.pdf was not received" {
		test.Error("Unexpected line", body)
	}

	os.WriteFile(filepath.Join(dir, "temp_report.pdf"), []byte("pdf"), 0o644)
	updated, _ := m.Update(fileMsg("report.pdf"))
	m = updated.(model)
	dest := filepath.Join(dir, "saved.pdf")
	m, _ = enter(test, m, "/save report.pdf "+dest)
	if line := status(test, m); line != "file report.pdf saved to "+dest {
		test.Error("Unexpected status", line)
	}
	if b, _ := os.ReadFile(dest); string(b) != "pdf" {
		test.Error("Unexpected saved content", string(b))
	}
}

func TestModel_Quit(test *testing.T) {
	m := newTestModel(test, &fakeEngine{})
	if _, msg := enter(test, m, "/quit"); msg != tea.Quit() {
		test.Error("Expected quit message, got", msg)
	}
	m, msg := enter(test, m, "/bogus")
	if msg != nil || !strings.HasPrefix(lastBody(m), "unknown command /bogus") {
		test.Error("Unexpected result", msg, lastBody(m))
	}
}

func TestFeed(test *testing.T) {
	f := newFeed(1)
	hooks := f.hooks()
	go hooks.NotifyIncomingChat("alice", "hi", true)
	msg := f.wait()()
	if e, ok := msg.(entryMsg); !ok || e.Kind != history.Own || e.Body != "hi" {
		test.Error("Unexpected feed message", msg)
	}
	f.close()
	f.close()
	hooks.NotifySystemEvent("released")
	hooks.NotifySystemEvent("released after close")
	// buffered event or nil after close, wait must not block
	f.wait()()
}
