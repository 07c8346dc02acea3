package client

// Notifier - receives engine events. Every method is called from the receive loop
// or upload goroutines, so implementation must be safe for concurrent use
// or marshal events onto its own goroutine. Methods must not call Engine.Close.
type Notifier interface {
	// NotifySystemEvent - relay notice or local status line.
	NotifySystemEvent(text string)
	// NotifyIncomingChat - chat line, own is true for lines sent by this engine.
	NotifyIncomingChat(sender, body string, own bool)
	// NotifyIncomingFile - file was completely received into its staging path.
	NotifyIncomingFile(name string)
}

// Hooks - Notifier built of optional funcs, nil func ignores the event.
type Hooks struct {
	SystemEvent  func(text string)
	IncomingChat func(sender, body string, own bool)
	IncomingFile func(name string)
}

// NotifySystemEvent - implements Notifier.
func (h Hooks) NotifySystemEvent(text string) {
	if h.SystemEvent != nil {
		h.SystemEvent(text)
	}
}

// NotifyIncomingChat - implements Notifier.
func (h Hooks) NotifyIncomingChat(sender, body string, own bool) {
	if h.IncomingChat != nil {
		h.IncomingChat(sender, body, own)
	}
}

// NotifyIncomingFile - implements Notifier.
func (h Hooks) NotifyIncomingFile(name string) {
	if h.IncomingFile != nil {
		h.IncomingFile(name)
	}
}
