package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wtask/relaychat/internal/chat/broker"
	"github.com/wtask/relaychat/internal/chat/message"
)

const (
	noticeFull     = "server is full, try again later"
	noticeShutdown = "server is shutting down"
)

func joinNotice(name string) string {
	return name + " joined"
}

func partNotice(name string) string {
	return name + " left"
}

// sanitizeName - converts raw handshake bytes into display name.
// Separator is replaced so that stamped text always splits on the sender boundary.
func sanitizeName(raw []byte, max int) string {
	name := strings.TrimSpace(message.Decode(raw))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ':':
			return '_'
		case r < ' ':
			return -1
		default:
			return r
		}
	}, name)
	return message.Truncate(name, max)
}

// formatUsers - formats current user list for logging.
func formatUsers(list []broker.SessionInfo) string {
	users := make([]string, 0, len(list))
	for _, info := range list {
		name := info.Name
		if name == "" {
			name = "?"
		}
		users = append(users, fmt.Sprintf("[%d] %s (%s)", info.Slot, name, info.Addr))
	}
	return strings.Join(users, ", ")
}

// trimText - cuts text to max bytes, UTF-8 text is cut on a rune boundary.
func trimText(text []byte, max int) []byte {
	if len(text) <= max {
		return text
	}
	if utf8.Valid(text) {
		return []byte(message.Truncate(string(text), max))
	}
	return text[:max]
}
