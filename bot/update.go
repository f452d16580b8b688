package bot

import (
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const maxMessageLength = 4096

type inbound struct {
	userId  int64
	command string
	text    string
}

// parseUpdate keeps text messages and commands from private chats, where
// the chat id equals the user id.
func parseUpdate(update tgbotapi.Update) (inbound, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return inbound{}, false
	}
	if !msg.Chat.IsPrivate() {
		return inbound{}, false
	}

	in := inbound{userId: int64(msg.From.ID)}
	if msg.IsCommand() {
		in.command = msg.Command()
		return in, true
	}

	if strings.TrimSpace(msg.Text) == "" {
		return inbound{}, false
	}
	in.text = msg.Text
	return in, true
}

// splitMessage cuts text into parts of at most limit UTF-16 code units,
// the unit Telegram counts message length in.
func splitMessage(text string, limit int) []string {
	if utf16Len(text) <= limit {
		return []string{text}
	}

	runes := []rune(text)
	var parts []string
	for len(runes) > 0 {
		cut, units, newline := 0, 0, 0
		for cut < len(runes) {
			n := utf16.RuneLen(runes[cut])
			if n < 0 {
				n = 1
			}
			if units+n > limit {
				break
			}
			units += n
			cut++
			// prefer to break on a newline in the second half of the chunk
			if runes[cut-1] == '\n' && units > limit/2 {
				newline = cut
			}
		}
		if cut < len(runes) && newline > 0 {
			cut = newline
		}
		if cut == 0 {
			cut = 1
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return parts
}

func utf16Len(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
