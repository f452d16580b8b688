package core

import "strings"

// Mode selects which generative capability handles the next text message.
type Mode string

const (
	ModeChat  Mode = "chat"
	ModeImage Mode = "image"
)

// DefaultMode applies to users without a stored record.
const DefaultMode = ModeChat

func (m Mode) Valid() bool {
	return m == ModeChat || m == ModeImage
}

func (m Mode) String() string {
	return string(m)
}

// ParseMode converts a stored value into a Mode. Anything unrecognized
// yields DefaultMode, so a corrupted record still routes to chat.
func ParseMode(value string) Mode {
	m := Mode(strings.ToLower(strings.TrimSpace(value)))
	if !m.Valid() {
		return DefaultMode
	}
	return m
}
