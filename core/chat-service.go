package core

import (
	"context"
	"io"
)

// ModeStore keeps the durable per-user mode flag.
type ModeStore interface {
	GetMode(ctx context.Context, userId int64) (Mode, error)
	SetMode(ctx context.Context, userId int64, mode Mode) error
}

// TextCompleter returns the assistant reply for an ordered list of turns.
type TextCompleter interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// ImageGenerator returns a URL of one image generated from the prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AssetFetcher downloads a remote asset into w.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string, w io.Writer) error
}

// Messenger delivers outbound messages to a user.
type Messenger interface {
	SendText(userId int64, text string) error
	SendPhoto(userId int64, path string) error
}

// Archiver keeps a copy of a delivered image.
type Archiver interface {
	Archive(ctx context.Context, userId int64, path string) error
}
