package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"Duet/core"
	"Duet/holder"
	"Duet/lib/sl"
)

// Chat actions shown by the transport while a handler works.
const (
	ActionTyping      = "typing"
	ActionUploadPhoto = "upload_photo"
)

type Handler interface {
	Handle(ctx context.Context, userId int64, text string) error
	Action() string
}

// Router picks the handler for a text message from the user's stored mode
// and serves the mode commands.
type Router struct {
	modes     core.ModeStore
	history   *holder.ContextManager
	messenger core.Messenger
	chat      *ChatHandler
	image     *ImageHandler
	log       *slog.Logger
}

func NewRouter(
	modes core.ModeStore,
	history *holder.ContextManager,
	messenger core.Messenger,
	chat *ChatHandler,
	image *ImageHandler,
	log *slog.Logger,
) *Router {
	return &Router{
		modes:     modes,
		history:   history,
		messenger: messenger,
		chat:      chat,
		image:     image,
		log:       log.With(sl.Module("router")),
	}
}

// Route never fails: a store error or an unknown mode selects chat.
func (r *Router) Route(ctx context.Context, userId int64) Handler {
	mode, err := r.modes.GetMode(ctx, userId)
	if err != nil {
		r.log.With(sl.User(userId)).Error("reading mode, using chat", sl.Err(err))
		return r.chat
	}

	switch mode {
	case core.ModeImage:
		return r.image
	case core.ModeChat:
		return r.chat
	default:
		r.log.With(sl.User(userId), slog.String("mode", mode.String())).Warn("unknown mode, using chat")
		return r.chat
	}
}

func (r *Router) Handle(ctx context.Context, userId int64, text string) error {
	return r.Route(ctx, userId).Handle(ctx, userId, text)
}

// HandleCommand serves a bot command given without the leading slash.
func (r *Router) HandleCommand(ctx context.Context, userId int64, command string) error {
	switch strings.ToLower(command) {
	case "chat":
		return r.switchMode(ctx, userId, core.ModeChat, chatModeText)
	case "image":
		return r.switchMode(ctx, userId, core.ModeImage, imageModeText)
	case "clear":
		unlock, err := r.history.Lock(ctx, userId)
		if err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		r.history.Clear(userId)
		unlock()
		return r.messenger.SendText(userId, clearedText)
	default:
		return r.messenger.SendText(userId, helpText)
	}
}

func (r *Router) switchMode(ctx context.Context, userId int64, mode core.Mode, confirmation string) error {
	if err := r.modes.SetMode(ctx, userId, mode); err != nil {
		if sendErr := r.messenger.SendText(userId, modeErrorText); sendErr != nil {
			r.log.With(sl.User(userId)).Error("sending message", sl.Err(sendErr))
		}
		return fmt.Errorf("set mode %s: %w", mode, err)
	}
	r.log.With(sl.User(userId), slog.String("mode", mode.String())).Info("mode switched")
	return r.messenger.SendText(userId, confirmation)
}
