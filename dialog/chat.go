package dialog

import (
	"context"
	"fmt"
	"log/slog"

	"Duet/core"
	"Duet/holder"
	"Duet/lib/sl"
)

type ChatHandler struct {
	completer core.TextCompleter
	history   *holder.ContextManager
	messenger core.Messenger
	system    string
	log       *slog.Logger
}

func NewChatHandler(
	completer core.TextCompleter,
	history *holder.ContextManager,
	messenger core.Messenger,
	system string,
	log *slog.Logger,
) *ChatHandler {
	return &ChatHandler{
		completer: completer,
		history:   history,
		messenger: messenger,
		system:    system,
		log:       log.With(sl.Module("chat")),
	}
}

func (h *ChatHandler) Action() string {
	return ActionTyping
}

func (h *ChatHandler) Handle(ctx context.Context, userId int64, text string) error {
	h.notify(userId, chatAckText)

	reply, reset, err := h.Reply(ctx, userId, text)
	if err != nil {
		h.log.With(sl.User(userId), failureReason(err)).Warn("chat completion failed")
		h.notify(userId, chatErrorText)
		return fmt.Errorf("chat reply: %w", err)
	}

	if err := h.messenger.SendText(userId, reply); err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	if reset {
		h.notify(userId, resetText)
	}
	return nil
}

// Reply runs one exchange inside the user's critical section. History gets
// the user and assistant turns only when the completion succeeded.
func (h *ChatHandler) Reply(ctx context.Context, userId int64, text string) (string, bool, error) {
	unlock, err := h.history.Lock(ctx, userId)
	if err != nil {
		return "", false, err
	}
	defer unlock()

	prior := h.history.Get(userId)
	turns := make([]core.Turn, 0, len(prior)+2)
	if h.system != "" {
		turns = append(turns, core.Turn{Role: core.RoleSystem, Content: h.system})
	}
	turns = append(turns, prior...)
	turns = append(turns, core.Turn{Role: core.RoleUser, Content: text})

	reply, err := h.completer.Complete(ctx, turns)
	if err != nil {
		return "", false, err
	}

	h.history.Append(userId, core.RoleUser, text)
	h.history.Append(userId, core.RoleAssistant, reply)
	reset := h.history.MaybeReset(userId)

	h.log.With(
		sl.User(userId),
		sl.Text(reply),
		slog.Int("context", len(prior)),
		slog.Bool("reset", reset),
	).Info("outgoing message")

	return reply, reset, nil
}

func (h *ChatHandler) notify(userId int64, text string) {
	if err := h.messenger.SendText(userId, text); err != nil {
		h.log.With(sl.User(userId)).Error("sending message", sl.Err(err))
	}
}
