package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"Duet/core"
	"Duet/dialog"
	"Duet/lib/sl"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const (
	pollTimeout      = 60
	chatActionPeriod = 5 * time.Second
	shutdownGrace    = 30 * time.Second
)

type TgBot struct {
	api    *tgbotapi.BotAPI
	router *dialog.Router
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	stop   chan struct{}
	once   sync.Once
	queue  *userQueue
}

func NewTgBot(conf *core.Config, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBotAPI(conf.TelegramApiKey)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	tgBot := &TgBot{
		api:    api,
		log:    log.With(sl.Module("tgbot")),
		ctx:    ctx,
		cancel: cancel,
		stop:   make(chan struct{}),
	}
	tgBot.queue = newUserQueue(tgBot.dispatch)
	tgBot.log.Info("authorized", slog.String("username", api.Self.UserName))
	return tgBot, nil
}

// SetRouter set message router
func (t *TgBot) SetRouter(router *dialog.Router) {
	t.router = router
}

// Start polls for updates until Stop is called. Updates of one user are
// handled in arrival order, different users concurrently.
func (t *TgBot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout

	updates, err := t.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("getting updates: %w", err)
	}

	for {
		select {
		case <-t.stop:
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			in, ok := parseUpdate(update)
			if !ok {
				continue
			}
			if !t.queue.Push(in) {
				return nil
			}
		}
	}
}

// Stop ends polling and waits for in-flight handlers; those still running
// after the grace period get their context cancelled.
func (t *TgBot) Stop() {
	t.once.Do(func() {
		t.api.StopReceivingUpdates()
		close(t.stop)
		t.queue.Close()
	})

	done := make(chan struct{})
	go func() {
		t.queue.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		t.log.Warn("cancelling in-flight handlers")
		t.cancel()
		<-done
	}
	t.cancel()
}

func (t *TgBot) dispatch(in inbound) {
	log := t.log.With(sl.User(in.userId))

	if in.command != "" {
		log.Info("incoming command", slog.String("command", in.command))
		if err := t.router.HandleCommand(t.ctx, in.userId, in.command); err != nil {
			log.Error("handling command", sl.Err(err))
		}
		return
	}

	log.Info("incoming message", sl.Text(in.text))

	handler := t.router.Route(t.ctx, in.userId)
	stopAction := t.keepChatAction(in.userId, handler.Action())
	defer stopAction()

	if err := handler.Handle(t.ctx, in.userId, in.text); err != nil {
		log.Error("handling message", sl.Err(err))
	}
}

// keepChatAction repeats the chat action until the returned func is called
func (t *TgBot) keepChatAction(chatId int64, action string) func() {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(chatActionPeriod)
		defer ticker.Stop()

		t.SendAction(chatId, action)
		for {
			select {
			case <-ticker.C:
				t.SendAction(chatId, action)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func (t *TgBot) SendAction(chatId int64, action string) {
	if _, err := t.api.Send(tgbotapi.NewChatAction(chatId, action)); err != nil {
		t.log.With(sl.User(chatId)).Debug("sending chat action", sl.Err(err))
	}
}

// SendText delivers text, split into several messages when it exceeds
// the Telegram limit.
func (t *TgBot) SendText(chatId int64, text string) error {
	for _, part := range splitMessage(text, maxMessageLength) {
		if _, err := t.api.Send(tgbotapi.NewMessage(chatId, part)); err != nil {
			return fmt.Errorf("sending message: %w", err)
		}
	}
	return nil
}

func (t *TgBot) SendPhoto(chatId int64, path string) error {
	if _, err := t.api.Send(tgbotapi.NewPhotoUpload(chatId, path)); err != nil {
		return fmt.Errorf("sending photo: %w", err)
	}
	return nil
}
