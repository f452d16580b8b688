package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"Duet/ai"
	"Duet/archive"
	"Duet/bot"
	"Duet/core"
	"Duet/dialog"
	"Duet/holder"
	"Duet/lib/sl"
	"Duet/storage"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	conf := core.MustLoad(*configPath)
	log := setupLogger(conf.Env)
	log.With(
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		slog.String("chat_model", conf.ChatModel),
		slog.String("image_model", conf.ImageModel),
		sl.Secret(conf.OpenAIApiKey),
	).Info("starting duet bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, conf, log)
	if err != nil {
		log.With(
			slog.String("driver", conf.Storage.Driver),
		).Error("falling back to memory", sl.Err(err))
		store = storage.NewMemoryStorage()
	} else {
		log.Info("mode storage ready", slog.String("driver", conf.Storage.Driver))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("closing storage", sl.Err(err))
		}
	}()

	var archiver core.Archiver
	if conf.Archive.Enabled {
		s3, err := archive.NewS3Archive(conf, log)
		if err != nil {
			log.Error("image archive disabled", sl.Err(err))
		} else {
			archiver = s3
		}
	}

	tgBot, err := bot.NewTgBot(conf, log)
	if err != nil {
		log.Error("creating telegram", sl.Err(err))
		return
	}

	client := ai.NewClient(conf)
	history := holder.NewContextManager(conf.HistoryLimit)
	log.Info("session history ready", slog.Int("limit", history.Limit()))

	if conf.TempDir != "" {
		if err := os.MkdirAll(conf.TempDir, 0o755); err != nil {
			log.With(slog.String("dir", conf.TempDir)).Error("creating image staging dir", sl.Err(err))
		}
	}

	chat := dialog.NewChatHandler(ai.NewChat(conf, client, log), history, tgBot, conf.SystemPrompt, log)
	image := dialog.NewImageHandler(
		ai.NewPainter(conf, client, log),
		ai.NewDownloader(conf.RequestTimeout),
		tgBot,
		archiver,
		conf.TempDir,
		log,
	)
	tgBot.SetRouter(dialog.NewRouter(store, history, tgBot, chat, image, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tgBot.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		tgBot.Stop()
		return nil
	})

	log.Info("bot started")

	if err := g.Wait(); err != nil {
		log.Error("bot stopped with error", sl.Err(err))
	}

	log.Info("shutdown complete")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal, envDev:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
