package dialog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"Duet/core"
	"Duet/lib/sl"
)

type ImageHandler struct {
	generator core.ImageGenerator
	fetcher   core.AssetFetcher
	messenger core.Messenger
	archiver  core.Archiver
	tempDir   string
	log       *slog.Logger
}

// NewImageHandler stages downloads in tempDir (os.TempDir when empty), creating
// it on first use. archiver may be nil.
func NewImageHandler(
	generator core.ImageGenerator,
	fetcher core.AssetFetcher,
	messenger core.Messenger,
	archiver core.Archiver,
	tempDir string,
	log *slog.Logger,
) *ImageHandler {
	return &ImageHandler{
		generator: generator,
		fetcher:   fetcher,
		messenger: messenger,
		archiver:  archiver,
		tempDir:   tempDir,
		log:       log.With(sl.Module("image")),
	}
}

func (h *ImageHandler) Action() string {
	return ActionUploadPhoto
}

func (h *ImageHandler) Handle(ctx context.Context, userId int64, prompt string) error {
	h.notify(userId, imageAckText)

	url, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		h.log.With(sl.User(userId), failureReason(err)).Warn("image generation failed")
		h.notify(userId, imageGenErrorText)
		return fmt.Errorf("generating image: %w", err)
	}

	file, err := h.stage(userId)
	if err != nil {
		h.notify(userId, imageStageErrorText)
		return fmt.Errorf("staging image: %w", err)
	}
	path := file.Name()
	defer h.remove(path)

	fetchErr := h.fetcher.Fetch(ctx, url, file)
	closeErr := file.Close()
	if fetchErr != nil {
		h.log.With(sl.User(userId), failureReason(fetchErr)).Warn("image download failed")
		h.notify(userId, imageDownloadErrorText)
		return fmt.Errorf("downloading image: %w", fetchErr)
	}
	if closeErr != nil {
		h.notify(userId, imageStageErrorText)
		return fmt.Errorf("staging image: %w", closeErr)
	}

	if err := h.messenger.SendPhoto(userId, path); err != nil {
		h.notify(userId, imageSendErrorText)
		return fmt.Errorf("sending image: %w", err)
	}

	h.log.With(sl.User(userId), sl.Text(prompt)).Info("image delivered")

	if h.archiver != nil {
		if err := h.archiver.Archive(ctx, userId, path); err != nil {
			h.log.With(sl.User(userId)).Warn("archiving image", sl.Err(err))
		}
	}
	return nil
}

func (h *ImageHandler) stage(userId int64) (*os.File, error) {
	if h.tempDir != "" {
		if err := os.MkdirAll(h.tempDir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.CreateTemp(h.tempDir, fmt.Sprintf("image-%d-*.png", userId))
}

func (h *ImageHandler) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		h.log.With(slog.String("path", path)).Error("removing staged image", sl.Err(err))
	}
}

func (h *ImageHandler) notify(userId int64, text string) {
	if err := h.messenger.SendText(userId, text); err != nil {
		h.log.With(sl.User(userId)).Error("sending message", sl.Err(err))
	}
}
