package dialog

import (
	"context"
	"errors"
	"testing"

	"Duet/core"
	"Duet/holder"
)

type routerFixture struct {
	router    *Router
	store     *fakeStore
	history   *holder.ContextManager
	messenger *fakeMessenger
	chat      *ChatHandler
	image     *ImageHandler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		store:     newFakeStore(),
		history:   holder.NewContextManager(20),
		messenger: &fakeMessenger{},
	}
	f.chat = NewChatHandler(&fakeCompleter{}, f.history, f.messenger, "sys", testLogger())
	f.image = NewImageHandler(
		&fakeGenerator{url: "https://cdn.example/x.png"},
		&fakeFetcher{content: []byte("png")},
		f.messenger, nil, t.TempDir(), testLogger(),
	)
	f.router = NewRouter(f.store, f.history, f.messenger, f.chat, f.image, testLogger())
	return f
}

func TestRoute_DefaultsToChat(t *testing.T) {
	f := newRouterFixture(t)
	if h := f.router.Route(context.Background(), 1); h != Handler(f.chat) {
		t.Fatalf("expected chat handler for new user, got %T", h)
	}
}

func TestRoute_Image(t *testing.T) {
	f := newRouterFixture(t)
	f.store.modes[1] = core.ModeImage
	h := f.router.Route(context.Background(), 1)
	if h != Handler(f.image) {
		t.Fatalf("expected image handler, got %T", h)
	}
	if h.Action() != ActionUploadPhoto {
		t.Fatalf("unexpected action %q", h.Action())
	}
}

func TestRoute_UnknownModeFallsBackToChat(t *testing.T) {
	f := newRouterFixture(t)
	f.store.modes[1] = core.Mode("video")
	if h := f.router.Route(context.Background(), 1); h != Handler(f.chat) {
		t.Fatalf("expected chat handler for corrupted mode, got %T", h)
	}
}

func TestRoute_StoreErrorFallsBackToChat(t *testing.T) {
	f := newRouterFixture(t)
	f.store.getErr = errors.New("db locked")
	if h := f.router.Route(context.Background(), 1); h != Handler(f.chat) {
		t.Fatalf("expected chat handler on store error, got %T", h)
	}
}

func TestHandle_DispatchesByMode(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	if err := f.router.Handle(ctx, 1, "hello"); err != nil {
		t.Fatal(err)
	}
	if f.history.Len(1) != 2 {
		t.Fatalf("chat mode must record the exchange, got %d turns", f.history.Len(1))
	}

	f.store.modes[1] = core.ModeImage
	if err := f.router.Handle(ctx, 1, "a red circle"); err != nil {
		t.Fatal(err)
	}
	if len(f.messenger.photos) != 1 {
		t.Fatalf("image mode must send a photo, got %d", len(f.messenger.photos))
	}
	if f.history.Len(1) != 2 {
		t.Fatal("image mode must not touch history")
	}
}

func TestHandleCommand_SwitchModes(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()

	if err := f.router.HandleCommand(ctx, 1, "image"); err != nil {
		t.Fatal(err)
	}
	if f.store.modes[1] != core.ModeImage {
		t.Fatalf("expected image mode, got %q", f.store.modes[1])
	}
	if !f.messenger.hasText(imageModeText) {
		t.Fatal("expected image confirmation")
	}

	if err := f.router.HandleCommand(ctx, 1, "chat"); err != nil {
		t.Fatal(err)
	}
	if f.store.modes[1] != core.ModeChat {
		t.Fatalf("expected chat mode, got %q", f.store.modes[1])
	}
	if !f.messenger.hasText(chatModeText) {
		t.Fatal("expected chat confirmation")
	}
}

func TestHandleCommand_SetModeFailure(t *testing.T) {
	f := newRouterFixture(t)
	f.store.setErr = errors.New("read-only")

	if err := f.router.HandleCommand(context.Background(), 1, "image"); err == nil {
		t.Fatal("expected error")
	}
	if !f.messenger.hasText(modeErrorText) {
		t.Fatalf("expected mode error message, got %q", f.messenger.sent())
	}
	if f.messenger.hasText(imageModeText) {
		t.Fatal("confirmation must not be sent on failure")
	}
}

func TestHandleCommand_StartAndUnknown(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	for _, cmd := range []string{"start", "help", "whatever"} {
		if err := f.router.HandleCommand(ctx, 1, cmd); err != nil {
			t.Fatal(err)
		}
	}
	for i, s := range f.messenger.sent() {
		if s != helpText {
			t.Errorf("message %d: expected help text, got %q", i, s)
		}
	}
	if len(f.store.modes) != 0 {
		t.Fatal("help must not store a mode")
	}
}

func TestHandleCommand_Clear(t *testing.T) {
	f := newRouterFixture(t)
	f.store.modes[1] = core.ModeImage
	f.history.Append(1, core.RoleUser, "q")
	f.history.Append(1, core.RoleAssistant, "a")

	if err := f.router.HandleCommand(context.Background(), 1, "clear"); err != nil {
		t.Fatal(err)
	}
	if f.history.Len(1) != 0 {
		t.Fatal("expected empty history")
	}
	if f.store.modes[1] != core.ModeImage {
		t.Fatal("clear must not change the mode")
	}
	if !f.messenger.hasText(clearedText) {
		t.Fatal("expected confirmation")
	}
}
