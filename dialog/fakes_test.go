package dialog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"Duet/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger() (*slog.Logger, *lockedBuffer) {
	buf := &lockedBuffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

type sentPhoto struct {
	userId  int64
	path    string
	content []byte
	existed bool
}

type fakeMessenger struct {
	mu       sync.Mutex
	texts    []string
	photos   []sentPhoto
	photoErr error
}

func (m *fakeMessenger) SendText(_ int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return nil
}

func (m *fakeMessenger) SendPhoto(userId int64, path string) error {
	content, err := os.ReadFile(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos = append(m.photos, sentPhoto{userId: userId, path: path, content: content, existed: err == nil})
	return m.photoErr
}

func (m *fakeMessenger) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.texts))
	copy(out, m.texts)
	return out
}

func (m *fakeMessenger) hasText(text string) bool {
	for _, s := range m.sent() {
		if s == text {
			return true
		}
	}
	return false
}

type fakeCompleter struct {
	mu       sync.Mutex
	requests [][]core.Turn
	reply    func(turns []core.Turn) (string, error)
}

func (c *fakeCompleter) Complete(_ context.Context, turns []core.Turn) (string, error) {
	c.mu.Lock()
	cp := make([]core.Turn, len(turns))
	copy(cp, turns)
	c.requests = append(c.requests, cp)
	c.mu.Unlock()
	if c.reply == nil {
		return "answer", nil
	}
	return c.reply(turns)
}

type fakeStore struct {
	mu     sync.Mutex
	modes  map[int64]core.Mode
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{modes: make(map[int64]core.Mode)}
}

func (s *fakeStore) GetMode(_ context.Context, userId int64) (core.Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	if mode, ok := s.modes[userId]; ok {
		return mode, nil
	}
	return core.DefaultMode, nil
}

func (s *fakeStore) SetMode(_ context.Context, userId int64, mode core.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.modes[userId] = mode
	return nil
}

type fakeGenerator struct {
	prompts []string
	url     string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.url, g.err
}

type fakeFetcher struct {
	urls    []string
	content []byte
	err     error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, w io.Writer) error {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return f.err
	}
	_, err := w.Write(f.content)
	return err
}

type fakeArchiver struct {
	contents [][]byte
	err      error
}

func (a *fakeArchiver) Archive(_ context.Context, _ int64, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.New("staged file missing")
	}
	a.contents = append(a.contents, content)
	return a.err
}
