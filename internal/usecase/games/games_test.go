package games

import (
	"context"
	"errors"
	"sync"
	"time"

	"feerBot/internal/domain"
)

// overlayRecorder captura los frames enviados al overlay.
type overlayRecorder struct {
	mu     sync.Mutex
	frames []string
	fail   bool
}

func (o *overlayRecorder) Send(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return errors.New("overlay down")
	}
	o.frames = append(o.frames, text)
	return nil
}

func (o *overlayRecorder) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.frames...)
}

type timeoutCall struct {
	userID   string
	duration time.Duration
	reason   string
}

// moderatorRecorder captura las llamadas de moderación.
type moderatorRecorder struct {
	mu    sync.Mutex
	calls []timeoutCall
	err   error
}

func (m *moderatorRecorder) Timeout(_ context.Context, _ domain.Platform, userID string, duration time.Duration, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, timeoutCall{userID: userID, duration: duration, reason: reason})
	return nil
}

func (m *moderatorRecorder) all() []timeoutCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]timeoutCall(nil), m.calls...)
}

// outRecorder captura las respuestas enviadas al chat.
type outRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (o *outRecorder) SendMessage(_ context.Context, _ domain.Platform, _ string, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, text)
	return nil
}

func (o *outRecorder) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

func chat(user, text string) domain.Message {
	return domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: "#feer",
		UserID:    "id-" + user,
		Username:  user,
		Text:      text,
	}
}
