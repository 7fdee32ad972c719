package games

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func newCountingFixture() (*CountingGame, *overlayRecorder, *moderatorRecorder) {
	overlay := &overlayRecorder{}
	mod := &moderatorRecorder{}
	game := NewCountingGame(CountingConfig{
		Overlay:    overlay,
		Moderator:  mod,
		Penalty:    Penalty{},
		DeniedBots: []string{"Nightbot"},
	})
	return game, overlay, mod
}

func TestCountingSequence(t *testing.T) {
	game, overlay, mod := newCountingFixture()
	ctx := context.Background()

	const n = 12
	for i := 1; i <= n; i++ {
		user := fmt.Sprintf("user%d", i)
		if err := game.HandleMessage(ctx, chat(user, fmt.Sprintf("%d", i))); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
	}

	if got := game.Record(); got != n {
		t.Errorf("record = %d, want %d", got, n)
	}
	if got := game.Count(); got != n {
		t.Errorf("count = %d, want %d", got, n)
	}
	game.mu.Lock()
	expected := game.expectedNumber
	game.mu.Unlock()
	if expected != n+1 {
		t.Errorf("expected number = %d, want %d", expected, n+1)
	}

	frames := overlay.all()
	if len(frames) != n {
		t.Fatalf("overlay frames = %d, want %d", len(frames), n)
	}
	// cada número nuevo es récord en una partida limpia
	if frames[n-1] != fmt.Sprintf("COUNT:%d:user%d:%d:1", n, n, n) {
		t.Errorf("last frame = %q", frames[n-1])
	}
	if calls := mod.all(); len(calls) != 0 {
		t.Errorf("timeouts = %d, want 0", len(calls))
	}
}

func TestCountingRepeatUserResets(t *testing.T) {
	game, overlay, mod := newCountingFixture()
	ctx := context.Background()

	if err := game.HandleMessage(ctx, chat("alice", "1")); err != nil {
		t.Fatal(err)
	}
	// el mismo usuario con el número correcto: camino "ya contó", no "correcto"
	if err := game.HandleMessage(ctx, chat("alice", "2")); err != nil {
		t.Fatal(err)
	}

	if got := game.Count(); got != 0 {
		t.Errorf("count after repeat = %d, want 0", got)
	}
	if got := game.Record(); got != 1 {
		t.Errorf("record = %d, want 1", got)
	}

	frames := overlay.all()
	if len(frames) != 2 || frames[1] != "COUNT:0:alice:1:0" {
		t.Fatalf("frames = %v", frames)
	}

	calls := mod.all()
	if len(calls) != 1 {
		t.Fatalf("timeouts = %d, want 1", len(calls))
	}
	if calls[0].reason != "Counting again in the same streak" {
		t.Errorf("reason = %q", calls[0].reason)
	}
	// penalti calculado con la cuenta previa al reset (1): 7.5*2 = 15s
	if calls[0].duration != 15*time.Second {
		t.Errorf("duration = %s, want 15s", calls[0].duration)
	}
}

func TestCountingWrongNumber(t *testing.T) {
	game, overlay, mod := newCountingFixture()
	ctx := context.Background()

	for i, user := range []string{"a", "b", "c"} {
		if err := game.HandleMessage(ctx, chat(user, fmt.Sprintf("%d", i+1))); err != nil {
			t.Fatal(err)
		}
	}
	if err := game.HandleMessage(ctx, chat("d", "7")); err != nil {
		t.Fatal(err)
	}

	if got := game.Count(); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
	if got := game.Record(); got != 3 {
		t.Errorf("record = %d, want 3 (monotónico, sobrevive al reset)", got)
	}

	frames := overlay.all()
	if frames[len(frames)-1] != "COUNT:0:d:3:0" {
		t.Errorf("reset frame = %q", frames[len(frames)-1])
	}

	calls := mod.all()
	if len(calls) != 1 {
		t.Fatalf("timeouts = %d, want 1", len(calls))
	}
	// expected era 4; el penalti se calcula desde expected-1 = 3: 7.5*8 = 60s
	if calls[0].duration != 60*time.Second {
		t.Errorf("duration = %s, want 60s", calls[0].duration)
	}
	if calls[0].reason != "Wrong number (7). Expected (4)" {
		t.Errorf("reason = %q", calls[0].reason)
	}
}

func TestCountingIgnoresNonNumbers(t *testing.T) {
	game, overlay, mod := newCountingFixture()
	ctx := context.Background()

	if err := game.HandleMessage(ctx, chat("a", "1")); err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"gg 5", "5 ", " 5", "-5", "+2", "2.0", "", "dos", "2two"} {
		if err := game.HandleMessage(ctx, chat("b", text)); err != nil {
			t.Fatalf("%q: %v", text, err)
		}
	}

	if got := game.Count(); got != 1 {
		t.Errorf("count = %d, want 1 (estado intacto)", got)
	}
	if len(overlay.all()) != 1 {
		t.Errorf("frames = %v, want only the accept", overlay.all())
	}
	if len(mod.all()) != 0 {
		t.Errorf("timeouts = %v, want none", mod.all())
	}
}

func TestCountingIgnoresEchoAndDeniedBots(t *testing.T) {
	game, overlay, _ := newCountingFixture()
	ctx := context.Background()

	echo := chat("feerbot", "1")
	echo.IsEcho = true
	if err := game.HandleMessage(ctx, echo); err != nil {
		t.Fatal(err)
	}
	if err := game.HandleMessage(ctx, chat("Nightbot", "1")); err != nil {
		t.Fatal(err)
	}

	if got := game.Count(); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
	if len(overlay.all()) != 0 {
		t.Errorf("frames = %v, want none", overlay.all())
	}
}

func TestCountingOverlayFailureDoesNotPropagate(t *testing.T) {
	overlay := &overlayRecorder{fail: true}
	game := NewCountingGame(CountingConfig{Overlay: overlay, Penalty: Penalty{}})

	if err := game.HandleMessage(context.Background(), chat("a", "1")); err != nil {
		t.Fatalf("overlay failure must be swallowed, got %v", err)
	}
	if got := game.Count(); got != 1 {
		t.Errorf("count = %d, want 1 (el estado avanza aunque el overlay falle)", got)
	}
}

func TestIsBareNumber(t *testing.T) {
	valid := []string{"1", "42", "007", "123456"}
	for _, s := range valid {
		if !isBareNumber(s) {
			t.Errorf("isBareNumber(%q) = false, want true", s)
		}
	}
	invalid := []string{"", " 1", "1 ", "-1", "+1", "1.0", "1e3", "one", "1!"}
	for _, s := range invalid {
		if isBareNumber(s) {
			t.Errorf("isBareNumber(%q) = true, want false", s)
		}
	}
}
