package games

import (
	"context"
	"strings"
	"testing"
	"time"

	"feerBot/internal/domain"
)

func newChallengeFixture(duration time.Duration) (*ChallengeGame, *outRecorder, *moderatorRecorder) {
	out := &outRecorder{}
	mod := &moderatorRecorder{}
	game := NewChallengeGame(ChallengeConfig{
		Out:       out,
		Moderator: mod,
		Penalty:   Penalty{Epsilon: 1},
		King:      "itsjorge_",
		Duration:  duration,
	})
	return game, out, mod
}

var prayMode = ModeSpec{
	Kind:       "pray",
	Prefix:     "Pray",
	DoneFormat: "Pray session complete! Highest streak: %d",
}

func TestChallengeOnlyOneModeActive(t *testing.T) {
	game, _, _ := newChallengeFixture(time.Minute)
	ctx := context.Background()

	if !game.StartMode(ctx, domain.PlatformTwitch, "#feer", prayMode) {
		t.Fatal("first StartMode = false, want true")
	}
	if game.StartMode(ctx, domain.PlatformTwitch, "#feer", ModeSpec{Kind: "polish", Prefix: "POLISH", DoneFormat: "Polishing session complete! Highest streak: %d"}) {
		t.Fatal("second StartMode = true, want rejected while another mode is active")
	}
	if got := game.ActiveMode(); got != "pray" {
		t.Errorf("ActiveMode = %q, want pray", got)
	}
}

func TestChallengeStreakAndBreak(t *testing.T) {
	game, out, mod := newChallengeFixture(time.Minute)
	ctx := context.Background()

	game.StartMode(ctx, domain.PlatformTwitch, "#feer", prayMode)

	for _, user := range []string{"a", "b", "c"} {
		if err := game.HandleMessage(ctx, chat(user, "Pray")); err != nil {
			t.Fatal(err)
		}
	}
	if err := game.HandleMessage(ctx, chat("d", "lol")); err != nil {
		t.Fatal(err)
	}

	// el modo sigue activo: solo el timer lo termina
	if got := game.ActiveMode(); got != "pray" {
		t.Errorf("ActiveMode after break = %q, want pray", got)
	}

	calls := mod.all()
	if len(calls) != 1 {
		t.Fatalf("timeouts = %d, want 1", len(calls))
	}
	// racha rota de 3 con epsilon 1: 61s
	if calls[0].duration != 61*time.Second {
		t.Errorf("duration = %s, want 61s", calls[0].duration)
	}
	if calls[0].reason != "Broke pray streak of 3" {
		t.Errorf("reason = %q", calls[0].reason)
	}
	if lines := out.all(); len(lines) != 1 || !strings.Contains(lines[0], "BANNED @d") {
		t.Errorf("announcements = %v", lines)
	}

	// la racha vuelve a cero pero el high de la sesión se conserva
	if err := game.HandleMessage(ctx, chat("e", "Pray")); err != nil {
		t.Fatal(err)
	}
	game.mu.Lock()
	streak, high := game.active.streak, game.active.high
	game.mu.Unlock()
	if streak != 1 || high != 3 {
		t.Errorf("streak/high = %d/%d, want 1/3", streak, high)
	}
}

func TestChallengeIgnoresKingModsAndEcho(t *testing.T) {
	game, _, mod := newChallengeFixture(time.Minute)
	ctx := context.Background()

	game.StartMode(ctx, domain.PlatformTwitch, "#feer", prayMode)

	king := chat("itsjorge_", "whatever")
	if err := game.HandleMessage(ctx, king); err != nil {
		t.Fatal(err)
	}
	modMsg := chat("moderator", "whatever")
	modMsg.IsPlatformMod = true
	if err := game.HandleMessage(ctx, modMsg); err != nil {
		t.Fatal(err)
	}
	echo := chat("feerbot", "whatever")
	echo.IsEcho = true
	if err := game.HandleMessage(ctx, echo); err != nil {
		t.Fatal(err)
	}

	if len(mod.all()) != 0 {
		t.Errorf("timeouts = %v, want none", mod.all())
	}
}

func TestChallengeTimerExpiry(t *testing.T) {
	game, out, _ := newChallengeFixture(30 * time.Millisecond)
	ctx := context.Background()

	game.StartMode(ctx, domain.PlatformTwitch, "#feer", prayMode)
	for _, user := range []string{"a", "b"} {
		if err := game.HandleMessage(ctx, chat(user, "Pray")); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for game.ActiveMode() != "" {
		if time.Now().After(deadline) {
			t.Fatal("mode never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}

	lines := out.all()
	if len(lines) == 0 || lines[len(lines)-1] != "Pray session complete! Highest streak: 2" {
		t.Errorf("expiry announcement = %v", lines)
	}

	// mensajes tras el cierre no hacen nada
	if err := game.HandleMessage(ctx, chat("c", "nope")); err != nil {
		t.Fatal(err)
	}

	// y se puede arrancar un modo nuevo
	if !game.StartMode(ctx, domain.PlatformTwitch, "#feer", prayMode) {
		t.Error("StartMode after expiry = false, want true")
	}
}

func TestQuickChatRelay(t *testing.T) {
	overlay := &overlayRecorder{}
	game := NewQuickChatGame(overlay)
	ctx := context.Background()

	if err := game.HandleMessage(ctx, chat("a", "what a save!")); err != nil {
		t.Fatal(err)
	}
	if err := game.HandleMessage(ctx, chat("b", "not a quick chat")); err != nil {
		t.Fatal(err)
	}

	frames := overlay.all()
	if len(frames) != 1 {
		t.Fatalf("frames = %v, want 1", frames)
	}
	if !strings.Contains(frames[0], "What a save!") || !strings.Contains(frames[0], `class="username"`) {
		t.Errorf("frame = %q", frames[0])
	}
}

func TestNormalizeQuickChat(t *testing.T) {
	cases := map[string]string{
		"What a save!":           "whatasave",
		"  WHAT A SAVE  ":        "whatasave",
		"This is Rocket League!": "thisisrocketleague",
		"One. More. Game.":       "onemoregame",
		"$H@%!":                  "h",
	}
	for in, want := range cases {
		if got := normalizeQuickChat(in); got != want {
			t.Errorf("normalizeQuickChat(%q) = %q, want %q", in, got, want)
		}
	}
}
