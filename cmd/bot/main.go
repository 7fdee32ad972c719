package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"feerBot/internal/app/events"
	"feerBot/internal/domain"
	"feerBot/internal/infrastructure/config"
	"feerBot/internal/infrastructure/persistence/sqlite"
	twitchinfra "feerBot/internal/infrastructure/platform/twitch"
	kickadapter "feerBot/internal/interface/adapters/kick"
	twitchadapter "feerBot/internal/interface/adapters/twitch"
	"feerBot/internal/interface/outs"
	"feerBot/internal/interface/overlay"
	"feerBot/internal/usecase/commands"
	"feerBot/internal/usecase/credentials"
	"feerBot/internal/usecase/games"
	"feerBot/internal/usecase/handle_message"
	"feerBot/internal/usecase/moderation"
	"feerBot/internal/usecase/notifications"
)

const (
	roleTwitchAPI = "api"
	roleKickBot   = "bot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, _ := config.Load()

	if c.TwitchUsername == "" || c.TwitchToken == "" {
		log.Fatal("TWITCH_BOT_USERNAME o TWITCH_BOT_ACCESS_TOKEN no configurados")
	}

	// ---------- 1) Credenciales (sqlite + refresco periódico) ----------

	store, err := sqlite.NewCredentialStore(c.SQLitePath)
	if err != nil {
		log.Fatalf("error abriendo sqlite: %v", err)
	}
	defer store.Close()

	credMgr := credentials.NewManager(store,
		credentials.TwitchConfig{
			ClientID:     c.TwitchClientID,
			ClientSecret: c.TwitchClientSecret,
		},
		credentials.KickConfig{
			ClientID:     c.KickClientID,
			ClientSecret: c.KickClientSecret,
			RedirectURI:  c.KickRedirectURI,
		},
	)
	credMgr.Start(ctx, c.RefreshInterval)

	// ---------- 2) Cliente de overlay ----------

	overlayCli := overlay.NewClient(c.OverlayURL)
	go func() {
		if err := overlayCli.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("overlay client error: %v", err)
		}
	}()
	defer overlayCli.Close()

	// ---------- 3) Moderación vía Helix ----------

	apiToken := credMgr.ValidToken(ctx, domain.PlatformTwitch, roleTwitchAPI)
	if apiToken == "" {
		apiToken = c.TwitchToken
	}
	twitchMod, err := twitchinfra.NewModeration(c.TwitchClientID, apiToken)
	if err != nil {
		log.Fatalf("error creando moderación de Twitch: %v", err)
	}
	if err := twitchMod.ResolveIDs(ctx, c.TwitchBroadcaster, c.TwitchUsername); err != nil {
		log.Printf("moderación: no pude resolver IDs (los timeouts fallarán): %v", err)
	}

	modResolver := moderation.NewResolver()
	modResolver.Set(domain.PlatformTwitch, twitchMod)

	// ---------- 4) Bus y juegos ----------

	bus := events.NewBus()
	sink := func(ev games.Event) {
		bus.Publish(events.TopicGameEvent, events.NewGameEventDTO(ev.Game, ev.Kind, ev.User, ev.Value))
	}

	counting := games.NewCountingGame(games.CountingConfig{
		Overlay:    overlayCli,
		Moderator:  modResolver,
		Penalty:    games.Penalty{},
		DeniedBots: c.DeniedBots,
		Events:     sink,
	})

	multiOut := outs.NewMultiSender()

	streak := games.NewStreakGame(games.StreakConfig{
		Out:        multiOut,
		Moderator:  modResolver,
		Penalty:    games.Penalty{Epsilon: 1},
		Phrases:    c.StreakPhrases,
		Minimum:    c.StreakMinimum,
		DeniedBots: c.DeniedBots,
		Events:     sink,
	})

	challenge := games.NewChallengeGame(games.ChallengeConfig{
		Out:        multiOut,
		Moderator:  modResolver,
		Penalty:    games.Penalty{Epsilon: 1},
		King:       c.KingUsername,
		Duration:   c.ChallengeWindow,
		DeniedBots: c.DeniedBots,
		Events:     sink,
	})

	quickchat := games.NewQuickChatGame(overlayCli)

	sentiment := games.NewSentimentGame(games.SentimentConfig{
		Overlay:  overlayCli,
		Increase: c.SentimentUp,
		Decrease: c.SentimentDown,
		Cooldown: c.SentimentCooldown,
		Events:   sink,
	})

	dispatcher := games.NewDispatcher(counting, streak, challenge, quickchat, sentiment)

	// El overlay del rey muestra quién manda desde el arranque.
	if kingFrame, err := json.Marshal(map[string]string{"king": c.KingUsername}); err == nil {
		if err := overlayCli.Send(string(kingFrame)); err != nil {
			log.Printf("overlay: no pude anunciar al rey: %v", err)
		}
	}

	// ---------- 5) Router de comandos ----------

	router := commands.NewRouter(c.CommandPrefix)
	router.Register(commands.NewPingCommand())
	router.Register(commands.NewRecordCommand(counting))
	router.Register(commands.NewKingCommand(challenge))
	router.Register(commands.NewPrayCommand(challenge))
	router.Register(commands.NewPolishCommand(challenge))
	router.Register(commands.NewTypeCommand(challenge))
	router.Register(commands.NewBanishCommand(c.KingUsername, twitchMod, modResolver))

	// ---------- 6) Adapters de chat ----------

	twitchAd := twitchadapter.NewAdapter(twitchadapter.Config{
		Username:   c.TwitchUsername,
		OAuthToken: c.TwitchToken,
		Channels:   c.TwitchChannels,
	})

	kickToken := credMgr.ValidToken(ctx, domain.PlatformKick, roleKickBot)
	if kickToken == "" {
		kickToken = c.KickBotToken
	}
	kickAd := kickadapter.NewAdapter(kickadapter.Config{
		AccessToken:       kickToken,
		BotUsername:       c.TwitchUsername,
		BroadcasterUserID: c.KickBroadcasterUserID,
		ChatroomID:        c.KickChatroomID,
	})

	multiOut.Register(domain.PlatformTwitch, twitchAd)
	multiOut.Register(domain.PlatformKick, kickAd)

	// Tokens renovados llegan a quien los usa sin reiniciar el bot.
	credMgr.RegisterHook(func(_ context.Context, cred *domain.Credential) {
		switch {
		case cred.Platform == domain.PlatformTwitch && cred.Role == roleTwitchAPI:
			twitchMod.UpdateAccessToken(cred.AccessToken)
		case cred.Platform == domain.PlatformKick && cred.Role == roleKickBot:
			kickAd.UpdateAccessToken(cred.AccessToken)
		}
	})

	uc := handle_message.NewInteractor(multiOut, dispatcher, router, bus)

	twitchAd.SetHandler(uc.Handle)
	kickAd.SetHandler(uc.Handle)

	// ---------- 7) Arranque ----------

	go notifications.NewEventLogger(bus).Run(ctx)

	log.Println("Iniciando bot...")

	go func() {
		if err := twitchAd.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("twitch adapter error: %v", err)
		}
	}()

	if c.KickChatroomID != 0 {
		go func() {
			if err := kickAd.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("kick adapter error: %v", err)
			}
		}()
	}

	<-ctx.Done()

	log.Println("Bot apagado.")
}
