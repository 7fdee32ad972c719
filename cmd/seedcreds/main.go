// seedcreds carga en sqlite las credenciales iniciales obtenidas a mano en el
// flujo OAuth del navegador. SOLO PARA DESARROLLO: el bot solo refresca, nunca
// pide autorización nueva.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"feerBot/internal/domain"
	"feerBot/internal/infrastructure/config"
	"feerBot/internal/infrastructure/persistence/sqlite"
)

func main() {
	var (
		platform     = flag.String("platform", "twitch", "twitch o kick")
		role         = flag.String("role", "api", "rol de la credencial (api, bot)")
		accessToken  = flag.String("access-token", "", "access token inicial")
		refreshToken = flag.String("refresh-token", "", "refresh token inicial")
		expiresIn    = flag.Int("expires-in", 3600, "segundos hasta expirar")
	)
	flag.Parse()

	if *accessToken == "" {
		log.Fatal("falta -access-token")
	}

	c, _ := config.Load()

	store, err := sqlite.NewCredentialStore(c.SQLitePath)
	if err != nil {
		log.Fatalf("error abriendo sqlite: %v", err)
	}
	defer store.Close()

	now := time.Now()
	cred := &domain.Credential{
		Platform:     domain.Platform(*platform),
		Role:         *role,
		AccessToken:  *accessToken,
		RefreshToken: *refreshToken,
		ExpiresAt:    now.Add(time.Duration(*expiresIn) * time.Second),
		UpdatedAt:    now,
	}

	if err := store.Save(context.Background(), cred); err != nil {
		log.Fatalf("error guardando credencial: %v", err)
	}

	log.Printf("credencial %s/%s guardada en %s", cred.Platform, cred.Role, c.SQLitePath)
}
