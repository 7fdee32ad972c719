package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"feerBot/internal/infrastructure/config"
	"feerBot/internal/interface/api/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, _ := config.Load()

	hub := ws.NewHub(c.OverlayHubAddr)

	log.Printf("Iniciando overlay hub en %s...", c.OverlayHubAddr)

	if err := hub.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("overlay hub: %v", err)
	}

	log.Println("Overlay hub apagado.")
}
