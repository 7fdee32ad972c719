package moderation

import (
	"context"
	"log"
	"sync"
	"time"

	"feerBot/internal/domain"
)

// Resolver enruta cada timeout al moderador de su plataforma. Si una
// plataforma no tiene moderador configurado, la acción se salta con un log
// en vez de fallar: un castigo perdido es mejor que un juego roto.
type Resolver struct {
	mu   sync.RWMutex
	mods map[domain.Platform]domain.Moderator
}

func NewResolver() *Resolver {
	return &Resolver{mods: make(map[domain.Platform]domain.Moderator)}
}

func (r *Resolver) Set(platform domain.Platform, mod domain.Moderator) {
	if r == nil || mod == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods[platform] = mod
}

func (r *Resolver) Timeout(ctx context.Context, platform domain.Platform, userID string, duration time.Duration, reason string) error {
	r.mu.RLock()
	mod, ok := r.mods[platform]
	r.mu.RUnlock()

	if !ok {
		log.Printf("moderation: no moderator for %s, skipping timeout of %s", platform, userID)
		return nil
	}
	return mod.Timeout(ctx, platform, userID, duration, reason)
}

var _ domain.Moderator = (*Resolver)(nil)
