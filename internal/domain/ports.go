package domain

import (
	"context"
	"time"
)

type OutgoingMessagePort interface {
	SendMessage(ctx context.Context, platform Platform, channelID, text string) error
}

// OverlaySender entrega frames de texto al hub del overlay. Best-effort:
// un frame perdido durante una reconexión se acepta como pérdida.
type OverlaySender interface {
	Send(text string) error
}

// Moderator aplica un timeout de moderación sobre un usuario.
type Moderator interface {
	Timeout(ctx context.Context, platform Platform, userID string, duration time.Duration, reason string) error
}

// CredentialRepository persiste credenciales por (plataforma, rol).
type CredentialRepository interface {
	Get(ctx context.Context, platform Platform, role string) (*Credential, error)
	Save(ctx context.Context, cred *Credential) error
	List(ctx context.Context) ([]*Credential, error)
	Delete(ctx context.Context, platform Platform, role string) error
}
