package domain

import "time"

// Credential es un par access/refresh token de una plataforma, con su expiración.
// Solo lo muta la rutina de refresh; el resto lo lee vía CredentialRepository.
type Credential struct {
	Platform     Platform
	Role         string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
	Metadata     map[string]string
}
