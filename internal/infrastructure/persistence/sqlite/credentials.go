package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"feerBot/internal/domain"
)

// CredentialStore persiste credenciales en sqlite. El upsert es una sola
// sentencia, así el par access/refresh nunca queda guardado a medias.
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(dbPath string) (*CredentialStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &CredentialStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	platform TEXT NOT NULL,
	role TEXT NOT NULL,
	access_token TEXT NOT NULL,
	refresh_token TEXT,
	expires_at TIMESTAMP,
	updated_at TIMESTAMP NOT NULL,
	metadata TEXT,
	PRIMARY KEY (platform, role)
);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: migrate credentials: %w", err)
	}

	return nil
}

func (s *CredentialStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *CredentialStore) Get(ctx context.Context, platform domain.Platform, role string) (*domain.Credential, error) {
	const query = `
SELECT access_token, refresh_token, expires_at, updated_at, metadata
FROM credentials WHERE platform = ? AND role = ?;`

	row := s.db.QueryRowContext(ctx, query, string(platform), role)

	var (
		accessToken  string
		refreshToken sql.NullString
		expiresAt    sql.NullTime
		updatedAt    time.Time
		metadata     sql.NullString
	)
	if err := row.Scan(&accessToken, &refreshToken, &expiresAt, &updatedAt, &metadata); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: get credential: %w", err)
	}

	cred := &domain.Credential{
		Platform:     platform,
		Role:         role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.String,
		UpdatedAt:    updatedAt,
	}
	if expiresAt.Valid {
		cred.ExpiresAt = expiresAt.Time
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &cred.Metadata); err != nil {
			return nil, fmt.Errorf("sqlite: decode metadata: %w", err)
		}
	}
	return cred, nil
}

func (s *CredentialStore) Save(ctx context.Context, cred *domain.Credential) error {
	if cred == nil {
		return fmt.Errorf("sqlite: nil credential")
	}

	var metadata any
	if len(cred.Metadata) > 0 {
		encoded, err := json.Marshal(cred.Metadata)
		if err != nil {
			return fmt.Errorf("sqlite: encode metadata: %w", err)
		}
		metadata = string(encoded)
	}

	updatedAt := cred.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	const query = `
INSERT INTO credentials (platform, role, access_token, refresh_token, expires_at, updated_at, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (platform, role) DO UPDATE SET
	access_token = excluded.access_token,
	refresh_token = excluded.refresh_token,
	expires_at = excluded.expires_at,
	updated_at = excluded.updated_at,
	metadata = excluded.metadata;`

	if _, err := s.db.ExecContext(ctx, query,
		string(cred.Platform), cred.Role,
		cred.AccessToken, cred.RefreshToken,
		cred.ExpiresAt, updatedAt, metadata,
	); err != nil {
		return fmt.Errorf("sqlite: save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) List(ctx context.Context) ([]*domain.Credential, error) {
	const query = `
SELECT platform, role, access_token, refresh_token, expires_at, updated_at, metadata
FROM credentials ORDER BY platform, role;`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list credentials: %w", err)
	}
	defer rows.Close()

	var out []*domain.Credential
	for rows.Next() {
		var (
			platform     string
			role         string
			accessToken  string
			refreshToken sql.NullString
			expiresAt    sql.NullTime
			updatedAt    time.Time
			metadata     sql.NullString
		)
		if err := rows.Scan(&platform, &role, &accessToken, &refreshToken, &expiresAt, &updatedAt, &metadata); err != nil {
			return nil, fmt.Errorf("sqlite: scan credential: %w", err)
		}
		cred := &domain.Credential{
			Platform:     domain.Platform(platform),
			Role:         role,
			AccessToken:  accessToken,
			RefreshToken: refreshToken.String,
			UpdatedAt:    updatedAt,
		}
		if expiresAt.Valid {
			cred.ExpiresAt = expiresAt.Time
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &cred.Metadata); err != nil {
				return nil, fmt.Errorf("sqlite: decode metadata: %w", err)
			}
		}
		out = append(out, cred)
	}
	return out, rows.Err()
}

func (s *CredentialStore) Delete(ctx context.Context, platform domain.Platform, role string) error {
	const query = `DELETE FROM credentials WHERE platform = ? AND role = ?;`
	if _, err := s.db.ExecContext(ctx, query, string(platform), role); err != nil {
		return fmt.Errorf("sqlite: delete credential: %w", err)
	}
	return nil
}

var _ domain.CredentialRepository = (*CredentialStore)(nil)
